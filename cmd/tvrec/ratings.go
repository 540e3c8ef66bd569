package main

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/ratings"
	"github.com/tvrec/tvrec-server/internal/service"
)

func newRatingsCmd(flags *config.Flags) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Load and print the ratings table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithContainer(cmd.Context(), *flags, func(ctx context.Context, injector *do.RootScope) error {
				ratingsService := do.MustInvoke[*service.RatingsService](injector)

				res := ratingsService.Reload(ctx, source)
				if res.Failed() {
					return res.Failure
				}
				printRatings(cmd.OutOrStdout(), res.Value)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "ratings CSV URL or file path (default: configured source)")

	return cmd
}

func printRatings(w io.Writer, snap service.RatingsSnapshot) {
	fmt.Fprintf(w, "%d ratings from %s (revision %s)\n", snap.Ratings.Len(), snap.Source, snap.Revision)
	for _, e := range snap.Ratings.Entries() {
		fmt.Fprintf(w, "  %s: %s/100\n", e.Title, ratings.FormatScore(e.Score))
	}
}
