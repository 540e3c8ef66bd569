package main

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/di"
	"github.com/tvrec/tvrec-server/internal/service"
)

func newRecommendCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Recommend shows based on your ratings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithContainer(cmd.Context(), *flags, func(ctx context.Context, injector *do.RootScope) error {
				recommend, err := do.Invoke[*service.RecommendService](injector)
				if err != nil {
					return err
				}
				rated := di.LoadRatings(ctx, injector).Current()

				res := recommend.RecommendShows(ctx, rated)
				if res.Failed() {
					return res.Failure
				}
				printRecommendations(cmd.OutOrStdout(), res.Value)
				return nil
			})
		},
	}
}

func printRecommendations(w io.Writer, titles []string) {
	if len(titles) == 0 {
		fmt.Fprintln(w, "No recommendations.")
		return
	}
	for i, t := range titles {
		fmt.Fprintf(w, "%2d. %s\n", i+1, t)
	}
}
