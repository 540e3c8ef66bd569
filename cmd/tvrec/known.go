package main

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/di"
	"github.com/tvrec/tvrec-server/internal/domain"
	"github.com/tvrec/tvrec-server/internal/service"
)

func newKnownCmd(flags *config.Flags) *cobra.Command {
	var q service.KnownShowsQuery

	cmd := &cobra.Command{
		Use:   "known",
		Short: "List rated shows an actor appears in",
		Long: `Look up an actor by name, or by the character they play in a show,
and list the titles from their filmography that appear in your ratings.`,
		Example: `  tvrec known --actor "Takehito Koyasu"
  tvrec known --show "Jujutsu Kaisen" --role "Toji"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithContainer(cmd.Context(), *flags, func(ctx context.Context, injector *do.RootScope) error {
				crossRef, err := do.Invoke[*service.CrossRefService](injector)
				if err != nil {
					return err
				}
				rated := di.LoadRatings(ctx, injector).Current()

				res := crossRef.FindKnownShows(ctx, q, rated)
				if res.Failed() {
					return res.Failure
				}
				printMatches(cmd.OutOrStdout(), res.Value)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&q.ActorName, "actor", "", "actor name")
	cmd.Flags().StringVar(&q.ShowTitle, "show", "", "show title (with --role)")
	cmd.Flags().StringVar(&q.Role, "role", "", "character name (with --show)")
	cmd.MarkFlagsMutuallyExclusive("actor", "show")
	cmd.MarkFlagsMutuallyExclusive("actor", "role")
	cmd.MarkFlagsRequiredTogether("show", "role")
	cmd.MarkFlagsOneRequired("actor", "show")

	return cmd
}

func printMatches(w io.Writer, matches []domain.KnownShowMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No rated shows found.")
		return
	}
	for _, m := range matches {
		if m.Role != nil {
			fmt.Fprintf(w, "%s (%s) as %s\n", m.Title, m.Year, *m.Role)
			continue
		}
		fmt.Fprintf(w, "%s (%s)\n", m.Title, m.Year)
	}
}
