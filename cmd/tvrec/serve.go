package main

import (
	"context"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/di"
	"github.com/tvrec/tvrec-server/internal/logger"
)

func newServeCmd(flags *config.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithContainer(cmd.Context(), *flags, func(ctx context.Context, injector *do.RootScope) error {
				if err := di.Bootstrap(ctx, injector); err != nil {
					return err
				}

				log := do.MustInvoke[*logger.Logger](injector)

				<-ctx.Done()
				log.Info("Shutting down server gracefully...")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flags.Port, "port", "", "HTTP port to listen on")
	cmd.Flags().StringVar(&flags.RatingsSource, "ratings-source", "", "default ratings CSV URL or file path")

	return cmd
}
