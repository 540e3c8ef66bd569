package main

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/tvrec/tvrec-server/internal/config"
	"github.com/tvrec/tvrec-server/internal/di"
	"github.com/tvrec/tvrec-server/internal/logger"
)

func newRootCmd() *cobra.Command {
	flags := &config.Flags{}

	root := &cobra.Command{
		Use:          "tvrec",
		Short:        "Cross-reference actors against your TV ratings and get recommendations",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "path to YAML config file (default config.yaml if present)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "path to .env file (default .env if present)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.Environment, "env", "", "environment: development, staging, production")

	root.AddCommand(
		newServeCmd(flags),
		newKnownCmd(flags),
		newRecommendCmd(flags),
		newRatingsCmd(flags),
	)

	return root
}

// runWithContainer builds a container from flags, runs fn, and shuts the container down.
func runWithContainer(ctx context.Context, flags config.Flags, fn func(ctx context.Context, injector *do.RootScope) error) error {
	injector := di.NewContainer(flags)

	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runErr := fn(ctx, injector)

	if err := injector.Shutdown(); err != nil {
		if log, invokeErr := do.Invoke[*logger.Logger](injector); invokeErr == nil {
			log.Error("Shutdown error", "error", err)
		}
	}
	return runErr
}
