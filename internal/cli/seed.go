package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedDemoCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Create the demo accounts and the default branding row",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedDemo(cmd.Context(), *envFile)
		},
	}
}

func runSeedDemo(ctx context.Context, envFile string) error {
	cfg, logger, err := loadConfig(envFile, "")
	if err != nil {
		return err
	}
	a, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if _, err := a.services.Branding().EnsureDefault(ctx); err != nil {
		return fmt.Errorf("failed to seed branding: %w", err)
	}
	users, err := a.services.DemoAccounts().SeedAll(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		logger.Info("Demo account ready", "username", u.Username)
	}
	return nil
}
