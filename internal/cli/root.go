package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var port, envFile string

	cmd := &cobra.Command{
		Use:           "paper-service",
		Short:         "Assessment paper authoring API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	defaultEnv := os.Getenv("ENV_FILE")
	if defaultEnv == "" {
		defaultEnv = ".env"
	}
	cmd.PersistentFlags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	cmd.PersistentFlags().StringVar(&envFile, "config", defaultEnv, "path to an env file")

	cmd.AddCommand(newServeCmd(&envFile, &port))
	cmd.AddCommand(newMigrateCmd(&envFile))
	cmd.AddCommand(newSeedDemoCmd(&envFile))
	return cmd
}
