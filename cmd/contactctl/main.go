// Command contactctl is the operator tool for the contact backend: it reads
// the backup log, runs migrations and uploads backup snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"portfolio-contact-backend/config"
	"portfolio-contact-backend/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "contactctl",
		Short:         "Operator tool for the portfolio contact backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(viewCmd(), migrateCmd(), hashPasswordCmd(), mirrorCmd())
	return cmd
}

// loadConfig reads the same environment as the API and routes logs to stderr
// so command output stays clean.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}
