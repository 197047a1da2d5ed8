// Command directory serves the book club directory and manages its database.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mlg-/factory-girl-book-club/config"
	"github.com/spf13/cobra"
)

// cliState is shared by the subcommands after the root pre-run
type cliState struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "directory",
		Short:         "Book club member directory",
		Long:          "Serves the read-only book club and pokemaster directory pages and manages the directory database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				AddSource: true,
				Level:     cfg.LogLevel,
			}))
			slog.SetDefault(state.logger)
			return nil
		},
	}

	serve := newServeCmd(state)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
