package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "snakectl",
		Short: "CLI tool for the crowdsnake server",
		Long: `snakectl talks to a crowdsnake server.

Everyone shares one snake. Each tick the server picks a heading at random,
weighted by the votes cast since the last tick.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != FormatText && cfg.Output != FormatJSON {
				return fmt.Errorf("unknown output format %q: use text or json", cfg.Output)
			}
			client = NewClient(cfg.ServerURL)
			if cfg.Verbose {
				client.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SNAKECTL_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log each request to stderr")

	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newVoteCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
