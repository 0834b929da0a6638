package cli

import (
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/mcoot/quizrace/internal/client"
)

var (
	cfg    *Config
	client *apiclient.Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "quizrace",
		Short: "CLI client for the quizrace API",
		Long: `quizrace is a CLI client for the competitive arithmetic quiz server.

It supports joining the quiz, watching the current question, submitting
answers, and playing interactively with resilient adaptive polling.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load stored player identity if present
			if err := cfg.LoadPlayer(); err != nil {
				return err
			}

			clientCfg := apiclient.DefaultConfig()
			clientCfg.BaseURL = cfg.ServerURL
			client = apiclient.New(clientCfg)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: QUIZRACE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerFile, "player-file", cfg.PlayerFile, "Player identity file path (env: QUIZRACE_PLAYER_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newQuestionCmd())
	rootCmd.AddCommand(newAnswerCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
