package cli

import (
	"github.com/spf13/cobra"
)

func newQuestionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question",
		Short: "Show the current question and leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := client.Question(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(snapshot)
			return nil
		},
	}
}
