package cli

import (
	"github.com/spf13/cobra"
)

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <username>",
		Short: "Join the quiz with a username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Join(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := cfg.SavePlayer(result.PlayerID, result.Username); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
