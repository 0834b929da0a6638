package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

func newAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <value>",
		Short: "Submit an answer to the current question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.PlayerID == "" {
				return errors.New("not joined yet; run 'quizrace join <username>' first")
			}

			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.New("answer must be a number")
			}

			// Answer against whatever question is current right now
			snapshot, err := client.Question(cmd.Context())
			if err != nil {
				return err
			}

			result, err := client.SubmitAnswer(cmd.Context(), cfg.PlayerID, snapshot.QuestionID, value)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
