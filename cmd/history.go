package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sessions or the incorrect answers log",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		incorrect, _ := cmd.Flags().GetBool("incorrect")

		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		out := cmd.OutOrStdout()
		if incorrect {
			wrong := e.Recorder.Progress().IncorrectLog
			if len(wrong) == 0 {
				fmt.Fprintln(out, "No incorrect answers recorded yet.")
				return nil
			}
			for i := len(wrong) - 1; i >= 0; i-- {
				entry := wrong[i]
				fmt.Fprintf(out, "#%d %s\n   your answer: %s   correct: %s\n",
					entry.QuestionID, truncateText(entry.QuestionText, 70), entry.UserAnswer, entry.CorrectAnswer)
			}
			return nil
		}

		entries := e.Recorder.History(cmd.Context(), limit)
		if len(entries) == 0 {
			fmt.Fprintln(out, "No sessions yet.")
			return nil
		}
		for _, entry := range entries {
			redo := ""
			if entry.IsRedo {
				redo = " (redo)"
			}
			span := ""
			if entry.Total > 0 && entry.EndIndex > entry.StartIndex {
				span = fmt.Sprintf(" Q%d-Q%d", entry.StartIndex+1, entry.EndIndex)
			}
			fmt.Fprintf(out, "%4d  %s  %-13s %3d/%-3d %3d%%%s%s\n",
				entry.Sequence, entry.CompletedAt.Local().Format("2006-01-02 15:04"),
				entry.Mode, entry.Score, entry.Total, entry.Percent(), span, redo)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of most recent sessions to show (0 = all)")
	historyCmd.Flags().Bool("incorrect", false, "Show the incorrect answers log instead")
}
