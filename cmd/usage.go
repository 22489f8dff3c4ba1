package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show this month's question usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		out := cmd.OutOrStdout()
		if e.Gate.IsPro() {
			fmt.Fprintln(out, "Pro: unlimited questions.")
			return nil
		}
		u := e.Gate.Usage()
		fmt.Fprintf(out, "%s: %d of %d questions used, %d remaining\n", u.Month, u.QuestionsThisMonth, u.Limit, u.Remaining())
		return nil
	},
}
