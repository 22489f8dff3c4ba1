package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset study data (mastery, streak, progress and history)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes all study data for user %q; rerun with --yes to confirm", cfg.User)
		}

		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := e.Recorder.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Study data for %q reset.\n", cfg.User)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
