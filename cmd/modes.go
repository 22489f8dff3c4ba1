package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/netquiz/internal/practice"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List practice modes and whether your tier unlocks them",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		out := cmd.OutOrStdout()
		for _, info := range practice.Modes() {
			lock := "  "
			if !e.Gate.IsModeAllowed(info.Mode) {
				lock = "🔒"
			}
			fmt.Fprintf(out, "%s %s %-14s %-20s %s\n", lock, info.Icon, info.Mode, info.Label, info.Description)
		}
		return nil
	},
}
