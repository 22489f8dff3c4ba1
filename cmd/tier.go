package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/netquiz/internal/subscription"
)

var tierCmd = &cobra.Command{
	Use:   "tier",
	Short: "Show or change the subscription tier",
}

var tierStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current tier and allowed modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Tier: %s\n", e.Gate.Tier())
		modes := e.Gate.AllowedModes()
		if modes == nil {
			fmt.Fprintln(out, "Modes: all")
		} else {
			names := make([]string, len(modes))
			for i, m := range modes {
				names[i] = string(m)
			}
			fmt.Fprintf(out, "Modes: %s\n", strings.Join(names, ", "))
		}
		for _, f := range []subscription.Feature{subscription.FeatureAIExplanation, subscription.FeatureAIAnalysis, subscription.FeatureRoadmap} {
			state := "locked"
			if e.Gate.IsFeatureAllowed(f) {
				state = "available"
			}
			fmt.Fprintf(out, "%s: %s\n", f, state)
		}
		return nil
	},
}

var tierActivateCmd = &cobra.Command{
	Use:   "activate [key]",
	Short: "Activate pro with a key (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Fprint(cmd.OutOrStdout(), "Pro key: ")
			key = readLine(cmd.InOrStdin())
		}

		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		d := e.Gate.Activate(cmd.Context(), key)
		if !d.Allowed {
			return fmt.Errorf("activation failed: %s", d.Reason)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Pro activated.")
		return nil
	},
}

var tierUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade to pro immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		e.Gate.UpgradeNow(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Upgraded to pro.")
		return nil
	},
}

var tierDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Return to the free tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		e.Gate.Deactivate(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Pro deactivated.")
		return nil
	},
}

func init() {
	tierCmd.AddCommand(tierStatusCmd, tierActivateCmd, tierUpgradeCmd, tierDeactivateCmd)
}

func readLine(in io.Reader) string {
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}
