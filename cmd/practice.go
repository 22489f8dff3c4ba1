package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/abhisek/netquiz/internal/app"
	"github.com/abhisek/netquiz/internal/practice"
	"github.com/abhisek/netquiz/internal/question"
	"github.com/abhisek/netquiz/internal/session"
	"github.com/abhisek/netquiz/internal/streak"
)

var practiceCmd = &cobra.Command{
	Use:   "practice [mode]",
	Short: "Run a practice session (default mode: normal)",
	Long: "Run a practice session. Answer each question with its letters, e.g. \"B\" or \"A,C\".\n" +
		"An empty line leaves the question unanswered. Modes: normal, weak, review, mastered,\n" +
		"mixed, reinforcement, exam.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := practice.ModeNormal
		if len(args) == 1 {
			m, ok := practice.ParseMode(args[0])
			if !ok {
				return fmt.Errorf("unknown mode %q", args[0])
			}
			mode = m
		}
		redo, _ := cmd.Flags().GetInt("redo")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		e, closeFn, err := openEngine(cmd, true)
		if err != nil {
			return err
		}
		defer closeFn()

		if cmd.Flags().Changed("redo") {
			if mode != practice.ModeNormal {
				return fmt.Errorf("--redo only applies to normal mode")
			}
			plan, decision := e.Redo(redo - 1)
			if err := admitted(decision.Allowed, string(decision.Reason), decision.Remaining); err != nil {
				return err
			}
			return runPlan(cmd, e, plan, dryRun)
		}

		plan, decision := e.Plan(mode)
		if err := admitted(decision.Allowed, string(decision.Reason), decision.Remaining); err != nil {
			return err
		}
		return runPlan(cmd, e, plan, dryRun)
	},
}

func init() {
	practiceCmd.Flags().Int("redo", 0, "Repeat the normal-mode set starting at this question number")
	practiceCmd.Flags().Bool("dry-run", false, "Show the selected questions without running the session")
}

func admitted(allowed bool, reason string, remaining int) error {
	if allowed {
		return nil
	}
	if remaining >= 0 {
		return fmt.Errorf("session not allowed: %s (%d questions left this month)", reason, remaining)
	}
	return fmt.Errorf("session not allowed: %s", reason)
}

func runPlan(cmd *cobra.Command, e *app.Engine, plan app.Plan, dryRun bool) error {
	out := cmd.OutOrStdout()
	if len(plan.Questions) == 0 {
		fmt.Fprintln(out, "Not enough questions available for this mode.")
		return nil
	}

	info, _ := practice.Lookup(plan.Mode)
	fmt.Fprintf(out, "%s %s: %d questions", info.Icon, info.Label, len(plan.Questions))
	if plan.Mode == practice.ModeNormal {
		fmt.Fprintf(out, " (Q%d-Q%d)", plan.StartIndex+1, plan.EndIndex())
	}
	if plan.TimeLimit > 0 {
		fmt.Fprintf(out, ", time limit %s", plan.TimeLimit)
	}
	fmt.Fprintln(out)

	if dryRun {
		for i, q := range plan.Questions {
			fmt.Fprintf(out, "%3d. [#%d] %s\n", i+1, q.ID, truncateText(q.Text, 70))
		}
		return nil
	}

	responses := askAll(cmd.InOrStdin(), out, plan)
	before := e.Streak.State()
	entry := e.Finish(cmd.Context(), plan, responses)
	printResult(out, entry, before, e.Streak.State())
	return nil
}

// askAll prompts for every planned question. Once a timed plan's deadline
// passes, the rest are left unanswered.
func askAll(in io.Reader, out io.Writer, plan app.Plan) []app.Response {
	scanner := bufio.NewScanner(in)
	responses := make([]app.Response, len(plan.Questions))

	var deadline time.Time
	if plan.TimeLimit > 0 {
		deadline = time.Now().Add(plan.TimeLimit)
	}

	for i, q := range plan.Questions {
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Fprintln(out, "Time is up.")
			break
		}
		printQuestion(out, i+1, len(plan.Questions), q)
		start := time.Now()
		if !scanner.Scan() {
			break
		}
		responses[i] = app.Response{
			Selected: parseLetters(scanner.Text()),
			Elapsed:  time.Since(start),
		}
	}
	return responses
}

func printQuestion(out io.Writer, n, total int, q question.Question) {
	fmt.Fprintf(out, "\nQuestion %d/%d  [%s]\n%s\n", n, total, q.TopicOrClassified(), q.Text)
	for _, o := range q.Options {
		fmt.Fprintf(out, "  %s. %s\n", o.Letter, o.Text)
	}
	if q.IsMultiSelect {
		fmt.Fprintf(out, "(choose %d) ", len(q.CorrectAnswers))
	}
	fmt.Fprint(out, "> ")
}

// parseLetters splits an answer line into option letters. "A,C", "a c"
// and "AC" all select A and C.
func parseLetters(line string) []string {
	var out []string
	for _, r := range line {
		if unicode.IsLetter(r) {
			out = append(out, strings.ToUpper(string(r)))
		}
	}
	return out
}

func printResult(out io.Writer, entry session.Entry, before, after streak.State) {
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%)\n", entry.Score, entry.Total, entry.Percent())
	if streak.Passed(entry.Score, entry.Total) {
		fmt.Fprintln(out, "Passed.")
	} else {
		fmt.Fprintln(out, "Below the 70% pass mark.")
	}
	if after.Current != before.Current {
		fmt.Fprintf(out, "Daily streak: %d (best %d)\n", after.Current, after.Best)
	}

	for _, a := range entry.Answers {
		if a.IsCorrect {
			continue
		}
		got := strings.Join(a.SelectedLetters, ", ")
		if got == "" {
			got = "No answer"
		}
		fmt.Fprintf(out, "  ✗ #%d: you answered %s, correct is %s\n", a.QuestionID, got, strings.Join(a.CorrectLetters, ", "))
	}
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
