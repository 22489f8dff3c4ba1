package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/abhisek/netquiz/internal/mastery"
	"github.com/abhisek/netquiz/internal/session"
	"github.com/abhisek/netquiz/internal/streak"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	levelStyles  = map[mastery.Level]lipgloss.Style{
		mastery.LevelMastered: lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		mastery.LevelReview:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		mastery.LevelWeak:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		mastery.LevelUnseen:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
	}
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mastery, streak and score statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closeFn, err := openEngine(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		out := cmd.OutOrStdout()
		qs := e.Questions()

		fmt.Fprintln(out, headingStyle.Render("Mastery"))
		printCounts(out, e.Mastery.Counts(qs))

		if len(qs) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, headingStyle.Render("Topics"))
			printTopics(out, e.Mastery.TopicStats(qs))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, headingStyle.Render("Streak"))
		st := e.Streak.State()
		fmt.Fprintf(out, "  current %d, best %d, next milestone %d days\n", st.Current, st.Best, streak.NextMilestone(st.Current))

		history := e.Recorder.History(cmd.Context(), 0)
		fmt.Fprintln(out)
		fmt.Fprintln(out, headingStyle.Render("Sessions"))
		fmt.Fprintf(out, "  %d completed, average %d%%\n", e.Recorder.Progress().TotalQuizzes, session.AverageScore(history))
		if best, ok := session.BestSession(history); ok {
			fmt.Fprintf(out, "  best  %d/%d (%s, %s)\n", best.Score, best.Total, best.Mode, best.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		if worst, ok := session.WorstSession(history); ok {
			fmt.Fprintf(out, "  worst %d/%d (%s, %s)\n", worst.Score, worst.Total, worst.Mode, worst.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func printCounts(out io.Writer, c mastery.Counts) {
	values := map[mastery.Level]int{
		mastery.LevelMastered: c.Mastered,
		mastery.LevelReview:   c.Review,
		mastery.LevelWeak:     c.Weak,
		mastery.LevelUnseen:   c.Unseen,
	}
	for _, l := range mastery.AllLevels() {
		label := fmt.Sprintf("%-9s", l.DisplayName())
		fmt.Fprintf(out, "  %s %4d\n", levelStyles[l].Render(label), values[l])
	}
}

func printTopics(out io.Writer, topics map[string]*mastery.TopicStats) {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ts := topics[name]
		fmt.Fprintf(out, "  %-28s %3d/%-3d seen  %3.0f%% correct  %s %s %s\n",
			name, ts.Attempted, ts.Total, ts.Accuracy()*100,
			levelStyles[mastery.LevelMastered].Render(fmt.Sprintf("%d", ts.Mastered)),
			levelStyles[mastery.LevelReview].Render(fmt.Sprintf("%d", ts.Review)),
			levelStyles[mastery.LevelWeak].Render(fmt.Sprintf("%d", ts.Weak)))
	}
}
