package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/stats"
	"github.com/verte-zerg/practrack/internal/statsui"
	"github.com/verte-zerg/practrack/internal/tracker"
)

const defaultHistoryLimit = 200

var (
	logMinutes     int
	logTech        int
	logTechNotes   string
	logTheory      int
	logTheoryNotes string
	logRep         int
	logRepNotes    string
	logMood        int
	logDifficulty  string
	logWho         string
	logDate        string
	logTags        []string

	clearYes bool

	historyDays        int
	historyItem        string
	historyWho         string
	historyQuery       string
	historyLimit       int
	historyInteractive bool
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <item>",
		Short: "Record a practice session",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogCmd,
	}
	cmd.Flags().IntVarP(&logMinutes, "minutes", "m", 0, "total minutes (default: sum of components)")
	cmd.Flags().IntVar(&logTech, "tech", 0, "technique minutes")
	cmd.Flags().StringVar(&logTechNotes, "tech-notes", "", "technique notes")
	cmd.Flags().IntVar(&logTheory, "theory", 0, "theory minutes")
	cmd.Flags().StringVar(&logTheoryNotes, "theory-notes", "", "theory notes")
	cmd.Flags().IntVar(&logRep, "rep", 0, "repertoire minutes")
	cmd.Flags().StringVar(&logRepNotes, "rep-notes", "", "repertoire notes")
	cmd.Flags().IntVar(&logMood, "mood", model.MoodDefault, "mood 1-5")
	cmd.Flags().StringVar(&logDifficulty, "difficulty", string(model.DifficultyEasy), "easy, ok or hard")
	cmd.Flags().StringVar(&logWho, "who", "", "who practiced (default: settings)")
	cmd.Flags().StringVar(&logDate, "date", "", "calendar date YYYY-MM-DD (default: today)")
	cmd.Flags().StringSliceVar(&logTags, "tag", nil, "tag, repeatable")
	return cmd
}

func runLogCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	applyStringConfig(cmd, "who", &logWho, a.cfg.Practice.Who)

	in := tracker.SessionInput{
		InstrumentID: args[0],
		Who:          logWho,
		MinutesTotal: logMinutes,
		Mood:         logMood,
		Difficulty:   model.Difficulty(strings.ToLower(strings.TrimSpace(logDifficulty))),
		Tech:         model.Component{Minutes: logTech, Notes: logTechNotes},
		Theory:       model.Component{Minutes: logTheory, Notes: logTheoryNotes},
		Rep:          model.Component{Minutes: logRep, Notes: logRepNotes},
		Tags:         logTags,
		Date:         strings.TrimSpace(logDate),
	}
	s, err := a.tracker.AddSession(withContext(cmd), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Logged %s of %s on %s (%s)\n", stats.FormatMinutes(s.MinutesTotal), a.itemName(s.InstrumentID), s.Date, s.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	r := a.tracker.Report(stats.WeekDays)
	if a.tracker.Document().Settings.ShowConfetti && r.GoalMet() {
		if _, err := fmt.Fprintf(out, "Daily goal reached: %s today, streak %d day(s)!\n", stats.FormatMinutes(r.TodayMinutes), r.Streak); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runRmCmd,
	}
}

func runRmCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.tracker.DeleteSession(withContext(cmd), args[0])
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Deleted session %s", args[0])
	if !removed {
		msg = fmt.Sprintf("No session with id %s", args[0])
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every session and reset item statistics",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deleting all sessions")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to delete all sessions without --yes")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.ClearAll(withContext(cmd)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "All sessions deleted."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyDays, "days", 0, "only the last N calendar days")
	cmd.Flags().StringVar(&historyItem, "item", "", "item id filter")
	cmd.Flags().StringVar(&historyWho, "who", "", "person filter")
	cmd.Flags().StringVarP(&historyQuery, "query", "q", "", "text search in names, notes and tags")
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "maximum number of sessions")
	cmd.Flags().BoolVarP(&historyInteractive, "interactive", "i", false, "browse in the dashboard")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyDays < 0 {
		return fmt.Errorf("--days must be >= 0")
	}
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if historyItem != "" && !a.tracker.Catalog().Has(historyItem) {
		return fmt.Errorf("%w: %q", tracker.ErrUnknownItem, historyItem)
	}
	filter := tracker.HistoryFilter{
		Days:   historyDays,
		ItemID: historyItem,
		Who:    historyWho,
		Query:  historyQuery,
		Limit:  historyLimit,
	}
	if historyInteractive {
		return runDashboard(a, stats.MonthDays, filter)
	}
	return stats.RenderSessions(cmd.OutOrStdout(), a.tracker.History(filter), a.names())
}

func runDashboard(a *app, days int, filter tracker.HistoryFilter) error {
	dashboard := statsui.NewModel(a.tracker, days, filter)
	program := tea.NewProgram(dashboard, tea.WithAltScreen())
	defer a.log.Silence()()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}
