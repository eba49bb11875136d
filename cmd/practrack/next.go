package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/practrack/internal/scheduler"
	"github.com/verte-zerg/practrack/internal/stats"
)

var (
	nextAlt         bool
	nextExplain     bool
	nextInteractive bool
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Recommend what to practice next",
		Args:  cobra.NoArgs,
		RunE:  runNextCmd,
	}
	cmd.Flags().BoolVar(&nextAlt, "alt", false, "pick something other than the previous recommendation")
	cmd.Flags().BoolVar(&nextExplain, "explain", false, "print the ranking behind the recommendation")
	cmd.Flags().BoolVarP(&nextInteractive, "interactive", "i", false, "open the practice screen with the pick")
	return cmd
}

func runNextCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := scheduler.Options{AvoidLast: nextAlt}
	// Rank before picking so the table reflects the state the pick saw.
	ranking := a.tracker.Rank(opts)
	res, err := a.tracker.PickNext(withContext(cmd), opts)
	if err != nil {
		return err
	}
	if nextInteractive {
		return runPracticeTUI(a, res)
	}

	out := cmd.OutOrStdout()
	if !res.Found {
		_, err := fmt.Fprintln(out, "Nothing available to practice. Mark an item as available with: practrack items set <id> --available")
		return err
	}
	if _, err := fmt.Fprintf(out, "Practice next: %s (%s)\n", a.itemName(res.ID), res.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if a.tracker.Document().Settings.DailyNudge && a.tracker.Report(1).TodayMinutes == 0 {
		if _, err := fmt.Fprintln(out, "Nothing practiced today yet."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if !nextExplain {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.RenderRanking(out, ranking, a.names(), a.tracker.Params().NeverDays)
}
