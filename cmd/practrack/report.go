package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/practrack/internal/stats"
	"github.com/verte-zerg/practrack/internal/tracker"
)

var (
	statsDays        int
	statsInteractive bool

	itemAvailable bool
	itemArchived  bool
	itemCondition string
	itemWeight    float64

	settingsAvoidRepeat bool
	settingsConfetti    bool
	settingsNudge       bool
	settingsGoal        int
	settingsWho         string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsDays, "days", stats.MonthDays, "report window in days")
	cmd.Flags().BoolVarP(&statsInteractive, "interactive", "i", false, "open the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsDays < 1 {
		return fmt.Errorf("--days must be > 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if statsInteractive {
		return runDashboard(a, statsDays, tracker.HistoryFilter{})
	}
	return stats.RenderReport(cmd.OutOrStdout(), a.tracker.Report(statsDays), stats.TerminalWidth())
}

func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List catalog items and their state",
		Args:  cobra.NoArgs,
		RunE:  runItemsListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog items and their state",
		Args:  cobra.NoArgs,
		RunE:  runItemsListCmd,
	})
	cmd.AddCommand(newItemsSetCmd())
	return cmd
}

func runItemsListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return stats.RenderItemTable(cmd.OutOrStdout(), a.tracker.Report(stats.MonthDays).Items)
}

func newItemsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <item>",
		Short: "Change availability, archive state, condition or weight of an item",
		Args:  cobra.ExactArgs(1),
		RunE:  runItemsSetCmd,
	}
	cmd.Flags().BoolVar(&itemAvailable, "available", true, "item is at hand")
	cmd.Flags().BoolVar(&itemArchived, "archived", false, "exclude the item from recommendations")
	cmd.Flags().StringVar(&itemCondition, "condition", "", "free-form note, e.g. when it can be practiced")
	cmd.Flags().Float64Var(&itemWeight, "weight", 0, "priority 0-5")
	return cmd
}

func runItemsSetCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("available") && !flags.Changed("archived") && !flags.Changed("condition") && !flags.Changed("weight") {
		return fmt.Errorf("nothing to change: use --available, --archived, --condition or --weight")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := withContext(cmd)
	id := args[0]
	if flags.Changed("archived") {
		if err := a.tracker.SetArchived(ctx, id, itemArchived); err != nil {
			return err
		}
	}
	if flags.Changed("available") {
		if err := a.tracker.SetAvailable(ctx, id, itemAvailable); err != nil {
			return err
		}
	}
	if flags.Changed("condition") {
		if err := a.tracker.SetCondition(ctx, id, itemCondition); err != nil {
			return err
		}
	}
	if flags.Changed("weight") {
		if err := a.tracker.SetWeight(ctx, id, itemWeight); err != nil {
			return err
		}
	}
	for _, row := range a.tracker.Report(stats.MonthDays).Items {
		if row.ID == id {
			return stats.RenderItemTable(cmd.OutOrStdout(), []stats.ItemRow{row})
		}
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().BoolVar(&settingsAvoidRepeat, "avoid-repeat", true, "penalize the previous recommendation")
	cmd.Flags().BoolVar(&settingsConfetti, "confetti", true, "celebrate when the daily goal is reached")
	cmd.Flags().BoolVar(&settingsNudge, "nudge", true, "remind when nothing was practiced today")
	cmd.Flags().IntVar(&settingsGoal, "goal", 0, "daily goal in minutes, 0 disables it")
	cmd.Flags().StringVar(&settingsWho, "who", "", "default person for new sessions")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := withContext(cmd)
	flags := cmd.Flags()
	if flags.Changed("avoid-repeat") {
		if err := a.tracker.SetAvoidRepeat(ctx, settingsAvoidRepeat); err != nil {
			return err
		}
	}
	if flags.Changed("confetti") {
		if err := a.tracker.SetShowConfetti(ctx, settingsConfetti); err != nil {
			return err
		}
	}
	if flags.Changed("nudge") {
		if err := a.tracker.SetDailyNudge(ctx, settingsNudge); err != nil {
			return err
		}
	}
	if flags.Changed("goal") {
		if err := a.tracker.SetStreakGoal(ctx, settingsGoal); err != nil {
			return err
		}
	}
	if flags.Changed("who") {
		if err := a.tracker.SetDefaultWho(ctx, settingsWho); err != nil {
			return err
		}
	}

	s := a.tracker.Document().Settings
	rows := [][]string{
		{"avoid-repeat", strconv.FormatBool(s.AvoidRepeat)},
		{"confetti", strconv.FormatBool(s.ShowConfetti)},
		{"nudge", strconv.FormatBool(s.DailyNudge)},
		{"goal", stats.FormatMinutes(s.StreakGoalMin)},
		{"who", s.DefaultWho},
	}
	return stats.RenderTable(cmd.OutOrStdout(), []string{"Setting", "Value"}, rows, nil)
}
