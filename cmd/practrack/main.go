// Package main provides the CLI entrypoint for practrack.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/config"
	"github.com/verte-zerg/practrack/internal/logger"
	"github.com/verte-zerg/practrack/internal/scheduler"
	"github.com/verte-zerg/practrack/internal/store"
	"github.com/verte-zerg/practrack/internal/tracker"
	"github.com/verte-zerg/practrack/internal/tui"
)

const defaultLogMode = "quiet"

var (
	rootDBPath     string
	rootConfigPath string
	rootLogMode    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "practrack",
		Short:         "Music practice tracker with a next-item recommender",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", config.DefaultConfigPath(), "path to the TOML config")
	rootCmd.PersistentFlags().StringVar(&rootLogMode, "log", defaultLogMode, "log mode: quiet, dev or prod")

	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newItemsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles what every command needs once the document is loaded.
type app struct {
	cfg     config.FileConfig
	store   *store.Store
	tracker *tracker.Tracker
	log     *logger.Logger
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log", &rootLogMode, fileCfg.Log.Mode)
	applyStringConfig(cmd, "db", &rootDBPath, fileCfg.Store.Path)

	log, err := logger.New(rootLogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	params, err := fileCfg.SchedulerParams()
	if err != nil {
		return nil, fmt.Errorf("invalid [scheduler] config: %w", err)
	}
	cat, err := fileCfg.Catalog()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(rootDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	tr, err := tracker.Open(withContext(cmd), st, tracker.Options{
		Catalog: cat,
		Params:  params,
		Logger:  log,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to load practice data: %w", err)
	}
	log.Debug("practice data loaded", "db", rootDBPath, "items", cat.Len())
	return &app{cfg: fileCfg, store: st, tracker: tr, log: log}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close db", "error", err)
	}
	a.log.Sync()
}

func (a *app) names() map[string]string {
	names := map[string]string{}
	for _, it := range a.tracker.Catalog().Items() {
		names[it.ID] = it.Name
	}
	return names
}

func (a *app) itemName(id string) string {
	if it, ok := a.tracker.Catalog().Lookup(id); ok {
		return it.Name
	}
	return id
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return runPracticeTUI(a, scheduler.Result{})
}

func runPracticeTUI(a *app, first scheduler.Result) error {
	screen := tui.NewModel(a.tracker, a.log.With("screen", "practice"), first)
	program := tea.NewProgram(screen, tea.WithAltScreen())
	defer a.log.Silence()()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := rootConfigPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	p := scheduler.DefaultParams()
	return fmt.Sprintf(`# practrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# who = %q                  # Person recorded when "log --who" is omitted

[log]
# mode = %q                 # quiet, dev or prod

[store]
# path = %q

[scheduler]
# days-factor = %.2f          # Score per day since last practice
# month-target = %.0f          # Monthly minutes below which an item is under-practiced
# under-factor = %.2f         # Score per missing minute below month-target
# weight-base = %.2f          # Multiplier at weight 0
# weight-step = %.2f          # Multiplier added per weight point
# avoid-repeat-penalty = %.0f  # Penalty on the previous pick
# avoid-last-penalty = %.0f    # Extra penalty when asking for another item
# jitter = %.1f               # Random tie-breaking range
# never-days = %d            # Days assumed for items never practiced

# Defining any [[items]] replaces the built-in catalog.
# [[items]]
# id = "piano"
# name = "Piano"
# type = "instrument"   # instrument or area
# weight = %.0f
`,
		store.DefaultWho,
		defaultLogMode,
		config.DefaultDBPath(),
		p.DaysFactor,
		p.MonthTarget,
		p.UnderFactor,
		p.WeightBase,
		p.WeightStep,
		p.AvoidRepeatPenalty,
		p.AvoidLastPenalty,
		p.Jitter,
		p.NeverDays,
		catalog.Default().DefaultWeight("piano"),
	)
}

func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
