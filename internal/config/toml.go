// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/scheduler"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice  PracticeConfig  `toml:"practice"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Log       LogConfig       `toml:"log"`
	Store     StoreConfig     `toml:"store"`
	Items     []ItemConfig    `toml:"items"`
}

// PracticeConfig maps session defaults.
type PracticeConfig struct {
	Who *string `toml:"who"`
}

// SchedulerConfig maps the scoring constants. Unset values keep their defaults.
type SchedulerConfig struct {
	DaysFactor         *float64 `toml:"days-factor"`
	MonthTarget        *float64 `toml:"month-target"`
	UnderFactor        *float64 `toml:"under-factor"`
	WeightBase         *float64 `toml:"weight-base"`
	WeightStep         *float64 `toml:"weight-step"`
	AvoidRepeatPenalty *float64 `toml:"avoid-repeat-penalty"`
	AvoidLastPenalty   *float64 `toml:"avoid-last-penalty"`
	Jitter             *float64 `toml:"jitter"`
	NeverDays          *int     `toml:"never-days"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Mode *string `toml:"mode"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// ItemConfig defines a catalog entry. When any are present they replace the built-in catalog.
type ItemConfig struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	Type   string  `toml:"type"`
	Weight float64 `toml:"weight"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// SchedulerParams applies configured overrides to the default scoring constants.
func (c FileConfig) SchedulerParams() (scheduler.Params, error) {
	p := scheduler.DefaultParams()
	s := c.Scheduler
	applyFloat(&p.DaysFactor, s.DaysFactor)
	applyFloat(&p.MonthTarget, s.MonthTarget)
	applyFloat(&p.UnderFactor, s.UnderFactor)
	applyFloat(&p.WeightBase, s.WeightBase)
	applyFloat(&p.WeightStep, s.WeightStep)
	applyFloat(&p.AvoidRepeatPenalty, s.AvoidRepeatPenalty)
	applyFloat(&p.AvoidLastPenalty, s.AvoidLastPenalty)
	applyFloat(&p.Jitter, s.Jitter)
	if s.NeverDays != nil {
		p.NeverDays = *s.NeverDays
	}
	if err := p.Validate(); err != nil {
		return scheduler.Params{}, err
	}
	return p, nil
}

// Catalog returns the configured catalog, or the built-in one when none is configured.
func (c FileConfig) Catalog() (catalog.Catalog, error) {
	if len(c.Items) == 0 {
		return catalog.Default(), nil
	}
	items := make([]catalog.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, catalog.Item{
			ID:     it.ID,
			Name:   it.Name,
			Type:   catalog.Type(it.Type),
			Weight: it.Weight,
		})
	}
	cat, err := catalog.New(items)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("invalid [[items]] config: %w", err)
	}
	return cat, nil
}

func applyFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}
