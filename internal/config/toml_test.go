package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	params, err := cfg.SchedulerParams()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if params.Jitter != 2.5 || params.AvoidRepeatPenalty != 18 {
		t.Fatalf("expected defaults, got %+v", params)
	}
	cat, err := cfg.Catalog()
	if err != nil || cat.Len() != 14 {
		t.Fatalf("expected built-in catalog, len=%d err=%v", cat.Len(), err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[practice]
who = "Cata"

[scheduler]
jitter = 0.5
never-days = 365

[log]
mode = "prod"

[[items]]
id = "piano"
name = "Piano"
type = "instrument"
weight = 4

[[items]]
id = "voz"
type = "area"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Who == nil || *cfg.Practice.Who != "Cata" {
		t.Fatalf("unexpected who: %v", cfg.Practice.Who)
	}
	if cfg.Log.Mode == nil || *cfg.Log.Mode != "prod" {
		t.Fatalf("unexpected log mode: %v", cfg.Log.Mode)
	}
	params, err := cfg.SchedulerParams()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if params.Jitter != 0.5 || params.NeverDays != 365 || params.DaysFactor != 5 {
		t.Fatalf("unexpected params: %+v", params)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if ids := cat.IDs(); len(ids) != 2 || ids[1] != "voz" {
		t.Fatalf("unexpected catalog: %v", ids)
	}
	if cat.DefaultWeight("voz") != 2 {
		t.Fatalf("expected fallback weight for voz")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "[scheduler]\njitter = -1\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.SchedulerParams(); err == nil {
		t.Fatalf("expected negative jitter to be rejected")
	}

	bad := writeConfig(t, "[[items]]\nid = \"x\"\ntype = \"drum\"\n")
	cfg, err = LoadConfig(bad)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Catalog(); err == nil {
		t.Fatalf("expected unknown item type to be rejected")
	}

	broken := writeConfig(t, "[scheduler\n")
	if _, err := LoadConfig(broken); err == nil {
		t.Fatalf("expected decode error")
	}
}
