package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--db", filepath.Join(dir, "practrack.db"),
		"--config", filepath.Join(dir, "config.toml"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLogHistoryAndRemove(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "log", "piano", "--tech", "20", "--rep", "25", "--tag", "hanon", "--who", "Sam")
	if err != nil {
		t.Fatalf("log: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Logged 45 min of Piano") {
		t.Fatalf("unexpected log output: %s", out)
	}

	out, err = runCLI(t, dir, "history", "--who", "Sam")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "hanon") {
		t.Fatalf("unexpected history: %s", out)
	}
	id := strings.Fields(lines[1])[0]

	out, err = runCLI(t, dir, "rm", id)
	if err != nil || !strings.Contains(out, "Deleted session") {
		t.Fatalf("rm: %v\n%s", err, out)
	}
	out, err = runCLI(t, dir, "rm", id)
	if err != nil || !strings.Contains(out, "No session") {
		t.Fatalf("second rm: %v\n%s", err, out)
	}
}

func TestLogRejectsUnknownItem(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "log", "kazoo", "-m", "10"); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}

func TestLogBackdatedSession(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "log", "piano", "-m", "20", "--date", "2024-01-01")
	if err != nil {
		t.Fatalf("log: %v\n%s", err, out)
	}
	if !strings.Contains(out, "on 2024-01-01") {
		t.Fatalf("expected the session on its calendar day: %s", out)
	}
	if _, err := runCLI(t, dir, "log", "piano", "-m", "20", "--date", "01/02/2024"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestNextExplain(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "next", "--explain")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !strings.Contains(out, "Practice next:") || !strings.Contains(out, "Score") {
		t.Fatalf("unexpected next output: %s", out)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "clear"); err == nil {
		t.Fatalf("expected confirmation error")
	}
}

func TestExportImportFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "log", "violin", "-m", "30"); err != nil {
		t.Fatalf("log: %v", err)
	}
	backup := filepath.Join(dir, "backup.json")
	if _, err := runCLI(t, dir, "export", backup); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !strings.Contains(string(data), `"instrumentId": "violin"`) {
		t.Fatalf("backup missing session: %s", data)
	}

	other := t.TempDir()
	out, err := runCLI(t, other, "import", backup)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 1 session(s).") {
		t.Fatalf("unexpected import output: %s", out)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("[1,2"), 0o644); err != nil {
		t.Fatalf("write bad backup: %v", err)
	}
	if _, err := runCLI(t, other, "import", bad); err == nil {
		t.Fatalf("expected import error")
	}
}

func TestSettingsUpdate(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "settings", "--goal", "30", "--who", "Robin", "--avoid-repeat=false")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	for _, want := range []string{"avoid-repeat false", "goal         30 min", "who          Robin"} {
		if !strings.Contains(out, want) {
			t.Fatalf("settings output missing %q:\n%s", want, out)
		}
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	dir := t.TempDir()
	if out, err := runCLI(t, dir, "settings", "--who", "Robin"); err != nil {
		t.Fatalf("settings: %v\n%s", err, out)
	}
	if out, err := runCLI(t, dir, "log", "piano", "-m", "20"); err != nil {
		t.Fatalf("log: %v\n%s", err, out)
	}
	if _, err := runCLI(t, dir, "reset"); err == nil {
		t.Fatalf("expected reset to require --yes")
	}
	out, err := runCLI(t, dir, "reset", "--yes")
	if err != nil || !strings.Contains(out, "reset to defaults") {
		t.Fatalf("reset: %v\n%s", err, out)
	}

	out, err = runCLI(t, dir, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Contains(out, "Piano") {
		t.Fatalf("expected empty history after reset: %s", out)
	}
	out, err = runCLI(t, dir, "settings")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if strings.Contains(out, "Robin") {
		t.Fatalf("expected default who after reset: %s", out)
	}
}
