package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		l.With("mode", mode).Debug("built logger")
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", 1)
	l.Sync()
}

func TestSilenceRestoresLevel(t *testing.T) {
	l, err := New("quiet")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	child := l.With("screen", "practice")
	core := child.SugaredLogger.Desugar().Core()

	restore := l.Silence()
	if core.Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected errors to be dropped while silenced")
	}
	restore()
	if !core.Enabled(zapcore.WarnLevel) || core.Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected warn level restored")
	}
}
