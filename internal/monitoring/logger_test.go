package monitoring

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func restoreLoggers(t *testing.T) {
	t.Helper()
	logf, debugf := Logf, Debugf
	t.Cleanup(func() {
		Logf = logf
		Debugf = debugf
	})
}

func TestSetLogger(t *testing.T) {
	restoreLoggers(t)

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestSetDebugLogger(t *testing.T) {
	restoreLoggers(t)

	var got string
	SetDebugLogger(func(format string, v ...interface{}) {
		got = format
	})
	Debugf("shard %d", 3)
	if got != "shard %d" {
		t.Errorf("debug logger got %q", got)
	}

	got = ""
	SetDebugLogger(nil)
	Debugf("shard %d", 4)
	if got != "" {
		t.Errorf("muted debug logger still called: %q", got)
	}
}

func TestUseZap(t *testing.T) {
	restoreLoggers(t)

	core, logs := observer.New(zapcore.InfoLevel)
	UseZap(zap.New(core))

	Logf("gap scan %s found (%d, %d)", "run-1", 14, 11)
	Debugf("dropped at info level")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "gap scan run-1 found (14, 11)" {
		t.Errorf("message = %q", entries[0].Message)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", entries[0].Level)
	}
}

func TestUseZap_DebugLevel(t *testing.T) {
	restoreLoggers(t)

	core, logs := observer.New(zapcore.DebugLevel)
	UseZap(zap.New(core))
	Debugf("shard [%d,%d] done", 0, 9999)

	if logs.FilterMessage("shard [0,9999] done").Len() != 1 {
		t.Errorf("expected debug entry, got %v", logs.All())
	}
}

func TestUseZap_NilRestoresDefault(t *testing.T) {
	restoreLoggers(t)

	SetLogger(nil)
	UseZap(nil)
	if Logf == nil {
		t.Fatal("Logf must not be nil")
	}
	// Must not panic.
	Debugf("ignored")
}
