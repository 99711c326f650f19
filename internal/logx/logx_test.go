package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"WARN", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"", LevelInfo, false},
		{"bad", LevelInfo, true},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if c.wantErr && err == nil {
			t.Fatalf("expected error for %q", c.in)
		}
		if !c.wantErr && err != nil {
			t.Fatalf("unexpected error for %q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLevel(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestConfigurePrecedence(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	if err := Configure("", false); err != nil {
		t.Fatalf("configure env: %v", err)
	}
	if IsDebug() {
		t.Fatalf("expected non-debug from env warn")
	}

	if err := Configure("", true); err != nil {
		t.Fatalf("configure verbose: %v", err)
	}
	if !IsDebug() {
		t.Fatalf("expected debug from verbose")
	}

	if err := Configure("error", true); err != nil {
		t.Fatalf("configure explicit: %v", err)
	}
	if IsDebug() {
		t.Fatalf("expected non-debug from explicit error")
	}

	t.Setenv(EnvLevel, "loud")
	if err := Configure("", false); err == nil {
		t.Fatalf("expected error for invalid env level")
	}
	_ = SetLevel("info")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(prev)
		_ = SetLevel("info")
	})

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("missing warn line: %q", out)
	}
}
