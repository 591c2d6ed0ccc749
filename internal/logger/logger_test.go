package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(false, &buf)

	l.Info("processing %s", "a.sql")
	l.Warn("skipped %d", 2)
	l.Error("failed")
	l.Debug("hidden")

	out := buf.String()
	for _, want := range []string{"[INFO]  processing a.sql", "[WARN]  skipped 2", "[ERROR] failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written while not verbose:\n%s", out)
	}
}

func TestLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(false, &buf)
	l.SetVerbose(true)

	if !l.IsVerbose() {
		t.Fatal("IsVerbose() = false after SetVerbose(true)")
	}
	l.Debug("token count %d", 12)
	if !strings.Contains(buf.String(), "[DEBUG] token count 12") {
		t.Fatalf("debug message missing:\n%s", buf.String())
	}
}

func TestDefaultLogger(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(true, &buf))

	Info("one")
	Debug("two")
	Warn("three")
	Error("four")

	out := buf.String()
	for _, want := range []string{"one", "two", "three", "four"} {
		if !strings.Contains(out, want) {
			t.Errorf("default logger output missing %q", want)
		}
	}
}
