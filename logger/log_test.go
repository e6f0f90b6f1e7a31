package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/masklog/secretsweeper/logger"
)

func TestConsoleLoggerLevelGating(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printer := &logger.TextPrinter{Writer: &buf}
	l := logger.NewConsoleLogger(printer)
	l.SetLevel(logger.WARN)

	l.Debug("debug %q", "llamas")
	l.Warn("warn %q", "llamas")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], `warn "llamas"`) {
		t.Fatalf("line 0 = %q, want suffix warn", lines[0])
	}
}

func TestTextPrinterColors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printer := &logger.TextPrinter{Writer: &buf, Colors: true}
	l := logger.NewConsoleLogger(printer)

	l.Warn("failed: %s", "disk full")

	got := buf.String()
	assert.Assert(t, strings.Contains(got, "\x1b["))
	assert.Assert(t, strings.Contains(got, "failed: disk full"))
}

func TestLevelFromStringRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := logger.LevelFromString("verbose")
	assert.ErrorContains(t, err, "invalid log level")
}
