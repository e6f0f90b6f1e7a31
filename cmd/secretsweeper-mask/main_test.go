package main

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/masklog/secretsweeper/logger"
)

func TestCollectPatternsFromFileAndEnvGlob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.txt")
	assert.NilError(t, os.WriteFile(path, []byte("alpha\nbeta\r\n\ngamma\n"), 0o600))

	t.Setenv("SECRETSWEEPER_TEST_TOKEN", "abcdef123456")

	cfg := Config{
		Patterns:       []string{"explicit"},
		PatternFile:    path,
		PatternEnvGlob: []string{"SECRETSWEEPER_TEST_*"},
	}

	l := logger.NewBuffer()
	got, err := collectPatterns(l, cfg)
	assert.NilError(t, err)

	want := []string{"explicit", "alpha", "beta", "gamma", "abcdef123456"}
	assert.DeepEqual(t, got, want)
}

func TestCollectPatternsNormalizesMultilinePatternValue(t *testing.T) {
	cfg := Config{
		Patterns: []string{"-----BEGIN KEY-----\r\n  abcdef \r\n-----END KEY-----\n"},
	}

	l := logger.NewBuffer()
	got, err := collectPatterns(l, cfg)
	assert.NilError(t, err)

	want := []string{"-----BEGIN KEY-----\nabcdef\n-----END KEY-----"}
	assert.DeepEqual(t, got, want)
}

func TestCollectPatternsEnvGlobValueNormalized(t *testing.T) {
	t.Setenv("SECRETSWEEPER_TEST_KEY", "line one \r\nline two\r\n")

	cfg := Config{PatternEnvGlob: []string{"SECRETSWEEPER_TEST_*"}}
	l := logger.NewBuffer()

	got, err := collectPatterns(l, cfg)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"line one\nline two"})
}

func TestCollectPatternsShortEnvValueLoggedNotIncluded(t *testing.T) {
	t.Setenv("SECRETSWEEPER_TEST_SHORT", "abc")

	cfg := Config{PatternEnvGlob: []string{"SECRETSWEEPER_TEST_*"}}
	l := logger.NewBuffer()

	got, err := collectPatterns(l, cfg)
	assert.NilError(t, err)
	assert.Assert(t, got == nil)
	assert.Assert(t, len(l.Messages) == 1)
}

func TestReadLinesTrimsCarriageReturnsAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.txt")
	assert.NilError(t, os.WriteFile(path, []byte("one\r\ntwo\n\nthree"), 0o600))

	got, err := readLines(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"one", "two", "three"})
}

func TestCreateLoggerAppliesDebugOverLogLevel(t *testing.T) {
	l := createLogger(Config{LogLevel: "error", Debug: true})
	assert.Equal(t, l.Level(), logger.DEBUG)
}
