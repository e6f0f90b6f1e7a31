package logger_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/masklog/secretsweeper/logger"
)

func TestBuffer(t *testing.T) {
	l := logger.NewBuffer()
	l.Warn("hello %s", "world")
	func(x logger.Logger) {
		x.Debug("foo bar")
	}(l)
	assert.DeepEqual(t, []string{
		"[warn] hello world",
		"[debug] foo bar",
	}, l.Messages)
}
