package automaton

import (
	"iter"
	"strings"
)

// FromStrings adapts a plain slice of strings to an iter.Seq[[]byte], the
// common case. A range-over-func iterator, rather than a slice, lets callers
// feed tuples, sets, maps (taking their keys), or generator-style sequences
// of patterns without materializing them into a slice first.
func FromStrings(patterns []string) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, p := range patterns {
			if !yield([]byte(p)) {
				return
			}
		}
	}
}

// FromBytes adapts a plain slice of byte slices to an iter.Seq[[]byte].
func FromBytes(patterns [][]byte) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, p := range patterns {
			if !yield(p) {
				return
			}
		}
	}
}

// NormalizeMultiline normalises a multi-line pattern by splitting on '\n',
// trimming spaces and carriage returns from each line, dropping blank
// lines, and rejoining. It exists to survive PTY cooked-mode mangling a
// newline into "\r\n" or runs of spaces.
//
// The core automaton never calls this itself — newlines are ordinary data
// to Compile. It is exposed for callers (such as the CLI) who want patterns
// copy-pasted from multi-line secrets to survive that kind of terminal
// mangling.
func NormalizeMultiline(pattern []byte) []byte {
	lines := strings.Split(string(pattern), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return []byte(strings.Join(out, "\n"))
}
