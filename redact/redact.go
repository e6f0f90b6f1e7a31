// Package redact provides convenience helpers for sourcing patterns to mask
// and for masking small strings directly, without a caller having to drive
// the stream package themselves.
//
// Environment variable names are matched against glob patterns, and
// matching values are treated as secrets, subject to a minimum length below
// which a value isn't worth redacting (a value like "none" shouldn't turn
// every occurrence of the word "none" in a log into asterisks).
package redact

import (
	"fmt"
	"iter"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/masklog/secretsweeper"
	"github.com/masklog/secretsweeper/internal/automaton"
)

// LengthMin is the shortest value length considered a potential secret by
// NeedlesFromEnv and Vars. e.g. if told to redact env vars matching
// *_TOKEN, and API_TOKEN is set to "none", this minimum prevents every
// occurrence of "none" from being masked out of otherwise useful output.
const LengthMin = 6

// String is a convenience wrapper for masking small strings. It is fine to
// call repeatedly with many separate strings, but avoid using it to mask
// large streams -- it buffers the whole input and output. Patterns below
// LengthMin are not filtered here; that filtering is NeedlesFromEnv's job.
func String(input string, patterns []string) string {
	out, err := secretsweeper.Mask([]byte(input), secretsweeper.FromStrings(patterns), secretsweeper.DefaultLimit)
	if err != nil {
		// The only failure mode of Mask is a negative limit, and
		// DefaultLimit is a positive constant.
		panic("redact.String: " + err.Error())
	}
	return string(out)
}

// NeedlesFromEnv matches patterns (glob patterns over variable names, per
// path.Match) against the current process environment. It returns the
// values to redact (deduplicated) and the names of variables that matched a
// pattern but whose value was too short to bother redacting.
func NeedlesFromEnv(patterns []string) (values, short []string, err error) {
	return Vars(patterns, os.Environ())
}

// Vars matches patterns against a KEY=VALUE environment slice (such as
// os.Environ()), returning the deduplicated values to redact and the names
// of variables that matched but were too short.
func Vars(patterns []string, environ []string) (values, short []string, err error) {
	seen := make(map[string]struct{})

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		matched, matchErr := MatchAny(patterns, name)
		if matchErr != nil {
			return nil, nil, matchErr
		}
		if !matched {
			continue
		}

		if len(value) < LengthMin {
			if len(value) > 0 {
				short = append(short, name)
			}
			continue
		}

		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	return values, short, nil
}

// MatchAny reports whether name matches any of the glob patterns, in the
// path.Match sense. It collects every pattern that fails to parse and
// reports them together in a single error, rather than bailing out on the
// first bad one.
func MatchAny(patterns []string, name string) (matched bool, err error) {
	var bad []string
	for _, pattern := range patterns {
		m, matchErr := path.Match(pattern, name)
		if matchErr != nil {
			bad = append(bad, pattern)
			continue
		}
		if m {
			matched = true
		}
	}
	if len(bad) > 0 {
		slices.Sort(bad)
		return matched, fmt.Errorf("bad patterns: %q", bad)
	}
	return matched, nil
}

// Seq adapts a plain slice of strings to the iter.Seq[[]byte] the core
// engine expects -- re-exported here so CLI-level code only needs to import
// this package and secretsweeper, not internal/automaton directly.
func Seq(patterns []string) iter.Seq[[]byte] {
	return secretsweeper.FromStrings(patterns)
}

// NormalizeMultiline survives the kind of mangling a terminal's cooked mode,
// a config file's line endings, or a copy-paste does to a multi-line secret
// (an SSH private key, say): it splits the pattern on '\n', trims spaces and
// stray '\r' from each line, drops lines left blank by that trimming, and
// rejoins. The core engine never does this itself -- patterns are opaque
// bytes to it -- so callers that source patterns from the command line or a
// config file apply it themselves before compiling.
func NormalizeMultiline(pattern string) string {
	return string(automaton.NormalizeMultiline([]byte(pattern)))
}
