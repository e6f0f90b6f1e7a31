// Package secretsweeper redacts a caller-supplied set of literal byte
// patterns from a byte stream, overwriting each matched region with
// asterisks. It is intended for embedding in tools that emit logs, CI
// output, or other free-form byte data that may contain secrets known
// ahead of time (tokens, passwords, keys).
//
// The engine operates in two modes: Mask, for input that is already
// entirely in memory, and the stream package's Wrapper, for input arriving
// in chunks of arbitrary size. Both are built on the same automaton and
// maskplan packages, so a pattern straddling a chunk boundary is masked
// identically to the same pattern appearing in a one-shot call.
package secretsweeper

import (
	"io"
	"iter"

	"github.com/masklog/secretsweeper/internal/automaton"
	"github.com/masklog/secretsweeper/internal/maskplan"
	"github.com/masklog/secretsweeper/stream"
)

// DefaultLimit is the default maximum number of asterisks emitted per mask
// run.
const DefaultLimit = 15

// ErrNegativeLimit is returned when Mask is called with limit < 0.
var ErrNegativeLimit = stream.ErrNegativeLimit

// FromStrings adapts a plain slice of strings to the pattern iterator Mask
// and Compile expect.
func FromStrings(patterns []string) iter.Seq[[]byte] {
	return automaton.FromStrings(patterns)
}

// FromBytes adapts a plain slice of byte slices to the pattern iterator Mask
// and Compile expect.
func FromBytes(patterns [][]byte) iter.Seq[[]byte] {
	return automaton.FromBytes(patterns)
}

// Mask redacts every occurrence of every pattern in input, fusing
// overlapping or adjacent matches into single runs and capping each run at
// limit asterisks (limit == 0 deletes the run's bytes entirely). A nil
// patterns iterator, or one that yields nothing but empty patterns, leaves
// input unchanged.
func Mask(input []byte, patterns iter.Seq[[]byte], limit int) ([]byte, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	set := automaton.Compile(patterns)
	return maskWithSet(input, set, limit)
}

// maskWithSet runs the one-shot pipeline over a complete input: Scan the
// whole buffer in one call, resolve the plan, and apply it. Equivalent to a
// single streaming call immediately followed by end-of-stream flush, but
// short-circuited here to avoid a Wrapper's pull-based machinery for the
// common in-memory case.
func maskWithSet(input []byte, set *automaton.PatternSet, limit int) ([]byte, error) {
	var events []automaton.MatchEvent
	set.Scan(automaton.State{}, 0, input, func(ev automaton.MatchEvent) {
		events = append(events, ev)
	})

	if events == nil {
		return input, nil
	}
	plan := maskplan.Resolve(events)
	return maskplan.Apply(input, plan, limit), nil
}

// NewStream returns a stream.Wrapper over src using a freshly compiled
// PatternSet. For masking many streams against the same patterns, compile a
// PatternSet once with automaton.Compile and call stream.New directly to
// avoid recompiling it per stream.
func NewStream(src io.Reader, patterns iter.Seq[[]byte], limit int) (*stream.Wrapper, error) {
	set := automaton.Compile(patterns)
	return stream.New(src, set, limit)
}
