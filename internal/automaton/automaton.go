// Package automaton compiles a set of literal byte patterns into a
// multi-pattern matcher that reports every occurrence of every pattern,
// including overlaps, as the input is scanned one byte at a time.
//
// Patterns are organised by first byte (fast rejection of the common case,
// a byte that starts no pattern), and each in-flight candidate match is
// tracked explicitly rather than via a trie. PatternSet.Scan is pure with
// respect to (State, buf): the caller supplies the state to resume from and
// gets the new state back, which is what lets the same scanner serve both
// one-shot and chunked callers.
package automaton

import "iter"

// MatchEvent denotes that the half-open interval [End-Length, End) of the
// scanned stream is an occurrence of some pattern.
type MatchEvent struct {
	End    int
	Length int
}

// PatternSet is the compiled, immutable form of a set of patterns. A
// PatternSet has no mutable state after Compile returns, so it is safe to
// share (read-only) across many concurrent scans.
type PatternSet struct {
	// Patterns organised by first byte, deduplicated. Why first byte?
	// Looking up candidates by the first byte of the current input is a lot
	// faster than filtering every pattern on every byte.
	byFirstByte [256][][]byte

	maxLen int
}

// Compile builds a PatternSet from an iterator of byte-slice patterns.
// Empty patterns are silently discarded; duplicates are accepted but have no
// additional effect. Compilation is O(sum of pattern lengths).
func Compile(patterns iter.Seq[[]byte]) *PatternSet {
	ps := &PatternSet{}
	if patterns == nil {
		return ps
	}
	seen := make(map[string]struct{})

	patterns(func(p []byte) bool {
		if len(p) == 0 {
			return true
		}
		key := string(p)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}

		cp := append([]byte(nil), p...)
		first := cp[0]
		ps.byFirstByte[first] = append(ps.byFirstByte[first], cp)
		if len(cp) > ps.maxLen {
			ps.maxLen = len(cp)
		}
		return true
	})

	return ps
}

// MaxLen returns the length of the longest compiled pattern, or 0 if the set
// is empty. This is the M in the streaming carry rule (M-1 bytes withheld
// per chunk).
func (ps *PatternSet) MaxLen() int {
	if ps == nil {
		return 0
	}
	return ps.maxLen
}

// candidate tracks how far through one needle the stream has matched so far.
type candidate struct {
	needle []byte
	pos    int // bytes of needle matched so far
}

// State is the scanner state between one Scan call and the next: the set of
// in-flight candidate matches that have not yet completed or failed. The
// zero value is the root state (no candidates in flight).
type State struct {
	candidates []candidate
}

// Scan consumes buf, whose first byte is at absolute stream position base,
// starting from state. It calls emit for every match event discovered,
// in non-decreasing order of End, and returns the state to resume from for
// the next chunk.
func (ps *PatternSet) Scan(state State, base int, buf []byte, emit func(MatchEvent)) State {
	// Copy the incoming candidates: the two slices below are reused as
	// scratch space, and the caller's State must stay untouched.
	cur := append([]candidate(nil), state.candidates...)
	next := make([]candidate, 0, len(cur))

	for i, c := range buf {
		pos := base + i

		for _, cd := range cur {
			if cd.needle[cd.pos] != c {
				continue
			}
			cd.pos++
			if cd.pos == len(cd.needle) {
				emit(MatchEvent{End: pos + 1, Length: cd.pos})
				continue
			}
			next = append(next, cd)
		}

		for _, needle := range ps.byFirstByte[c] {
			if len(needle) == 1 {
				// A single-byte pattern matches as soon as it starts.
				emit(MatchEvent{End: pos + 1, Length: 1})
				continue
			}
			next = append(next, candidate{needle: needle, pos: 1})
		}

		cur, next = next, cur[:0]
	}

	return State{candidates: cur}
}
