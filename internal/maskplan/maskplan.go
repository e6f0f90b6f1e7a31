// Package maskplan turns a stream of automaton.MatchEvents into a plan of
// Mask Runs (maximal fused intervals of overlapping or adjacent matches) and
// applies that plan to produce masked output, capping each run's length of
// asterisks at a configurable limit.
//
// Runs are fused the same way overlapping matches are merged into a single
// redaction elsewhere in this codebase, but with one difference: here each
// run's asterisk count is data-dependent and capped at a configurable limit,
// rather than substituted with a fixed-width placeholder regardless of match
// length.
package maskplan

import "github.com/masklog/secretsweeper/internal/automaton"

// Asterisk is the byte used to mask redacted regions.
const Asterisk = '*'

// Mask is a maximal half-open interval [Start, End) formed by the
// union-closure of overlapping or touching match events.
type Mask struct {
	Start, End int
}

func (m Mask) overlapsOrTouches(s int) bool {
	return s <= m.End
}

// Resolver incrementally merges match events into Mask Runs. Events must be
// supplied in non-decreasing order of End (automaton.PatternSet.Scan
// guarantees this). A Resolver holds at most one "open" run at a time, which
// may remain open indefinitely — across many Add calls, even across many
// input chunks — until a later event proves it can no longer grow, or
// CloseBefore or CloseOpen closes it.
type Resolver struct {
	open    Mask
	hasOpen bool
	plan    []Mask
}

// Add folds a match event into the resolver's open run, closing and
// replacing it if the new event doesn't overlap or touch.
func (r *Resolver) Add(ev automaton.MatchEvent) {
	s, e := ev.End-ev.Length, ev.End

	if !r.hasOpen {
		r.open = Mask{Start: s, End: e}
		r.hasOpen = true
		return
	}

	if r.open.overlapsOrTouches(s) {
		if e > r.open.End {
			r.open.End = e
		}
		if s < r.open.Start {
			r.open.Start = s
			// A long match can reach back over runs already closed: a
			// pattern whose end arrives late but whose start precedes
			// everything since. Absorb every closed run the extension now
			// overlaps or touches, so the plan stays disjoint and the cap
			// applies to the whole fused region.
			for len(r.plan) > 0 && r.plan[len(r.plan)-1].End >= r.open.Start {
				r.open.Start = r.plan[len(r.plan)-1].Start
				r.plan = r.plan[:len(r.plan)-1]
			}
		}
		return
	}

	r.plan = append(r.plan, r.open)
	r.open = Mask{Start: s, End: e}
}

// CloseBefore finalizes the open run if it ends strictly before p. No event
// beginning at or after p can touch a run ending before p, so such a run is
// final even though no disjoint event has arrived to close it. Without this,
// a run followed by a long stretch of clean input would hold the carry open
// indefinitely.
func (r *Resolver) CloseBefore(p int) {
	if r.hasOpen && r.open.End < p {
		r.plan = append(r.plan, r.open)
		r.hasOpen = false
	}
}

// Boundary returns the largest flush position not exceeding p that splits no
// run a later event could still reach. A run (closed or open) ending at or
// after p must be held back whole: a pattern beginning as early as p can
// touch it and fuse with it, so emitting any part of it now would fix the
// cap on a fragment of the eventual run.
func (r *Resolver) Boundary(p int) int {
	for _, m := range r.plan {
		if m.End >= p {
			return min(m.Start, p)
		}
	}
	if r.hasOpen && r.open.End >= p {
		return min(r.open.Start, p)
	}
	return p
}

// DrainThrough removes and returns the closed runs ending at or before p,
// leaving later closed runs and any still-open run in place.
func (r *Resolver) DrainThrough(p int) []Mask {
	i := 0
	for i < len(r.plan) && r.plan[i].End <= p {
		i++
	}
	if i == 0 {
		return nil
	}
	drained := r.plan[:i:i]
	r.plan = r.plan[i:]
	if len(r.plan) == 0 {
		r.plan = nil
	}
	return drained
}

// DrainPlan removes and returns every Mask Run that has been closed (i.e.
// proven final) so far, leaving any still-open run in place.
func (r *Resolver) DrainPlan() []Mask {
	plan := r.plan
	r.plan = nil
	return plan
}

// CloseOpen finalizes the currently open run, if any, moving it into the
// plan. Call this at end-of-input: nothing will ever extend an open run
// again once the source is exhausted.
func (r *Resolver) CloseOpen() {
	if r.hasOpen {
		r.plan = append(r.plan, r.open)
		r.hasOpen = false
	}
}

// Resolve is the one-shot convenience form: given every match event for a
// complete buffer (in non-decreasing End order), return the full Mask Run
// plan.
func Resolve(events []automaton.MatchEvent) []Mask {
	var r Resolver
	for _, ev := range events {
		r.Add(ev)
	}
	r.CloseOpen()
	return r.DrainPlan()
}

// Apply walks input against an ordered, non-overlapping plan (as produced by
// Resolve, or accumulated via Resolver), copying literal bytes outside any
// run and emitting min(run length, limit) asterisks for each run. limit == 0
// deletes the run's bytes entirely.
func Apply(input []byte, plan []Mask, limit int) []byte {
	out := make([]byte, 0, len(input))
	cursor := 0
	for _, m := range plan {
		out = append(out, input[cursor:m.Start]...)
		out = appendAsterisks(out, min(m.End-m.Start, limit))
		cursor = m.End
	}
	out = append(out, input[cursor:]...)
	return out
}

func appendAsterisks(out []byte, n int) []byte {
	for range n {
		out = append(out, Asterisk)
	}
	return out
}
