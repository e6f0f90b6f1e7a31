// Package stream wraps the automaton/maskplan engine for incremental input:
// an io.Reader whose bytes may arrive in chunks that split a pattern at any
// byte boundary, including across more than two chunks.
//
// Each chunk is appended to an internal buffer, scanned for matches, and
// everything before the earliest match that might still grow is flushed.
// Wrapper wraps an io.Reader and returns masked bytes from Read, a pull
// model, rather than pushing finished output to a writer.
package stream

import (
	"bytes"
	"errors"
	"io"

	"github.com/masklog/secretsweeper/internal/automaton"
	"github.com/masklog/secretsweeper/internal/maskplan"
)

// ErrNegativeLimit is returned when a wrapper is constructed with a negative
// asterisk-run limit, which has no sensible meaning.
var ErrNegativeLimit = errors.New("stream: limit must not be negative")

// readChunkSize is how much we ask the underlying reader for per pump. It
// has no bearing on correctness, only on how often we call src.Read.
const readChunkSize = 64 * 1024

// Wrapper wraps an io.Reader, masking secrets as they are read.
//
// A Wrapper is not safe for concurrent use: every Read mutates its carry
// buffer and scanner state. Callers needing to mask several streams at once
// construct one Wrapper per stream, all sharing the same *automaton.PatternSet
// (which is immutable and safe to share).
type Wrapper struct {
	src   io.Reader
	set   *automaton.PatternSet
	limit int

	state    automaton.State
	resolver maskplan.Resolver

	// buf holds raw input bytes from absolute stream position `consumed`
	// to `consumed+len(buf)` that have been scanned but not yet resolved
	// into output, because they might still be part of a match that could
	// extend into bytes not yet seen.
	buf      []byte
	consumed int

	pending []byte // masked output computed but not yet handed to a caller
	scratch []byte // reused read buffer

	eof bool
}

// New returns a Wrapper reading from src, matching against set, capping
// each mask run at limit asterisks.
func New(src io.Reader, set *automaton.PatternSet, limit int) (*Wrapper, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	return &Wrapper{src: src, set: set, limit: limit}, nil
}

// Read implements io.Reader. It returns masked output; the number of bytes
// returned may be less than requested, never more. A read from src that only
// grows the carry produces no output, so Read keeps reading from src until
// some masked output is ready, src returns an error, or the stream has ended.
func (w *Wrapper) Read(p []byte) (int, error) {
	for len(w.pending) == 0 {
		if w.eof {
			return 0, io.EOF
		}
		if err := w.pump(); err != nil {
			return 0, err
		}
	}
	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

// ReadLine returns masked output up to and including the next '\n', or
// whatever remains at end of stream. Line terminators are ordinary data to
// the matcher; ReadLine only inspects already-masked output to decide how
// much of it to hand back in one call, never to decide what counts as a
// match, so a pattern containing '\n' still matches across lines.
func (w *Wrapper) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(w.pending, '\n'); i >= 0 {
			line := w.pending[:i+1]
			w.pending = w.pending[i+1:]
			return line, nil
		}
		if w.eof {
			if len(w.pending) == 0 {
				return nil, io.EOF
			}
			line := w.pending
			w.pending = nil
			return line, nil
		}
		if err := w.pump(); err != nil {
			return nil, err
		}
	}
}

// pump reads one chunk from src, folds it into the engine, and (on EOF)
// flushes everything that remains. It never returns io.EOF: reaching EOF
// just sets w.eof and returns nil, so callers keep driving w.pending/w.eof.
func (w *Wrapper) pump() error {
	if w.eof {
		return nil
	}

	if w.scratch == nil {
		w.scratch = make([]byte, readChunkSize)
	}
	n, err := w.src.Read(w.scratch)
	if n > 0 {
		w.ingest(w.scratch[:n])
	}

	switch {
	case err == io.EOF:
		w.finish()
		w.eof = true
		return nil
	case err != nil:
		return err
	default:
		return nil
	}
}

// ingest folds x into the carry buffer, advances the scanner, and flushes
// whatever has become safe to emit.
func (w *Wrapper) ingest(x []byte) {
	base := w.consumed + len(w.buf)
	w.buf = append(w.buf, x...)
	w.state = w.set.Scan(w.state, base, x, func(ev automaton.MatchEvent) {
		w.resolver.Add(ev)
	})
	w.flushSafe()
}

// flushSafe emits everything up to the safe prefix length: total bytes
// buffered so far minus (M-1), where M is the longest pattern, further
// retracted by the resolver to the start of the earliest run a future
// event could still touch, so a run is never split across a flush.
// Retracting to a run's start (rather than advancing past it) is what lets
// a single pattern span any number of chunks: the carry grows to hold the
// run's entire source, unbounded by M-1, for as long as the run can grow.
func (w *Wrapper) flushSafe() {
	base := w.consumed
	total := base + len(w.buf)

	p := total
	if M := w.set.MaxLen(); M > 0 {
		if safe := total - (M - 1); safe > base {
			p = safe
		} else {
			p = base
		}
	}

	// No event starting at or after p can reach a run ending before p, so
	// such a run is final even with no disjoint event to close it. Closing
	// it here keeps the carry from growing without bound on clean input
	// after a match.
	w.resolver.CloseBefore(p)

	boundary := w.resolver.Boundary(p)
	if boundary <= base {
		return
	}

	w.emitThrough(boundary)
}

// finish closes any open run (nothing will ever extend it again) and emits
// the rest of the buffer.
func (w *Wrapper) finish() {
	w.resolver.CloseOpen()
	w.emitThrough(w.consumed + len(w.buf))
}

// emitThrough appends masked output for [w.consumed, p) to w.pending,
// draining every closed run that ends at or before p, and advances
// w.consumed/w.buf past it.
func (w *Wrapper) emitThrough(p int) {
	base := w.consumed
	plan := w.resolver.DrainThrough(p)

	cursor := base
	for _, m := range plan {
		w.pending = append(w.pending, w.buf[cursor-base:m.Start-base]...)
		n := m.End - m.Start
		if n > w.limit {
			n = w.limit
		}
		for range n {
			w.pending = append(w.pending, maskplan.Asterisk)
		}
		cursor = m.End
	}
	w.pending = append(w.pending, w.buf[cursor-base:p-base]...)

	w.buf = w.buf[p-base:]
	w.consumed = p
}
