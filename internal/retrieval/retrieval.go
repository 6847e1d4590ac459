// Package retrieval runs a lookup against an ordered chain of data sources
// and falls back to synthesized placeholder data when no source delivers.
// Callers always get a non-empty result; provenance says whether it is real.
package retrieval

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"
)

// Provenance tags where a result came from. SYNTHETIC results must be
// surfaced to the caller as such, never presented as live data.
type Provenance string

const (
	ProvenanceLive          Provenance = "LIVE"
	ProvenanceLiveSecondary Provenance = "LIVE_SECONDARY"
	ProvenanceSynthetic     Provenance = "SYNTHETIC"
)

// ErrSynthesisFailed means the placeholder generator broke its contract of
// always producing at least one item. This is a programming error, not a
// data condition.
var ErrSynthesisFailed = errors.New("retrieval: synthesizer produced no items")

// Source is one candidate origin for a lookup. Sources are evaluated in
// ascending Priority order. A nil Eligible means always eligible; an
// ineligible source is skipped silently, not counted as a failure.
type Source[R, T any] struct {
	Name       string
	Priority   int
	Provenance Provenance
	Eligible   func(R) bool
	Fetch      func(context.Context, R) ([]T, any, error)
}

// Result is the outcome of one lookup. Raw keeps the upstream payload of
// the winning source for debugging; it is nil for synthetic results.
type Result[T any] struct {
	Items      []T
	Provenance Provenance
	Raw        any
}

// Synthetic reports whether the result carries placeholder data.
func (r Result[T]) Synthetic() bool { return r.Provenance == ProvenanceSynthetic }

// Orchestrator tries sources in priority order and accepts the first
// non-empty, well-formed answer. A source raising or answering with zero
// items falls through to the next tier. When every tier is exhausted, or
// the deadline expires mid-chain, the synthesizer supplies the result.
type Orchestrator[R, T any] struct {
	sources    []Source[R, T]
	synthesize func(R) []T
	timeout    time.Duration
}

// New builds an orchestrator. synthesize must return at least one
// schema-complete item for any request; timeout bounds the whole chain.
func New[R, T any](timeout time.Duration, synthesize func(R) []T, sources ...Source[R, T]) *Orchestrator[R, T] {
	ordered := make([]Source[R, T], len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })
	return &Orchestrator[R, T]{sources: ordered, synthesize: synthesize, timeout: timeout}
}

// Lookup produces the best available result for req. It never returns an
// empty success and never errors for "no live data"; the only error is a
// synthesizer contract violation.
func (o *Orchestrator[R, T]) Lookup(ctx context.Context, req R) (Result[T], error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	for _, s := range o.sources {
		if s.Eligible != nil && !s.Eligible(req) {
			continue
		}
		if ctx.Err() != nil {
			log.Printf("retrieval: deadline reached before source %q, degrading to synthetic", s.Name)
			break
		}
		items, raw, err := runFetch(ctx, s, req)
		if err != nil {
			log.Printf("retrieval: source %q failed: %v", s.Name, err)
			continue
		}
		if len(items) == 0 {
			log.Printf("retrieval: source %q returned no items, falling through", s.Name)
			continue
		}
		return Result[T]{Items: items, Provenance: s.Provenance, Raw: raw}, nil
	}

	items := o.synthesize(req)
	if len(items) == 0 {
		return Result[T]{}, ErrSynthesisFailed
	}
	return Result[T]{Items: items, Provenance: ProvenanceSynthetic}, nil
}

type fetchResult[T any] struct {
	items []T
	raw   any
	err   error
}

// runFetch issues the fetch as one cancellable unit of work so a source
// that ignores its context cannot hold the chain past the deadline.
func runFetch[R, T any](ctx context.Context, s Source[R, T], req R) ([]T, any, error) {
	ch := make(chan fetchResult[T], 1)
	go func() {
		items, raw, err := s.Fetch(ctx, req)
		ch <- fetchResult[T]{items: items, raw: raw, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case r := <-ch:
		return r.items, r.raw, r.err
	}
}
