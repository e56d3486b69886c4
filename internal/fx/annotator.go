// Copyright (c) 2026 Sellkit Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package fx

import (
	"context"
	"sync"
)

// Annotator guards background price refinements against stale
// delivery. Each key (typically a page ID) carries a generation
// counter; a refinement started at generation N is discarded when the
// document changed before the result arrived. Cancellation is
// advisory only: the in-flight call is not aborted, its result is
// simply dropped.
type Annotator struct {
	mu   sync.Mutex
	gens map[string]uint64
}

// NewAnnotator creates an empty annotator.
func NewAnnotator() *Annotator {
	return &Annotator{gens: make(map[string]uint64)}
}

// Begin returns the current generation for a key. The caller captures
// it before starting background work.
func (a *Annotator) Begin(key string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gens[key]
}

// Invalidate bumps the generation for a key, marking every in-flight
// refinement for it as stale. Returns the new generation.
func (a *Annotator) Invalidate(key string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gens[key]++
	return a.gens[key]
}

// Commit runs apply only if the key's generation still equals gen.
// Returns false when the result was stale and discarded. The apply
// function runs under the annotator lock and must be cheap.
func (a *Annotator) Commit(key string, gen uint64, apply func()) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gens[key] != gen {
		return false
	}
	apply()
	return true
}

// Annotate runs compute in its own goroutine and never blocks the
// caller. compute returns the apply step for its result, or nil when
// there is nothing to deliver; apply runs through Commit, so a result
// computed against generation gen is dropped if the key moved on
// before it arrived.
func (a *Annotator) Annotate(ctx context.Context, key string, gen uint64, compute func(context.Context) func()) {
	go func() {
		apply := compute(ctx)
		if apply == nil {
			return
		}
		a.Commit(key, gen, apply)
	}()
}

// Forget drops the counter for a key, typically after the document
// was deleted.
func (a *Annotator) Forget(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.gens, key)
}
