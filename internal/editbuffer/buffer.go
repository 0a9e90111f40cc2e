// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package editbuffer coalesces rapid interactive edits before they reach the
// graph. Text and number edits wait until their slot has been idle for the
// window; dropdown choices and every other edit are committed at once. Flushing is the only path
// that calls SetInput, so the graph keeps a single writer.
package editbuffer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vk/blockgrid/internal/graph"
	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
)

// DefaultWindow is the inactivity period after which a buffered edit is
// committed.
const DefaultWindow = 500 * time.Millisecond

// Committer receives committed edits. *graph.Graph implements it.
type Committer interface {
	SetInput(nodeID, slot string, kind valuekind.Kind, value cty.Value) graph.Changelist
}

// ChoiceReporter is implemented by committers that know which slots are
// dropdowns. Edits to those slots are never buffered.
type ChoiceReporter interface {
	IsChoiceSlot(nodeID, slot string) bool
}

type slotKey struct {
	node string
	slot string
}

type edit struct {
	slotKey
	kind  valuekind.Kind
	value cty.Value
	at    time.Time
}

// Buffer holds pending edits keyed by node and slot.
type Buffer struct {
	mu      sync.Mutex
	target  Committer
	choices ChoiceReporter
	window  time.Duration
	now     func() time.Time
	logger  *slog.Logger
	pending map[slotKey]edit
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithWindow overrides DefaultWindow.
func WithWindow(d time.Duration) Option {
	return func(b *Buffer) { b.window = d }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Buffer) { b.now = now }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(b *Buffer) { b.logger = l }
}

// New creates a buffer committing into target.
func New(target Committer, opts ...Option) *Buffer {
	b := &Buffer{
		target:  target,
		window:  DefaultWindow,
		now:     time.Now,
		logger:  slog.Default(),
		pending: make(map[slotKey]edit),
	}
	if c, ok := target.(ChoiceReporter); ok {
		b.choices = c
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stage records an edit. String and number edits are buffered and the
// latest one for a slot supersedes earlier ones. Other edits, and edits to
// dropdown slots, drop any pending edit for the slot and are committed
// immediately; committed reports which path was taken.
func (b *Buffer) Stage(nodeID, slot string, kind valuekind.Kind, value cty.Value) (committed bool) {
	effective := kind
	if effective == valuekind.Unchanged {
		effective = valuekind.Of(value)
	}
	buffered := effective.Coalesced()
	if buffered && b.choices != nil && b.choices.IsChoiceSlot(nodeID, slot) {
		buffered = false
	}
	key := slotKey{node: nodeID, slot: slot}

	b.mu.Lock()
	if buffered {
		b.pending[key] = edit{slotKey: key, kind: kind, value: value, at: b.now()}
		b.mu.Unlock()
		return false
	}
	delete(b.pending, key)
	b.mu.Unlock()

	b.target.SetInput(nodeID, slot, kind, value)
	return true
}

// Flush commits every edit that has been idle for at least the window as
// of now, oldest first. It returns the number of commits.
func (b *Buffer) Flush(now time.Time) int {
	return b.commit(func(e edit) bool { return now.Sub(e.at) >= b.window })
}

// FlushAll commits every pending edit regardless of age.
func (b *Buffer) FlushAll() int {
	return b.commit(func(edit) bool { return true })
}

// Pending returns the number of buffered edits.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Run flushes on every tick until ctx is done, then commits whatever is
// left and returns ctx.Err().
// A non-positive tick defaults to the window.
func (b *Buffer) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = b.window
	}
	if tick <= 0 {
		tick = DefaultWindow
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.Flush(b.now())
		case <-ctx.Done():
			if n := b.FlushAll(); n > 0 {
				b.logger.Debug("Committed pending edits on shutdown.", "count", n)
			}
			return ctx.Err()
		}
	}
}

func (b *Buffer) commit(due func(edit) bool) int {
	b.mu.Lock()
	var ready []edit
	for k, e := range b.pending {
		if due(e) {
			ready = append(ready, e)
			delete(b.pending, k)
		}
	}
	b.mu.Unlock()

	sort.Slice(ready, func(i, j int) bool {
		if !ready[i].at.Equal(ready[j].at) {
			return ready[i].at.Before(ready[j].at)
		}
		if ready[i].node != ready[j].node {
			return ready[i].node < ready[j].node
		}
		return ready[i].slot < ready[j].slot
	})
	for _, e := range ready {
		b.target.SetInput(e.node, e.slot, e.kind, e.value)
	}
	return len(ready)
}
