// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "sort"

// ChangeKind names the kind of mutation a Change records.
type ChangeKind string

const (
	NodeAdded   ChangeKind = "node_added"
	NodeUpdated ChangeKind = "node_updated"
	NodeRemoved ChangeKind = "node_removed"
	EdgeAdded   ChangeKind = "edge_added"
	EdgeRemoved ChangeKind = "edge_removed"
	// GraphLoaded replaces the whole graph; it carries no ids.
	GraphLoaded ChangeKind = "graph_loaded"
)

// Change is one entry of a Changelist.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	NodeID string     `json:"nodeId,omitempty"`
	EdgeID string     `json:"edgeId,omitempty"`
	// Slot is set on NodeUpdated for input changes.
	Slot string `json:"slot,omitempty"`
}

// Changelist is the ordered record of what one operation changed.
type Changelist []Change

// Empty reports whether nothing changed.
func (c Changelist) Empty() bool { return len(c) == 0 }

// Has reports whether the list contains a change of the given kind for id.
// id is matched against both NodeID and EdgeID.
func (c Changelist) Has(kind ChangeKind, id string) bool {
	for _, ch := range c {
		if ch.Kind == kind && (ch.NodeID == id || ch.EdgeID == id) {
			return true
		}
	}
	return false
}

// Listener receives every non-empty changelist.
type Listener interface {
	OnChange(changes Changelist)
}

// ListenerFunc is a function adapter for Listener.
type ListenerFunc func(changes Changelist)

// OnChange implements the Listener interface.
func (f ListenerFunc) OnChange(changes Changelist) { f(changes) }

// Subscribe registers l and returns a function that unregisters it.
func (g *Graph) Subscribe(l Listener) (cancel func()) {
	g.lmu.Lock()
	defer g.lmu.Unlock()

	id := g.nextListener
	g.nextListener++
	g.listeners[id] = l
	return func() {
		g.lmu.Lock()
		defer g.lmu.Unlock()
		delete(g.listeners, id)
	}
}

// emit must be called without g.mu held.
func (g *Graph) emit(changes Changelist) {
	if changes.Empty() {
		return
	}
	g.lmu.Lock()
	ids := make([]int, 0, len(g.listeners))
	for id := range g.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, g.listeners[id])
	}
	g.lmu.Unlock()

	for _, l := range listeners {
		l.OnChange(changes)
	}
}
