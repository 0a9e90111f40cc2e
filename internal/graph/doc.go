// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package graph owns the mutable block graph: its node and edge tables and
// every operation that changes them.
//
// # Why Graph Owns Everything
//
// Nodes and edges are only ever changed through Graph methods. The validator,
// instantiator and resolver are free functions that read the graph through
// small view interfaces, so the graph is the single writer and the one place
// where the structural invariants live:
//   - **Single producer:** an input-* or flow-top handle has at most one
//     incoming edge. A new edge into an occupied handle replaces the old one.
//   - **No dangling edges:** re-instantiating a node prunes edges into slots
//     that no longer exist. Removing a node removes every edge touching it.
//   - **Validated edges:** AddEdge and Load consult the validator before an
//     edge is stored.
//
// # Change Notification
//
// Each mutating method returns a Changelist describing what it did. The same
// changelist is delivered to every subscribed Listener once the graph lock has
// been released, so listeners may call back into the graph.
//
// # Concurrency
//
// A single interactive writer is the expected workload. The tables are still
// guarded by a sync.RWMutex so readers such as a broadcaster or a resolver
// running on a Snapshot never observe a half-applied mutation.
package graph
