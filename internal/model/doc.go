// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model defines the value types of a block graph: nodes with their
// input slots and output record, and the edges between handles.
//
// # Ownership
//
// Nodes and edges are owned by the graph package. Everything handed out of
// the graph is a copy; callers never mutate graph state through these
// structs.
//
// # Documents
//
// Document is the persistence format, a plain `{nodes, edges}` JSON object.
// Slot values are encoded with go-cty's JSON codec. Decoding infers the value
// type from the JSON itself, so a list may come back as a tuple. Both map to
// the same value kind, which is all connection checks look at.
package model
