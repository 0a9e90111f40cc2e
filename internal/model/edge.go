// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/vk/blockgrid/internal/handleid"
)

// Edge links a source handle to a target handle. Edges are immutable;
// reconnecting replaces the edge.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// EdgeID derives the deterministic id used when an edge arrives without one.
func EdgeID(source, sourceHandle, target, targetHandle string) string {
	return fmt.Sprintf("%s:%s->%s:%s", source, sourceHandle, target, targetHandle)
}

// WithDefaultID fills in the derived id when e.ID is empty.
func (e Edge) WithDefaultID() Edge {
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.SourceHandle, e.Target, e.TargetHandle)
	}
	return e
}

// IsControl reports whether both ends are control handles.
func (e Edge) IsControl() bool {
	return handleid.IsControl(e.SourceHandle) && handleid.IsControl(e.TargetHandle)
}

// Touches reports whether nodeID is either endpoint.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

func (e Edge) String() string {
	return EdgeID(e.Source, e.SourceHandle, e.Target, e.TargetHandle)
}
