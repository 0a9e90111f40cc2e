// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package validate

import (
	"fmt"

	"github.com/vk/blockgrid/internal/handleid"
	"github.com/vk/blockgrid/internal/model"
	"github.com/vk/blockgrid/internal/valuekind"
	"go.uber.org/multierr"
)

// View is the read access the validator needs.
type View interface {
	Node(id string) (model.Node, bool)
}

// EdgeView adds edge enumeration for batch validation.
type EdgeView interface {
	View
	Edges() []model.Edge
}

// Reason classifies why an edge was rejected.
type Reason string

const (
	ReasonSelfLoop      Reason = "self-loop"
	ReasonUnknownSource Reason = "unknown source node"
	ReasonUnknownTarget Reason = "unknown target node"
	ReasonControlPair   Reason = "unsupported control pair"
	ReasonCrossFamily   Reason = "control handle paired with data handle"
	ReasonDirection     Reason = "data edges must run from output to an input slot"
	ReasonNoOutput      Reason = "source node has no output"
	ReasonNoSlot        Reason = "target slot does not exist"
	ReasonKindMismatch  Reason = "incompatible value kinds"
)

// Rejection is returned by Check for an edge that may not be added.
type Rejection struct {
	Edge   model.Edge
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("edge %s rejected: %s", r.Edge, r.Reason)
	}
	return fmt.Sprintf("edge %s rejected: %s (%s)", r.Edge, r.Reason, r.Detail)
}

// IsValid reports whether e may be added to the graph seen through view.
func IsValid(e model.Edge, view View) bool {
	return Check(e, view) == nil
}

// Check returns nil when e is acceptable and a *Rejection otherwise.
func Check(e model.Edge, view View) error {
	reject := func(reason Reason, detail string) error {
		return &Rejection{Edge: e, Reason: reason, Detail: detail}
	}

	if e.Source == e.Target {
		return reject(ReasonSelfLoop, "")
	}
	source, ok := view.Node(e.Source)
	if !ok {
		return reject(ReasonUnknownSource, e.Source)
	}
	target, ok := view.Node(e.Target)
	if !ok {
		return reject(ReasonUnknownTarget, e.Target)
	}

	srcControl := handleid.IsControl(e.SourceHandle)
	tgtControl := handleid.IsControl(e.TargetHandle)
	switch {
	case srcControl && tgtControl:
		if isControlSource(e.SourceHandle) && e.TargetHandle == handleid.FlowTop {
			return nil
		}
		return reject(ReasonControlPair, e.SourceHandle+" -> "+e.TargetHandle)
	case srcControl != tgtControl:
		return reject(ReasonCrossFamily, e.SourceHandle+" -> "+e.TargetHandle)
	}

	if e.SourceHandle != handleid.Output {
		return reject(ReasonDirection, "source handle "+e.SourceHandle)
	}
	h, err := handleid.Parse(e.TargetHandle)
	if err != nil || h.Role != handleid.RoleTarget || h.Family != handleid.FamilyData {
		return reject(ReasonDirection, "target handle "+e.TargetHandle)
	}
	if source.Output == nil {
		return reject(ReasonNoOutput, source.BlockType)
	}
	_, slot, ok := target.InputByHandle(e.TargetHandle)
	if !ok {
		return reject(ReasonNoSlot, e.TargetHandle)
	}
	if !valuekind.Compatible(source.Output.Kind, slot.Kind) {
		return reject(ReasonKindMismatch, fmt.Sprintf("%s -> %s", source.Output.Kind, slot.Kind))
	}
	return nil
}

// Graph re-validates every edge of view. The returned error combines one
// *Rejection per invalid edge; use multierr.Errors to list them.
func Graph(view EdgeView) error {
	var err error
	for _, e := range view.Edges() {
		err = multierr.Append(err, Check(e, view))
	}
	return err
}

// Rejections unpacks the error returned by Graph.
func Rejections(err error) []*Rejection {
	var out []*Rejection
	for _, e := range multierr.Errors(err) {
		if r, ok := e.(*Rejection); ok {
			out = append(out, r)
		}
	}
	return out
}

func isControlSource(handle string) bool {
	for _, h := range handleid.ControlSources() {
		if h == handle {
			return true
		}
	}
	return false
}
