// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package handleid

import (
	"fmt"
	"strings"
)

const (
	Output     = "output"
	FlowTop    = "flow-top"
	FlowBottom = "flow-bottom"
	FlowThen   = "flow-then"
	FlowElse   = "flow-else"
	FlowLoop   = "flow-loop"

	inputPrefix = "input-"
)

// Family separates value-carrying handles from ordering handles.
type Family int

const (
	FamilyData Family = iota + 1
	FamilyControl
)

func (f Family) String() string {
	switch f {
	case FamilyData:
		return "data"
	case FamilyControl:
		return "control"
	default:
		return "unknown"
	}
}

// Role says which end of an edge a handle may sit on.
type Role int

const (
	RoleSource Role = iota + 1
	RoleTarget
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Handle is a parsed handle identifier.
type Handle struct {
	ID     string
	Family Family
	Role   Role
	// Slot is the input slot name for input-* handles, empty otherwise.
	Slot string
}

// Parse classifies a raw handle identifier.
func Parse(raw string) (Handle, error) {
	switch raw {
	case "":
		return Handle{}, fmt.Errorf("handle identifier cannot be empty")
	case Output:
		return Handle{ID: raw, Family: FamilyData, Role: RoleSource}, nil
	case FlowTop:
		return Handle{ID: raw, Family: FamilyControl, Role: RoleTarget}, nil
	case FlowBottom, FlowThen, FlowElse, FlowLoop:
		return Handle{ID: raw, Family: FamilyControl, Role: RoleSource}, nil
	}

	// Any non-empty slot name is accepted; whether the slot exists is the
	// node's business.
	if slot, ok := strings.CutPrefix(raw, inputPrefix); ok {
		if slot == "" {
			return Handle{}, fmt.Errorf("missing input slot name in handle %q", raw)
		}
		return Handle{ID: raw, Family: FamilyData, Role: RoleTarget, Slot: slot}, nil
	}

	if strings.HasPrefix(raw, "flow-") {
		return Handle{}, fmt.Errorf("unknown control handle %q", raw)
	}
	return Handle{}, fmt.Errorf("unknown handle %q", raw)
}

// Input returns the handle identifier of an input slot.
func Input(slot string) string {
	return inputPrefix + slot
}

// IsControl reports whether raw names a control handle. It only looks at the
// family prefix, so unknown flow-* names still count as control.
func IsControl(raw string) bool {
	return strings.HasPrefix(raw, "flow-")
}

// IsData reports whether raw names a data handle.
func IsData(raw string) bool {
	return raw == Output || strings.HasPrefix(raw, inputPrefix)
}

// ControlSources lists the control source handles in traversal order:
// branches first, the linear successor last.
func ControlSources() []string {
	return []string{FlowThen, FlowElse, FlowLoop, FlowBottom}
}

// IsBranch reports whether raw is one of the branch-specific sources.
func IsBranch(raw string) bool {
	return raw == FlowThen || raw == FlowElse || raw == FlowLoop
}
