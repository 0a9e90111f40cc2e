// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vk/blockgrid/internal/valuekind"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Document is the serialisable form of a graph.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type inputJSON struct {
	HandleID string          `json:"handleId"`
	Kind     valuekind.Kind  `json:"valueKind"`
	Value    json.RawMessage `json:"value"`
	Required bool            `json:"required,omitempty"`
}

type outputJSON struct {
	HandleID string          `json:"handleId"`
	Kind     valuekind.Kind  `json:"valueKind"`
	Value    json.RawMessage `json:"value"`
}

type nodeJSON struct {
	ID        string           `json:"id"`
	BlockType string           `json:"blockType"`
	Inputs    map[string]Input `json:"inputs"`
	Output    *Output          `json:"output,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	inputs := n.Inputs
	if inputs == nil {
		inputs = map[string]Input{}
	}
	return json.Marshal(nodeJSON{ID: n.ID, BlockType: n.BlockType, Inputs: inputs, Output: n.Output})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.ID == "" {
		return fmt.Errorf("node is missing an id")
	}
	n.ID = raw.ID
	n.BlockType = raw.BlockType
	n.Inputs = raw.Inputs
	if n.Inputs == nil {
		n.Inputs = map[string]Input{}
	}
	n.Output = raw.Output
	return nil
}

// MarshalJSON implements json.Marshaler.
func (in Input) MarshalJSON() ([]byte, error) {
	v, err := EncodeValue(in.Value)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", in.HandleID, err)
	}
	return json.Marshal(inputJSON{HandleID: in.HandleID, Kind: in.Kind, Value: v, Required: in.Required})
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *Input) UnmarshalJSON(b []byte) error {
	var raw inputJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := DecodeValue(raw.Value)
	if err != nil {
		return fmt.Errorf("input %s: %w", raw.HandleID, err)
	}
	*in = Input{HandleID: raw.HandleID, Kind: raw.Kind, Value: v, Required: raw.Required}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Output) MarshalJSON() ([]byte, error) {
	v, err := EncodeValue(o.Value)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return json.Marshal(outputJSON{HandleID: o.HandleID, Kind: o.Kind, Value: v})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Output) UnmarshalJSON(b []byte) error {
	var raw outputJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := DecodeValue(raw.Value)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	*o = Output{HandleID: raw.HandleID, Kind: raw.Kind, Value: v}
	return nil
}

var jsonNull = []byte("null")

// EncodeValue renders a slot value as JSON. Null and unset values become
// `null`.
func EncodeValue(v cty.Value) (json.RawMessage, error) {
	if IsUnchanged(v) || v.IsNull() {
		return jsonNull, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("cannot encode an unknown value")
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeValue parses a JSON slot value, inferring its type.
func DecodeValue(raw json.RawMessage) (cty.Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	t, err := ctyjson.ImpliedType(trimmed)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to infer value type: %w", err)
	}
	v, err := ctyjson.Unmarshal(trimmed, t)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to decode value: %w", err)
	}
	return v, nil
}
