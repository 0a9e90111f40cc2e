// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package handleid provides a structured representation of the handle
identifiers that name connection points on a node.

Two families exist:

	data:    input-<slot> (target), output (source)
	control: flow-top (target), flow-bottom, flow-then, flow-else, flow-loop (sources)

The package centralises the formatting and parsing of these identifiers so
that no other package compares raw handle strings by prefix.
*/
package handleid
