// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package resolver derives execution paths from the control edges of a
// graph.
//
// A path is produced by a depth-first walk with an explicit frame stack.
// From each node the successors are visited in a fixed handle order:
// flow-then, flow-else, flow-loop and finally flow-bottom. A branch body is
// therefore listed before the linear successor of the node that owns it, and
// every Step records which handle produced it and how deeply it is nested.
//
// The walk never re-enters a visited node, so cyclic control graphs always
// terminate. Back edges and extra edges leaving the same handle are reported
// as warnings on the Path; they never fail resolution. The only error is an
// unknown start node.
package resolver
