// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package validate decides whether a proposed edge may join a graph.
//
// Checks run in a fixed order: self-loops and unknown endpoints first, then
// control pairs (always accepted when a control source meets flow-top), then
// the cross-family rule, and finally data edges, which are judged on the
// declared kinds of the source output and the target slot. Runtime values are
// never inspected.
//
// Every function here is pure. The same check gates interactive connection
// attempts and batch validation of a loaded document.
package validate
