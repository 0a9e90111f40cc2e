// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package blocks holds the static, per-block-type defaults used when a node
// is first created: its initial input slots, its output record, which slot
// (if any) selects a catalog template, and which branch handles it exposes.
//
// Built-in control blocks (START, CONST, GET, SET, IF, REPEAT, PRINT) are
// declared here. Any block type that owns templates in the catalog is a
// provider block and receives the provider defaults: a `function` selector
// and a `network` context slot.
package blocks
