// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package valuekind defines the closed set of value categories carried by
// data handles and the compatibility rules used when two handles are
// connected.
//
// A Kind is deliberately coarser than a cty.Type: a template may declare
// `list(string)` or `object({ id = string })`, but for connection purposes
// both collapse to `array` and `object`. Compatibility is decided on kinds
// alone, never on the runtime value a handle happens to hold.
package valuekind
