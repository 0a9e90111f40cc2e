// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package valuekind

// accepts lists, for each source kind, the target kinds it may feed.
// `any` on either side is handled in Compatible.
var accepts = map[Kind][]Kind{
	String:  {String, Object},
	Number:  {Number, Object},
	Boolean: {Boolean, Object},
	Object:  {Object},
	Array:   {Array, Object},
	Null:    {},
}

// Compatible reports whether a value of kind source may flow into a slot of
// kind target. Invalid kinds are never compatible.
func Compatible(source, target Kind) bool {
	if !source.Valid() || !target.Valid() {
		return false
	}
	if source == Any || target == Any {
		return true
	}
	for _, k := range accepts[source] {
		if k == target {
			return true
		}
	}
	return false
}

// Targets returns the target kinds a source kind is compatible with, in the
// order of All.
func Targets(source Kind) []Kind {
	var out []Kind
	for _, k := range All() {
		if Compatible(source, k) {
			out = append(out, k)
		}
	}
	return out
}
