// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

// Table is a name → Rule mapping keyed by the exact named-selection
// name (spec.md §4.5: "rules are keyed by exact name").
type Table map[string]Rule

// Lookup returns the rule bound to name, or ok=false if the table has
// no entry for it — callers fall back to InferRule in that case.
func (t Table) Lookup(name string) (Rule, bool) {
	r, ok := t[name]
	return r, ok
}

// BuiltinTable returns the two hardcoded name -> geometric-rule entries
// the mesh swap always injects regardless of configuration, grounded
// on original_source/src/mesh_swap/mesh_replacer.py's "INJECT MISSING
// SURFACE RULES" block: the rubber dome's bottom contact surface and
// the top indenter contact surface are named consistently enough
// across templates that a geometric rule, not per-name inference, is
// the reliable default. The pipeline uses this table as-is for every
// job; no configured entries are merged into it.
func BuiltinTable() Table {
	return Table{
		"RUBBER_BOTTOM_CONTACTPrimary": ZDownExceptBottom{},
		"TOP_CONTACTPrimary":           ZUp{},
	}
}
