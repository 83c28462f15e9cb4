// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"

	"github.com/A6721jpn/vexis/geom"
	"github.com/A6721jpn/vexis/reconstruct"
	"github.com/A6721jpn/vexis/rewrite"
)

// resolveRules builds the rewrite.Selection for every named selection
// the template declares, choosing each one's reconstruction rule in
// priority order: an exact-name entry in table, else a geometric
// default. Surfaces that take part in a contact pair get a two-pass
// treatment, because the same-part/cross-part question spec.md §4.5
// requires be answered against the NEW mesh can only be answered
// once both sides of the pair have a provisional rule to apply
// (set_reconstructor.py instead answers it from the OLD document,
// which the port deliberately does not replicate).
func resolveRules(oldMesh, newMesh *geom.Mesh, old map[string]oldSelection, partners map[string]string, table reconstruct.Table, tolerances reconstruct.Context) (map[string]rewrite.Selection, error) {
	out := make(map[string]rewrite.Selection, len(old))
	resolved := make(map[string]reconstruct.Rule, len(old))

	ctxFor := func(part string) *reconstruct.Context {
		c := tolerances
		c.OldMesh = oldMesh
		c.NewMesh = newMesh
		c.Part = part
		return &c
	}

	provisionalRule := func(name string) reconstruct.Rule {
		if r, ok := table.Lookup(name); ok {
			return r
		}
		sel := old[name]
		return reconstruct.InferRule(oldMesh, sel.Part, sel.OldPoints)
	}

	for name, sel := range old {
		if sel.Kind != reconstruct.SurfaceKind {
			continue
		}
		if _, already := resolved[name]; already {
			continue
		}
		partner, isContact := partners[name]
		if !isContact {
			continue
		}
		partnerSel, ok := old[partner]
		if !ok {
			continue
		}

		selfRule := provisionalRule(name)
		partnerRule := provisionalRule(partner)

		selfFaces := selfRule.Apply(ctxFor(sel.Part)).Faces
		partnerFaces := partnerRule.Apply(ctxFor(partnerSel.Part)).Faces

		same := false
		if len(selfFaces) > 0 && len(partnerFaces) > 0 {
			var err error
			same, _, _, err = reconstruct.SamePart(newMesh, selfFaces, partnerFaces)
			if err != nil {
				return nil, fmt.Errorf("pipeline: resolving contact pair %q/%q: %w", name, partner, err)
			}
		}

		_, selfHasEntry := table.Lookup(name)
		_, partnerHasEntry := table.Lookup(partner)
		if !selfHasEntry {
			selfRule = reconstruct.DefaultRuleForContactSide(same, partnerSel.Part, reconstruct.InferRule(oldMesh, sel.Part, sel.OldPoints))
		}
		if !partnerHasEntry {
			partnerRule = reconstruct.DefaultRuleForContactSide(same, sel.Part, reconstruct.InferRule(oldMesh, partnerSel.Part, partnerSel.OldPoints))
		}
		if err := reconstruct.CheckContactPolicy(same, selfRule, partnerRule); err != nil {
			return nil, fmt.Errorf("pipeline: contact pair %q/%q: %w", name, partner, err)
		}

		resolved[name] = selfRule
		resolved[partner] = partnerRule
	}

	for name, sel := range old {
		rule, ok := resolved[name]
		if !ok {
			if sel.Kind == reconstruct.ElementSetKind {
				// table never carries ElementSetKind entries (it is
				// always BuiltinTable, which only names surfaces), so
				// this always falls through to InferRule, whose
				// RelativeBounds output below is read as node ids.
				rule, _ = table.Lookup(name)
				if rule == nil {
					rule = reconstruct.InferRule(oldMesh, sel.Part, sel.OldPoints)
				}
			} else {
				rule = provisionalRule(name)
			}
		}

		result := rule.Apply(ctxFor(sel.Part))
		if sel.Kind == reconstruct.ElementSetKind {
			result = reconstruct.Result{IDs: reconstruct.ElementsWithAllNodesIn(newMesh, sel.Part, result.IDs)}
		}

		if err := reconstruct.CheckNonEmpty(name, sel.NonEmpty, result); err != nil {
			return nil, err
		}

		out[name] = rewrite.Selection{Kind: sel.Kind, Result: result}
	}

	return out, nil
}
