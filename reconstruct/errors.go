// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import "fmt"

// SelectionLostError reports that a named selection which was
// non-empty in the template came out empty after reconstruction
// against the new mesh — an input the solver would accept silently
// but with no active boundary condition (spec.md §4.5, §7).
type SelectionLostError struct {
	Name string
}

func (e *SelectionLostError) Error() string {
	return fmt.Sprintf("reconstruct: selection %q lost after mesh swap", e.Name)
}

// CheckNonEmpty enforces the non-empty invariant: if the selection
// was non-empty in the template, it must stay non-empty after
// reconstruction, or the job fails with SelectionLostError(name).
func CheckNonEmpty(name string, wasNonEmpty bool, result Result) error {
	if wasNonEmpty && result.Empty() {
		return &SelectionLostError{Name: name}
	}
	return nil
}
