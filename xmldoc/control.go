// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmldoc

import (
	"strconv"

	"github.com/beevik/etree"
)

// TotalSimulatedTime implements Control discovery (spec.md §4.2):
// recursively finds every <Control> block, including those nested
// inside step sub-blocks, and sums steps × dt across all of them.
// A block missing either value contributes zero rather than erroring,
// since not every <Control> block declares a time_steps section.
func (d *Document) TotalSimulatedTime() float64 {
	var total float64
	for _, ctrl := range d.ControlBlocks() {
		steps, dt, ok := stepsAndDt(ctrl)
		if ok {
			total += steps * dt
		}
	}
	return total
}

// stepsAndDt reads the <time_steps> and <step_size> children of a
// single <Control> block. Both must parse as numbers for the block to
// contribute to the total.
func stepsAndDt(ctrl *etree.Element) (steps, dt float64, ok bool) {
	stepsEl := ctrl.SelectElement("time_steps")
	dtEl := ctrl.SelectElement("step_size")
	if stepsEl == nil || dtEl == nil {
		return 0, 0, false
	}
	steps, err1 := strconv.ParseFloat(stepsEl.Text(), 64)
	dt, err2 := strconv.ParseFloat(dtEl.Text(), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return steps, dt, true
}
