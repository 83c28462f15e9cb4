// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
)

// main recovers from a genuine programmer bug — job errors never
// panic past pipeline.RunJob — and prints a diagnostic before
// exiting, matching the teacher's top-level main.go defer-recover
// pattern (there it guards the FEM solve loop; here it guards cobra's
// command dispatch).
func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "vexis: internal error: %v\n", r)
			os.Exit(1)
		}
	}()
	os.Exit(Execute())
}
