// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command vexis wires the batch pipeline behind a cobra CLI: one root
// command and a single "run" subcommand, grounded on the pack's
// cobra-based CLI shape (persistent flags set up in init, RunE
// returning errors to cobra instead of calling os.Exit from inner
// logic).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCode is set by runE on a successful batch invocation to the
// spec.md §6 process exit code (0/1/2). If RunE returns an error it is
// left unset and Execute returns 1 instead.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "vexis",
	Short: "VEXIS-CAE — mesh-swap and FEA batch runner for axisymmetric dome buckling analyses",
}

// Execute runs the command tree and returns the process exit code the
// caller should pass to os.Exit.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}
