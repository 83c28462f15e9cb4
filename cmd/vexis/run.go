// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/A6721jpn/vexis/config"
	"github.com/A6721jpn/vexis/pipeline"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every mesh in --input-dir through the template and solver, writing results to --result-dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputDir, err := cmd.Flags().GetString("input-dir")
		if err != nil {
			return err
		}
		template, err := cmd.Flags().GetString("template")
		if err != nil {
			return err
		}
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		tempDir, err := cmd.Flags().GetString("temp-dir")
		if err != nil {
			return err
		}
		resultDir, err := cmd.Flags().GetString("result-dir")
		if err != nil {
			return err
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		code, err := pipeline.RunBatch(ctx, cfg, inputDir, template, tempDir, resultDir)
		if err != nil {
			return err
		}
		exitCode = code
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("input-dir", "", "directory of mesh files to swap in, one job per file (required)")
	runCmd.Flags().String("template", "", "path to the template .feb input document (required)")
	runCmd.Flags().String("config", "", "path to the configuration file (required)")
	runCmd.Flags().String("temp-dir", "temp", "directory for per-job prepared .feb/.log files")
	runCmd.Flags().String("result-dir", "results", "directory for per-job .csv/.png outputs")
	_ = runCmd.MarkFlagRequired("input-dir")
	_ = runCmd.MarkFlagRequired("template")
	_ = runCmd.MarkFlagRequired("config")
}
