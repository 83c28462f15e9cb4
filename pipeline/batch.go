// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/A6721jpn/vexis/config"
	"github.com/A6721jpn/vexis/xmldoc"
	"github.com/cpmech/gosl/io"
)

// meshExtensions are the mesh-loader file extensions RunBatch treats
// as one job input each.
var meshExtensions = map[string]bool{".vtk": true}

// RunBatch discovers every mesh file in inputDir, runs each through
// RunJob sequentially against the shared template loaded once from
// templatePath, and returns the process exit code spec.md §6 defines:
// 0 if every job succeeded, 1 if at least one job failed, 2 if
// inputDir contained no mesh files at all.
func RunBatch(ctx context.Context, cfg *config.Config, inputDir, templatePath, tempDir, resultDir string) (int, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return 1, fmt.Errorf("pipeline: creating temp dir %s: %w", tempDir, err)
	}
	if err := os.MkdirAll(resultDir, 0o755); err != nil {
		return 1, fmt.Errorf("pipeline: creating result dir %s: %w", resultDir, err)
	}

	template, err := xmldoc.Load(templatePath)
	if err != nil {
		return 1, fmt.Errorf("pipeline: loading template %s: %w", templatePath, err)
	}
	templateOldMesh, nodeIndex, elemIndex, err := buildOldMesh(template)
	if err != nil {
		return 1, err
	}

	jobs, err := discoverJobs(inputDir, tempDir, resultDir)
	if err != nil {
		return 1, err
	}
	if len(jobs) == 0 {
		io.PfRed("pipeline: no mesh files found in %s\n", inputDir)
		return 2, nil
	}

	anyFailed := false
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return 1, ctx.Err()
		default:
		}
		if err := RunJob(ctx, job, template, templateOldMesh, nodeIndex, elemIndex, cfg); err != nil {
			io.PfRed("[%s] FAILED: %v\n", job.BaseName, err)
			anyFailed = true
			continue
		}
		io.PfGreen("[%s] OK\n", job.BaseName)
	}

	if anyFailed {
		return 1, nil
	}
	return 0, nil
}

// discoverJobs lists inputDir for mesh files and builds one Job per
// file, deriving BaseName from the filename minus its extension, the
// way job_manager.py's AnalysisWorker derives base_name from the
// .step/.stp input filename.
func discoverJobs(inputDir, tempDir, resultDir string) ([]Job, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reading input dir %s: %w", inputDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if meshExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	jobs := make([]Job, len(names))
	for i, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		jobs[i] = Job{
			BaseName:  base,
			MeshPath:  filepath.Join(inputDir, name),
			PartName:  "part",
			TempDir:   tempDir,
			ResultDir: resultDir,
		}
	}
	return jobs, nil
}
