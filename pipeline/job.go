// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline orchestrates a single job's mesh-swap-and-solve
// run end to end: load the swapped-in mesh, align it to the
// template, reconstruct every named selection, rewrite a prepared
// input document, run the solver, and extract results — the stage
// order spec.md §5 fixes as §4.3→§4.4→(§4.5‖§4.2)→§4.6→§4.7→§4.8.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/A6721jpn/vexis/align"
	"github.com/A6721jpn/vexis/config"
	"github.com/A6721jpn/vexis/geom"
	"github.com/A6721jpn/vexis/meshio"
	"github.com/A6721jpn/vexis/reconstruct"
	"github.com/A6721jpn/vexis/results"
	"github.com/A6721jpn/vexis/rewrite"
	"github.com/A6721jpn/vexis/solver"
	"github.com/A6721jpn/vexis/xmldoc"
	"github.com/cpmech/gosl/io"
)

// Job is one unit of batch work: a single swapped-in mesh to run
// against the shared template.
type Job struct {
	// BaseName names every artefact this job produces (<BaseName>.feb,
	// .log, .csv, .png, .err), derived from the mesh input's filename
	// the way job_manager.py derives base_name from the .step/.stp
	// input.
	BaseName string
	MeshPath string
	PartName string // the VTK cell-data array naming each element's part

	TempDir   string
	ResultDir string
}

func (j Job) febPath() string { return filepath.Join(j.TempDir, j.BaseName+".feb") }
func (j Job) logPath() string { return filepath.Join(j.TempDir, j.BaseName+".log") }
func (j Job) errPath() string { return filepath.Join(j.TempDir, j.BaseName+".err") }
func (j Job) csvPath() string { return filepath.Join(j.ResultDir, j.BaseName+".csv") }
func (j Job) pngName() string { return j.BaseName + ".png" }

// jobFatal reports whether err is one of the error kinds that should
// stop just this job (write a .err file, let the batch continue)
// rather than propagate as a programmer bug (spec.md §7's taxonomy).
func jobFatal(err error) bool {
	var tmplMissing *rewrite.ErrTemplateMissingPart
	var lost *reconstruct.SelectionLostError
	var solverFailed *solver.SolverFailedError
	switch {
	case errors.Is(err, meshio.ErrMalformedMesh):
		return true
	case errors.Is(err, meshio.ErrMissingPart):
		return true
	case errors.As(err, &tmplMissing):
		return true
	case errors.As(err, &lost):
		return true
	case errors.As(err, &solverFailed):
		return true
	case errors.Is(err, solver.ErrSolverMissingRuntime):
		return true
	}
	return false
}

// RunJob executes one job's full stage sequence against its own clone
// of the template document. template is loaded once per batch and
// cloned here so each job's mutations never leak into the next job's
// starting point (spec.md §4.6: Document.Clone per job).
//
// Any job-fatal error kind is written to job's .err file and returned;
// RunBatch moves on to the next job regardless. solver.ErrCancelled
// is returned as-is, uncaught, since a cancelled job leaves no
// artefacts to report against (spec.md §5's cancellation guarantee).
func RunJob(ctx context.Context, job Job, template *xmldoc.Document, templateOldMesh *geom.Mesh, templateNodeIndex, templateElemIndex map[int]int, cfg *config.Config) error {
	err := runJobStages(ctx, job, template, templateOldMesh, templateNodeIndex, templateElemIndex, cfg)
	if err == nil {
		return nil
	}
	if errors.Is(err, solver.ErrCancelled) {
		return err
	}
	if jobFatal(err) {
		if writeErr := writeJobError(job.errPath(), err); writeErr != nil {
			return fmt.Errorf("pipeline: job %s failed (%v) and could not write %s: %w", job.BaseName, err, job.errPath(), writeErr)
		}
		return err
	}
	return err
}

func runJobStages(ctx context.Context, job Job, template *xmldoc.Document, templateOldMesh *geom.Mesh, templateNodeIndex, templateElemIndex map[int]int, cfg *config.Config) error {
	io.Pf("[%s] loading mesh %s\n", job.BaseName, job.MeshPath)

	f, err := os.Open(job.MeshPath)
	if err != nil {
		return fmt.Errorf("pipeline: opening mesh %s: %w", job.MeshPath, err)
	}
	newMesh, err := meshio.Load(f, job.PartName)
	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("pipeline: §4.3 loading %s: %w", job.MeshPath, err)
	}
	if closeErr != nil {
		return fmt.Errorf("pipeline: closing %s: %w", job.MeshPath, closeErr)
	}

	delta, err := align.Align(templateOldMesh, newMesh, cfg.Alignment.ReferencePartName)
	if err != nil {
		return fmt.Errorf("pipeline: §4.4 aligning: %w", err)
	}
	io.Pf("[%s] aligned by %v\n", job.BaseName, delta)

	doc := template.Clone()

	old, err := extractOldSelections(template, templateOldMesh, templateNodeIndex, templateElemIndex)
	if err != nil {
		return err
	}
	partners := contactPartners(template)

	tolerances := reconstruct.Context{
		EpsRel:               cfg.Geometry.ToleranceEpsRel,
		NormalAngleDeg:       cfg.Geometry.NormalAngleDeg,
		CrossPartDistanceRel: cfg.Geometry.CrossPartDistanceRel,
	}
	selections, err := resolveRules(templateOldMesh, newMesh, old, partners, reconstruct.BuiltinTable(), tolerances)
	if err != nil {
		return fmt.Errorf("pipeline: §4.5 reconstructing selections: %w", err)
	}

	totalTime := template.TotalSimulatedTime()

	if err := rewrite.Apply(doc, newMesh, selections); err != nil {
		return fmt.Errorf("pipeline: §4.6 rewriting: %w", err)
	}
	if err := rewrite.WriteAtomic(doc, job.febPath()); err != nil {
		return fmt.Errorf("pipeline: §4.6 writing %s: %w", job.febPath(), err)
	}

	io.Pf("[%s] running solver\n", job.BaseName)
	solverOpts := solver.Options{
		PrimaryPath:        cfg.Solver.FebioPath,
		FallbackPath:       cfg.Solver.FebioFallbackPath,
		InputPath:          job.febPath(),
		WorkDir:            job.TempDir,
		LogPath:            job.logPath(),
		TotalSimulatedTime: totalTime,
		OnProgress: func(frac float64) {
			io.Pf("[%s] progress %.1f%%\n", job.BaseName, frac*100)
		},
	}
	if err := solver.Run(ctx, solverOpts); err != nil {
		if errors.Is(err, solver.ErrCancelled) {
			return err
		}
		return fmt.Errorf("pipeline: §4.7 solving: %w", err)
	}

	if err := results.Extract(job.logPath(), job.csvPath(), job.ResultDir, job.pngName(), job.BaseName); err != nil {
		var warn *results.ExtractorWarn
		if errors.As(err, &warn) {
			io.PfYel("[%s] %v\n", job.BaseName, warn)
			return nil
		}
		return fmt.Errorf("pipeline: §4.8 extracting results: %w", err)
	}

	io.Pf("[%s] done\n", job.BaseName)
	return nil
}

func writeJobError(path string, cause error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s: %v\n", errorKind(cause), cause)
	return err
}

// errorKind names the spec.md §7 taxonomy entry a job-fatal error
// belongs to, for the "kind: message" line written to <job>.err.
func errorKind(err error) string {
	var tmplMissing *rewrite.ErrTemplateMissingPart
	var lost *reconstruct.SelectionLostError
	var solverFailed *solver.SolverFailedError
	switch {
	case errors.Is(err, meshio.ErrMalformedMesh):
		return "MalformedMesh"
	case errors.Is(err, meshio.ErrMissingPart):
		return "MissingPart"
	case errors.As(err, &tmplMissing):
		return "TemplateMissingPart"
	case errors.As(err, &lost):
		return "SelectionLost"
	case errors.As(err, &solverFailed):
		return "SolverFailed"
	case errors.Is(err, solver.ErrSolverMissingRuntime):
		return "SolverMissingRuntime"
	}
	return "Error"
}
