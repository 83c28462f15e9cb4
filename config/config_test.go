// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
solver:
  febio_path: /opt/febio/febio4
alignment:
  reference_part_name: dome
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vexis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaultsForUnsetKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.Equal(t, "/opt/febio/febio4", cfg.Solver.FebioPath)
	require.Equal(t, "dome", cfg.Alignment.ReferencePartName)
	require.InDelta(t, 1e-6, cfg.Geometry.ToleranceEpsRel, 1e-12)
	require.InDelta(t, 45.0, cfg.Geometry.NormalAngleDeg, 1e-9)
	require.InDelta(t, 0.05, cfg.Geometry.CrossPartDistanceRel, 1e-9)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, "geometry:\n  tolerance_eps_rel: 1e-5\n"))
	require.Error(t, err)
}

func TestLoadHonoursEnvironmentOverride(t *testing.T) {
	t.Setenv("VEXIS_SOLVER_FEBIO_PATH", "/opt/febio/febio4-patched")
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.Equal(t, "/opt/febio/febio4-patched", cfg.Solver.FebioPath)
}

func TestValidateRejectsNonPositiveTolerance(t *testing.T) {
	cfg := &Config{
		Solver:    SolverConfig{FebioPath: "x"},
		Alignment: AlignmentConfig{ReferencePartName: "dome"},
		Geometry:  GeometryConfig{ToleranceEpsRel: 0, CrossPartDistanceRel: 0.05},
	}
	require.Error(t, cfg.Validate())
}
