// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads VEXIS-CAE's configuration file (spec.md §6):
// solver executable paths, geometry tolerances, and the alignment
// reference part, with viper-backed defaults and environment-variable
// overrides, shaped after the pack's viper config loader.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SolverConfig names the external FEA solver executable and its
// dll-not-found fallback.
type SolverConfig struct {
	FebioPath         string `mapstructure:"febio_path"`
	FebioFallbackPath string `mapstructure:"febio_fallback_path"`
}

// GeometryConfig holds the Geometry Kernel's tolerances (spec.md §4.2).
type GeometryConfig struct {
	ToleranceEpsRel      float64 `mapstructure:"tolerance_eps_rel"`
	NormalAngleDeg       float64 `mapstructure:"normal_angle_deg"`
	CrossPartDistanceRel float64 `mapstructure:"cross_part_distance_rel"`
}

// AlignmentConfig names the part whose old/new bbox corner the Aligner
// matches (spec.md §4.4).
type AlignmentConfig struct {
	ReferencePartName string `mapstructure:"reference_part_name"`
}

// Config is the fully resolved, validated configuration for a batch
// run.
type Config struct {
	Solver    SolverConfig    `mapstructure:"solver"`
	Geometry  GeometryConfig  `mapstructure:"geometry"`
	Alignment AlignmentConfig `mapstructure:"alignment"`
}

// SetDefaults installs every default spec.md §6 names; FebioPath and
// ReferencePartName have no sane default and are left empty so
// Validate can reject a config that never sets them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("solver.febio_path", "")
	v.SetDefault("solver.febio_fallback_path", "")
	v.SetDefault("geometry.tolerance_eps_rel", 1e-6)
	v.SetDefault("geometry.normal_angle_deg", 45.0)
	v.SetDefault("geometry.cross_part_distance_rel", 0.05)
	v.SetDefault("alignment.reference_part_name", "")
}

// Load reads path (format inferred from its extension by viper),
// applies defaults, allows VEXIS_-prefixed environment variable
// overrides (e.g. VEXIS_SOLVER_FEBIO_PATH), and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("VEXIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the two required fields spec.md §6 marks
// "(required)" and rejects non-positive tolerances.
func (c *Config) Validate() error {
	if c.Solver.FebioPath == "" {
		return fmt.Errorf("config: solver.febio_path is required")
	}
	if c.Alignment.ReferencePartName == "" {
		return fmt.Errorf("config: alignment.reference_part_name is required")
	}
	if c.Geometry.ToleranceEpsRel <= 0 {
		return fmt.Errorf("config: geometry.tolerance_eps_rel must be positive")
	}
	if c.Geometry.CrossPartDistanceRel <= 0 {
		return fmt.Errorf("config: geometry.cross_part_distance_rel must be positive")
	}
	return nil
}
