//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

// Package config loads the optional YAML description of a core variance analysis.
//
// Example:
//
//	telemetry_file: core_queue_usage.txt
//	result_dirs:
//	  - ecmp_results
//	  - ops_results
//	  - reps_results
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CoreVariance is the configuration of the core variance analyzer
type CoreVariance struct {
	ResultDirs    []string `yaml:"result_dirs"`
	TelemetryFile string   `yaml:"telemetry_file"`
	Table         bool     `yaml:"table"`
}

// Load reads a configuration file. Relative result directories are relative to the
// directory of the configuration file.
func Load(path string) (*CoreVariance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := new(CoreVariance)
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, d := range cfg.ResultDirs {
		if !filepath.IsAbs(d) {
			cfg.ResultDirs[i] = filepath.Join(base, d)
		}
	}
	if strings.ContainsRune(cfg.TelemetryFile, os.PathSeparator) {
		return nil, fmt.Errorf("invalid configuration %s: telemetry_file must be a file name, not a path", path)
	}
	return cfg, nil
}

// ParseDirList converts a comma separated list of directories; empty entries are ignored
func ParseDirList(str string) []string {
	var dirs []string
	for _, d := range strings.Split(str, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
