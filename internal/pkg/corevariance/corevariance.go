//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package corevariance

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/input"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/stats"
	"github.com/gvallee/netsim_analysis/tools/pkg/errors"
	"golang.org/x/exp/slices"
)

const (
	// DefaultFilename is the name of the telemetry file in each result directory
	DefaultFilename = "core_queue_usage.txt"

	coreToken  = "Switch_Core_"
	lastQToken = "LastQ"
)

// DefaultResultDirs are the result directories of the load balancing schemes we compare
var DefaultResultDirs = []string{"ecmp_results", "ops_results", "reps_results"}

var (
	coreRegex  = regexp.MustCompile(`Name\s+Switch_Core_(\d+)`)
	lastQRegex = regexp.MustCompile(`LastQ\s+(\d+)`)
)

// CoreAverage is the average LastQ of a switch core
type CoreAverage struct {
	Core    int
	Samples int
	Avg     float64
}

// DirResult is the analysis of a single result directory
type DirResult struct {
	Dir       string
	Cores     []CoreAverage
	PVariance float64
	Variance  float64
}

// Averages returns the per-core averages ordered by core ID
func (r *DirResult) Averages() []float64 {
	var avgs []float64
	for _, c := range r.Cores {
		avgs = append(avgs, c.Avg)
	}
	return avgs
}

func parseSample(line string) (int, int64, bool) {
	if !strings.Contains(line, coreToken) || !strings.Contains(line, lastQToken) {
		return 0, 0, false
	}

	coreMatch := coreRegex.FindStringSubmatch(line)
	lastQMatch := lastQRegex.FindStringSubmatch(line)
	if coreMatch == nil || lastQMatch == nil {
		return 0, 0, false
	}

	core, err := strconv.Atoi(coreMatch[1])
	if err != nil {
		return 0, 0, false
	}
	lastQ, err := strconv.ParseInt(lastQMatch[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return core, lastQ, true
}

// LoadSamples reads the LastQ samples of a telemetry file, grouped by core ID
func LoadSamples(reader io.Reader) (map[int][]int64, error) {
	samples := make(map[int][]int64)
	err := input.ForEachLine(reader, func(line string) error {
		core, lastQ, ok := parseSample(line)
		if ok {
			samples[core] = append(samples[core], lastQ)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

// Compute derives the per-core averages and their variances from the samples
func Compute(dir string, samples map[int][]int64) *DirResult {
	res := &DirResult{Dir: dir}

	var cores []int
	for core := range samples {
		cores = append(cores, core)
	}
	slices.Sort(cores)

	for _, core := range cores {
		vals := samples[core]
		sum := 0.0
		for _, v := range vals {
			sum += float64(v)
		}
		res.Cores = append(res.Cores, CoreAverage{
			Core:    core,
			Samples: len(vals),
			Avg:     sum / float64(len(vals)),
		})
	}

	avgs := res.Averages()
	res.PVariance = stats.PVariance(avgs)
	res.Variance = stats.Variance(avgs)
	return res
}

// AnalyzeDir analyzes the telemetry file filename of a result directory. A missing
// telemetry file is reported as an ErrNotFound error.
func AnalyzeDir(dir string, filename string) (*DirResult, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	path := filepath.Join(dir, filename)
	if !util.FileExists(path) {
		return nil, errors.New(errors.ErrNotFound, fmt.Errorf("%s", path))
	}

	r, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	samples, err := LoadSamples(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	log.Printf("-> %d core(s) found in %s\n", len(samples), path)
	return Compute(dir, samples), nil
}
