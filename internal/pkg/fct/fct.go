//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package fct

import (
	"log"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/connmatrix"
	"github.com/gvallee/netsim_analysis/tools/pkg/errors"
)

const (
	// DefaultBinaryLog is the name of the log file the simulator writes next to its output
	DefaultBinaryLog = "logout.dat"

	// PacketPayloadBytes is the empirical payload size of a packet, used to estimate packet counts
	PacketPayloadBytes = 4150

	directStrategyName = "Direct extraction from output file"
	matrixStrategyName = "Calculation from stats"
	binlogStrategyName = "Binary log parsing"

	defaultFlowSource = "default flow"
)

// Flow is the completion data of a single simulated flow
type Flow struct {
	Name           string
	Src            int
	Dst            int
	SizeBytes      int64
	FCTUs          float64
	ThroughputGbps float64

	// Timed is set when the start and end of the flow are known, which is
	// only the case when the flow comes from the connection matrix.
	Timed   bool
	StartUs float64
	EndUs   float64
	Packets int64
}

// Config describes where the FCT data can be found
type Config struct {
	// OutputFile is the text output of the simulator
	OutputFile string

	// ConnectionMatrix is the connection matrix given by the user, it may be empty
	ConnectionMatrix string

	// SearchPaths are probed when ConnectionMatrix does not point to an existing file
	SearchPaths []string

	// BinaryLog is the simulator log file used as last resort
	BinaryLog string
}

// Attempt records that a strategy has been considered. Skipped is set when its
// data source does not exist.
type Attempt struct {
	Strategy string
	Source   string
	Skipped  bool
}

// Result is the outcome of the extraction
type Result struct {
	FCTs      []float64
	Flows     []*Flow
	Strategy  string
	Attempted []Attempt
}

type strategy struct {
	name string
	// run returns the flows it found and the data source it used
	run func(cfg *Config) ([]*Flow, Attempt, error)
}

func throughputGbps(sizeBytes int64, fctUs float64) float64 {
	if sizeBytes <= 0 || fctUs <= 0 {
		return 0
	}
	return float64(sizeBytes) * 8 / (fctUs * 1e-6) / 1e9
}

func estimatePackets(sizeBytes int64) int64 {
	if sizeBytes <= 0 {
		return 0
	}
	return sizeBytes / PacketPayloadBytes
}

func strategies() []strategy {
	return []strategy{
		{
			name: directStrategyName,
			run: func(cfg *Config) ([]*Flow, Attempt, error) {
				flows, err := ExtractFromOutput(cfg.OutputFile)
				return flows, Attempt{Source: cfg.OutputFile}, err
			},
		},
		{
			name: matrixStrategyName,
			run: func(cfg *Config) ([]*Flow, Attempt, error) {
				cm := connmatrix.Find(cfg.ConnectionMatrix, cfg.SearchPaths)
				flows, err := ExtractFromMatrix(cfg.OutputFile, cm)
				if cm == "" {
					return flows, Attempt{Source: defaultFlowSource}, err
				}
				return flows, Attempt{Source: cm}, err
			},
		},
		{
			name: binlogStrategyName,
			run: func(cfg *Config) ([]*Flow, Attempt, error) {
				path := cfg.BinaryLog
				if path == "" {
					path = DefaultBinaryLog
				}
				if !util.FileExists(path) {
					return nil, Attempt{Source: path, Skipped: true}, nil
				}
				return ParseBinaryLog(path), Attempt{Source: path}, nil
			},
		},
	}
}

// Extract tries each extraction strategy in order and returns the result of the
// first one that finds at least one flow completion. When no strategy succeeds,
// the result is returned along with an ErrNoData error so the caller can report
// what was attempted.
func Extract(cfg Config) (*Result, error) {
	res := new(Result)
	for _, s := range strategies() {
		flows, attempt, err := s.run(&cfg)
		if err != nil {
			return res, err
		}
		attempt.Strategy = s.name
		res.Attempted = append(res.Attempted, attempt)
		if attempt.Skipped {
			log.Printf("-> %s: %s not found\n", s.name, attempt.Source)
			continue
		}
		if len(flows) == 0 {
			log.Printf("-> %s: no flow completion found\n", s.name)
			continue
		}

		log.Printf("-> %s: %d flow completion(s) found\n", s.name, len(flows))
		res.Strategy = s.name
		res.Flows = flows
		for _, f := range flows {
			res.FCTs = append(res.FCTs, f.FCTUs)
		}
		return res, nil
	}
	return res, errors.New(errors.ErrNoData, nil)
}
