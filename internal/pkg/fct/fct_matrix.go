//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package fct

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gvallee/netsim_analysis/tools/internal/pkg/connmatrix"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/input"
)

var eventRegex = regexp.MustCompile(`^(\d+\.\d+)\s+DCTCP`)

// DefaultFlow is the flow assumed when no connection matrix describes the simulation
var DefaultFlow = connmatrix.Flow{
	Src:         0,
	Dst:         16,
	SizeBytes:   2000000000,
	StartTimeUs: 0,
}

type flowEvents struct {
	flow  connmatrix.Flow
	tag   string
	seen  bool
	first float64
	last  float64
}

func scanEvents(reader io.Reader, events []*flowEvents) error {
	return input.ForEachLine(reader, func(line string) error {
		loc := eventRegex.FindStringSubmatchIndex(line)
		if loc == nil {
			return nil
		}
		t, err := strconv.ParseFloat(line[loc[2]:loc[3]], 64)
		if err != nil {
			return err
		}
		rest := line[loc[1]:]
		for _, e := range events {
			if !strings.Contains(rest, e.tag) {
				continue
			}
			if !e.seen {
				e.first = t
				e.seen = true
			}
			e.last = t
		}
		return nil
	})
}

func flowsFromEvents(events []*flowEvents) []*Flow {
	var flows []*Flow
	for _, e := range events {
		if !e.seen {
			continue
		}
		start := e.flow.StartTimeUs
		if start == 0 {
			start = e.first
		}
		fct := e.last - start
		if fct <= 0 {
			continue
		}
		flows = append(flows, &Flow{
			Name:           e.flow.Name(),
			Src:            e.flow.Src,
			Dst:            e.flow.Dst,
			SizeBytes:      e.flow.SizeBytes,
			FCTUs:          fct,
			ThroughputGbps: throughputGbps(e.flow.SizeBytes, fct),
			Timed:          true,
			StartUs:        start,
			EndUs:          e.last,
			Packets:        estimatePackets(e.flow.SizeBytes),
		})
	}
	return flows
}

// ComputeFromEvents derives the FCT of each flow from the congestion control events
// the simulator logs for the flow's connection.
func ComputeFromEvents(reader io.Reader, cmFlows []connmatrix.Flow) ([]*Flow, error) {
	if len(cmFlows) == 0 {
		cmFlows = []connmatrix.Flow{DefaultFlow}
	}

	var events []*flowEvents
	for _, f := range cmFlows {
		events = append(events, &flowEvents{flow: f, tag: f.Tag()})
	}

	err := scanEvents(reader, events)
	if err != nil {
		return nil, err
	}
	return flowsFromEvents(events), nil
}

// ExtractFromMatrix computes the FCT of the flows described in the connection
// matrix cmFile. An empty cmFile means the default flow is used.
func ExtractFromMatrix(outputFile string, cmFile string) ([]*Flow, error) {
	var cmFlows []connmatrix.Flow
	if cmFile != "" {
		var err error
		cmFlows, err = connmatrix.Load(cmFile)
		if err != nil {
			return nil, err
		}
	}

	r, err := input.Open(outputFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	flows, err := ComputeFromEvents(r, cmFlows)
	if err != nil {
		return nil, fmt.Errorf("unable to scan %s: %w", outputFile, err)
	}
	return flows, nil
}
