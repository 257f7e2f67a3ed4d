//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package connmatrix

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/input"
)

const (
	flowToken  = "->"
	sizeToken  = "size"
	startToken = "start"
)

// DefaultSearchPaths is the list of conventional locations of the connection matrix,
// relative to the directory where the simulation ran.
var DefaultSearchPaths = []string{
	"../../connection_matrices/cm_assignment2/one.cm",
	"../../connection_matrices/assignment2/one.cm",
	"../connection_matrices/cm_assignment2/one.cm",
	"connection_matrices/cm_assignment2/one.cm",
}

// Flow is an intended flow as described by a connection matrix
type Flow struct {
	Src         int
	Dst         int
	SizeBytes   int64
	StartTimeUs float64
}

// Name returns the name used in reports for the flow
func (f Flow) Name() string {
	return fmt.Sprintf("flow_%d_%d", f.Src, f.Dst)
}

// Tag returns the identifier the simulator uses for the flow's connection in its logs
func (f Flow) Tag() string {
	return fmt.Sprintf("Uec_%d_%d", f.Src, f.Dst)
}

func parseEndpoints(token string) (int, int, bool) {
	tokens := strings.Split(token, flowToken)
	if len(tokens) != 2 {
		return 0, 0, false
	}
	src, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, 0, false
	}
	dst, err := strconv.Atoi(tokens[1])
	if err != nil {
		return 0, 0, false
	}
	return src, dst, true
}

// ParseLine parses a flow descriptor. It returns false when the line does not
// describe a flow, and an error when the size or start value is malformed.
func ParseLine(line string) (Flow, bool, error) {
	var f Flow
	if !strings.Contains(line, flowToken) {
		return f, false, nil
	}

	tokens := strings.Fields(line)
	found := false
	for _, t := range tokens {
		if strings.Contains(t, flowToken) {
			f.Src, f.Dst, found = parseEndpoints(t)
			break
		}
	}

	for i, t := range tokens {
		if i+1 >= len(tokens) {
			break
		}
		switch t {
		case sizeToken:
			size, err := strconv.ParseInt(tokens[i+1], 10, 64)
			if err != nil {
				return f, false, fmt.Errorf("invalid flow size in %q: %w", line, err)
			}
			f.SizeBytes = size
		case startToken:
			start, err := strconv.ParseFloat(tokens[i+1], 64)
			if err != nil {
				return f, false, fmt.Errorf("invalid start time in %q: %w", line, err)
			}
			f.StartTimeUs = start
		}
	}

	return f, found, nil
}

// Parse reads all the flows from a connection matrix
func Parse(reader io.Reader) ([]Flow, error) {
	var flows []Flow
	err := input.ForEachLine(reader, func(line string) error {
		f, ok, err := ParseLine(line)
		if err != nil {
			return err
		}
		if ok {
			flows = append(flows, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flows, nil
}

// Load parses the connection matrix stored in path
func Load(path string) ([]Flow, error) {
	r, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	flows, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	log.Printf("-> %d flow(s) loaded from %s\n", len(flows), path)
	return flows, nil
}

// Find returns explicit if it exists, otherwise the first candidate that exists.
// It returns an empty string when no connection matrix can be found.
func Find(explicit string, candidates []string) string {
	if explicit != "" && util.FileExists(explicit) {
		return explicit
	}
	for _, c := range candidates {
		if util.FileExists(c) {
			return c
		}
	}
	return ""
}
