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

	"github.com/gvallee/netsim_analysis/tools/internal/pkg/input"
)

// Completion lines, the most specific pattern first
var completionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Flow\s+(\S+)\s+finished\s+at\s+(\d+\.?\d*)\s+total\s+bytes\s+(\d+)`),
	regexp.MustCompile(`(?i)Flow\s+(\S+).*finished.*at\s+(\d+\.?\d*)`),
}

func parseCompletionLine(line string) (*Flow, error) {
	for _, re := range completionPatterns {
		matches := re.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		f := new(Flow)
		f.Name = matches[1]
		fct, err := strconv.ParseFloat(matches[2], 64)
		if err != nil {
			return nil, err
		}
		f.FCTUs = fct
		if len(matches) > 3 {
			f.SizeBytes, err = strconv.ParseInt(matches[3], 10, 64)
			if err != nil {
				return nil, err
			}
		}
		f.ThroughputGbps = throughputGbps(f.SizeBytes, f.FCTUs)
		return f, nil
	}
	return nil, nil
}

func extractCompletions(reader io.Reader) ([]*Flow, error) {
	var flows []*Flow
	err := input.ForEachLine(reader, func(line string) error {
		f, err := parseCompletionLine(line)
		if err != nil {
			return err
		}
		if f != nil {
			flows = append(flows, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flows, nil
}

// ExtractFromOutput looks for explicit flow completion lines in the simulator's output.
// The reported completion time is used as the FCT.
func ExtractFromOutput(outputFile string) ([]*Flow, error) {
	r, err := input.Open(outputFile)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	flows, err := extractCompletions(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", outputFile, err)
	}
	return flows, nil
}
