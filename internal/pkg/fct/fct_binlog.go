//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package fct

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/gvallee/netsim_analysis/tools/internal/pkg/input"
	"github.com/gvallee/netsim_analysis/tools/pkg/errors"
)

const (
	commentToken    = "#"
	numRecordsToken = "numrecords"
)

var numRecordsRegex = regexp.MustCompile(`numrecords=(\d+)`)

// BinaryLogHeader is the textual header of the simulator's binary log
type BinaryLogHeader struct {
	NumRecords int
}

// ReadBinaryLogHeader reads the textual lines of the log until the record count
// declaration is found.
func ReadBinaryLogHeader(reader *bufio.Reader) (*BinaryLogHeader, error) {
	for {
		line, readerErr := reader.ReadString('\n')
		if readerErr != nil && readerErr != io.EOF {
			return nil, readerErr
		}

		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, commentToken) && strings.Contains(line, numRecordsToken) {
			matches := numRecordsRegex.FindStringSubmatch(line)
			if matches != nil {
				n, err := strconv.Atoi(matches[1])
				if err != nil {
					return nil, errors.New(errors.ErrInvalidHeader, err)
				}
				return &BinaryLogHeader{NumRecords: n}, nil
			}
		}

		if readerErr == io.EOF {
			break
		}
	}
	return nil, errors.New(errors.ErrInvalidHeader, fmt.Errorf("no %s declaration", numRecordsToken))
}

// ParseBinaryLog is the last resort strategy. Only the header of the log is
// understood, the binary records themselves are not decoded so no flow is ever
// returned. Problems are reported as warnings.
func ParseBinaryLog(path string) []*Flow {
	r, err := input.Open(path)
	if err != nil {
		fmt.Printf("Warning: Could not parse binary log: %s\n", err)
		return nil
	}
	defer r.Close()

	hdr, err := ReadBinaryLogHeader(bufio.NewReader(r))
	if err != nil {
		fmt.Printf("Warning: Could not parse binary log: %s\n", err)
		return nil
	}
	log.Printf("-> %s declares %d records, record decoding is not supported\n", path, hdr.NumRecords)
	return nil
}
