//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package input

import (
	"bufio"
	"io"
	"strings"
)

// ForEachLine calls fn for every line of reader, without the line terminator.
// Lines have no length limit. The first error returned by fn stops the read.
func ForEachLine(reader io.Reader, fn func(line string) error) error {
	br := bufio.NewReader(reader)
	for {
		line, readerErr := br.ReadString('\n')
		if readerErr != nil && readerErr != io.EOF {
			return readerErr
		}
		if line == "" && readerErr == io.EOF {
			break
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if err := fn(line); err != nil {
			return err
		}

		if readerErr == io.EOF {
			break
		}
	}
	return nil
}
