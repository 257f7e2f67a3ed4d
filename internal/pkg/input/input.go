//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

// Package input opens the files produced by the simulator. Simulation outputs are
// often archived compressed, so gzip, xz and zstd files are decompressed on the fly
// based on their content rather than their extension.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Reader is a readable input file; Close releases the decoder and the file
type Reader struct {
	file   *os.File
	reader io.Reader
	closer func()
	Format string
}

func (r *Reader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *Reader) Close() error {
	if r.closer != nil {
		r.closer()
	}
	return r.file.Close()
}

// Open opens path and returns a reader over its decompressed content
func Open(path string) (*Reader, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		file:   file,
		Format: mime.String(),
	}
	switch {
	case mime.Is("application/gzip"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("unable to decompress %s: %w", path, err)
		}
		r.reader = gz
		r.closer = func() { gz.Close() }
	case mime.Is("application/x-xz"):
		xzr, err := xz.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("unable to decompress %s: %w", path, err)
		}
		r.reader = xzr
	case mime.Is("application/zstd"):
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("unable to decompress %s: %w", path, err)
		}
		r.reader = zr
		r.closer = zr.Close
	default:
		// Plain text and anything else is read as-is
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}
