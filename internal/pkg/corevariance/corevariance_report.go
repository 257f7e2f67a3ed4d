//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package corevariance

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/netsim_analysis/tools/pkg/errors"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Options controls which directories are analyzed and how results are displayed
type Options struct {
	Dirs     []string
	Filename string
	Table    bool
}

func printTable(w io.Writer, res *DirResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Core", "Samples", "Avg LastQ (bytes)"})
	for _, c := range res.Cores {
		t.AppendRow(table.Row{fmt.Sprintf("Core_%d", c.Core), c.Samples, fmt.Sprintf("%.2f", c.Avg)})
	}
	t.Render()
}

// Print writes the report of a single result directory
func Print(w io.Writer, res *DirResult, useTable bool) {
	fmt.Fprintf(w, "\n=== %s ===\n", res.Dir)
	fmt.Fprintln(w, "Per-core average LastQ (bytes):")
	if useTable {
		printTable(w, res)
	} else {
		for _, c := range res.Cores {
			fmt.Fprintf(w, "  Core_%2d: %.2f\n", c.Core, c.Avg)
		}
	}

	fmt.Fprintf(w, "\n  Population variance of per-core averages: %.2f bytes^2\n", res.PVariance)
	fmt.Fprintf(w, "  Sample     variance of per-core averages: %.2f bytes^2\n", res.Variance)
}

// Run analyzes every configured result directory and writes the report to w.
// Missing directories and telemetry files are reported and skipped; any other
// error stops the run and is returned as an ErrFatal error.
func Run(w io.Writer, opts Options) ([]*DirResult, error) {
	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = DefaultResultDirs
	}
	filename := opts.Filename
	if filename == "" {
		filename = DefaultFilename
	}

	var results []*DirResult
	for _, d := range dirs {
		if !util.PathExists(d) {
			fmt.Fprintf(w, "[WARNING] Directory %s does not exist, skipping.\n", d)
			continue
		}

		res, err := AnalyzeDir(d, filename)
		if err != nil {
			if stderrors.Is(err, errors.ErrNotFound) {
				fmt.Fprintf(w, "[%s] WARNING: %s not found, skipping.\n", d, filename)
				continue
			}
			return results, errors.New(errors.ErrFatal, err)
		}

		if len(res.Cores) == 0 {
			fmt.Fprintf(w, "[%s] No core samples found.\n", d)
			continue
		}
		Print(w, res, opts.Table)
		results = append(results, res)
	}
	return results, nil
}

// Markdown returns the results of all the analyzed directories as a Markdown document
func Markdown(results []*DirResult) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Per-core LastQ variance\n")
	for _, res := range results {
		fmt.Fprintf(&buf, "\n## %s\n\n", res.Dir)
		fmt.Fprintf(&buf, "| Core | Samples | Avg LastQ (bytes) |\n|---|---|---|\n")
		for _, c := range res.Cores {
			fmt.Fprintf(&buf, "| Core_%d | %d | %.2f |\n", c.Core, c.Samples, c.Avg)
		}
		fmt.Fprintf(&buf, "\n- Population variance: %.2f bytes^2\n", res.PVariance)
		fmt.Fprintf(&buf, "- Sample variance: %.2f bytes^2\n", res.Variance)
	}
	return buf.Bytes()
}
