//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package fct

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gvallee/netsim_analysis/tools/internal/pkg/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	separator = strings.Repeat("=", 60)
	printer   = message.NewPrinter(language.English)
)

func thousands(n int64) string {
	return printer.Sprintf("%d", n)
}

func toMs(us float64) float64 {
	return us / 1000
}

func toMB(b int64) float64 {
	return float64(b) / 1024 / 1024
}

func printFlow(w io.Writer, idx int, f *Flow) {
	name := f.Name
	if name == "" {
		name = "unknown"
	}
	fmt.Fprintf(w, "Flow %d: %s\n", idx, name)
	fmt.Fprintf(w, "  FCT: %.2f us (%.2f ms)\n", f.FCTUs, toMs(f.FCTUs))
	if f.SizeBytes > 0 {
		fmt.Fprintf(w, "  Size: %s bytes (%.2f MB)\n", thousands(f.SizeBytes), toMB(f.SizeBytes))
		fmt.Fprintf(w, "  Throughput: %.2f Gbps\n", f.ThroughputGbps)
	}
	if f.Timed {
		fmt.Fprintf(w, "  Packets: %d\n", f.Packets)
		fmt.Fprintf(w, "  Start: %.2f us\n", f.StartUs)
		fmt.Fprintf(w, "  End: %.2f us\n", f.EndUs)
	}
	fmt.Fprintln(w)
}

func printStat(w io.Writer, label string, us float64) {
	fmt.Fprintf(w, "  %-9s %.2f us (%.2f ms)\n", label+":", us, toMs(us))
}

// Print writes the report of a successful extraction
func Print(w io.Writer, res *Result) {
	s := stats.Summarize(res.FCTs)
	if s == nil {
		return
	}

	fmt.Fprintf(w, "\n%s\n", separator)
	fmt.Fprintf(w, "Flow Completion Time (FCT) Analysis\n")
	fmt.Fprintf(w, "%s\n", separator)
	fmt.Fprintf(w, "\nFound %d flow completion(s):\n\n", len(res.FCTs))

	for i, f := range res.Flows {
		printFlow(w, i+1, f)
	}

	fmt.Fprintf(w, "\n%s\n", separator)
	fmt.Fprintf(w, "FCT Statistics:\n")
	fmt.Fprintf(w, "%s\n", separator)
	fmt.Fprintf(w, "  %-9s %d\n", "Count:", s.Count)
	printStat(w, "Mean", s.Mean)
	printStat(w, "Median", s.Median)
	printStat(w, "Min", s.Min)
	printStat(w, "Max", s.Max)
	printStat(w, "P50", s.P50)
	printStat(w, "P95", s.P95)
	printStat(w, "P99", s.P99)
	fmt.Fprintf(w, "%s\n\n", separator)
}

// PrintNoData writes the diagnostic displayed when no strategy found any flow completion
func PrintNoData(w io.Writer, res *Result) {
	fmt.Fprintln(w, "No flow completion times found.")
	fmt.Fprintln(w, "\nTried:")
	for i, a := range res.Attempted {
		if a.Skipped {
			fmt.Fprintf(w, "  %d. %s (%s not found)\n", i+1, a.Strategy, a.Source)
			continue
		}
		fmt.Fprintf(w, "  %d. %s (using %s)\n", i+1, a.Strategy, a.Source)
	}
	fmt.Fprintf(w, "\nTip: Flow events may be in %s (binary format)\n", DefaultBinaryLog)
}

// Markdown returns the report as a Markdown document
func Markdown(res *Result) []byte {
	var buf bytes.Buffer
	s := stats.Summarize(res.FCTs)

	fmt.Fprintf(&buf, "# Flow Completion Time (FCT) Analysis\n\n")
	if s == nil {
		fmt.Fprintf(&buf, "No flow completion times found.\n")
		return buf.Bytes()
	}
	fmt.Fprintf(&buf, "Data extracted with: %s\n\n", res.Strategy)

	fmt.Fprintf(&buf, "## Flows\n\n")
	fmt.Fprintf(&buf, "| Flow | FCT (us) | FCT (ms) | Size (bytes) | Throughput (Gbps) | Packets | Start (us) | End (us) |\n")
	fmt.Fprintf(&buf, "|---|---|---|---|---|---|---|---|\n")
	for _, f := range res.Flows {
		size, tput := "-", "-"
		if f.SizeBytes > 0 {
			size = thousands(f.SizeBytes)
			tput = fmt.Sprintf("%.2f", f.ThroughputGbps)
		}
		packets, start, end := "-", "-", "-"
		if f.Timed {
			packets = fmt.Sprintf("%d", f.Packets)
			start = fmt.Sprintf("%.2f", f.StartUs)
			end = fmt.Sprintf("%.2f", f.EndUs)
		}
		fmt.Fprintf(&buf, "| %s | %.2f | %.2f | %s | %s | %s | %s | %s |\n", f.Name, f.FCTUs, toMs(f.FCTUs), size, tput, packets, start, end)
	}

	fmt.Fprintf(&buf, "\n## FCT Statistics\n\n")
	fmt.Fprintf(&buf, "| Metric | us | ms |\n|---|---|---|\n")
	fmt.Fprintf(&buf, "| Count | %d | |\n", s.Count)
	rows := []struct {
		label string
		val   float64
	}{
		{"Mean", s.Mean}, {"Median", s.Median}, {"Min", s.Min}, {"Max", s.Max},
		{"P50", s.P50}, {"P95", s.P95}, {"P99", s.P99},
	}
	for _, r := range rows {
		fmt.Fprintf(&buf, "| %s | %.2f | %.2f |\n", r.label, r.val, toMs(r.val))
	}
	return buf.Bytes()
}
