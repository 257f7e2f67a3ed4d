//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package fct

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gvallee/netsim_analysis/tools/internal/pkg/connmatrix"
	"github.com/gvallee/netsim_analysis/tools/pkg/errors"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("unable to write %s: %s", path, err)
	}
	return path
}

func TestParseCompletionLine(t *testing.T) {
	tests := []struct {
		line         string
		expectedName string
		expectedFCT  float64
		expectedSize int64
	}{
		{
			line:         "Flow f1 finished at 1234.5 total bytes 2000000",
			expectedName: "f1",
			expectedFCT:  1234.5,
			expectedSize: 2000000,
		},
		{
			line:         "flow Uec_0_8 has FINISHED transfer at 99",
			expectedName: "Uec_0_8",
			expectedFCT:  99,
			expectedSize: 0,
		},
	}

	for _, tt := range tests {
		f, err := parseCompletionLine(tt.line)
		if err != nil {
			t.Fatalf("parseCompletionLine(%q) failed: %s", tt.line, err)
		}
		if f == nil {
			t.Fatalf("parseCompletionLine(%q) did not match", tt.line)
		}
		if f.Name != tt.expectedName || f.FCTUs != tt.expectedFCT || f.SizeBytes != tt.expectedSize {
			t.Fatalf("parseCompletionLine(%q) returned %+v", tt.line, f)
		}
	}

	f, err := parseCompletionLine("1000.0 DCTCP cwnd 10 Uec_0_8")
	if err != nil || f != nil {
		t.Fatalf("parseCompletionLine() matched a non completion line")
	}
}

func TestExtractFromOutput(t *testing.T) {
	dir := t.TempDir()
	output := writeFile(t, dir, "output.txt", "Starting simulation\nFlow f1 finished at 1234.5 total bytes 2000000\nDone\n")

	flows, err := ExtractFromOutput(output)
	if err != nil {
		t.Fatalf("ExtractFromOutput() failed: %s", err)
	}
	if len(flows) != 1 {
		t.Fatalf("ExtractFromOutput() returned %d flows instead of 1", len(flows))
	}
	f := flows[0]
	fct := 1234.5
	size := int64(2000000)
	expectedThroughput := float64(size) * 8 / (fct * 1e-6) / 1e9
	if f.FCTUs != fct || f.SizeBytes != size {
		t.Fatalf("unexpected flow %+v", f)
	}
	if f.ThroughputGbps != expectedThroughput {
		t.Fatalf("throughput is %v instead of %v", f.ThroughputGbps, expectedThroughput)
	}
	if f.Timed {
		t.Fatalf("a flow from a completion line has no start/end times")
	}
}

func TestComputeFromEvents(t *testing.T) {
	log := strings.Join([]string{
		"100.0 DCTCP cwnd update Uec_0_8",
		"150.5 DCTCP ack Uec_2_9",
		"900.25 DCTCP cwnd update Uec_0_8",
		"1000.0 UEC something else Uec_0_8",
		"not a number DCTCP Uec_0_8",
		"1200.0 DCTCP ack Uec_2_9",
		"1300.0 DCTCP ack Uec_5_6",
	}, "\n")

	cmFlows := []connmatrix.Flow{
		{Src: 0, Dst: 8, SizeBytes: 1000000, StartTimeUs: 0},
		{Src: 2, Dst: 9, SizeBytes: 4150 * 10, StartTimeUs: 200},
		{Src: 5, Dst: 6, SizeBytes: 100, StartTimeUs: 5000},
		{Src: 7, Dst: 1, SizeBytes: 100, StartTimeUs: 0},
	}

	flows, err := ComputeFromEvents(strings.NewReader(log), cmFlows)
	if err != nil {
		t.Fatalf("ComputeFromEvents() failed: %s", err)
	}
	if len(flows) != 2 {
		t.Fatalf("ComputeFromEvents() returned %d flows instead of 2", len(flows))
	}

	// Start inferred from the first event
	if flows[0].Name != "flow_0_8" || flows[0].StartUs != 100.0 || flows[0].EndUs != 900.25 || flows[0].FCTUs != 800.25 {
		t.Fatalf("unexpected first flow %+v", flows[0])
	}
	// Start from the connection matrix
	if flows[1].Name != "flow_2_9" || flows[1].StartUs != 200 || flows[1].FCTUs != 1000 {
		t.Fatalf("unexpected second flow %+v", flows[1])
	}
	if flows[1].Packets != 10 || !flows[1].Timed {
		t.Fatalf("unexpected packet estimate %d", flows[1].Packets)
	}
}

func TestComputeFromEventsDefaultFlow(t *testing.T) {
	log := "10.0 DCTCP start Uec_0_16\n20.0 DCTCP end Uec_0_16\n"
	flows, err := ComputeFromEvents(strings.NewReader(log), nil)
	if err != nil {
		t.Fatalf("ComputeFromEvents() failed: %s", err)
	}
	if len(flows) != 1 {
		t.Fatalf("ComputeFromEvents() returned %d flows instead of 1", len(flows))
	}
	if flows[0].Name != "flow_0_16" || flows[0].FCTUs != 10 || flows[0].SizeBytes != 2000000000 {
		t.Fatalf("unexpected default flow %+v", flows[0])
	}
}

func TestExtractStrategies(t *testing.T) {
	dir := t.TempDir()
	cm := writeFile(t, dir, "one.cm", "0->8 size 1000000 start 500.0\n")
	direct := writeFile(t, dir, "direct.txt", "Flow f1 finished at 1234.5 total bytes 2000000\n")
	events := writeFile(t, dir, "events.txt", "400.0 DCTCP a Uec_0_8\n1500.0 DCTCP b Uec_0_8\n")
	missingLog := filepath.Join(dir, "logout.dat")

	res, err := Extract(Config{OutputFile: direct, ConnectionMatrix: cm, BinaryLog: missingLog})
	if err != nil {
		t.Fatalf("Extract() failed: %s", err)
	}
	if res.Strategy != directStrategyName || len(res.FCTs) != 1 || res.FCTs[0] != 1234.5 {
		t.Fatalf("unexpected result %+v", res)
	}

	res, err = Extract(Config{OutputFile: events, ConnectionMatrix: cm, BinaryLog: missingLog})
	if err != nil {
		t.Fatalf("Extract() failed: %s", err)
	}
	if res.Strategy != matrixStrategyName || len(res.FCTs) != 1 || res.FCTs[0] != 1000 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Attempted) != 2 || res.Attempted[1].Source != cm {
		t.Fatalf("unexpected attempts %+v", res.Attempted)
	}

	// The matrix is located through the search paths
	res, err = Extract(Config{OutputFile: events, ConnectionMatrix: filepath.Join(dir, "nope.cm"), SearchPaths: []string{cm}, BinaryLog: missingLog})
	if err != nil {
		t.Fatalf("Extract() failed: %s", err)
	}
	if len(res.FCTs) != 1 {
		t.Fatalf("Extract() returned %d FCTs instead of 1", len(res.FCTs))
	}
}

func TestExtractNoData(t *testing.T) {
	dir := t.TempDir()
	output := writeFile(t, dir, "output.txt", "nothing interesting here\n")
	binlog := writeFile(t, dir, "logout.dat", "# simulator log\nnumrecords=12\n\x00\x01\x02")

	res, err := Extract(Config{OutputFile: output, BinaryLog: binlog})
	if err == nil {
		t.Fatalf("Extract() should fail when no data is found")
	}
	if !stderrors.Is(err, errors.ErrNoData) {
		t.Fatalf("Extract() returned %s instead of ErrNoData", err)
	}
	if len(res.Attempted) != 3 {
		t.Fatalf("%d strategies attempted instead of 3", len(res.Attempted))
	}
	if res.Attempted[1].Source != defaultFlowSource {
		t.Fatalf("the matrix strategy used %s", res.Attempted[1].Source)
	}

	var buf bytes.Buffer
	PrintNoData(&buf, res)
	report := buf.String()
	for _, s := range []string{"No flow completion times found.", directStrategyName, matrixStrategyName, binlogStrategyName} {
		if !strings.Contains(report, s) {
			t.Fatalf("diagnostic does not mention %q:\n%s", s, report)
		}
	}
}

func TestExtractMissingOutput(t *testing.T) {
	_, err := Extract(Config{OutputFile: filepath.Join(t.TempDir(), "missing.txt")})
	if err == nil {
		t.Fatalf("Extract() should fail when the output file does not exist")
	}
}

func TestReadBinaryLogHeader(t *testing.T) {
	tests := []struct {
		content     string
		expectedErr bool
		expectedNum int
	}{
		{content: "# header\n\nversion=2 numrecords=42\n\x00\x00", expectedNum: 42},
		{content: "# header only\n", expectedErr: true},
	}

	for _, tt := range tests {
		hdr, err := ReadBinaryLogHeader(bufio.NewReader(strings.NewReader(tt.content)))
		if tt.expectedErr {
			if !stderrors.Is(err, errors.ErrInvalidHeader) {
				t.Fatalf("ReadBinaryLogHeader() returned %v instead of ErrInvalidHeader", err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ReadBinaryLogHeader() failed: %s", err)
		}
		if hdr.NumRecords != tt.expectedNum {
			t.Fatalf("ReadBinaryLogHeader() returned %d records instead of %d", hdr.NumRecords, tt.expectedNum)
		}
	}
}

func TestPrint(t *testing.T) {
	res := &Result{
		Strategy: matrixStrategyName,
		FCTs:     []float64{1000},
		Flows: []*Flow{
			{Name: "flow_0_8", SizeBytes: 2000000, FCTUs: 1000, ThroughputGbps: 16, Timed: true, StartUs: 500, EndUs: 1500, Packets: 481},
		},
	}

	var buf bytes.Buffer
	Print(&buf, res)
	report := buf.String()
	expected := []string{
		"Found 1 flow completion(s):",
		"Flow 1: flow_0_8",
		"  FCT: 1000.00 us (1.00 ms)",
		"  Size: 2,000,000 bytes (1.91 MB)",
		"  Throughput: 16.00 Gbps",
		"  Packets: 481",
		"  Start: 500.00 us",
		"  End: 1500.00 us",
		"  Count:    1",
		"  P95:      1000.00 us (1.00 ms)",
		"  P99:      1000.00 us (1.00 ms)",
	}
	for _, e := range expected {
		if !strings.Contains(report, e) {
			t.Fatalf("report does not contain %q:\n%s", e, report)
		}
	}

	md := string(Markdown(res))
	if !strings.Contains(md, "| flow_0_8 | 1000.00 | 1.00 | 2,000,000 | 16.00 | 481 | 500.00 | 1500.00 |") {
		t.Fatalf("unexpected markdown report:\n%s", md)
	}
}

func TestExtractNoDataMissingBinaryLog(t *testing.T) {
	dir := t.TempDir()
	output := writeFile(t, dir, "output.txt", "nothing interesting here\n")
	missingLog := filepath.Join(dir, "logout.dat")

	res, err := Extract(Config{OutputFile: output, BinaryLog: missingLog})
	if !stderrors.Is(err, errors.ErrNoData) {
		t.Fatalf("Extract() returned %v instead of ErrNoData", err)
	}
	if len(res.Attempted) != 3 || !res.Attempted[2].Skipped || res.Attempted[2].Source != missingLog {
		t.Fatalf("unexpected attempts %+v", res.Attempted)
	}

	var buf bytes.Buffer
	PrintNoData(&buf, res)
	expected := "  3. " + binlogStrategyName + " (" + missingLog + " not found)"
	if !strings.Contains(buf.String(), expected) {
		t.Fatalf("diagnostic does not contain %q:\n%s", expected, buf.String())
	}
}

func TestExtractCompletionsLongLine(t *testing.T) {
	content := "Flow f1 finished at 1234.5 total bytes 2000000\n" +
		strings.Repeat("0", 17*1024*1024) + "\n" +
		"Flow f2 finished at 10.0 total bytes 10\n"

	flows, err := extractCompletions(strings.NewReader(content))
	if err != nil {
		t.Fatalf("extractCompletions() failed: %s", err)
	}
	if len(flows) != 2 || flows[0].Name != "f1" || flows[1].Name != "f2" {
		t.Fatalf("extractCompletions() returned %d flows", len(flows))
	}
}
