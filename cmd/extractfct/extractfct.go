//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/connmatrix"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/fct"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/htmlreport"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/timer"
	"github.com/gvallee/netsim_analysis/tools/pkg/errors"
)

func usage(w io.Writer, cmdName string, flags *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s [options] <output_file> [connection_matrix_file]\n", cmdName)
	fmt.Fprintln(w, "\nOptions:")
	flags.SetOutput(w)
	flags.PrintDefaults()
}

// run executes the command and returns its exit status
func run(cmdName string, args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	flags.SetOutput(stdout)
	verbose := flags.Bool("v", false, "Enable verbose mode")
	help := flags.Bool("h", false, "Help message")
	binaryLog := flags.String("log", fct.DefaultBinaryLog, "Simulator log file used when no other source of flow completion data is available")
	htmlFile := flags.String("html", "", "Also save the report as an HTML page at the given path")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *help {
		fmt.Fprintf(stdout, "%s extracts flow completion times (FCT) from the output of a network simulation\n\n", cmdName)
		usage(stdout, cmdName, flags)
		return 0
	}

	if flags.NArg() < 1 {
		usage(stdout, cmdName, flags)
		return 1
	}

	// The log file is only created in verbose mode, otherwise nothing but the report is written
	if *verbose {
		logFile := util.OpenLogFile("netsim", cmdName)
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(stdout, logFile))
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := fct.Config{
		OutputFile:  flags.Arg(0),
		SearchPaths: connmatrix.DefaultSearchPaths,
		BinaryLog:   *binaryLog,
	}
	if flags.NArg() > 1 {
		cfg.ConnectionMatrix = flags.Arg(1)
	}

	t := timer.Start()
	res, err := fct.Extract(cfg)
	log.Printf("Extraction completed in %s\n", t.Stop())
	if err != nil {
		if stderrors.Is(err, errors.ErrNoData) {
			fct.PrintNoData(stdout, res)
			return 1
		}
		fmt.Fprintf(stdout, "ERROR: unable to extract flow completion times: %s\n", err)
		return 1
	}

	fct.Print(stdout, res)

	if *htmlFile != "" {
		err = htmlreport.Save(*htmlFile, "Flow Completion Time (FCT) Analysis", fct.Markdown(res))
		if err != nil {
			fmt.Fprintf(stdout, "ERROR: unable to save the HTML report: %s\n", err)
			return 1
		}
		log.Printf("HTML report saved in %s\n", *htmlFile)
	}
	return 0
}

func main() {
	os.Exit(run(filepath.Base(os.Args[0]), os.Args[1:], os.Stdout))
}
