//
// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gvallee/go_util/pkg/util"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/config"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/corevariance"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/htmlreport"
	"github.com/gvallee/netsim_analysis/tools/internal/pkg/timer"
)

// run executes the command and returns its exit status
func run(cmdName string, args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
	flags.SetOutput(stdout)
	verbose := flags.Bool("v", false, "Enable verbose mode")
	help := flags.Bool("h", false, "Help message")
	configFile := flags.String("config", "", "YAML file describing the result directories to analyze")
	dirs := flags.String("dirs", "", "Comma separated list of result directories, overrides the configuration file")
	filename := flags.String("file", corevariance.DefaultFilename, "Name of the telemetry file in each result directory")
	useTable := flags.Bool("table", false, "Display the per-core averages as a table")
	htmlFile := flags.String("html", "", "Also save the report as an HTML page at the given path")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *help {
		fmt.Fprintf(stdout, "%s computes the variance of the average switch core queue occupancy across cores\n", cmdName)
		fmt.Fprintln(stdout, "\nUsage:")
		flags.PrintDefaults()
		return 0
	}

	if *verbose {
		logFile := util.OpenLogFile("netsim", cmdName)
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(stdout, logFile))
	} else {
		log.SetOutput(io.Discard)
	}

	opts := corevariance.Options{
		Dirs:     corevariance.DefaultResultDirs,
		Filename: *filename,
		Table:    *useTable,
	}
	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(stdout, "ERROR: unable to load configuration: %s\n", err)
			return 1
		}
		if len(cfg.ResultDirs) > 0 {
			opts.Dirs = cfg.ResultDirs
		}
		if cfg.TelemetryFile != "" {
			opts.Filename = cfg.TelemetryFile
		}
		opts.Table = opts.Table || cfg.Table
	}
	if *dirs != "" {
		opts.Dirs = config.ParseDirList(*dirs)
	}

	t := timer.Start()
	results, err := corevariance.Run(stdout, opts)
	log.Printf("Analysis of %d directories completed in %s\n", len(opts.Dirs), t.Stop())
	if err != nil {
		fmt.Fprintf(stdout, "ERROR: unable to analyze core queue usage: %s\n", err)
		return 1
	}

	if *htmlFile != "" {
		err = htmlreport.Save(*htmlFile, "Per-core LastQ variance", corevariance.Markdown(results))
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
