// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// mysort sorts the integers of one or more text files, one integer per line,
// and prints them in non-decreasing order.
//
// Usage:
//
//	mysort [-t] [-n K] [flags] <files>
//
// The input is split into K shards (4 by default) that are sorted by K worker
// processes, or by K goroutines with -t, and merged. K <= 1 sorts in a single
// pass without workers.
//
// Flags:
//
//	-t                 Sort shards on goroutines instead of processes
//	-n K               Number of shards and workers (negative or malformed: 4)
//	--sorter NAME      Shard sort algorithm (env MYSORT_SORTER)
//	--merge fold|heap  Shard merge schedule (env MYSORT_MERGE)
//	--pipe-size BYTES  Kernel pipe buffer to request (env MYSORT_PIPE_SIZE)
//	--parallel-load    Read input files concurrently
//	--strict           Reject lines longer than 4095 bytes
//	--verify           Check the result against the input before printing it
//	--v LEVEL          glog verbosity; logs go to stderr
//
// Example:
//
//	gennums -count 1000000 -files 4 -prefix /tmp/nums
//	mysort -t -n 8 /tmp/nums-*.txt > sorted.txt
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/worker"
)

const (
	banner    = "Leon Hertzberg - leonjh"
	usageHint = "Use correct format: ./mysort (optional: -t) -n (number >= 0) <files>"
)

// errUsage marks a command line that could not be parsed. The hint has been
// printed already and the exit status is 0.
var errUsage = errors.New("usage")

type options struct {
	threads      bool
	workers      string
	sorter       string
	merge        string
	pipeSize     int
	parallelLoad bool
	strict       bool
	verify       bool
}

func main() {
	// Log to stderr unless --logtostderr=false is given.
	flag.Set("logtostderr", "true")

	if worker.IsChild() {
		if err := worker.ServeChild(); err != nil {
			fmt.Fprintf(os.Stderr, "mysort: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, banner)
		return
	}
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line args and returns the exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(&options{}, stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	glog.Flush()
	switch {
	case err == nil, errors.Is(err, errUsage):
		return 0
	default:
		fmt.Fprintf(stderr, "mysort: %v\n", err)
		return 1
	}
}

func newRootCmd(opts *options, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mysort [-t] [-n K] <files>",
		Short:         "Sort the integers of text files on parallel workers",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd.Flags())
			if err != nil {
				return err
			}
			glog.V(1).Infof("mysort: %d files, %d workers (%v), sorter %s, merge %s",
				len(args), cfg.Workers, cfg.Variant, cfg.Sorter, cfg.Merge)
			return psort.Run(cfg, args, stdout)
		},
	}
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error {
		fmt.Fprintln(stdout, usageHint)
		return errUsage
	})
	// getopt has no -h either.
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		fmt.Fprintln(stdout, usageHint)
	})

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.BoolVarP(&opts.threads, "threads", "t", false, "sort shards on goroutines instead of processes")
	fs.StringVarP(&opts.workers, "workers", "n", "", "number of shards and workers; <= 1 sorts serially")
	fs.StringVar(&opts.sorter, "sorter", "", fmt.Sprintf("shard sort algorithm %v", sort.Algorithms()))
	fs.StringVar(&opts.merge, "merge", "", "shard merge schedule: fold or heap")
	fs.IntVar(&opts.pipeSize, "pipe-size", 0, "kernel pipe buffer size to request, in bytes")
	fs.BoolVar(&opts.parallelLoad, "parallel-load", false, "read input files concurrently")
	fs.BoolVar(&opts.strict, "strict", false, "reject over-long input lines instead of splitting them")
	fs.BoolVar(&opts.verify, "verify", false, "check the result against the input before printing it")
	// glog flags are long-only; -v stays an unknown flag.
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		if fs.Lookup(f.Name) != nil {
			return
		}
		pf := pflag.PFlagFromGoFlag(f)
		pf.Shorthand = ""
		fs.AddFlag(pf)
	})
	return cmd
}

// config layers the flags that were given over the environment.
func (o *options) config(fs *pflag.FlagSet) (psort.Config, error) {
	cfg, err := psort.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}

	cfg.Workers = parseWorkers(o.workers)
	if o.threads {
		cfg.Variant = worker.Thread
	}
	if fs.Changed("sorter") {
		cfg.Sorter = sort.Algorithm(strings.ToLower(o.sorter))
	}
	if fs.Changed("merge") {
		if cfg.Merge, err = psort.ParseMerge(o.merge); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("pipe-size") {
		cfg.PipeSize = o.pipeSize
	}
	cfg.ParallelLoad = o.parallelLoad
	cfg.Strict = o.strict
	cfg.Verify = o.verify
	return cfg, cfg.Validate()
}

// parseWorkers reads the -n value. Missing, negative and malformed values all
// select psort.DefaultWorkers.
func parseWorkers(s string) int {
	if s == "" {
		return psort.DefaultWorkers
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return psort.DefaultWorkers
	}
	return n
}
