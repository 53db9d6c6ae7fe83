package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jwdevantier/tapdance/framework"
)

const defaultTimeout = time.Second * 10

type commandParams struct {
	workerIndex int
	timeout     time.Duration
	tempDir     string
	manifest    string
	filters     framework.RegexFilters
	debug       bool
	noSummary   bool
	failOnError bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.IntVar(&c.workerIndex, "worker", -1, "internal: run the test at this index in-process")
	fs.DurationVar(&c.timeout, "timeout", defaultTimeout, "per-test wall-clock timeout")
	fs.StringVar(&c.tempDir, "tmpdir", "", "directory for per-test output capture files")
	fs.StringVar(&c.manifest, "manifest", "", "YAML manifest selecting and ordering tests")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "log harness internals and test progress to stderr")
	fs.BoolVar(&c.noSummary, "no-summary", false, "suppress the end-of-run summary table")
	fs.BoolVar(&c.failOnError, "fail-on-error", false, "exit 1 when any test fails")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

// childArgs are the parameters a worker process must share with its parent so
// that both sides agree on test indices and the timeout.
func (c *commandParams) childArgs() []string {
	args := []string{"-timeout", c.timeout.String()}
	if c.manifest != "" {
		args = append(args, "-manifest", c.manifest)
	}
	return args
}
