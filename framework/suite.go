package framework

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// TestLogger receives progress events as the suite advances. The protocol
// stream is for machines; this is for humans watching a run.
type TestLogger interface {
	TestStarted(index int, description string)
	TestFinished(index int, description string, outcome Outcome)
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(int, string)           {}
func (nullTestLogger) TestFinished(int, string, Outcome) {}

func NullTestLogger() TestLogger { return nullTestLogger{} }

// SuiteConfig wires one run together.
type SuiteConfig struct {
	// Descriptions holds every registered test's protocol description, in
	// registration order. Positions double as the worker indices the runner
	// spawns with.
	Descriptions []string
	// Filter optionally narrows the run; filtered-out tests never make it
	// onto the plan.
	Filter Filter
	// Runner executes individual tests.
	Runner *Runner
	// Output receives the protocol stream.
	Output io.Writer
	// TestLogger receives progress events; nil means none.
	TestLogger TestLogger
}

// RunSuite drives a full run: plan line first, then each selected test
// strictly in order, one at a time. A test's status line is emitted only
// after its process has fully terminated and its output has been drained, so
// output never interleaves across tests. Infrastructure failures for one test
// never stop the rest of the sequence.
func RunSuite(cfg SuiteConfig) Results {
	start := time.Now()
	logger := cfg.TestLogger
	if logger == nil {
		logger = NullTestLogger()
	}

	type slot struct {
		registryIndex int
		description   string
	}
	var selected []slot
	for i, d := range cfg.Descriptions {
		if cfg.Filter != nil && !cfg.Filter(d) {
			continue
		}
		selected = append(selected, slot{registryIndex: i, description: d})
	}

	rep := NewReporter(cfg.Output)
	rep.Begin(len(selected))

	results := Results{RunID: uuid.NewString()}
	for n, s := range selected {
		index := n + 1
		logger.TestStarted(index, s.description)
		outcome := cfg.Runner.Run(s.registryIndex)
		res := TestResult{Index: index, Description: s.description, Outcome: outcome}
		rep.Report(res)
		logger.TestFinished(index, s.description, outcome)

		results.Tests = append(results.Tests, res)
		if !outcome.Passed() {
			results.Failures = append(results.Failures, res)
		}
	}
	results.Duration = time.Since(start)
	return results
}
