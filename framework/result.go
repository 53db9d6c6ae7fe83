package framework

import (
	"fmt"
	"syscall"
	"time"
)

// Status is the terminal state of one isolated test process.
type Status int

const (
	// StatusPassed means the child exited normally with status 0.
	StatusPassed Status = iota
	// StatusExitFailure means the child exited normally with a nonzero status.
	StatusExitFailure
	// StatusTimeout means the child was killed by the timeout signal.
	StatusTimeout
	// StatusSignaled means the child was killed by some other signal.
	StatusSignaled
	// StatusSpawnFailed means the child process could not be started.
	StatusSpawnFailed
	// StatusTempFileFailed means the output capture file could not be created.
	StatusTempFileFailed
	// StatusUnknown covers termination states the harness cannot decode.
	StatusUnknown
)

// Outcome describes how one test process ended.
type Outcome struct {
	Status   Status
	ExitCode int
	Signal   syscall.Signal
	Timeout  time.Duration // the bound that was in effect, for the reason string
	Duration time.Duration
	// Output holds the child's captured stdout+stderr; only populated for
	// non-passing outcomes.
	Output []byte
	// CaptureErr is set when the captured output could not be read back.
	CaptureErr error
}

func (o Outcome) Passed() bool {
	return o.Status == StatusPassed
}

// Reason renders the parenthesized explanation on a "not ok" line. These
// strings are part of the protocol; downstream consumers match on them.
func (o Outcome) Reason() string {
	switch o.Status {
	case StatusExitFailure:
		return fmt.Sprintf("exit code: %d", o.ExitCode)
	case StatusTimeout:
		return fmt.Sprintf("timeout after %ds", int(o.Timeout.Seconds()))
	case StatusSignaled:
		return fmt.Sprintf("killed by signal %d", int(o.Signal))
	case StatusSpawnFailed:
		return "fork failed"
	case StatusTempFileFailed:
		return "tmpfile creation failed"
	default:
		return "unknown failure"
	}
}

// TestResult pairs a test's protocol identity with its outcome. Index is the
// 1-based position on the plan.
type TestResult struct {
	Index       int
	Description string
	Outcome     Outcome
}

// Results aggregates a full run.
type Results struct {
	RunID    string
	Tests    []TestResult
	Failures []TestResult
	Duration time.Duration
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}
