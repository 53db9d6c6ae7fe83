package framework

import (
	"bytes"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReporterHeaderAndPlan(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)
	rep.Begin(5)
	assert.Equal(t, "TAP version 14\n1..5\n", buf.String())
}

func TestReporterEmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Begin(0)
	assert.Equal(t, "TAP version 14\n1..0\n", buf.String())
}

func TestReporterOkLine(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)
	rep.Report(TestResult{
		Index:       1,
		Description: "test_add(2, 3, 5)",
		Outcome:     Outcome{Status: StatusPassed},
	})
	assert.Equal(t, "ok 1 - test_add(2, 3, 5)\n", buf.String())
}

func TestReporterReasonStrings(t *testing.T) {
	for _, tt := range []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{
			"nonzero exit",
			Outcome{Status: StatusExitFailure, ExitCode: 3},
			"not ok 2 - t() (exit code: 3)\n",
		},
		{
			"timeout",
			Outcome{Status: StatusTimeout, Signal: TimeoutSignal, Timeout: 10 * time.Second},
			"not ok 2 - t() (timeout after 10s)\n",
		},
		{
			"fatal signal",
			Outcome{Status: StatusSignaled, Signal: syscall.SIGSEGV},
			"not ok 2 - t() (killed by signal 11)\n",
		},
		{
			"spawn failure",
			Outcome{Status: StatusSpawnFailed},
			"not ok 2 - t() (fork failed)\n",
		},
		{
			"capture file failure",
			Outcome{Status: StatusTempFileFailed},
			"not ok 2 - t() (tmpfile creation failed)\n",
		},
		{
			"undecodable state",
			Outcome{Status: StatusUnknown},
			"not ok 2 - t() (unknown failure)\n",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewReporter(&buf).Report(TestResult{Index: 2, Description: "t()", Outcome: tt.outcome})
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReporterDiagnosticsMarkEveryLine(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Report(TestResult{
		Index:       1,
		Description: "t()",
		Outcome: Outcome{
			Status:   StatusExitFailure,
			ExitCode: 1,
			Output:   []byte("first line\nsecond line\n"),
		},
	})
	assert.Equal(t,
		"not ok 1 - t() (exit code: 1)\n#: first line\n#: second line\n",
		buf.String())
}

func TestReporterSynthesizesTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Report(TestResult{
		Index:       1,
		Description: "t()",
		Outcome: Outcome{
			Status:   StatusExitFailure,
			ExitCode: 1,
			Output:   []byte("complete\npartial"),
		},
	})
	assert.Equal(t,
		"not ok 1 - t() (exit code: 1)\n#: complete\n#: partial\n",
		buf.String())
}

func TestReporterEmptyOutputAddsNoDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Report(TestResult{
		Index:       1,
		Description: "t()",
		Outcome:     Outcome{Status: StatusExitFailure, ExitCode: 1},
	})
	assert.Equal(t, "not ok 1 - t() (exit code: 1)\n", buf.String())
}

func TestReporterBlankLineStillGetsMarker(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Report(TestResult{
		Index:       1,
		Description: "t()",
		Outcome:     Outcome{Status: StatusExitFailure, ExitCode: 1, Output: []byte("\n")},
	})
	assert.Equal(t, "not ok 1 - t() (exit code: 1)\n#: \n", buf.String())
}

func TestReporterCaptureErrorReplacesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf).Report(TestResult{
		Index:       1,
		Description: "t()",
		Outcome: Outcome{
			Status:     StatusSignaled,
			Signal:     syscall.SIGKILL,
			CaptureErr: errors.New("seek failed"),
		},
	})
	assert.Equal(t,
		"not ok 1 - t() (killed by signal 9)\n# failed to read test output: seek failed\n",
		buf.String())
}
