package framework

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioCmd maps each registry index to its own child behavior.
func scenarioCmd(behaviors []string) CmdBuilder {
	return func(index int) (*exec.Cmd, error) {
		cmd := exec.Command(os.Args[0], "-test.run=^TestChildProcess$")
		cmd.Env = append(os.Environ(), childBehaviorEnv+"="+behaviors[index])
		return cmd, nil
	}
}

func TestSuiteProtocolStream(t *testing.T) {
	// test 1 fails its own logic, test 3 dies of a signal, the rest pass;
	// the plan must still cover all five slots.
	behaviors := []string{"exit-1", "pass", "kill", "pass", "pass"}
	descriptions := []string{"t1()", "t2()", "t3()", "t4()", "t5()"}

	dir := t.TempDir()
	var buf bytes.Buffer
	results := RunSuite(SuiteConfig{
		Descriptions: descriptions,
		Runner: &Runner{
			Timeout:  10 * time.Second,
			TempDir:  dir,
			BuildCmd: scenarioCmd(behaviors),
		},
		Output: &buf,
	})

	expected := "TAP version 14\n" +
		"1..5\n" +
		"not ok 1 - t1() (exit code: 1)\n" +
		"ok 2 - t2()\n" +
		fmt.Sprintf("not ok 3 - t3() (killed by signal %d)\n", int(syscall.SIGKILL)) +
		"ok 4 - t4()\n" +
		"ok 5 - t5()\n"
	assert.Equal(t, expected, buf.String())

	assert.Len(t, results.Tests, 5)
	assert.Len(t, results.Failures, 2)
	assert.False(t, results.OK())
	assert.NotEmpty(t, results.RunID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no capture files may leak across the run")
}

func TestSuiteFilteredTestsKeepRegistryIndices(t *testing.T) {
	// a would fail if it ran; the filter drops it, and the remaining tests
	// must still be dispatched by their registration index, not their plan
	// position.
	behaviors := []string{"exit-3", "pass", "pass", "pass"}
	descriptions := []string{"a()", "b()", "c()", "d()"}

	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set(`^a\(`))

	var buf bytes.Buffer
	results := RunSuite(SuiteConfig{
		Descriptions: descriptions,
		Filter:       filters.AsFilter,
		Runner: &Runner{
			Timeout:  10 * time.Second,
			TempDir:  t.TempDir(),
			BuildCmd: scenarioCmd(behaviors),
		},
		Output: &buf,
	})

	assert.Equal(t,
		"TAP version 14\n1..3\nok 1 - b()\nok 2 - c()\nok 3 - d()\n",
		buf.String())
	assert.True(t, results.OK())
}

func TestSuiteInfrastructureFailureDoesNotStopTheRun(t *testing.T) {
	// second test cannot spawn; the third must still run and report.
	builder := func(index int) (*exec.Cmd, error) {
		if index == 1 {
			return nil, fmt.Errorf("spawn refused")
		}
		cmd := exec.Command(os.Args[0], "-test.run=^TestChildProcess$")
		cmd.Env = append(os.Environ(), childBehaviorEnv+"=pass")
		return cmd, nil
	}

	var buf bytes.Buffer
	results := RunSuite(SuiteConfig{
		Descriptions: []string{"a()", "b()", "c()"},
		Runner: &Runner{
			Timeout:  10 * time.Second,
			TempDir:  t.TempDir(),
			BuildCmd: builder,
		},
		Output: &buf,
	})

	assert.Equal(t,
		"TAP version 14\n1..3\nok 1 - a()\nnot ok 2 - b() (fork failed)\nok 3 - c()\n",
		buf.String())
	assert.Len(t, results.Failures, 1)
}

type recordingTestLogger struct {
	events []string
}

func (l *recordingTestLogger) TestStarted(index int, description string) {
	l.events = append(l.events, fmt.Sprintf("started %d %s", index, description))
}

func (l *recordingTestLogger) TestFinished(index int, description string, outcome Outcome) {
	l.events = append(l.events, fmt.Sprintf("finished %d %s passed=%v", index, description, outcome.Passed()))
}

func TestSuiteEmitsProgressEvents(t *testing.T) {
	logger := &recordingTestLogger{}
	var buf bytes.Buffer
	RunSuite(SuiteConfig{
		Descriptions: []string{"a()", "b()"},
		Runner: &Runner{
			Timeout:  10 * time.Second,
			TempDir:  t.TempDir(),
			BuildCmd: scenarioCmd([]string{"pass", "exit-1"}),
		},
		Output:     &buf,
		TestLogger: logger,
	})

	assert.Equal(t, []string{
		"started 1 a()",
		"finished 1 a() passed=true",
		"started 2 b()",
		"finished 2 b() passed=false",
	}, logger.events)
}
