package framework

import (
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alessio/shellescape"
)

// CmdBuilder constructs the command that executes the test at the given
// registry index in a child process. The default re-execs the harness binary
// in worker mode; tests substitute their own builder.
type CmdBuilder func(index int) (*exec.Cmd, error)

// SelfCmdBuilder builds commands that re-exec the current binary with the
// worker flag. extraArgs come first, so parameters the child must share with
// the parent (timeout, manifest) reach it.
func SelfCmdBuilder(extraArgs ...string) CmdBuilder {
	return func(index int) (*exec.Cmd, error) {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		args := append(append([]string(nil), extraArgs...), "-worker", strconv.Itoa(index))
		return exec.Command(exe, args...), nil
	}
}

const defaultKillGrace = 2 * time.Second

// Runner executes one test per call, each in its own process with its own
// address space. The child's stdout and stderr both land in a private
// temporary file, which the parent reads back on failure and removes in every
// case.
type Runner struct {
	// Timeout is the per-test wall-clock bound. The worker arms it in the
	// child; the parent classifies the resulting signal and keeps a kill
	// backstop in case the child wedges before its timer fires.
	Timeout time.Duration
	// TempDir is where capture files are created; "" means the OS default.
	TempDir string
	// KillGrace is how long past Timeout the parent waits before killing a
	// child whose own deadline never fired; 0 means a default. A death
	// forced this way is still reported as a timeout.
	KillGrace time.Duration
	// BuildCmd constructs the child command for a test index.
	BuildCmd CmdBuilder
	// Logger receives harness-internal debug messages.
	Logger Logger
}

// Run executes the test at the given registry index and blocks until its
// process has fully terminated and its output has been drained. It never
// returns an error: every way the child can go wrong maps to an Outcome.
func (r *Runner) Run(index int) Outcome {
	start := time.Now()
	logger := r.Logger
	if logger == nil {
		logger = NullLogger()
	}

	tmp, err := os.CreateTemp(r.TempDir, "tapdance-*.out")
	if err != nil {
		logger.Printf("test %d: creating capture file: %s", index, err)
		return Outcome{Status: StatusTempFileFailed, Timeout: r.Timeout, Duration: time.Since(start)}
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	cmd, err := r.BuildCmd(index)
	if err != nil {
		logger.Printf("test %d: building command: %s", index, err)
		return Outcome{Status: StatusSpawnFailed, Timeout: r.Timeout, Duration: time.Since(start)}
	}
	cmd.Stdout = tmp
	cmd.Stderr = tmp

	logger.Printf("test %d: spawning %s", index, shellescape.QuoteCommand(cmd.Args))
	if err := cmd.Start(); err != nil {
		logger.Printf("test %d: starting child: %s", index, err)
		return Outcome{Status: StatusSpawnFailed, Timeout: r.Timeout, Duration: time.Since(start)}
	}

	// The worker enforces its own deadline, but a child stuck before the
	// timer is armed (or stuck in the runtime itself) would hang the whole
	// run. Give it the timeout plus some grace, then put it down.
	var backstopFired atomic.Bool
	if r.Timeout > 0 {
		grace := r.KillGrace
		if grace <= 0 {
			grace = defaultKillGrace
		}
		backstop := time.AfterFunc(r.Timeout+grace, func() {
			backstopFired.Store(true)
			_ = cmd.Process.Kill()
		})
		defer backstop.Stop()
	}

	_ = cmd.Wait() // termination details come from ProcessState, not the error

	out := Outcome{Timeout: r.Timeout}
	var ws syscall.WaitStatus
	ok := false
	if cmd.ProcessState != nil {
		ws, ok = cmd.ProcessState.Sys().(syscall.WaitStatus)
	}
	switch {
	case ok && ws.Exited() && ws.ExitStatus() == 0:
		out.Status = StatusPassed
	case ok && ws.Exited():
		out.Status = StatusExitFailure
		out.ExitCode = ws.ExitStatus()
	case ok && ws.Signaled() && (ws.Signal() == TimeoutSignal || backstopFired.Load()):
		out.Status = StatusTimeout
		out.Signal = ws.Signal()
	case ok && ws.Signaled():
		out.Status = StatusSignaled
		out.Signal = ws.Signal()
	default:
		out.Status = StatusUnknown
	}
	out.Duration = time.Since(start)

	if !out.Passed() {
		data, err := readBack(tmp)
		if err != nil {
			logger.Printf("test %d: reading captured output: %s", index, err)
			out.CaptureErr = err
		} else {
			out.Output = data
		}
	}
	return out
}

// readBack rewinds the capture file and drains it. The child has exited by
// now, so nothing else is writing.
func readBack(f *os.File) ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
