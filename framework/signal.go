package framework

import (
	"os"
	"syscall"
	"time"
)

// TimeoutSignal terminates a worker whose wall-clock budget has expired. The
// parent reports a child killed by this signal as a timeout, distinct from
// other signal deaths.
//
// SIGALRM would be truer to the alarm(2) lineage, but the Go runtime keeps
// its own handler installed for SIGALRM and silently discards deliveries
// that no signal.Notify watcher wants — signal.Reset does not restore the OS
// default for it — so a SIGALRM raised at a Go process cannot kill it.
// SIGTERM is one of the signals whose termination the runtime carries out
// itself (runtime.dieFromSignal), producing a genuine killed-by-signal wait
// status for the parent to decode.
const TimeoutSignal = syscall.SIGTERM

// RaiseFatal delivers sig to this process and waits for it to land. Delivery
// is asynchronous and may go to another thread, so the caller cannot assume
// the next statement is unreachable; RaiseFatal parks instead of returning.
func RaiseFatal(sig syscall.Signal) {
	_ = syscall.Kill(os.Getpid(), sig)
	for {
		time.Sleep(10 * time.Millisecond)
	}
}
