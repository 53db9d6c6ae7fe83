package registry

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/jwdevantier/tapdance/alloc"
	"github.com/jwdevantier/tapdance/custodian"
	"github.com/jwdevantier/tapdance/framework"
)

// RunWorker is the child-process half of the harness. The parent has already
// pointed stdout and stderr at the capture file, so everything the test
// prints lands there. RunWorker arms the timeout, hands the test a fresh root
// custodian bound to a heap provider, tears the custodian down when the test
// returns, and exits with the test's return value. It never returns.
func RunWorker(r *Registry, index int, timeout time.Duration) {
	d, err := r.At(index)
	if err != nil {
		// The parent got this index from the same registry; disagreement
		// means the two sides were built from different manifests.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(127)
	}

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			framework.RaiseFatal(framework.TimeoutSignal)
		})
	}

	root := custodian.New(alloc.Heap())
	root.SetAbortHandler(func() {
		// Allocation failure in a disposable test process: the tree has
		// already been unwound, now die by a signal the test body cannot
		// intercept. SIGABRT would be the traditional choice, but the Go
		// runtime turns it into a traceback and a plain exit(2).
		framework.RaiseFatal(syscall.SIGKILL)
	})

	result := d.Fn(root)
	root.Shutdown()
	os.Exit(result)
}
