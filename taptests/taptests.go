// Package taptests registers the harness's built-in test suite. Each entry
// runs in its own child process; whatever it prints is captured and shows up
// as diagnostics if it fails.
package taptests

import (
	"fmt"
	"syscall"

	"github.com/jwdevantier/tapdance/custodian"
	"github.com/jwdevantier/tapdance/framework"
	"github.com/jwdevantier/tapdance/registry"
)

func cleaner(any) {
	fmt.Println("CLEANER CALLED")
}

// testProgram exercises the custodian tree: allocations, a deferred cleanup,
// a child scope, and a mid-test shutdown. It then fails deliberately so the
// captured output is visible in the protocol stream.
func testProgram(c *custodian.Custodian) int {
	c.Alloc(100)
	c.Defer(nil, cleaner)
	c.Alloc(200)
	c2 := c.Child()
	c2.Alloc(300)
	fmt.Println("filling the child scope")
	c2.Alloc(20)
	c.Alloc(50)
	fmt.Println("in-test cleaning:")
	c.Shutdown()
	// shutdown is idempotent, so the worker's own shutdown after we return
	// is a no-op; fail here to show the captured output above
	return 2
}

func testAdd(x, y, expected int) registry.TestFunc {
	return func(*custodian.Custodian) int {
		if x+y != expected {
			fmt.Printf("expected %d + %d == %d, got %d\n", x, y, expected, x+y)
			return 1
		}
		return 0
	}
}

// testCrash dies by an uncatchable signal so the run demonstrates
// killed-by-signal reporting. SIGSEGV would be the obvious stand-in for
// dereferencing a bad pointer, but the runtime reports a user-sent SIGSEGV
// as a traceback and a plain exit, never as a signal death.
func testCrash(*custodian.Custodian) int {
	framework.RaiseFatal(syscall.SIGKILL)
	return 0 // unreachable
}

// Suite returns the registered tests in protocol order.
func Suite() *registry.Registry {
	r := registry.New()
	r.Add(registry.Descriptor{Name: "test_program", Fn: testProgram})
	r.Add(registry.Descriptor{Name: "test_add", Args: "2, 3, 5", Fn: testAdd(2, 3, 5)})
	r.Add(registry.Descriptor{Name: "test_crash", Fn: testCrash})
	r.Add(registry.Descriptor{Name: "test_add", Args: "2, 3, 6", Fn: testAdd(2, 3, 6)})
	r.Add(registry.Descriptor{Name: "test_add", Args: "4, 8, 12", Fn: testAdd(4, 8, 12)})
	return r
}
