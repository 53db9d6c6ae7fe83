// Package custodian implements a hierarchical resource-cleanup scope. A
// custodian tracks raw allocations, deferred cleanup callbacks and nested
// child custodians on a single stack, and releases everything in reverse
// acquisition order on Shutdown. An allocation failure anywhere in a
// custodian tree unwinds the whole tree from the root before invoking the
// root's abort handler.
package custodian

import (
	"github.com/jwdevantier/tapdance/alloc"
)

// CleanupFn releases a resource previously handed to Defer. Cleanup functions
// are non-fallible by contract: they are not handed a custodian and have no
// way to request a rollback. One that needs to fail loudly should log and
// return.
type CleanupFn func(resource any)

type entryKind uint8

const (
	kindAllocation entryKind = iota
	kindResource
	kindChild
)

// entryOverhead is the bookkeeping charge for entries that carry no
// caller-sized block. Charging it through the provider keeps Defer and Child
// on the same failure path as Alloc.
const entryOverhead = 16

type entry struct {
	kind     entryKind
	block    []byte // provider-owned storage for this entry
	resource any
	cleanup  CleanupFn
	child    *Custodian
}

// Custodian tracks the resources acquired within one dynamic scope. The
// provider reference is borrowed, never owned; children share their parent's
// provider.
type Custodian struct {
	stack    []entry
	provider *alloc.Provider
	parent   *Custodian
	abort    func()
}

// New returns an empty root custodian bound to the given provider.
func New(provider *alloc.Provider) *Custodian {
	return &Custodian{provider: provider}
}

// SetAbortHandler replaces the action taken after an allocation failure has
// unwound the tree. The handler of the outermost ancestor is the one that
// runs; setting a handler on a child has no effect. A nil handler means
// tracking calls simply return their failure value after the unwind, which is
// the mode library consumers and tests want. The test worker installs a
// process-fatal handler instead.
func (c *Custodian) SetAbortHandler(f func()) {
	c.abort = f
}

// Provider returns the memory provider this custodian allocates from.
func (c *Custodian) Provider() *alloc.Provider {
	return c.provider
}

// Alloc tracks a fresh block of at least size bytes and returns it. On
// provider failure the entire tree this custodian belongs to has already been
// unwound by the time nil is returned; the caller must treat nil as "scope
// already gone", not as a recoverable error.
func (c *Custodian) Alloc(size int) []byte {
	block := c.provider.Allocate(size)
	if block == nil {
		c.abortTree()
		return nil
	}
	c.stack = append(c.stack, entry{kind: kindAllocation, block: block})
	return block
}

// Defer registers a cleanup to run, with the given resource, when this
// custodian shuts down. Returns false on provider failure, with the same
// already-unwound meaning as a nil from Alloc.
func (c *Custodian) Defer(resource any, cleanup CleanupFn) bool {
	block := c.provider.Allocate(entryOverhead)
	if block == nil {
		c.abortTree()
		return false
	}
	c.stack = append(c.stack, entry{kind: kindResource, block: block, resource: resource, cleanup: cleanup})
	return true
}

// Child creates a nested custodian sharing this one's provider, tracks it,
// and returns it ready for further tracking calls. Shutting down the parent
// shuts the child down at its stack position. Returns nil on provider
// failure.
func (c *Custodian) Child() *Custodian {
	block := c.provider.Allocate(entryOverhead)
	if block == nil {
		c.abortTree()
		return nil
	}
	child := &Custodian{provider: c.provider, parent: c}
	c.stack = append(c.stack, entry{kind: kindChild, block: block, child: child})
	return child
}

// Shutdown releases every tracked entry in exactly the reverse of acquisition
// order: raw blocks go back to the provider, deferred cleanups run and then
// their bookkeeping is freed, child custodians are recursively shut down. The
// custodian is empty afterwards; shutting down an empty custodian is a no-op.
func (c *Custodian) Shutdown() {
	for i := len(c.stack) - 1; i >= 0; i-- {
		e := c.stack[i]
		switch e.kind {
		case kindAllocation:
			c.provider.Free(e.block)
		case kindResource:
			if e.cleanup != nil {
				e.cleanup(e.resource)
			}
			c.provider.Free(e.block)
		case kindChild:
			e.child.Shutdown()
			c.provider.Free(e.block)
		}
	}
	c.stack = nil
}

// abortTree handles an allocation failure: walk up to the outermost ancestor,
// release every resource held anywhere in the tree, then hand control to the
// root's abort handler.
func (c *Custodian) abortTree() {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	root.Shutdown()
	if root.abort != nil {
		root.abort()
	}
}
