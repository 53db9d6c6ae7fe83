// Package alloc defines the pluggable memory capability the custodian is
// built on: allocate, free and reallocate operations bound to an opaque
// context. The default provider delegates to the Go runtime; test doubles
// substitute their own functions to count calls or inject failures.
package alloc

// AllocFunc returns a block of at least size bytes, or nil on failure. It
// must never panic.
type AllocFunc func(ctx any, size int) []byte

// FreeFunc releases a block previously returned by the same provider's
// allocate or reallocate. Freeing a block twice is the caller's bug, not the
// provider's concern.
type FreeFunc func(ctx any, block []byte)

// ReallocFunc resizes a block, preserving the first min(old, new) bytes. The
// returned block may have a different identity. Returns nil on failure.
type ReallocFunc func(ctx any, block []byte, size int) []byte

// Provider binds the three memory operations to a shared context. The context
// is read-only as far as the provider itself is concerned; functions may
// treat it however they like.
type Provider struct {
	AllocFn   AllocFunc
	FreeFn    FreeFunc
	ReallocFn ReallocFunc
	Ctx       any
}

// Heap returns a provider backed by the Go runtime. Allocation never fails
// and Free is a no-op; the garbage collector reclaims released blocks once
// nothing references them.
func Heap() *Provider {
	return &Provider{
		AllocFn: func(_ any, size int) []byte {
			return make([]byte, size)
		},
		FreeFn: func(any, []byte) {},
		ReallocFn: func(_ any, block []byte, size int) []byte {
			next := make([]byte, size)
			copy(next, block)
			return next
		},
	}
}

// Allocate returns a block of at least size bytes, or nil.
func (p *Provider) Allocate(size int) []byte {
	return p.AllocFn(p.Ctx, size)
}

// Free returns a block to the provider.
func (p *Provider) Free(block []byte) {
	p.FreeFn(p.Ctx, block)
}

// Reallocate resizes a block, possibly moving it. Returns nil on failure, in
// which case the original block is still live.
func (p *Provider) Reallocate(block []byte, size int) []byte {
	return p.ReallocFn(p.Ctx, block, size)
}
