package silo

import (
	"sync"
	"sync/atomic"
)

// stampedLock is a seqlock-style version counter plus a mutex for write
// escalation (spec section 9: "Stamped optimistic lock maps to... a
// seqlock-style version counter plus a mutex for write escalation").
// Readers take an optimistic stamp, read currentPage, then validate the
// stamp is unchanged and even (no writer in progress); on mismatch they
// retry by escalating to the mutex.
type stampedLock struct {
	mu      sync.Mutex
	version atomic.Uint64
}

// tryOptimisticRead returns the current version stamp for later validation.
func (l *stampedLock) tryOptimisticRead() uint64 {
	return l.version.Load()
}

// validate reports whether no write has started or completed since stamp
// was taken (version unchanged and even — odd means a writer holds the lock).
func (l *stampedLock) validate(stamp uint64) bool {
	return stamp%2 == 0 && l.version.Load() == stamp
}

// lock escalates to exclusive access, marking the version odd so
// concurrent optimistic readers fail validation.
func (l *stampedLock) lock() {
	l.mu.Lock()
	l.version.Add(1)
}

// unlock releases exclusive access, marking the version even again.
func (l *stampedLock) unlock() {
	l.version.Add(1)
	l.mu.Unlock()
}

// Tenant is the archetype-private view over a shared Pool that issues
// handles drawn from that pool and recycles freed ones preferentially
// (spec section 4.3). One Tenant belongs to exactly one archetype.
//
// Open Question resolution (spec section 9): this implementation takes
// the "cleaner variant" the spec explicitly prefers over the
// one-entry-ahead staged free stack — handles are issued eagerly and
// the free list is a plain LIFO stack guarded by freeMu. No
// binary-compatible staging behavior is required here.
type Tenant struct {
	pool *Pool

	lock        stampedLock
	currentPage atomic.Pointer[page]

	freeMu    sync.Mutex
	freeStack []Handle
	freeCap   int
}

// NewTenant creates a Tenant drawing handles from pool, with a free
// stack bounded to freeCap entries (spec's FREE_STACK_CAPACITY).
func NewTenant(pool *Pool, freeCap int) *Tenant {
	return &Tenant{pool: pool, freeCap: freeCap}
}

// NextID returns a handle whose page belongs to this tenant and whose
// slot is uniquely assigned, preferring a recycled handle from the free
// stack, then growing the current page, then allocating a new page
// under the stamped lock's write mode (spec section 4.3 steps 1-4; step
// 5's staging is intentionally not implemented, see type doc).
func (t *Tenant) NextID() (Handle, error) {
	if h, ok := t.popFree(); ok {
		return t.pool.schema.WithoutDetached(h), nil
	}

	if h, ok := t.tryGrowCurrent(); ok {
		return h, nil
	}

	t.lock.lock()
	defer t.lock.unlock()

	// Re-check under the write lock: another writer may have already
	// grown or replaced currentPage while we were escalating.
	if h, ok := t.growCurrentLocked(); ok {
		return h, nil
	}

	newP, err := t.pool.NewPage(t.currentPage.Load())
	if err != nil {
		return 0, err
	}
	newP.size.Store(1)
	t.currentPage.Store(newP)
	return t.pool.schema.Encode(newP.id, 0, 0), nil
}

// tryGrowCurrent attempts the optimistic fast path: read currentPage
// without the lock, speculatively claim a slot, and validate that no
// writer raced us. On a lost race it compensates the speculative
// increment (spec: "compensating decrement when a speculative size
// increment is invalidated by the lock").
func (t *Tenant) tryGrowCurrent() (Handle, bool) {
	stamp := t.lock.tryOptimisticRead()
	cp := t.currentPage.Load()
	if cp == nil {
		return 0, false
	}
	slot := cp.size.Add(1) - 1
	if !t.lock.validate(stamp) {
		cp.size.Add(-1)
		return 0, false
	}
	if slot >= int64(t.pool.schema.MaxSlotsPerPage()) {
		cp.size.Add(-1)
		return 0, false
	}
	return t.pool.schema.Encode(cp.id, uint64(slot), 0), true
}

// growCurrentLocked is the write-locked counterpart of tryGrowCurrent,
// used once escalation already happened so no stamp validation is
// needed.
func (t *Tenant) growCurrentLocked() (Handle, bool) {
	cp := t.currentPage.Load()
	if cp == nil {
		return 0, false
	}
	slot := cp.size.Add(1) - 1
	if slot >= int64(t.pool.schema.MaxSlotsPerPage()) {
		cp.size.Add(-1)
		return 0, false
	}
	return t.pool.schema.Encode(cp.id, uint64(slot), 0), true
}

// FreeID pushes handle onto the free stack for later re-issuance by
// NextID. The handle remains valid in the pool until reissued; callers
// must mark their own copy detached before publishing it (spec section
// 4.3). On free-stack overflow the handle is leaked (not recycled) —
// documented in spec section 4.3/7.1, not surfaced as an error.
func (t *Tenant) FreeID(h Handle) {
	t.freeMu.Lock()
	defer t.freeMu.Unlock()
	if len(t.freeStack) >= t.freeCap {
		return // leaked: free-stack overflow, acceptable per spec 4.3
	}
	t.freeStack = append(t.freeStack, h)
}

// popFree pops the most recently freed handle, if any.
func (t *Tenant) popFree() (Handle, bool) {
	t.freeMu.Lock()
	defer t.freeMu.Unlock()
	n := len(t.freeStack)
	if n == 0 {
		return 0, false
	}
	h := t.freeStack[n-1]
	t.freeStack = t.freeStack[:n-1]
	return h, true
}

// Register writes obj into the pool slot named by handle and returns it,
// establishing the happens-before edge documented in spec section 4.3:
// any subsequent GetEntry(handle) on another goroutine observes obj
// because both the write here and the read in GetEntry go through the
// same atomic.Pointer[page] published by NewPage/currentPage.Store.
func (t *Tenant) Register(h Handle, obj any) any {
	t.pool.SetEntry(h, obj)
	return obj
}
