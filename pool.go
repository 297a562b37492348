package silo

import "sync/atomic"

// page is a fixed-capacity array of object slots plus an atomic size
// counter and a back-link to the previous page in its Tenant's chain
// (spec section 3, "Page"). Pages are append-only with respect to
// size: slots, once assigned, may be rewritten on re-registration but
// never shift.
type page struct {
	id    uint64
	prev  *page
	size  atomic.Int64 // speculative/actual count of slots claimed so far
	slots []any
}

// newPage allocates a page with the pool's configured slot capacity.
func newPage(id uint64, prev *page, capacity uint64) *page {
	return &page{id: id, prev: prev, slots: make([]any, capacity)}
}

// Pool maps (page, slot) components of a Handle to stored objects.
// Pages are never moved or freed during the pool's lifetime; object
// references stored in a page remain stable until the slot is
// overwritten (spec section 4.2).
type Pool struct {
	schema    IdSchema
	nextPage  atomic.Uint64
	pages     []atomic.Pointer[page] // indexed by page id, preallocated to MaxPages
}

// NewPool creates a Pool bound to schema's page/slot capacities.
func NewPool(schema IdSchema) *Pool {
	return &Pool{
		schema: schema,
		pages:  make([]atomic.Pointer[page], schema.MaxPages()),
	}
}

// Schema returns the IdSchema this pool encodes/decodes handles with.
func (p *Pool) Schema() IdSchema { return p.schema }

// NewPage atomically reserves the next page id, installs it in the
// pool's page table, and links its previous pointer to prevPage. Fails
// only on exhaustion (page id >= 2^NumPagesBitSize), per spec section
// 4.2. The caller (Tenant, under its write lock) is responsible for
// publishing the returned page as its new currentPage.
func (p *Pool) NewPage(prevPage *page) (*page, error) {
	id := p.nextPage.Add(1) - 1
	if id >= p.schema.MaxPages() {
		return nil, PoolExhaustedError{MaxPages: int(p.schema.MaxPages())}
	}
	np := newPage(id, prevPage, p.schema.MaxSlotsPerPage())
	p.pages[id].Store(np)
	return np, nil
}

// GetEntry returns the object stored at handle's (page, slot), or nil
// if the slot is empty, out of range, or the handle carries the
// detached flag (spec section 4.2/7.3).
func (p *Pool) GetEntry(h Handle) any {
	if p.schema.IsDetached(h) {
		return nil
	}
	pg := p.schema.PageOf(h)
	if pg >= uint64(len(p.pages)) {
		return nil
	}
	page := p.pages[pg].Load()
	if page == nil {
		return nil
	}
	slot := p.schema.SlotOf(h)
	if slot >= uint64(len(page.slots)) {
		return nil
	}
	return page.slots[slot]
}

// SetEntry writes obj into the slot named by h, ignoring the detached
// flag (used by Tenant.Register, which always targets a freshly
// issued, non-detached handle).
func (p *Pool) SetEntry(h Handle, obj any) {
	pg := p.schema.PageOf(h)
	slot := p.schema.SlotOf(h)
	page := p.pages[pg].Load()
	if page == nil {
		return
	}
	page.slots[slot] = obj
}

// pageAt returns the page installed at id, or nil if none has been
// allocated yet.
func (p *Pool) pageAt(id uint64) *page {
	if id >= uint64(len(p.pages)) {
		return nil
	}
	return p.pages[id].Load()
}
