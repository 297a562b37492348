package silo

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/TheBitDrifter/mask"
)

type archetypeID uint64

// Archetype is spec's DataComposition: the unique grouping of entities
// sharing the same component type-set. It owns a Tenant (handle
// issuance/recycling), the columnar component storage, and a StateIndex
// for entities participating in a state chain (spec section 4.4).
type Archetype struct {
	id       archetypeID
	mask     mask.Mask
	registry *Registry
	types    []ComponentType // ascending by class index
	// positions maps a 1-based class index to this archetype's column
	// position, sized to the registry's class-index capacity and
	// filled with -1 for absent types (spec: "reverse map class-index
	// -> position... filled with -1 and populated for member types").
	positions []int

	tenant *Tenant

	// pageMu serializes growth of pages/columns (ensurePage). It is never
	// held by readers: pages is published via atomic.Pointer, the same
	// way Pool publishes its page table, so CreateEntity/AttachEntity
	// column writes, Get, and cursor iteration never need to take it
	// (spec section 5's per-tenant concurrency applies equally to this
	// archetype-local page index and its columns).
	pageMu  sync.Mutex
	pageIdx map[uint64]int // global pool page id -> local column page index; pageMu-guarded
	pages   atomic.Pointer[[]uint64] // local column page index -> global pool page id
	columns []column

	state *StateIndex
}

func newArchetype(registry *Registry, id archetypeID, m mask.Mask, types []ComponentType) *Archetype {
	a := &Archetype{
		id:        id,
		mask:      m,
		registry:  registry,
		types:     types,
		positions: make([]int, registry.classes.capacity+1),
		tenant:    NewTenant(registry.pool, registry.options.FreeStackCapacity),
		pageIdx:   make(map[uint64]int),
	}
	for i := range a.positions {
		a.positions[i] = -1
	}
	pageCap := int(registry.pool.Schema().MaxSlotsPerPage())
	a.columns = make([]column, len(types))
	for i, t := range types {
		a.positions[t.classIndex()] = i
		a.columns[i] = t.newColumn(pageCap)
	}
	a.state = newStateIndex()
	return a
}

// ID returns the archetype's registry-assigned identifier.
func (a *Archetype) ID() uint64 { return uint64(a.id) }

// Types returns the archetype's component type-set, ascending by class
// index.
func (a *Archetype) Types() []ComponentType { return a.types }

// positionOf returns the column position of classIdx in this archetype,
// or -1 if classIdx isn't a member (spec section 7.2's sentinel).
func (a *Archetype) positionOf(classIdx int) int {
	if classIdx < 0 || classIdx >= len(a.positions) {
		return -1
	}
	return a.positions[classIdx]
}

// ensurePage translates a global pool page id into this archetype's
// local column-page index, allocating a fresh local page (one per
// column) the first time this archetype's tenant hands out a handle on
// that global page. The only writer of a.pages/columns storage; growth
// is serialized by pageMu and published via atomic.Pointer so concurrent
// readers (column writes on entity creation, Get, iteration) never race
// on the slice header, even mid-append/reallocation.
func (a *Archetype) ensurePage(globalPageID uint64) int {
	a.pageMu.Lock()
	defer a.pageMu.Unlock()
	if idx, ok := a.pageIdx[globalPageID]; ok {
		return idx
	}
	var old []uint64
	if cur := a.pages.Load(); cur != nil {
		old = *cur
	}
	idx := len(old)
	grown := append(append([]uint64(nil), old...), globalPageID)
	a.pages.Store(&grown)
	a.pageIdx[globalPageID] = idx
	for _, c := range a.columns {
		c.ensurePages(idx + 1)
	}
	return idx
}

// pageAt returns the global pool page id at local index idx, and
// whether idx is currently in range. Safe to call without pageMu: pages
// is read via a single atomic load of the published slice.
func (a *Archetype) pageAt(idx int) (uint64, bool) {
	cur := a.pages.Load()
	if cur == nil || idx < 0 || idx >= len(*cur) {
		return 0, false
	}
	return (*cur)[idx], true
}

// pageCount returns the number of local column pages published so far.
func (a *Archetype) pageCount() int {
	cur := a.pages.Load()
	if cur == nil {
		return 0
	}
	return len(*cur)
}

// sortComponents places each value at the archetype-canonical position
// of its type, in place, by repeated swap (spec section 4.4). Every
// swap seats at least one element permanently, so a single forward pass
// with an inner settle-loop already sorts the slice; the extra check
// against position 0 mirrors the spec's documented defensive pass.
func sortComponents(values []ComponentValue, positions []int) {
	for i := range values {
		for {
			want := positions[values[i].desc.classIndex()]
			if want == i {
				break
			}
			values[i], values[want] = values[want], values[i]
		}
	}
	if len(values) > 0 {
		want := positions[values[0].desc.classIndex()]
		if want != 0 {
			values[0], values[want] = values[want], values[0]
		}
	}
}

// CreateEntity allocates a handle, constructs the entity record, sorts
// the component tuple into canonical order (unless prepared is true or
// the archetype has <=1 component types), and registers it (spec
// section 4.4).
func (a *Archetype) CreateEntity(prepared bool, values ...ComponentValue) (*Entity, error) {
	if !prepared && len(a.types) > 1 {
		sortComponents(values, a.positions)
	}
	h, err := a.tenant.NextID()
	if err != nil {
		return nil, err
	}
	localPage := a.ensurePage(a.registry.pool.Schema().PageOf(h))
	slot := int(a.registry.pool.Schema().SlotOf(h))

	for i, v := range values {
		a.columns[i].(settable).setAny(localPage, slot, v.value)
	}

	e := &Entity{
		handle:    h,
		archetype: a,
		localPage: localPage,
		slot:      slot,
		types:     append([]ComponentType(nil), a.types...),
	}
	a.tenant.Register(h, e)
	return e, nil
}

// settable is implemented by every typedColumn[T]; kept separate from
// column so Archetype code that only grows pages doesn't need it.
type settable interface {
	setAny(localPage, slot int, v any)
}

// AttachEntity moves an existing entity into this archetype: allocates
// a new handle here, rebinds e's archetype pointer, and sorts/installs
// the given components (spec section 4.4).
func (a *Archetype) AttachEntity(e *Entity, prepared bool, values ...ComponentValue) error {
	if !prepared && len(a.types) > 1 {
		sortComponents(values, a.positions)
	}
	h, err := a.tenant.NextID()
	if err != nil {
		return err
	}
	localPage := a.ensurePage(a.registry.pool.Schema().PageOf(h))
	slot := int(a.registry.pool.Schema().SlotOf(h))
	for i, v := range values {
		a.columns[i].(settable).setAny(localPage, slot, v.value)
	}

	e.archetype = a
	e.handle = h
	e.localPage = localPage
	e.slot = slot
	e.types = append([]ComponentType(nil), a.types...)
	a.tenant.Register(h, e)
	return nil
}

// DetachEntity frees e's handle in its tenant and marks it detached,
// clearing its archetype back-pointer (spec section 3 lifecycle). If e
// has a registered destroy callback, it runs first, while e.archetype
// still points here.
func (a *Archetype) DetachEntity(e *Entity) {
	if e.onDestroy != nil {
		e.onDestroy(e)
	}
	a.registry.pool.SetEntry(e.handle, nil)
	a.tenant.FreeID(e.handle)
	e.handle = a.registry.pool.Schema().WithDetached(e.handle)
	e.archetype = nil
}

// releaseHandle frees h in this archetype's tenant and clears its pool
// slot, without touching any live *Entity (used when an entity has
// already been moved into a different archetype and only its old slot
// here needs reclaiming).
func (a *Archetype) releaseHandle(h Handle) {
	a.registry.pool.SetEntry(h, nil)
	a.tenant.FreeID(h)
}

// DetachEntityAndState detaches e from the pool and, if e participates
// in a state chain, detaches it from that chain first (spec section
// 4.4: "Destruction implies state-chain detachment first, then pool
// detachment").
func (a *Archetype) DetachEntityAndState(e *Entity) {
	if e.stateRootKey != nil || e.prev != nil || e.next != nil {
		a.state.detach(e)
	}
	a.DetachEntity(e)
}

// SetEntityState detaches e from any current state chain and, if state
// is non-nil, attaches it to the chain keyed by state's class index and
// ordinal (spec section 4.4/4.5).
func (a *Archetype) SetEntityState(e *Entity, state *StateKey) {
	a.state.detach(e)
	if state != nil {
		a.state.attach(*state, e)
	}
}

// Registry is the archetype registry described in spec section 6:
// given a set of component types, it returns the unique archetype for
// that set, creating it if missing (mirrors the teacher's
// storage.NewOrExistingArchetype).
type Registry struct {
	pool    *Pool
	classes *ClassIndex
	options Options

	mu      sync.RWMutex
	byMask  map[mask.Mask]*Archetype
	list    []*Archetype
	nextID  archetypeID
}

// NewRegistry creates a Registry whose archetypes share pool for handle
// storage and classes for component/state type identity.
func NewRegistry(pool *Pool, classes *ClassIndex, options Options) *Registry {
	return &Registry{
		pool:    pool,
		classes: classes,
		options: options,
		byMask:  make(map[mask.Mask]*Archetype),
		nextID:  1,
	}
}

func maskFor(types []ComponentType) mask.Mask {
	var m mask.Mask
	for _, t := range types {
		m.Mark(uint32(t.classIndex()))
	}
	return m
}

// ArchetypeFor returns the unique archetype for the given component
// type-set, creating it (with types canonicalized ascending by class
// index) if none exists yet.
func (r *Registry) ArchetypeFor(types ...ComponentType) (*Archetype, error) {
	sorted := append([]ComponentType(nil), types...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].classIndex() < sorted[j].classIndex() })
	m := maskFor(sorted)

	r.mu.RLock()
	if a, ok := r.byMask[m]; ok {
		r.mu.RUnlock()
		return a, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byMask[m]; ok {
		return a, nil
	}
	a := newArchetype(r, r.nextID, m, sorted)
	r.byMask[m] = a
	r.list = append(r.list, a)
	r.nextID++
	return a, nil
}

// Archetypes returns every archetype created so far, in creation order.
func (r *Registry) Archetypes() []*Archetype {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Archetype(nil), r.list...)
}

// ClassIndex returns the registry's shared class index.
func (r *Registry) ClassIndex() *ClassIndex { return r.classes }

// Pool returns the registry's shared pool.
func (r *Registry) Pool() *Pool { return r.pool }
