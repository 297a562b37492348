package silo

import (
	"reflect"
	"sync/atomic"
)

// ComponentType identifies a component (or state enum) type at runtime.
// Equality is by type identity, not by value (spec section 6).
type ComponentType interface {
	classIndex() int
	reflectType() reflect.Type
	newColumn(pageCap int) column
}

// ComponentValue pairs a component type descriptor with the concrete
// value to store for one entity, as passed to Archetype.CreateEntity /
// AttachEntity.
type ComponentValue struct {
	desc  ComponentType
	value any
}

// Type returns the descriptor this value was built from.
func (v ComponentValue) Type() ComponentType { return v.desc }

// ComponentDesc[T] is the handle callers hold for a registered
// component type T: it carries the type's dense class index and
// provides typed access into whichever archetype column currently
// stores T (mirrors the teacher's AccessibleComponent[T]).
type ComponentDesc[T any] struct {
	idx int
	typ reflect.Type
}

// NewComponent registers T (if not already registered) with classes and
// returns a descriptor for it.
func NewComponent[T any](classes *ClassIndex) ComponentDesc[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	idx := classes.mustGetIndexOrAddClass(typ)
	return ComponentDesc[T]{idx: idx, typ: typ}
}

func (d ComponentDesc[T]) classIndex() int           { return d.idx }
func (d ComponentDesc[T]) reflectType() reflect.Type { return d.typ }
func (d ComponentDesc[T]) newColumn(pageCap int) column {
	return newTypedColumn[T](pageCap)
}

// With pairs this descriptor with a concrete value, for passing to
// Archetype.CreateEntity/AttachEntity.
func (d ComponentDesc[T]) With(v T) ComponentValue {
	return ComponentValue{desc: d, value: v}
}

// Get returns a pointer to T's value for entity e within its current
// archetype, or nil if e's archetype doesn't carry T (spec section 7.2:
// "a query requests a type not in the archetype; returns a sentinel
// invalid position").
func (d ComponentDesc[T]) Get(e *Entity) *T {
	if e == nil || e.archetype == nil {
		return nil
	}
	pos := e.archetype.positionOf(d.idx)
	if pos < 0 {
		return nil
	}
	col, ok := e.archetype.columns[pos].(*typedColumn[T])
	if !ok {
		return nil
	}
	pages := col.pages.Load()
	if pages == nil || e.localPage >= len(*pages) {
		return nil
	}
	return &(*pages)[e.localPage][e.slot]
}

// column is the archetype-internal interface every typedColumn[T]
// implements so Archetype can grow heterogeneous columns in lockstep
// without needing to know each one's concrete element type.
type column interface {
	ensurePages(n int)
}

// typedColumn stores one component type's values in page-parallel
// slices, one page per local page index an Archetype has allocated
// (spec section 4.4: "stores component columns... fixed offsets").
//
// pages is published via atomic.Pointer rather than grown in place:
// ensurePages is only ever called by Archetype.ensurePage under its
// pageMu, but setAny/readAny/Get read pages from CreateEntity,
// AttachEntity, and queries with no lock at all. Publishing the whole
// slice atomically (the same technique Pool uses for its page table)
// means a reader either sees the old, fully-populated slice or the new
// one, never a torn header mid-append/reallocation.
type typedColumn[T any] struct {
	pages   atomic.Pointer[[][]T]
	pageCap int
}

func newTypedColumn[T any](pageCap int) *typedColumn[T] {
	return &typedColumn[T]{pageCap: pageCap}
}

// ensurePages grows pages to hold at least n local pages. Callers must
// hold the owning Archetype's pageMu; concurrent calls are not
// otherwise safe since this read-modify-store is not itself atomic.
func (c *typedColumn[T]) ensurePages(n int) {
	var old [][]T
	if cur := c.pages.Load(); cur != nil {
		old = *cur
	}
	if len(old) >= n {
		return
	}
	grown := append([][]T(nil), old...)
	for len(grown) < n {
		grown = append(grown, make([]T, c.pageCap))
	}
	c.pages.Store(&grown)
}

func (c *typedColumn[T]) setAny(localPage, slot int, v any) {
	pages := c.pages.Load()
	(*pages)[localPage][slot] = v.(T)
}
