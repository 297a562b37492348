package silo

import "testing"

type c1 struct{ V int }
type c2 struct{ V int }
type c3 struct{ V int }

func newTestRegistry(t *testing.T) (*Registry, *ClassIndex) {
	t.Helper()
	opts := DefaultOptions()
	schema, err := NewIdSchema(opts)
	if err != nil {
		t.Fatalf("NewIdSchema: %v", err)
	}
	pool := NewPool(schema)
	classes := NewClassIndex(opts.ComponentIndexCapacity)
	return NewRegistry(pool, classes, opts), classes
}

// TestArchetypeForIsStableAcrossOrder mirrors spec section 8 scenario 3
// (order invariance) at the registry level: the same type-set in any
// order resolves to the same archetype.
func TestArchetypeForIsStableAcrossOrder(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)

	a1, err := registry.ArchetypeFor(d1, d2)
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}
	a2, err := registry.ArchetypeFor(d2, d1)
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}
	if a1 != a2 {
		t.Fatal("ArchetypeFor should return the same archetype regardless of argument order")
	}
	if a1.ID() != a2.ID() {
		t.Fatal("same archetype must report the same ID")
	}
}

func TestArchetypeForDistinctSetsDiffer(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)

	a1, _ := registry.ArchetypeFor(d1)
	a2, _ := registry.ArchetypeFor(d1, d2)
	if a1 == a2 {
		t.Fatal("different component sets must resolve to different archetypes")
	}
}

// TestCreateEntityEmpty mirrors spec section 8 scenario 1.
func TestCreateEntityEmpty(t *testing.T) {
	registry, _ := newTestRegistry(t)
	arche, err := registry.ArchetypeFor()
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}
	e, err := arche.CreateEntity(false)
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	if len(e.Types()) != 0 {
		t.Fatalf("empty archetype entity has %d types, want 0", len(e.Types()))
	}
	if got := registry.pool.GetEntry(e.Handle()); got != e {
		t.Fatalf("GetEntry(e.Handle()) = %v, want e", got)
	}
}

// TestCreateEntitySingleComponent mirrors spec section 8 scenario 2.
func TestCreateEntitySingleComponent(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	arche, err := registry.ArchetypeFor(d1)
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}
	e, err := arche.CreateEntity(false, d1.With(c1{V: 0}))
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	if got := d1.Get(e); got == nil || got.V != 0 {
		t.Fatalf("d1.Get(e) = %v, want &c1{V:0}", got)
	}
	if registry.pool.GetEntry(e.Handle()) != e {
		t.Fatal("GetEntry(e.Handle()) should return e")
	}
}

// TestOrderInvarianceOfStoredComponents mirrors spec section 8 scenario 3.
func TestOrderInvarianceOfStoredComponents(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)

	arche, err := registry.ArchetypeFor(d1, d2)
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}

	e1, err := arche.CreateEntity(false, d1.With(c1{V: 1}), d2.With(c2{V: 2}))
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	e2, err := arche.CreateEntity(false, d2.With(c2{V: 2}), d1.With(c1{V: 1}))
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}

	for _, e := range []*Entity{e1, e2} {
		if got := d1.Get(e); got == nil || got.V != 1 {
			t.Fatalf("d1.Get(e) = %v, want &c1{V:1}", got)
		}
		if got := d2.Get(e); got == nil || got.V != 2 {
			t.Fatalf("d2.Get(e) = %v, want &c2{V:2}", got)
		}
	}
}

// TestDestroyAndReuse mirrors spec section 8 scenario 4.
func TestDestroyAndReuse(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	arche, err := registry.ArchetypeFor(d1)
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}

	e1, err := arche.CreateEntity(false, d1.With(c1{V: 1}))
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	e2, err := arche.CreateEntity(false, d1.With(c1{V: 2}))
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	h2 := e2.Handle()

	arche.DetachEntity(e1)

	if e1.Archetype() != nil {
		t.Fatal("e1.Archetype() should be nil after detach")
	}
	if got := registry.pool.GetEntry(e1.Handle()); got != nil {
		t.Fatalf("GetEntry(e1.Handle()) = %v, want nil after detach", got)
	}
	if got := registry.pool.GetEntry(h2); got != e2 {
		t.Fatalf("GetEntry(e2.Handle()) = %v, want e2", got)
	}
	if e2.Handle() != h2 {
		t.Fatal("e2's handle must be unaffected by e1's destruction")
	}
}

func TestGetOnWrongArchetypeReturnsNil(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d3 := NewComponent[c3](classes)

	arche, err := registry.ArchetypeFor(d1)
	if err != nil {
		t.Fatalf("ArchetypeFor: %v", err)
	}
	e, err := arche.CreateEntity(false, d1.With(c1{V: 1}))
	if err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	if got := d3.Get(e); got != nil {
		t.Fatalf("d3.Get(e) = %v, want nil for a type the archetype doesn't carry", got)
	}
}
