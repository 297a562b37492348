package silo

import "testing"

func TestQueryAndMatchesSuperset(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)

	only1, _ := registry.ArchetypeFor(d1)
	both, _ := registry.ArchetypeFor(d1, d2)

	q := NewQuery()
	q.And(ComponentType(d1), ComponentType(d2))

	if q.Evaluate(only1) {
		t.Fatal("And(d1, d2) should not match an archetype missing d2")
	}
	if !q.Evaluate(both) {
		t.Fatal("And(d1, d2) should match an archetype carrying both")
	}
}

func TestQueryOrMatchesEither(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)
	d3 := NewComponent[c3](classes)

	only1, _ := registry.ArchetypeFor(d1)
	only3, _ := registry.ArchetypeFor(d3)

	q := NewQuery()
	q.Or(ComponentType(d1), ComponentType(d2))

	if !q.Evaluate(only1) {
		t.Fatal("Or(d1, d2) should match an archetype carrying d1")
	}
	if q.Evaluate(only3) {
		t.Fatal("Or(d1, d2) should not match an archetype carrying neither")
	}
}

func TestQueryNotExcludes(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)

	only1, _ := registry.ArchetypeFor(d1)
	both, _ := registry.ArchetypeFor(d1, d2)

	q := NewQuery()
	q.Not(ComponentType(d2))

	if !q.Evaluate(only1) {
		t.Fatal("Not(d2) should match an archetype without d2")
	}
	if q.Evaluate(both) {
		t.Fatal("Not(d2) should not match an archetype carrying d2")
	}
}

func TestQueryRejectsInvalidItemType(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic for an invalid query item type")
		}
	}()
	q := NewQuery()
	q.And(42)
}

func TestRegistryMatching(t *testing.T) {
	registry, classes := newTestRegistry(t)
	d1 := NewComponent[c1](classes)
	d2 := NewComponent[c2](classes)

	a1, _ := registry.ArchetypeFor(d1)
	a2, _ := registry.ArchetypeFor(d1, d2)
	_, _ = registry.ArchetypeFor(d2)

	q := NewQuery()
	q.And(ComponentType(d1))

	matched := registry.Matching(q)
	if len(matched) != 2 {
		t.Fatalf("Matching(And(d1)) returned %d archetypes, want 2", len(matched))
	}
	found := map[*Archetype]bool{}
	for _, a := range matched {
		found[a] = true
	}
	if !found[a1] || !found[a2] {
		t.Fatal("Matching(And(d1)) must include every archetype carrying d1")
	}
}
