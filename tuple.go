package silo

// With1..With6 are the "Results tuples" exposed by spec section 6: an
// arity-indexed family carrying pointers to each requested component
// alongside the owning entity.

type With1[A any] struct {
	A      *A
	Entity *Entity
}

type With2[A, B any] struct {
	A      *A
	B      *B
	Entity *Entity
}

type With3[A, B, C any] struct {
	A      *A
	B      *B
	C      *C
	Entity *Entity
}

type With4[A, B, C, D any] struct {
	A      *A
	B      *B
	C      *C
	D      *D
	Entity *Entity
}

type With5[A, B, C, D, E any] struct {
	A      *A
	B      *B
	C      *C
	D      *D
	E      *E
	Entity *Entity
}

type With6[A, B, C, D, E, F any] struct {
	A      *A
	B      *B
	C      *C
	D      *D
	E      *E
	F      *F
	Entity *Entity
}

// Iterator1 finds every entity across a registry carrying component A,
// regardless of which archetype it lives in (spec section 8 scenario 5:
// find(C1) must span archetypes {C1} and {C1,C2}).
type Iterator1[A any] struct {
	cur *Cursor
	a   ComponentDesc[A]
}

// Find1 returns an iterator over every entity in registry carrying a.
func Find1[A any](registry *Registry, a ComponentDesc[A]) *Iterator1[A] {
	q := NewQuery()
	q.And(ComponentType(a))
	return &Iterator1[A]{cur: NewCursor(q, registry), a: a}
}

func (it *Iterator1[A]) Next() bool { return it.cur.Next() }

// Value returns the With1 tuple at the iterator's current position.
func (it *Iterator1[A]) Value() With1[A] {
	e := it.cur.Entity()
	return With1[A]{A: it.a.Get(e), Entity: e}
}

// Iterator2 finds every entity across a registry carrying components A
// and B.
type Iterator2[A, B any] struct {
	cur *Cursor
	a   ComponentDesc[A]
	b   ComponentDesc[B]
}

func Find2[A, B any](registry *Registry, a ComponentDesc[A], b ComponentDesc[B]) *Iterator2[A, B] {
	q := NewQuery()
	q.And(ComponentType(a), ComponentType(b))
	return &Iterator2[A, B]{cur: NewCursor(q, registry), a: a, b: b}
}

func (it *Iterator2[A, B]) Next() bool { return it.cur.Next() }

func (it *Iterator2[A, B]) Value() With2[A, B] {
	e := it.cur.Entity()
	return With2[A, B]{A: it.a.Get(e), B: it.b.Get(e), Entity: e}
}

// Iterator3 finds every entity across a registry carrying components A,
// B and C.
type Iterator3[A, B, C any] struct {
	cur *Cursor
	a   ComponentDesc[A]
	b   ComponentDesc[B]
	c   ComponentDesc[C]
}

func Find3[A, B, C any](registry *Registry, a ComponentDesc[A], b ComponentDesc[B], c ComponentDesc[C]) *Iterator3[A, B, C] {
	q := NewQuery()
	q.And(ComponentType(a), ComponentType(b), ComponentType(c))
	return &Iterator3[A, B, C]{cur: NewCursor(q, registry), a: a, b: b, c: c}
}

func (it *Iterator3[A, B, C]) Next() bool { return it.cur.Next() }

func (it *Iterator3[A, B, C]) Value() With3[A, B, C] {
	e := it.cur.Entity()
	return With3[A, B, C]{A: it.a.Get(e), B: it.b.Get(e), C: it.c.Get(e), Entity: e}
}

// Iterator4 finds every entity across a registry carrying four
// component types.
type Iterator4[A, B, C, D any] struct {
	cur *Cursor
	a   ComponentDesc[A]
	b   ComponentDesc[B]
	c   ComponentDesc[C]
	d   ComponentDesc[D]
}

func Find4[A, B, C, D any](registry *Registry, a ComponentDesc[A], b ComponentDesc[B], c ComponentDesc[C], d ComponentDesc[D]) *Iterator4[A, B, C, D] {
	q := NewQuery()
	q.And(ComponentType(a), ComponentType(b), ComponentType(c), ComponentType(d))
	return &Iterator4[A, B, C, D]{cur: NewCursor(q, registry), a: a, b: b, c: c, d: d}
}

func (it *Iterator4[A, B, C, D]) Next() bool { return it.cur.Next() }

func (it *Iterator4[A, B, C, D]) Value() With4[A, B, C, D] {
	e := it.cur.Entity()
	return With4[A, B, C, D]{A: it.a.Get(e), B: it.b.Get(e), C: it.c.Get(e), D: it.d.Get(e), Entity: e}
}

// Iterator5 finds every entity across a registry carrying five
// component types.
type Iterator5[A, B, C, D, E any] struct {
	cur *Cursor
	a   ComponentDesc[A]
	b   ComponentDesc[B]
	c   ComponentDesc[C]
	d   ComponentDesc[D]
	e   ComponentDesc[E]
}

func Find5[A, B, C, D, E any](registry *Registry, a ComponentDesc[A], b ComponentDesc[B], c ComponentDesc[C], d ComponentDesc[D], e ComponentDesc[E]) *Iterator5[A, B, C, D, E] {
	q := NewQuery()
	q.And(ComponentType(a), ComponentType(b), ComponentType(c), ComponentType(d), ComponentType(e))
	return &Iterator5[A, B, C, D, E]{cur: NewCursor(q, registry), a: a, b: b, c: c, d: d, e: e}
}

func (it *Iterator5[A, B, C, D, E]) Next() bool { return it.cur.Next() }

func (it *Iterator5[A, B, C, D, E]) Value() With5[A, B, C, D, E] {
	en := it.cur.Entity()
	return With5[A, B, C, D, E]{A: it.a.Get(en), B: it.b.Get(en), C: it.c.Get(en), D: it.d.Get(en), E: it.e.Get(en), Entity: en}
}

// Iterator6 finds every entity across a registry carrying six component
// types — the top of spec section 6's "With1..With6" family.
type Iterator6[A, B, C, D, E, F any] struct {
	cur *Cursor
	a   ComponentDesc[A]
	b   ComponentDesc[B]
	c   ComponentDesc[C]
	d   ComponentDesc[D]
	e   ComponentDesc[E]
	f   ComponentDesc[F]
}

func Find6[A, B, C, D, E, F any](registry *Registry, a ComponentDesc[A], b ComponentDesc[B], c ComponentDesc[C], d ComponentDesc[D], e ComponentDesc[E], f ComponentDesc[F]) *Iterator6[A, B, C, D, E, F] {
	q := NewQuery()
	q.And(ComponentType(a), ComponentType(b), ComponentType(c), ComponentType(d), ComponentType(e), ComponentType(f))
	return &Iterator6[A, B, C, D, E, F]{cur: NewCursor(q, registry), a: a, b: b, c: c, d: d, e: e, f: f}
}

func (it *Iterator6[A, B, C, D, E, F]) Next() bool { return it.cur.Next() }

func (it *Iterator6[A, B, C, D, E, F]) Value() With6[A, B, C, D, E, F] {
	en := it.cur.Entity()
	return With6[A, B, C, D, E, F]{
		A: it.a.Get(en), B: it.b.Get(en), C: it.c.Get(en),
		D: it.d.Get(en), E: it.e.Get(en), F: it.f.Get(en),
		Entity: en,
	}
}
