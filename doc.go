/*
Package silo provides the storage and indexing core of an
Entity-Component-System (ECS) engine.

silo hands out dense 64-bit handles from a paged object pool, groups
entities sharing the same component type-set into contiguous
archetype storage, and links entities sharing an enum state value
into an intrusive doubly linked chain.

Core Concepts:

  - Handle: a packed (page, slot, flags) identifier produced by an IdSchema.
  - Pool: a paged array of objects addressed by handle.
  - Tenant: a per-archetype view over a Pool that issues and recycles handles.
  - Registry / DataComposition: groups entities by component type-set.
  - StateIndex: an intrusive doubly linked chain keyed by (class, ordinal).

Basic Usage:

	opts := silo.DefaultOptions()
	schema, _ := silo.NewIdSchema(opts)
	pool := silo.NewPool(schema)
	classes := silo.NewClassIndex(opts.ComponentIndexCapacity)
	registry := silo.NewRegistry(pool, classes, opts)

	position := silo.NewComponent[Position](classes)
	velocity := silo.NewComponent[Velocity](classes)

	arche, _ := registry.ArchetypeFor(position, velocity)
	arche.CreateEntity(false, position.With(Position{X: 1}), velocity.With(Velocity{X: 2}))

	it := silo.Find2(registry, position, velocity)
	for it.Next() {
		v := it.Value()
		v.A.X += v.B.X
	}

silo is the storage layer underneath a game or simulation scheduler;
the scheduler, a public query DSL beyond With1..With6 and the boolean
Query tree (NewQuery with And/Or/Not), and any network/CLI surface are
out of scope for this module.
*/
package silo
