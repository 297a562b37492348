package silo

// entityCursor walks one archetype's tenant pages in page-then-slot
// order, skipping slots that don't currently hold a live entity of this
// archetype (spec section 4.6: "advance until an entity whose stored
// data is non-null, whose archetype back-pointer equals this
// archetype... tolerate transient/detached records without aborting").
type entityCursor struct {
	archetype *Archetype
	pageIdx   int
	slot      int
	current   *Entity
}

func newEntityCursor(a *Archetype) *entityCursor {
	return &entityCursor{archetype: a, slot: -1}
}

// Next advances to the next live entity in the archetype, returning
// false once every allocated page has been walked. Iteration is weakly
// consistent: concurrent structural edits may be observed mid-walk or
// not at all (spec section 5).
func (c *entityCursor) Next() bool {
	for {
		c.slot++
		globalID, ok := c.archetype.pageAt(c.pageIdx)
		if !ok {
			return false
		}
		pg := c.archetype.registry.pool.pageAt(globalID)
		if pg == nil {
			c.pageIdx++
			c.slot = -1
			continue
		}
		used := int(pg.size.Load())
		if used > len(pg.slots) {
			used = len(pg.slots)
		}
		if c.slot >= used {
			c.pageIdx++
			c.slot = -1
			continue
		}
		e, ok := pg.slots[c.slot].(*Entity)
		if !ok || e == nil || e.archetype != c.archetype {
			continue
		}
		c.current = e
		return true
	}
}

// Entity returns the entity at the cursor's current position.
func (c *entityCursor) Entity() *Entity { return c.current }

// Cursor walks every entity in every archetype the given query node
// matches, mirroring the teacher's Cursor (cursor.go) but returning
// entities directly rather than table rows.
type Cursor struct {
	registry *Registry
	node     QueryNode
	arches   []*Archetype
	archIdx  int
	inner    *entityCursor
}

// NewCursor creates a Cursor over every archetype in registry that node
// matches, as of the moment of this call.
func NewCursor(node QueryNode, registry *Registry) *Cursor {
	return &Cursor{
		registry: registry,
		node:     node,
		arches:   registry.Matching(node),
	}
}

// Next advances the cursor to the next matching entity.
func (c *Cursor) Next() bool {
	for {
		if c.inner != nil && c.inner.Next() {
			return true
		}
		if c.archIdx >= len(c.arches) {
			return false
		}
		c.inner = newEntityCursor(c.arches[c.archIdx])
		c.archIdx++
	}
}

// Entity returns the entity at the cursor's current position.
func (c *Cursor) Entity() *Entity {
	if c.inner == nil {
		return nil
	}
	return c.inner.Entity()
}
