package silo

import (
	"sort"
	"strings"
)

// Entity is spec's entity record: a handle, a back-pointer to its
// current archetype, optional state-chain links, and the set of
// component types it currently carries (spec section 3).
type Entity struct {
	handle    Handle
	archetype *Archetype
	localPage int
	slot      int
	types     []ComponentType

	stateRootKey *StateKey
	prev, next   *Entity

	onDestroy EntityDestroyCallback
}

// Handle returns the entity's current handle. Once the entity has been
// destroyed, the returned handle carries the detached flag.
func (e *Entity) Handle() Handle { return e.handle }

// Archetype returns the entity's current archetype, or nil if the
// entity has been destroyed.
func (e *Entity) Archetype() *Archetype { return e.archetype }

// Valid reports whether the entity currently belongs to an archetype.
func (e *Entity) Valid() bool { return e.archetype != nil }

// Types returns the component types this entity currently carries.
func (e *Entity) Types() []ComponentType { return e.types }

// StateKey returns the key this entity roots, or nil if it isn't a
// chain root.
func (e *Entity) StateKey() *StateKey { return e.stateRootKey }

// DebugString renders a sorted, bracketed list of component type names,
// mirroring the teacher's Entity.ComponentsAsString (entity.go).
func (e *Entity) DebugString() string {
	if len(e.types) == 0 {
		return "[]"
	}
	names := make([]string, len(e.types))
	for i, t := range e.types {
		name := t.reflectType().String()
		parts := strings.Split(name, ".")
		names[i] = parts[len(parts)-1]
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ", ") + "]"
}

func (e *Entity) hasType(classIdx int) bool {
	for _, t := range e.types {
		if t.classIndex() == classIdx {
			return true
		}
	}
	return false
}

// AddComponent adds desc/value to e, moving it to the archetype for its
// new component set (created if it doesn't already exist). A no-op (returning
// ComponentExistsError) if e already carries desc's type — mirrors the
// teacher's entity.go AddComponent/AddComponentWithValue, collapsed into
// one call since silo's columns are typed rather than reflect-only
// (spec section 12, supplemented feature).
func (e *Entity) AddComponent(registry *Registry, desc ComponentType, value any) error {
	if e.archetype == nil {
		return WrongArchetypeError{Entity: e}
	}
	if e.hasType(desc.classIndex()) {
		return ComponentExistsError{Type: desc}
	}
	newTypes := append(append([]ComponentType(nil), e.types...), desc)
	values := make([]ComponentValue, 0, len(newTypes))
	for _, t := range e.types {
		values = append(values, ComponentValue{desc: t, value: currentValue(e, t)})
	}
	values = append(values, ComponentValue{desc: desc, value: value})

	dest, err := registry.ArchetypeFor(newTypes...)
	if err != nil {
		return err
	}
	old, oldHandle := e.archetype, e.handle
	if err := dest.AttachEntity(e, false, values...); err != nil {
		return err
	}
	old.releaseHandle(oldHandle)
	return nil
}

// RemoveComponent removes desc from e, moving it to the archetype for
// its remaining component set. A no-op (returning
// ComponentNotFoundError) if e doesn't carry desc's type.
func (e *Entity) RemoveComponent(registry *Registry, desc ComponentType) error {
	if e.archetype == nil {
		return WrongArchetypeError{Entity: e}
	}
	if !e.hasType(desc.classIndex()) {
		return ComponentNotFoundError{Type: desc}
	}
	newTypes := make([]ComponentType, 0, len(e.types)-1)
	values := make([]ComponentValue, 0, len(e.types)-1)
	for _, t := range e.types {
		if t.classIndex() == desc.classIndex() {
			continue
		}
		newTypes = append(newTypes, t)
		values = append(values, ComponentValue{desc: t, value: currentValue(e, t)})
	}

	dest, err := registry.ArchetypeFor(newTypes...)
	if err != nil {
		return err
	}
	old, oldHandle := e.archetype, e.handle
	if err := dest.AttachEntity(e, false, values...); err != nil {
		return err
	}
	old.releaseHandle(oldHandle)
	return nil
}

// currentValue reads e's current stored value for component type t by
// dereferencing through t's own typed column — used to carry existing
// component values across an archetype transfer.
func currentValue(e *Entity, t ComponentType) any {
	pos := e.archetype.positionOf(t.classIndex())
	if pos < 0 {
		return nil
	}
	return readAny(e.archetype.columns[pos], e.localPage, e.slot)
}

// readable is implemented by typedColumn[T] to support generic reads
// back out as `any`, used only when carrying values across a transfer.
type readable interface {
	readAny(localPage, slot int) any
}

func (c *typedColumn[T]) readAny(localPage, slot int) any {
	pages := c.pages.Load()
	return (*pages)[localPage][slot]
}

func readAny(c column, localPage, slot int) any {
	r, ok := c.(readable)
	if !ok {
		return nil
	}
	return r.readAny(localPage, slot)
}

// EntityDestroyCallback is invoked when an entity is destroyed, mirroring
// the teacher's entity.go EntityDestroyCallback hook.
type EntityDestroyCallback func(*Entity)

// SetDestroyCallback registers cb to run when e is destroyed via
// Archetype.DetachEntity/DetachEntityAndState. A nil cb clears any
// previously registered callback. Not invoked on archetype transfer
// (AddComponent/RemoveComponent), since the entity isn't being destroyed
// there, only moved.
func (e *Entity) SetDestroyCallback(cb EntityDestroyCallback) {
	e.onDestroy = cb
}
