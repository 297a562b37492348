package silo

import "fmt"

// PoolExhaustedError is returned by Pool.NewPage when the number of
// pages would exceed 2^NumPagesBitSize.
type PoolExhaustedError struct {
	MaxPages int
}

func (e PoolExhaustedError) Error() string {
	return fmt.Sprintf("pool exhausted: max pages (%d) reached", e.MaxPages)
}

// ClassIndexExhaustedError is returned by ClassIndex.GetIndexOrAddClass
// when assigning a new class would exceed the index's capacity.
type ClassIndexExhaustedError struct {
	Capacity int
}

func (e ClassIndexExhaustedError) Error() string {
	return fmt.Sprintf("class index exhausted: max classes (%d) reached", e.Capacity)
}

// InvalidHandleError is returned by NewIdSchema when the configured page
// and slot bit widths, plus the flag bits, do not fit in 63 bits; Page
// and Slot then hold the offending bit widths.
type InvalidHandleError struct {
	Page, Slot uint64
}

func (e InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid handle: page=%d slot=%d out of range", e.Page, e.Slot)
}

// ComponentExistsError mirrors the teacher's errors.go: returned when a
// caller attempts to add a component an entity already carries.
type ComponentExistsError struct {
	Type ComponentType
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %v", e.Type)
}

// ComponentNotFoundError mirrors the teacher's errors.go: returned when a
// caller attempts to remove a component an entity doesn't carry.
type ComponentNotFoundError struct {
	Type ComponentType
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %v", e.Type)
}

// WrongArchetypeError flags a programmer-contract violation (section 7.5):
// an operation was attempted against an entity that doesn't belong to the
// archetype/state chain the caller assumed.
type WrongArchetypeError struct {
	Entity *Entity
}

func (e WrongArchetypeError) Error() string {
	return fmt.Sprintf("entity %v does not belong to the expected archetype", e.Entity.handle)
}
