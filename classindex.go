package silo

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
)

// ClassIndex assigns dense small integers to component (or state enum)
// types, per spec section 4.3/6. Index 0 is reserved to mean "unknown
// type"; assigned indices start at 1, matching the teacher's
// SimpleCache.Register (cache.go), which also hands out indices
// starting at 1 via append-then-len.
type ClassIndex struct {
	mu       sync.RWMutex
	capacity int
	indices  map[reflect.Type]int
	types    []reflect.Type
}

// NewClassIndex creates a ClassIndex bounded to capacity distinct types.
func NewClassIndex(capacity int) *ClassIndex {
	return &ClassIndex{
		capacity: capacity,
		indices:  make(map[reflect.Type]int),
	}
}

// GetIndex returns the dense index assigned to t, or 0 if t hasn't been
// registered (spec section 6).
func (c *ClassIndex) GetIndex(t reflect.Type) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indices[t]
}

// GetIndexOrAddClass returns t's dense index, assigning one if absent.
// Returns a ClassIndexExhaustedError if doing so would exceed capacity
// (spec section 7.1, "fatal for... class-index").
func (c *ClassIndex) GetIndexOrAddClass(t reflect.Type) (int, error) {
	c.mu.RLock()
	if idx, ok := c.indices[t]; ok {
		c.mu.RUnlock()
		return idx, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.indices[t]; ok {
		return idx, nil
	}
	if len(c.types) >= c.capacity {
		return 0, ClassIndexExhaustedError{Capacity: c.capacity}
	}
	idx := len(c.types) + 1
	c.indices[t] = idx
	c.types = append(c.types, t)
	return idx, nil
}

// mustGetIndexOrAddClass backs NewComponent, which has no error return:
// when assigning a new index would exceed capacity it panics with a
// traced ClassIndexExhaustedError instead of returning it (spec section
// 7.1 treats class-index exhaustion as fatal).
func (c *ClassIndex) mustGetIndexOrAddClass(t reflect.Type) int {
	idx, err := c.GetIndexOrAddClass(t)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return idx
}

// TypeAt returns the type registered at the given 1-based dense index,
// or nil if idx is out of range.
func (c *ClassIndex) TypeAt(idx int) reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx < 1 || idx > len(c.types) {
		return nil
	}
	return c.types[idx-1]
}
