package silo

import "sync"

// StateKey identifies one state chain: the class index of a user enum
// type paired with the enum's ordinal value (spec section 4.5).
type StateKey struct {
	ClassIndex int
	Ordinal    int
}

// StateIndex is a concurrent mapping from StateKey to the entity
// currently at the head ("root") of that state's chain. Chains are
// doubly linked via Entity.prev/next; only the root holds the map's
// key (spec section 3/4.5).
type StateIndex struct {
	mu    sync.Mutex
	roots map[StateKey]*Entity
}

func newStateIndex() *StateIndex {
	return &StateIndex{roots: make(map[StateKey]*Entity)}
}

// attach implements the spec section 4.5 attach protocol: if no root
// exists yet for key, e becomes the root; otherwise e is linked in
// ahead of the current root and becomes the new root, demoting the old
// root to an interior/tail node. Both branches run under the same lock
// so they form a single atomic compute step, satisfying the "concurrent
// attachers do not both believe they are root" requirement.
func (s *StateIndex) attach(key StateKey, e *Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.roots[key]
	if !exists {
		s.roots[key] = e
		e.stateRootKey = &key
		return
	}
	e.prev = old
	e.stateRootKey = &key
	old.next = e
	old.stateRootKey = nil
	s.roots[key] = e
}

// detach implements the spec section 4.5 detach protocol. Resolution of
// the open question in spec section 9 (re: a race between root
// promotion and interior splice): detach takes the lock first and
// re-dispatches on e.stateRootKey under that same lock, rather than
// branching before acquiring it, so a concurrent attach that promotes e
// to root cannot be observed mid-dispatch.
func (s *StateIndex) detach(e *Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.stateRootKey != nil {
		key := *e.stateRootKey
		if e.prev == nil {
			delete(s.roots, key)
			e.stateRootKey = nil
			return
		}
		prev := e.prev
		s.roots[key] = prev
		prev.stateRootKey = &key
		prev.next = nil
		e.stateRootKey = nil
		e.prev = nil
		return
	}

	// Interior or tail node (or not in any chain at all).
	prev, next := e.prev, e.next
	if prev == nil && next == nil {
		return
	}
	if prev != nil {
		prev.next = next
	}
	if next != nil {
		next.prev = prev
	}
	e.prev, e.next = nil, nil
}

// StateIterator walks prev links from a chain's root. It is
// single-threaded and not reentrant (spec section 4.5).
type StateIterator struct {
	current *Entity
	started bool
}

// Root returns an iterator starting at the entity currently rooting key,
// or a non-started, empty iterator if key has no chain.
func (s *StateIndex) Root(key StateKey) *StateIterator {
	s.mu.Lock()
	root := s.roots[key]
	s.mu.Unlock()
	return &StateIterator{current: root}
}

// Next advances the iterator to the next entity in the chain (walking
// prev links from the root toward the tail) and reports whether one
// was available.
func (it *StateIterator) Next() bool {
	if !it.started {
		it.started = true
		return it.current != nil
	}
	if it.current == nil {
		return false
	}
	it.current = it.current.prev
	return it.current != nil
}

// Entity returns the entity at the iterator's current position.
func (it *StateIterator) Entity() *Entity { return it.current }
