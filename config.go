package silo

// Options holds the tunable capacities described in spec section 6.
// Unlike the teacher's single global config.Config, Options is a value
// passed explicitly to NewIdSchema and NewRegistry (NewPool takes the
// resulting IdSchema, NewClassIndex its ComponentIndexCapacity), since tests in
// this package construct many independent pools concurrently and a
// single mutable global would make them interfere with each other.
type Options struct {
	// NumPagesBitSize bounds the number of pages a Pool may allocate to 2^n.
	NumPagesBitSize uint
	// PageCapacityBitSize bounds the slots per page to 2^n.
	PageCapacityBitSize uint
	// FreeStackCapacity bounds how many freed handles a Tenant recycles
	// before new frees are leaked (not recycled, not treated as an error).
	FreeStackCapacity int
	// ComponentIndexCapacity bounds how many distinct component/state
	// types a ClassIndex may assign an index to.
	ComponentIndexCapacity int
}

// DefaultOptions returns the spec's documented defaults:
// 14-bit page index, 16-bit slot index, a 1024-entry free stack and a
// 1024-entry component index.
func DefaultOptions() Options {
	return Options{
		NumPagesBitSize:        14,
		PageCapacityBitSize:    16,
		FreeStackCapacity:      1024,
		ComponentIndexCapacity: 1024,
	}
}
