package silo

import (
	"sync"
	"testing"
)

func newTestTenant(t *testing.T) *Tenant {
	t.Helper()
	schema, err := NewIdSchema(DefaultOptions())
	if err != nil {
		t.Fatalf("NewIdSchema: %v", err)
	}
	pool := NewPool(schema)
	return NewTenant(pool, DefaultOptions().FreeStackCapacity)
}

func TestTenantNextIDDistinct(t *testing.T) {
	tenant := newTestTenant(t)
	seen := make(map[Handle]bool)
	for i := 0; i < 5000; i++ {
		h, err := tenant.NextID()
		if err != nil {
			t.Fatalf("NextID: %v", err)
		}
		if seen[h] {
			t.Fatalf("NextID returned duplicate handle %v at iteration %d", h, i)
		}
		seen[h] = true
	}
}

func TestTenantFreeThenReuse(t *testing.T) {
	tenant := newTestTenant(t)
	h1, err := tenant.NextID()
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	tenant.Register(h1, "first")
	tenant.FreeID(h1)

	h2, err := tenant.NextID()
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}
	if tenant.pool.schema.IsDetached(h2) {
		t.Fatal("reissued handle must not carry the detached flag")
	}
	// Interleaved freeId/nextId may or may not return h1, but the result
	// must be valid and slot-unique (spec section 8).
	tenant.Register(h2, "second")
	if got := tenant.pool.GetEntry(h2); got != "second" {
		t.Fatalf("GetEntry(h2) = %v, want %q", got, "second")
	}
}

func TestTenantGrowsAcrossPages(t *testing.T) {
	schema, err := NewIdSchema(Options{NumPagesBitSize: 4, PageCapacityBitSize: 2})
	if err != nil {
		t.Fatalf("NewIdSchema: %v", err)
	}
	pool := NewPool(schema)
	tenant := NewTenant(pool, 16)

	perPage := int(schema.MaxSlotsPerPage())
	seenPages := make(map[uint64]bool)
	for i := 0; i < perPage*3; i++ {
		h, err := tenant.NextID()
		if err != nil {
			t.Fatalf("NextID at %d: %v", i, err)
		}
		seenPages[schema.PageOf(h)] = true
	}
	if len(seenPages) < 3 {
		t.Fatalf("expected handles spread across >=3 pages, got %d", len(seenPages))
	}
}

func TestTenantConcurrentNextID(t *testing.T) {
	tenant := newTestTenant(t)
	const goroutines = 32
	const perGoroutine = 200

	results := make([][]Handle, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			hs := make([]Handle, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				h, err := tenant.NextID()
				if err != nil {
					t.Errorf("NextID: %v", err)
					return
				}
				hs = append(hs, h)
			}
			results[g] = hs
		}(g)
	}
	wg.Wait()

	seen := make(map[Handle]bool, goroutines*perGoroutine)
	for _, hs := range results {
		for _, h := range hs {
			if seen[h] {
				t.Fatalf("handle %v issued more than once under concurrency", h)
			}
			seen[h] = true
		}
	}
}
