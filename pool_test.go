package silo

import (
	"sync"
	"testing"
)

func newTestPool(t *testing.T) (*Pool, IdSchema) {
	t.Helper()
	schema, err := NewIdSchema(DefaultOptions())
	if err != nil {
		t.Fatalf("NewIdSchema: %v", err)
	}
	return NewPool(schema), schema
}

func TestPoolGetEntryEmptySlot(t *testing.T) {
	pool, schema := newTestPool(t)
	h := schema.Encode(0, 0, 0)
	if got := pool.GetEntry(h); got != nil {
		t.Fatalf("GetEntry on never-written slot = %v, want nil", got)
	}
}

func TestPoolGetEntryDetachedHandle(t *testing.T) {
	pool, schema := newTestPool(t)
	page, err := pool.NewPage(nil)
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	h := schema.Encode(page.id, 0, 0)
	pool.SetEntry(h, "value")

	detached := schema.WithDetached(h)
	if got := pool.GetEntry(detached); got != nil {
		t.Fatalf("GetEntry on detached handle = %v, want nil", got)
	}
	if got := pool.GetEntry(h); got != "value" {
		t.Fatalf("GetEntry on live handle = %v, want %q", got, "value")
	}
}

func TestPoolNewPageExhaustion(t *testing.T) {
	schema, err := NewIdSchema(Options{NumPagesBitSize: 1, PageCapacityBitSize: 1})
	if err != nil {
		t.Fatalf("NewIdSchema: %v", err)
	}
	pool := NewPool(schema)

	var last *page
	for i := uint64(0); i < schema.MaxPages(); i++ {
		p, err := pool.NewPage(last)
		if err != nil {
			t.Fatalf("unexpected exhaustion at page %d: %v", i, err)
		}
		last = p
	}
	if _, err := pool.NewPage(last); err == nil {
		t.Fatal("expected PoolExhaustedError once MaxPages is reached")
	}
}

func TestPoolConcurrentPageAllocation(t *testing.T) {
	pool, _ := newTestPool(t)
	const n = 64

	var wg sync.WaitGroup
	ids := make([]uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := pool.NewPage(nil)
			if err != nil {
				t.Errorf("NewPage: %v", err)
				return
			}
			ids[i] = p.id
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("page id %d allocated more than once", id)
		}
		seen[id] = true
	}
}
