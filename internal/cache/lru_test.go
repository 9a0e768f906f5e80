package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

func record(id string) *assessment.Record {
	rec := assessment.NewRecord(assessment.Key{EmployeeID: "emp-" + id}, scoring.AssessmentInput{Q1Score: scoring.Int(3)}, scoring.Default())
	rec.ID = id
	return rec
}

func TestLRUGetPut(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(2)

	c.Put(ctx, record("a"))
	c.Put(ctx, record("b"))

	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("expected a to be cached")
	}

	// a was just used, so b is the eviction candidate.
	c.Put(ctx, record("c"))
	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestLRUReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(0)
	c.Put(ctx, record("a"))

	got, _ := c.Get(ctx, "a")
	got.EmployeeID = "mutated"

	again, _ := c.Get(ctx, "a")
	if again.EmployeeID != "emp-a" {
		t.Errorf("cached record mutated through copy: %q", again.EmployeeID)
	}
}

func TestLRUInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(4)
	c.Put(ctx, record("a"))
	c.Invalidate(ctx, "a")
	c.Invalidate(ctx, "missing")

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected a to be invalidated")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestLRUConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(10)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r%d", i%15)
			c.Put(ctx, record(id))
			c.Get(ctx, id)
			if i%7 == 0 {
				c.Invalidate(ctx, id)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	c.Put(ctx, record("a"))
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("Nop cache returned a hit")
	}
}
