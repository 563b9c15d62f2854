package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/priceai/backend/internal/domain"
)

func sampleSet() []domain.EnrichedProductRecord {
	return []domain.EnrichedProductRecord{
		{ProductRecord: domain.ProductRecord{Name: "iPhone 15", Price: "79900", Source: "Amazon.in"}},
		{ProductRecord: domain.ProductRecord{Name: "iPhone 15", Price: "78999", Source: "Flipkart"}},
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, "search:iphone 15", sampleSet(), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "search:iphone 15")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), "search:unknown")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if err := c.Set(ctx, "k", sampleSet(), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Set(ctx, "k", sampleSet(), time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := c.Get(ctx, "k"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after delete", err)
	}
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Set(ctx, "k", sampleSet(), time.Minute)

	first, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// A caller reordering or mutating its view must not leak into the
	// cached set.
	first[0], first[1] = first[1], first[0]
	first[0].Name = "mutated"

	second, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if second[0].Name != "iPhone 15" || second[0].Source != "Amazon.in" {
		t.Errorf("cached set mutated through a returned copy: %+v", second[0])
	}
}

func TestMemoryCacheSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
	c.Set(ctx, "a", sampleSet(), time.Minute)
	c.Set(ctx, "b", sampleSet(), time.Minute)
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}
