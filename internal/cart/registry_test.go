package cart

import (
	"testing"
	"time"
)

func TestRegistryCreatesCartOnFirstTouch(t *testing.T) {
	t.Parallel()

	r := NewRegistry(time.Hour)
	c := r.Get("till-1")
	if c == nil || c.Len() != 0 {
		t.Fatal("expected a fresh empty cart")
	}
	if r.Get("till-1") != c {
		t.Fatal("expected the same cart on repeat lookup")
	}
	if r.Len() != 1 {
		t.Fatalf("expected one live cart, got %d", r.Len())
	}
}

func TestRegistrySweepEvictsIdleCarts(t *testing.T) {
	t.Parallel()

	r := NewRegistry(time.Minute)
	r.Get("till-1")
	r.Get("till-2")

	if evicted := r.Sweep(time.Now()); evicted != 0 {
		t.Fatalf("fresh carts should survive, evicted %d", evicted)
	}

	if evicted := r.Sweep(time.Now().Add(2 * time.Minute)); evicted != 2 {
		t.Fatalf("expected both carts evicted, got %d", evicted)
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistrySweepSkipsInFlightCheckout(t *testing.T) {
	t.Parallel()

	r := NewRegistry(time.Minute)
	c := r.Get("till-1")
	if !c.BeginCheckout() {
		t.Fatal("begin checkout failed")
	}

	if evicted := r.Sweep(time.Now().Add(2 * time.Minute)); evicted != 0 {
		t.Fatalf("in-flight cart should not be evicted, got %d", evicted)
	}

	c.EndCheckout()
	if evicted := r.Sweep(time.Now().Add(2 * time.Minute)); evicted != 1 {
		t.Fatalf("expected eviction after checkout resolved, got %d", evicted)
	}
}

func TestRegistryDrop(t *testing.T) {
	t.Parallel()

	r := NewRegistry(0)
	r.Get("till-1")
	r.Drop("till-1")
	if r.Len() != 0 {
		t.Fatalf("expected dropped cart to be gone")
	}
}
