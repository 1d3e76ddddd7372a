package cache_test

import (
	"testing"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/cache"
)

func TestSetGet(t *testing.T) {
	c := cache.New[*domain.CEPResult](time.Minute)

	want := &domain.CEPResult{Street: "Av. Paulista", City: "São Paulo", State: "SP"}
	c.Set("01310100", want)

	got, ok := c.Get("01310100")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Street != want.Street {
		t.Errorf("got street %q, want %q", got.Street, want.Street)
	}
}

func TestGetMiss(t *testing.T) {
	c := cache.New[string](time.Minute)
	if _, ok := c.Get("nope"); ok {
		t.Error("expected miss")
	}
}

func TestExpiry(t *testing.T) {
	c := cache.New[string](10 * time.Millisecond)
	c.Set("k", "v")

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestDelete(t *testing.T) {
	c := cache.New[string](time.Minute)
	c.Set("k", "v")
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to be deleted")
	}
}

func TestLenCountsOnlyLiveEntries(t *testing.T) {
	c := cache.New[string](30 * time.Millisecond)
	c.Set("a", "1")
	c.Set("b", "2")
	if n := c.Len(); n != 2 {
		t.Fatalf("Len() = %d, want 2", n)
	}

	time.Sleep(50 * time.Millisecond)
	if n := c.Len(); n != 0 {
		t.Errorf("Len() after expiry = %d, want 0", n)
	}
}
