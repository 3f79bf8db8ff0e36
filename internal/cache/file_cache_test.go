package cache

import (
	"context"
	"testing"
)

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestGet_MissingKey(t *testing.T) {
	c := newTestCache(t)
	got, err := c.Get(context.Background(), "menu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty blob for missing key, got %q", got)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "menu", `{"Starters":{}}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.Get(ctx, "menu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"Starters":{}}` {
		t.Errorf("unexpected blob: %q", got)
	}

	if err := c.Set(ctx, "menu", `{}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = c.Get(ctx, "menu")
	if got != `{}` {
		t.Errorf("expected overwrite, got %q", got)
	}
}

func TestClear_RemovesAllKeys(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "menu", "{}")
	c.Set(ctx, "user", `{"name":"Asha"}`)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"menu", "user"} {
		if got, _ := c.Get(ctx, key); got != "" {
			t.Errorf("key %q survived Clear: %q", key, got)
		}
	}
}
