package cache //import "github.com/hondana-dev/hondana/cache"

import (
	"testing"
	"time"
)

func TestGetReturnsFreshEntries(t *testing.T) {
	c := New(time.Minute)
	c.Set("books", []string{"a", "b"})

	got, ok := c.Get("books")
	if !ok {
		t.Fatal("Expected a cache hit")
	}
	if len(got.([]string)) != 2 {
		t.Fatalf("Unexpected value: %v", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Expected a cache miss")
	}
}

func TestGetExpiresStaleEntries(t *testing.T) {
	c := New(time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("books", "v")

	current = current.Add(59 * time.Second)
	if _, ok := c.Get("books"); !ok {
		t.Fatal("Entry within the freshness window must hit")
	}

	current = current.Add(2 * time.Second)
	if _, ok := c.Get("books"); ok {
		t.Fatal("Stale entry must miss")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New(0)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("books", "v")
	current = current.Add(24 * time.Hour)
	if _, ok := c.Get("books"); !ok {
		t.Fatal("Zero TTL must disable expiry")
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set(BookKey("1"), "a")
	c.Set(BookKey("2"), "b")
	c.Set(KeyAllBooks, "list")

	c.InvalidatePrefix(PrefixBook)

	if _, ok := c.Get(BookKey("1")); ok {
		t.Fatal("Prefixed key must be dropped")
	}
	if _, ok := c.Get(KeyAllBooks); !ok {
		t.Fatal("Unrelated key must survive")
	}
}

func TestSnapshotRestoreIsVerbatim(t *testing.T) {
	c := New(time.Minute)
	fetched := time.Now().Add(-30 * time.Second)
	c.now = func() time.Time { return fetched }
	c.Set("books", "old")
	c.now = time.Now

	snap := c.Snapshot("books", "absent")

	c.Set("books", "optimistic")
	c.Set("absent", "optimistic")

	c.Restore(snap)

	got, ok := c.Get("books")
	if !ok || got != "old" {
		t.Fatalf("Expected restored value, got %v (%v)", got, ok)
	}
	// The original fetch time comes back too, not a refreshed one.
	if e := c.entries["books"]; !e.fetchedAt.Equal(fetched) {
		t.Errorf("Expected fetchedAt %v, got %v", fetched, e.fetchedAt)
	}
	if _, ok := c.Get("absent"); ok {
		t.Fatal("Key that was absent at snapshot time must be removed")
	}
}
