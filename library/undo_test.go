package library //import "github.com/hondana-dev/hondana/library"

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestUndoExecutesMostRecentEntry(t *testing.T) {
	u := NewUndoStack(10, time.Minute)

	var restored []string
	u.Push("delete \"A\"", func() error { restored = append(restored, "A"); return nil })
	u.Push("delete \"B\"", func() error { restored = append(restored, "B"); return nil })

	description, err := u.Undo()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if description != "delete \"B\"" {
		t.Errorf("Unexpected description: %q", description)
	}
	if len(restored) != 1 || restored[0] != "B" {
		t.Fatalf("Expected B restored first, got %v", restored)
	}

	if _, err := u.Undo(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(restored) != 2 || restored[1] != "A" {
		t.Fatalf("Expected A restored second, got %v", restored)
	}
}

func TestUndoOnEmptyStackIsNoOp(t *testing.T) {
	u := NewUndoStack(10, time.Minute)

	description, err := u.Undo()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if description != "" {
		t.Errorf("Expected empty description, got %q", description)
	}
}

func TestUndoConsumesEntryEvenOnFailure(t *testing.T) {
	u := NewUndoStack(10, time.Minute)
	boom := errors.New("insert failed")
	u.Push("delete \"A\"", func() error { return boom })

	if _, err := u.Undo(); !errors.Is(err, boom) {
		t.Fatalf("Expected restore error, got %v", err)
	}
	if u.Len() != 0 {
		t.Fatal("Failed entry must still be consumed")
	}
}

func TestUndoDepthBound(t *testing.T) {
	u := NewUndoStack(2, time.Minute)

	var restored []string
	for _, name := range []string{"A", "B", "C"} {
		name := name
		u.Push(name, func() error { restored = append(restored, name); return nil })
	}
	if u.Len() != 2 {
		t.Fatalf("Expected depth bound of 2, got %d", u.Len())
	}

	u.Undo()
	u.Undo()
	if _, err := u.Undo(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Oldest entry fell off the stack.
	if len(restored) != 2 || restored[0] != "C" || restored[1] != "B" {
		t.Fatalf("Expected C then B, got %v", restored)
	}
}

func TestUndoWindowExpiry(t *testing.T) {
	u := NewUndoStack(10, 5*time.Minute)
	current := time.Now()
	u.now = func() time.Time { return current }

	u.Push("delete \"A\"", func() error { return nil })

	current = current.Add(5*time.Minute + time.Second)
	description, err := u.Undo()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if description != "" {
		t.Fatalf("Expired entry must not be undoable, got %q", description)
	}
}
