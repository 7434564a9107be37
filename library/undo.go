package library //import "github.com/hondana-dev/hondana/library"

import (
	"sync"
	"time"
)

// undoEntry is one reversible deletion: a description for the UI and a
// closure that re-creates the removed rows through the repository.
type undoEntry struct {
	description string
	expiresAt   time.Time
	fn          func() error
}

// UndoStack holds the most recent deletions, bounded in depth and time.
// Entries re-create content, not identity: the restored rows get fresh ids
// and timestamps because the store does not support id-preserving
// re-insertion after a hard delete.
type UndoStack struct {
	mu      sync.Mutex
	entries []*undoEntry
	depth   int
	window  time.Duration

	// test seam
	now func() time.Time
}

func NewUndoStack(depth int, window time.Duration) *UndoStack {
	return &UndoStack{
		depth:  depth,
		window: window,
		now:    time.Now,
	}
}

// Push records a new undoable deletion, pruning expired entries and
// trimming the stack to its depth.
func (u *UndoStack) Push(description string, fn func() error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.pruneLocked()
	u.entries = append(u.entries, &undoEntry{
		description: description,
		expiresAt:   u.now().Add(u.window),
		fn:          fn,
	})
	if len(u.entries) > u.depth {
		u.entries = u.entries[len(u.entries)-u.depth:]
	}
}

// Undo executes and consumes the most recent valid entry. With nothing to
// undo it is a no-op and returns an empty description.
func (u *UndoStack) Undo() (string, error) {
	u.mu.Lock()
	u.pruneLocked()
	if len(u.entries) == 0 {
		u.mu.Unlock()
		return "", nil
	}
	entry := u.entries[len(u.entries)-1]
	u.entries = u.entries[:len(u.entries)-1]
	u.mu.Unlock()

	if err := entry.fn(); err != nil {
		return entry.description, err
	}
	return entry.description, nil
}

// Len reports the number of currently valid entries.
func (u *UndoStack) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pruneLocked()
	return len(u.entries)
}

func (u *UndoStack) pruneLocked() {
	now := u.now()
	valid := u.entries[:0]
	for _, entry := range u.entries {
		if entry.expiresAt.After(now) {
			valid = append(valid, entry)
		}
	}
	u.entries = valid
}
