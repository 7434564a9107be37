package cache //import "github.com/hondana-dev/hondana/cache"

// Mutation is the three-phase optimistic-update transaction wrapped around
// every create/update/delete:
//
//	snapshot -> optimistic apply -> commit (real write)
//
// On commit failure every snapshotted key is restored verbatim and the
// error is re-propagated. On success the affected keys are invalidated so
// the next read recomputes from the store; the optimistic projection is
// never merged with the real row (generated ids and timestamps would
// diverge).
type Mutation struct {
	cache *Cache
	keys  []string
	snap  map[string]*entry
}

// NewMutation prepares a mutation touching the given view keys.
func NewMutation(c *Cache, keys ...string) *Mutation {
	return &Mutation{cache: c, keys: keys}
}

// Snapshot captures the current state of every affected key. Must run
// before Apply.
func (m *Mutation) Snapshot() {
	m.snap = m.cache.Snapshot(m.keys...)
}

// Apply runs the optimistic projection against the cache.
func (m *Mutation) Apply(fn func(c *Cache)) {
	fn(m.cache)
}

// CommitOrRollback performs the real write. Rollback on failure is
// unconditional: the cache must never keep an optimistic write whose real
// counterpart failed.
func (m *Mutation) CommitOrRollback(commit func() error) error {
	if err := commit(); err != nil {
		if m.snap != nil {
			m.cache.Restore(m.snap)
		}
		return err
	}
	m.cache.Invalidate(m.keys...)
	return nil
}

// Run executes all three phases in order.
func (m *Mutation) Run(apply func(c *Cache), commit func() error) error {
	m.Snapshot()
	if apply != nil {
		m.Apply(apply)
	}
	return m.CommitOrRollback(commit)
}
