package store //import "github.com/hondana-dev/hondana/store"

import (
	"database/sql"
	"sync"
)

// Store is the sole owner of reads and writes against the collection
// database. Entity caches are read-through and evicted on every mutation.
type Store struct {
	db *sql.DB

	BookCache   sync.Map // map[string]*model.BookWithSeries
	SeriesCache sync.Map // map[string]*model.Series
	ShopCache   sync.Map // map[string]*model.Shop
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// nullable column helpers

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
