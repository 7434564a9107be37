package store //import "github.com/hondana-dev/hondana/store"

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hondana-dev/hondana/config"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/store/db"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hondana_test.db")
	d, err := db.NewDB(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := d.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d.DB)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
