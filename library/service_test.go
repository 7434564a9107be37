package library //import "github.com/hondana-dev/hondana/library"

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/cache"
	"github.com/hondana-dev/hondana/config"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/store"
	"github.com/hondana-dev/hondana/store/db"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func newTestService(t *testing.T) (*Service, *store.Store) {
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

	s := store.NewStore(d.DB)
	return NewService(s, cache.New(time.Minute), 10, 5*time.Minute), s
}

func testSeries(t *testing.T, s *store.Store, title string) *model.Series {
	t.Helper()
	series, err := s.CreateSeries(&model.Series{Title: title})
	if err != nil {
		t.Fatalf("Failed to create series: %v", err)
	}
	return series
}

func TestCreateBookRejectsEmptyTitle(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Valid Series")

	_, err := svc.CreateBook(&model.Book{
		Title:     "   ",
		TargetURL: "https://shop.example/items/1",
		SeriesID:  series.ID,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	count, err := s.CountBooks()
	if err != nil {
		t.Fatalf("Failed to count books: %v", err)
	}
	if count != 0 {
		t.Fatalf("Rejected book must not be persisted, got %d", count)
	}
}

func TestCreateBookRollsBackOptimisticProjection(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Existing")
	if _, err := svc.CreateBook(&model.Book{
		Title:     "Existing 1",
		TargetURL: "https://shop.example/items/1",
		SeriesID:  series.ID,
	}); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	// Prime the cached list so there is something to project onto.
	before, err := svc.GetAllBooks()
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}

	// Points at a series that does not exist; the storage write fails after
	// the optimistic insert already ran.
	_, err = svc.CreateBook(&model.Book{
		Title:     "Doomed",
		TargetURL: "https://shop.example/items/2",
		SeriesID:  "no-such-series",
	})
	if !errors.Is(err, apperr.ErrForeignKey) {
		t.Fatalf("Expected foreign key violation, got %v", err)
	}

	after, err := svc.GetAllBooks()
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("Cache must be restored verbatim: %d books before, %d after", len(before), len(after))
	}
	for _, book := range after {
		if book.Title == "Doomed" {
			t.Fatal("Optimistic projection leaked past the rollback")
		}
	}
}

func TestRegisterBookSequentialVolumesShareSeries(t *testing.T) {
	svc, s := newTestService(t)

	first, err := svc.RegisterBookFromSearchResult(&model.RegisterBookRequest{
		Result: model.BookSearchResult{
			ExternalID: "cat-1",
			Title:      "Sample Manga 1",
			Author:     "Some Artist",
			TargetURL:  "https://catalog.example/cat-1",
		},
	})
	if err != nil {
		t.Fatalf("Failed to register first volume: %v", err)
	}

	second, err := svc.RegisterBookFromSearchResult(&model.RegisterBookRequest{
		Result: model.BookSearchResult{
			ExternalID: "cat-2",
			Title:      "Sample Manga 2",
			Author:     "Some Artist",
			TargetURL:  "https://catalog.example/cat-2",
		},
	})
	if err != nil {
		t.Fatalf("Failed to register second volume: %v", err)
	}

	if first.SeriesID != second.SeriesID {
		t.Fatalf("Volumes must share a series: %q vs %q", first.SeriesID, second.SeriesID)
	}
	if first.Series == nil || first.Series.Title != "Sample Manga" {
		t.Errorf("Expected derived series title, got %+v", first.Series)
	}

	// Seeded sentinel plus the one derived series.
	count, err := s.CountSeries()
	if err != nil {
		t.Fatalf("Failed to count series: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 series, got %d", count)
	}
}

func TestRegisterBookHonorsSelectedSeries(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Hand Picked")

	book, err := svc.RegisterBookFromSearchResult(&model.RegisterBookRequest{
		Result: model.BookSearchResult{
			ExternalID: "cat-9",
			Title:      "Completely Unrelated Title 4",
			TargetURL:  "https://catalog.example/cat-9",
		},
		SelectedSeriesID: &series.ID,
	})
	if err != nil {
		t.Fatalf("Failed to register book: %v", err)
	}
	if book.SeriesID != series.ID {
		t.Fatalf("Expected selected series %q, got %q", series.ID, book.SeriesID)
	}
}

func TestRegisterBookRejectsEmptyTitle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterBookFromSearchResult(&model.RegisterBookRequest{
		Result: model.BookSearchResult{
			Title:     " \t ",
			TargetURL: "https://catalog.example/cat-0",
		},
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func TestDeleteBookUndoRestoresContentNotIdentity(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Undoable")
	created, err := svc.CreateBook(&model.Book{
		Title:     "Undoable 1",
		TargetURL: "https://shop.example/items/3",
		SeriesID:  series.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	if _, err := svc.DeleteBook(created.ID); err != nil {
		t.Fatalf("Failed to delete book: %v", err)
	}
	if svc.UndoDepth() != 1 {
		t.Fatalf("Expected 1 undoable deletion, got %d", svc.UndoDepth())
	}

	description, err := svc.Undo()
	if err != nil {
		t.Fatalf("Failed to undo: %v", err)
	}
	if description == "" {
		t.Fatal("Expected a description of the undone deletion")
	}

	books, err := s.ListBooks(&model.FindBook{SeriesID: &series.ID})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("Expected the book back, got %d", len(books))
	}
	if books[0].ID == created.ID {
		t.Error("Restored book must get a fresh id")
	}
	if books[0].Title != "Undoable 1" {
		t.Errorf("Restored content differs: %q", books[0].Title)
	}

	// Second undo finds a consumed stack and does nothing.
	description, err = svc.Undo()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if description != "" {
		t.Fatalf("Expected no-op, got %q", description)
	}
}

func TestDeleteBooksInBulkUndoRestoresAll(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Bulk")

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		book, err := svc.CreateBook(&model.Book{
			Title:     "Bulk volume",
			TargetURL: "https://shop.example/items/4",
			SeriesID:  series.ID,
		})
		if err != nil {
			t.Fatalf("Failed to create book %d: %v", i, err)
		}
		ids = append(ids, book.ID)
	}

	if err := svc.DeleteBooksInBulk(ids); err != nil {
		t.Fatalf("Failed to bulk delete: %v", err)
	}
	count, err := s.CountBooks()
	if err != nil {
		t.Fatalf("Failed to count books: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected 0 books, got %d", count)
	}

	// One bulk deletion is one undo entry.
	if svc.UndoDepth() != 1 {
		t.Fatalf("Expected 1 undo entry, got %d", svc.UndoDepth())
	}
	if _, err := svc.Undo(); err != nil {
		t.Fatalf("Failed to undo: %v", err)
	}
	count, err = s.CountBooks()
	if err != nil {
		t.Fatalf("Failed to count books: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected all 3 books back, got %d", count)
	}
}

func TestGetAllSeriesWithBooksIncludesEmptySeries(t *testing.T) {
	svc, s := newTestService(t)
	empty := testSeries(t, s, "Waiting For Volumes")

	aggregate, err := svc.GetAllSeriesWithBooks()
	if err != nil {
		t.Fatalf("Failed to build aggregate: %v", err)
	}

	var found bool
	for _, entry := range aggregate {
		if entry.Series.ID == empty.ID {
			found = true
			if len(entry.Books) != 0 {
				t.Errorf("Expected no books, got %d", len(entry.Books))
			}
		}
	}
	if !found {
		t.Fatal("Empty series missing from the aggregate")
	}
}

func TestGetSeriesWithBooksUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetSeriesWithBooks("no-such-series")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Expected not found, got %v", err)
	}
}

func TestDeleteSeriesEvictsCascadedBookViews(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Doomed")
	created, err := svc.CreateBook(&model.Book{
		Title:     "Doomed 1",
		TargetURL: "https://shop.example/items/6",
		SeriesID:  series.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	// Warm the detail view so it would be served from the cache.
	book, err := svc.GetBookByID(created.ID)
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if book == nil {
		t.Fatal("Expected the book before the delete")
	}

	if err := svc.DeleteSeries(series.ID); err != nil {
		t.Fatalf("Failed to delete series: %v", err)
	}

	book, err = svc.GetBookByID(created.ID)
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if book != nil {
		t.Fatalf("Cascade-deleted book still served: %q", book.Title)
	}
}

func TestCreateBookRefreshesSeriesDetailView(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Growing")

	// Warm the per-series view while it is still empty.
	aggregate, err := svc.GetSeriesWithBooks(series.ID)
	if err != nil {
		t.Fatalf("Failed to get series aggregate: %v", err)
	}
	if len(aggregate.Books) != 0 {
		t.Fatalf("Expected an empty series, got %d books", len(aggregate.Books))
	}

	if _, err := svc.CreateBook(&model.Book{
		Title:     "Growing 1",
		TargetURL: "https://shop.example/items/7",
		SeriesID:  series.ID,
	}); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	aggregate, err = svc.GetSeriesWithBooks(series.ID)
	if err != nil {
		t.Fatalf("Failed to get series aggregate: %v", err)
	}
	if len(aggregate.Books) != 1 {
		t.Fatalf("Expected the new book in the series view, got %d", len(aggregate.Books))
	}
}

func TestMutationsNotifyInvalidatedViews(t *testing.T) {
	svc, s := newTestService(t)
	series := testSeries(t, s, "Hooked")

	var notified [][]string
	svc.SetInvalidateHook(func(views []string) {
		notified = append(notified, views)
	})

	if _, err := svc.CreateBook(&model.Book{
		Title:     "Hooked 1",
		TargetURL: "https://shop.example/items/5",
		SeriesID:  series.ID,
	}); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	if len(notified) != 1 {
		t.Fatalf("Expected one notification, got %d", len(notified))
	}
	var hasAllBooks bool
	for _, view := range notified[0] {
		if view == cache.KeyAllBooks {
			hasAllBooks = true
		}
	}
	if !hasAllBooks {
		t.Errorf("Notification misses the book list view: %v", notified[0])
	}
}

func TestRefreshViewIgnoresUnknownKeys(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.RefreshView("not-a-view"); err != nil {
		t.Fatalf("Unknown view must be ignored, got %v", err)
	}
	if err := svc.RefreshView(cache.KeyAppStats); err != nil {
		t.Fatalf("Failed to refresh stats: %v", err)
	}

	stats, err := svc.GetAppStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	// The seeded sentinel series is always there.
	if stats.SeriesCount != 1 || stats.BookCount != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
