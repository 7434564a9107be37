package library //import "github.com/hondana-dev/hondana/library"

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/cache"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/store"
	"github.com/hondana-dev/hondana/validator"
)

// Service is the UI-facing core: read-through cached queries plus mutations
// wrapped in snapshot/optimistic-apply/commit-or-rollback transactions.
type Service struct {
	store *store.Store
	cache *cache.Cache
	undo  *UndoStack

	// resolver seam; defaults to the store
	resolverStore seriesResolverStore

	// onInvalidate, when set, receives the invalidated view keys after a
	// successful commit so a background worker can warm them again.
	onInvalidate func(views []string)
}

func NewService(s *store.Store, c *cache.Cache, undoDepth int, undoWindow time.Duration) *Service {
	return &Service{
		store:         s,
		cache:         c,
		undo:          NewUndoStack(undoDepth, undoWindow),
		resolverStore: s,
	}
}

// SetInvalidateHook registers the refresh callback. Must be called before
// the service handles traffic.
func (s *Service) SetInvalidateHook(hook func(views []string)) {
	s.onInvalidate = hook
}

func (s *Service) notifyInvalidate(views []string) {
	if s.onInvalidate != nil {
		s.onInvalidate(views)
	}
}

// --- reads (read-through cache) ---

func (s *Service) GetAllBooks() ([]*model.BookWithSeries, error) {
	if cached, ok := s.cache.Get(cache.KeyAllBooks); ok {
		return cached.([]*model.BookWithSeries), nil
	}

	books, err := s.store.ListBooks(&model.FindBook{})
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.KeyAllBooks, books)
	return books, nil
}

// GetBookByID returns nil when the book does not exist.
func (s *Service) GetBookByID(id string) (*model.BookWithSeries, error) {
	key := cache.BookKey(id)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.BookWithSeries), nil
	}

	book, err := s.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}
	s.cache.Set(key, book)
	return book, nil
}

func (s *Service) GetSeriesList() ([]*model.Series, error) {
	if cached, ok := s.cache.Get(cache.KeySeriesList); ok {
		return cached.([]*model.Series), nil
	}

	seriesList, err := s.store.ListSeries(&model.FindSeries{})
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.KeySeriesList, seriesList)
	return seriesList, nil
}

func (s *Service) GetSeriesByID(id string) (*model.Series, error) {
	return s.store.GetSeries(&model.FindSeries{ID: &id})
}

func (s *Service) GetAllSeriesWithBooks() ([]*model.SeriesWithBooks, error) {
	if cached, ok := s.cache.Get(cache.KeySeriesWithBooks); ok {
		return cached.([]*model.SeriesWithBooks), nil
	}

	seriesList, err := s.store.ListSeries(&model.FindSeries{})
	if err != nil {
		return nil, err
	}
	books, err := s.store.ListBooks(&model.FindBook{})
	if err != nil {
		return nil, err
	}

	aggregate := BuildSeriesWithBooks(seriesList, books)
	s.cache.Set(cache.KeySeriesWithBooks, aggregate)
	return aggregate, nil
}

func (s *Service) GetSeriesWithBooks(id string) (*model.SeriesWithBooks, error) {
	key := cache.SeriesKey(id)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.SeriesWithBooks), nil
	}

	series, err := s.store.GetSeries(&model.FindSeries{ID: &id})
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, errors.Wrapf(apperr.ErrNotFound, "series %s", id)
	}
	books, err := s.store.ListBooks(&model.FindBook{SeriesID: &id})
	if err != nil {
		return nil, err
	}

	aggregate := BuildSeriesWithBooks([]*model.Series{series}, books)[0]
	s.cache.Set(key, aggregate)
	return aggregate, nil
}

func (s *Service) GetSeriesOptions() ([]*model.SeriesOption, error) {
	if cached, ok := s.cache.Get(cache.KeySeriesOptions); ok {
		return cached.([]*model.SeriesOption), nil
	}

	options, err := s.store.ListSeriesOptions()
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.KeySeriesOptions, options)
	return options, nil
}

func (s *Service) GetSeriesStats(id string) (model.SeriesStats, error) {
	aggregate, err := s.GetSeriesWithBooks(id)
	if err != nil {
		return model.SeriesStats{}, err
	}
	return aggregate.Stats, nil
}

func (s *Service) GetAppStats() (*model.AppStats, error) {
	if cached, ok := s.cache.Get(cache.KeyAppStats); ok {
		return cached.(*model.AppStats), nil
	}

	seriesCount, err := s.store.CountSeries()
	if err != nil {
		return nil, err
	}
	bookCount, err := s.store.CountBooks()
	if err != nil {
		return nil, err
	}

	stats := &model.AppStats{SeriesCount: seriesCount, BookCount: bookCount}
	s.cache.Set(cache.KeyAppStats, stats)
	return stats, nil
}

func (s *Service) ListShops() ([]*model.Shop, error) {
	return s.store.ListShops(&model.FindShop{})
}

// --- mutations ---

// cascadeBookKeys lists the detail-view keys of every book in a series.
// Those cached entries embed the series row, so series mutations affect
// them too.
func (s *Service) cascadeBookKeys(seriesID string) ([]string, error) {
	books, err := s.store.ListBooks(&model.FindBook{SeriesID: &seriesID})
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(books))
	for _, book := range books {
		keys = append(keys, cache.BookKey(book.ID))
	}
	return keys, nil
}

// CreateBook validates, optimistically inserts into the cached book list,
// then commits the real write.
func (s *Service) CreateBook(book *model.Book) (*model.Book, error) {
	if book.ShopID == "" {
		book.ShopID = model.UnspecifiedShopID
	}
	if err := validator.ValidateNewBook(book); err != nil {
		return nil, err
	}

	var created *model.Book
	keys := append(cache.BookViewKeys(), cache.SeriesKey(book.SeriesID))
	mutation := cache.NewMutation(s.cache, keys...)
	err := mutation.Run(
		func(c *cache.Cache) {
			s.applyBookInsert(c, book)
		},
		func() error {
			var err error
			created, err = s.store.CreateBook(book)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifyInvalidate(keys)
	return created, nil
}

// UpdateBook applies patch semantics; only provided fields change.
func (s *Service) UpdateBook(update *model.UpdateBook) (*model.Book, error) {
	if err := validator.ValidateUpdateBook(update); err != nil {
		return nil, err
	}

	var updated *model.Book
	keys := cache.BookViewKeys(update.ID)
	current, err := s.store.GetBook(&model.FindBook{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if current != nil {
		keys = append(keys, cache.SeriesKey(current.SeriesID))
	}
	if update.SeriesID != nil {
		// A series-moving patch affects both the old and the new series view.
		keys = append(keys, cache.SeriesKey(*update.SeriesID))
	}
	mutation := cache.NewMutation(s.cache, keys...)
	err = mutation.Run(
		func(c *cache.Cache) {
			s.applyBookPatch(c, update)
		},
		func() error {
			var err error
			updated, err = s.store.UpdateBook(update)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifyInvalidate(keys)
	return updated, nil
}

// DeleteBook removes a book and pushes an undo entry that re-creates it
// with the same field values under a fresh id.
func (s *Service) DeleteBook(id string) (*model.Book, error) {
	var removed *model.Book
	keys := cache.BookViewKeys(id)
	current, err := s.store.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if current != nil {
		keys = append(keys, cache.SeriesKey(current.SeriesID))
	}
	mutation := cache.NewMutation(s.cache, keys...)
	err = mutation.Run(
		func(c *cache.Cache) {
			s.applyBookRemove(c, id)
		},
		func() error {
			var err error
			removed, err = s.store.DeleteBook(id)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.pushBookUndo(fmt.Sprintf("delete %q", removed.Title), []*model.Book{removed})
	s.notifyInvalidate(keys)
	return removed, nil
}

// DeleteBooksInBulk removes the given ids in one all-or-nothing batch.
func (s *Service) DeleteBooksInBulk(ids []string) error {
	// Snapshot payloads for undo before the rows disappear.
	snapshots := make([]*model.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.store.GetBook(&model.FindBook{ID: &id})
		if err != nil {
			return err
		}
		if book == nil {
			return errors.Wrapf(apperr.ErrNotFound, "book %s", id)
		}
		payload := book.Book
		snapshots = append(snapshots, &payload)
	}

	keys := cache.BookViewKeys(ids...)
	for _, snapshot := range snapshots {
		keys = append(keys, cache.SeriesKey(snapshot.SeriesID))
	}
	mutation := cache.NewMutation(s.cache, keys...)
	err := mutation.Run(
		func(c *cache.Cache) {
			for _, id := range ids {
				s.applyBookRemove(c, id)
			}
		},
		func() error {
			return s.store.DeleteBooks(ids)
		},
	)
	if err != nil {
		return err
	}

	s.pushBookUndo(fmt.Sprintf("delete %d books", len(snapshots)), snapshots)
	s.notifyInvalidate(keys)
	return nil
}

func (s *Service) CreateSeries(series *model.Series) (*model.Series, error) {
	if err := validator.ValidateNewSeries(series); err != nil {
		return nil, err
	}

	var created *model.Series
	keys := cache.SeriesViewKeys()
	mutation := cache.NewMutation(s.cache, keys...)
	err := mutation.Run(
		nil, // no useful optimistic shape before the id exists
		func() error {
			var err error
			created, err = s.store.CreateSeries(series)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifyInvalidate(keys)
	return created, nil
}

func (s *Service) UpdateSeries(update *model.UpdateSeries) (*model.Series, error) {
	if err := validator.ValidateUpdateSeries(update); err != nil {
		return nil, err
	}

	var updated *model.Series
	keys := cache.SeriesViewKeys(update.ID)
	bookKeys, err := s.cascadeBookKeys(update.ID)
	if err != nil {
		return nil, err
	}
	keys = append(keys, bookKeys...)
	mutation := cache.NewMutation(s.cache, keys...)
	err = mutation.Run(
		func(c *cache.Cache) {
			s.applySeriesPatch(c, update)
		},
		func() error {
			var err error
			updated, err = s.store.UpdateSeries(update)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifyInvalidate(keys)
	return updated, nil
}

// DeleteSeries removes the series and, through the storage engine, every
// book referencing it.
func (s *Service) DeleteSeries(id string) error {
	keys := cache.SeriesViewKeys(id)
	// The cascade removes every book in the series; their detail views must
	// go stale with it.
	bookKeys, err := s.cascadeBookKeys(id)
	if err != nil {
		return err
	}
	keys = append(keys, bookKeys...)
	mutation := cache.NewMutation(s.cache, keys...)
	err = mutation.Run(
		func(c *cache.Cache) {
			s.applySeriesRemove(c, id)
		},
		func() error {
			return s.store.DeleteSeries(id)
		},
	)
	if err != nil {
		return err
	}

	s.notifyInvalidate(keys)
	return nil
}

func (s *Service) UpdateSeriesDisplayOrder(entries []model.DisplayOrderEntry) error {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	keys := cache.SeriesViewKeys(ids...)
	mutation := cache.NewMutation(s.cache, keys...)
	err := mutation.Run(
		nil, // reorder is cheap to refetch; no optimistic projection
		func() error {
			return s.store.UpdateSeriesDisplayOrder(entries)
		},
	)
	if err != nil {
		return err
	}

	s.notifyInvalidate(keys)
	return nil
}

// RegisterBookFromSearchResult turns one catalog hit into a persisted book,
// resolving or creating its series first.
func (s *Service) RegisterBookFromSearchResult(req *model.RegisterBookRequest) (*model.BookWithSeries, error) {
	result := &req.Result
	if err := validator.ValidateSearchResult(result); err != nil {
		return nil, err
	}

	seriesID, err := resolveSeriesID(s.resolverStore, result, req.SelectedSeriesID)
	if err != nil {
		return nil, err
	}

	shopID := model.UnspecifiedShopID
	if req.ShopID != nil && *req.ShopID != "" {
		shopID = *req.ShopID
	}

	var author, description *string
	if result.Author != "" {
		a := result.Author
		author = &a
	}
	if result.Description != "" {
		d := result.Description
		description = &d
	}
	externalBookID := result.ExternalID
	book := &model.Book{
		Title:          result.Title,
		Author:         author,
		Description:    description,
		ISBN:           result.ISBN,
		ImageURL:       result.ImageURL,
		ExternalBookID: &externalBookID,
		Volume:         result.Volume,
		TargetURL:      result.TargetURL,
		SeriesID:       seriesID,
		ShopID:         shopID,
	}

	created, err := s.CreateBook(book)
	if err != nil {
		return nil, err
	}

	log.Info("Registered book",
		zap.String("book_id", created.ID),
		zap.String("series_id", created.SeriesID))

	// Return the created book joined with its series for immediate display.
	joined, err := s.store.GetBook(&model.FindBook{ID: &created.ID})
	if err != nil {
		return nil, err
	}
	return joined, nil
}

// Undo re-creates the most recently deleted book(s). A consumed or expired
// stack is a no-op.
func (s *Service) Undo() (string, error) {
	return s.undo.Undo()
}

// UndoDepth reports how many deletions are currently undoable.
func (s *Service) UndoDepth() int {
	return s.undo.Len()
}

func (s *Service) pushBookUndo(description string, snapshots []*model.Book) {
	s.undo.Push(description, func() error {
		for _, snapshot := range snapshots {
			// Content is restored, identity is not: fresh id, fresh
			// timestamps.
			book := *snapshot
			book.ID = ""
			if _, err := s.CreateBook(&book); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- refresh hooks ---

// RefreshAllBooks recomputes the full book list into the cache.
func (s *Service) RefreshAllBooks() error {
	s.cache.Invalidate(cache.KeyAllBooks)
	_, err := s.GetAllBooks()
	return err
}

// RefreshBook recomputes one book detail view.
func (s *Service) RefreshBook(id string) error {
	s.cache.Invalidate(cache.BookKey(id))
	_, err := s.GetBookByID(id)
	return err
}

// RefreshView recomputes a single view by key. Unknown keys are ignored:
// refresh is best-effort.
func (s *Service) RefreshView(view string) error {
	s.cache.Invalidate(view)
	switch {
	case view == cache.KeyAllBooks:
		_, err := s.GetAllBooks()
		return err
	case view == cache.KeySeriesList:
		_, err := s.GetSeriesList()
		return err
	case view == cache.KeySeriesWithBooks:
		_, err := s.GetAllSeriesWithBooks()
		return err
	case view == cache.KeySeriesOptions:
		_, err := s.GetSeriesOptions()
		return err
	case view == cache.KeyAppStats:
		_, err := s.GetAppStats()
		return err
	}
	return nil
}
