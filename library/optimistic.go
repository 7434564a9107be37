package library //import "github.com/hondana-dev/hondana/library"

import (
	"github.com/hondana-dev/hondana/cache"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

// Optimistic projections. Each rewrites a cached view to the mutation's
// expected effect without touching the snapshotted value: views are copied,
// never patched in place, so a rollback restores the untouched original.

func (s *Service) applyBookInsert(c *cache.Cache, book *model.Book) {
	cached, ok := c.Get(cache.KeyAllBooks)
	if !ok {
		return
	}
	list := cached.([]*model.BookWithSeries)

	placeholder := &model.BookWithSeries{Book: *book}
	if placeholder.ID == "" {
		placeholder.ID = "pending-" + util.GenUUID()
	}

	updated := make([]*model.BookWithSeries, 0, len(list)+1)
	updated = append(updated, placeholder)
	updated = append(updated, list...)
	c.Set(cache.KeyAllBooks, updated)
}

func (s *Service) applyBookPatch(c *cache.Cache, update *model.UpdateBook) {
	patch := func(book model.BookWithSeries) model.BookWithSeries {
		if update.Title != nil {
			book.Title = *update.Title
		}
		if update.Author != nil {
			book.Author = update.Author
		}
		if update.Description != nil {
			book.Description = update.Description
		}
		if update.ISBN != nil {
			book.ISBN = update.ISBN
		}
		if update.Volume != nil {
			book.Volume = update.Volume
		}
		if update.SeriesID != nil {
			book.SeriesID = *update.SeriesID
			book.Series = nil
		}
		book.UpdatedTs = util.TimeNow()
		return book
	}

	if cached, ok := c.Get(cache.KeyAllBooks); ok {
		list := cached.([]*model.BookWithSeries)
		updated := make([]*model.BookWithSeries, len(list))
		for i, book := range list {
			if book.ID == update.ID {
				patched := patch(*book)
				updated[i] = &patched
			} else {
				updated[i] = book
			}
		}
		c.Set(cache.KeyAllBooks, updated)
	}

	key := cache.BookKey(update.ID)
	if cached, ok := c.Get(key); ok {
		patched := patch(*cached.(*model.BookWithSeries))
		c.Set(key, &patched)
	}
}

func (s *Service) applyBookRemove(c *cache.Cache, id string) {
	if cached, ok := c.Get(cache.KeyAllBooks); ok {
		list := cached.([]*model.BookWithSeries)
		updated := make([]*model.BookWithSeries, 0, len(list))
		for _, book := range list {
			if book.ID != id {
				updated = append(updated, book)
			}
		}
		c.Set(cache.KeyAllBooks, updated)
	}
	c.Invalidate(cache.BookKey(id))
}

func (s *Service) applySeriesPatch(c *cache.Cache, update *model.UpdateSeries) {
	cached, ok := c.Get(cache.KeySeriesList)
	if !ok {
		return
	}
	list := cached.([]*model.Series)
	updated := make([]*model.Series, len(list))
	for i, series := range list {
		if series.ID == update.ID {
			patched := *series
			if update.Title != nil {
				patched.Title = *update.Title
			}
			if update.Author != nil {
				patched.Author = update.Author
			}
			if update.Description != nil {
				patched.Description = update.Description
			}
			if update.Thumbnail != nil {
				patched.Thumbnail = update.Thumbnail
			}
			if update.DisplayOrder != nil {
				patched.DisplayOrder = *update.DisplayOrder
			}
			patched.UpdatedTs = util.TimeNow()
			updated[i] = &patched
		} else {
			updated[i] = series
		}
	}
	c.Set(cache.KeySeriesList, updated)
}

func (s *Service) applySeriesRemove(c *cache.Cache, id string) {
	if cached, ok := c.Get(cache.KeySeriesList); ok {
		list := cached.([]*model.Series)
		updated := make([]*model.Series, 0, len(list))
		for _, series := range list {
			if series.ID != id {
				updated = append(updated, series)
			}
		}
		c.Set(cache.KeySeriesList, updated)
	}

	// The cascade also removes the series' books from the book list view.
	if cached, ok := c.Get(cache.KeyAllBooks); ok {
		list := cached.([]*model.BookWithSeries)
		updated := make([]*model.BookWithSeries, 0, len(list))
		for _, book := range list {
			if book.SeriesID != id {
				updated = append(updated, book)
			}
		}
		c.Set(cache.KeyAllBooks, updated)
	}
	c.Invalidate(cache.SeriesKey(id))
}
