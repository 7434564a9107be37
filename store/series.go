package store //import "github.com/hondana-dev/hondana/store"

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

// CreateSeries inserts a series. UNIQUE(title, author) and the external id
// index surface as apperr.ErrDuplicateEntry; the registration resolver
// treats that as "already exists, look it up again".
func (s *Store) CreateSeries(create *model.Series) (*model.Series, error) {
	if create.ID == "" {
		create.ID = util.GenUUID()
	}
	now := util.TimeNow()
	create.CreatedTs = now
	create.UpdatedTs = now

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Manual sort defaults to insertion order.
	if create.DisplayOrder == 0 {
		if err := tx.QueryRow(`SELECT COALESCE(MAX(display_order), 0) + 1 FROM series`).
			Scan(&create.DisplayOrder); err != nil {
			return nil, err
		}
	}

	stmt := `
        INSERT INTO series (
            id, title, author, description, thumbnail, display_order,
            external_series_id, created_ts, updated_ts
        )
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		create.ID, create.Title, nullString(create.Author), nullString(create.Description),
		nullString(create.Thumbnail), create.DisplayOrder, nullString(create.ExternalSeriesID),
		create.CreatedTs, create.UpdatedTs,
	}

	if _, err := tx.Exec(stmt, args...); err != nil {
		return nil, apperr.FromSQLite(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.FromSQLite(err)
	}

	series := *create
	return &series, nil
}

// GetSeries returns a single series or nil when none matches.
func (s *Store) GetSeries(find *model.FindSeries) (*model.Series, error) {
	if find.ID != nil {
		if cache, ok := s.SeriesCache.Load(*find.ID); ok {
			return cache.(*model.Series), nil
		}
	}

	list, err := s.ListSeries(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	series := list[0]
	s.SeriesCache.Store(series.ID, series)
	return series, nil
}

// ListSeries returns series in manual sort order. Title and author lookups
// are exact-match and case-sensitive; that is the de-duplication contract.
func (s *Store) ListSeries(find *model.FindSeries) ([]*model.Series, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "title = ?"), append(args, *v)
	}
	if v := find.Author; v != nil {
		where, args = append(where, "COALESCE(author, '') = ?"), append(args, *v)
	}
	if v := find.ExternalSeriesID; v != nil {
		where, args = append(where, "external_series_id = ?"), append(args, *v)
	}

	orderBy := []string{"display_order", "title"}
	if find.OrderBy != nil {
		orderBy = append([]string{*find.OrderBy}, orderBy...)
	}

	query := `
        SELECT
            id,
            title,
            author,
            description,
            thumbnail,
            display_order,
            external_series_id,
            created_ts,
            updated_ts
        FROM series
    WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + strings.Join(orderBy, ", ")
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query series", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Series, 0)
	for rows.Next() {
		var series model.Series
		var author, description, thumbnail, externalSeriesID sql.NullString
		if err := rows.Scan(
			&series.ID,
			&series.Title,
			&author,
			&description,
			&thumbnail,
			&series.DisplayOrder,
			&externalSeriesID,
			&series.CreatedTs,
			&series.UpdatedTs,
		); err != nil {
			log.Error("Failed to scan series", zap.Error(err))
			return nil, err
		}
		series.Author = fromNullString(author)
		series.Description = fromNullString(description)
		series.Thumbnail = fromNullString(thumbnail)
		series.ExternalSeriesID = fromNullString(externalSeriesID)
		list = append(list, &series)
	}
	return list, rows.Err()
}

// UpdateSeries patches only the provided fields and refreshes updated_ts.
func (s *Store) UpdateSeries(update *model.UpdateSeries) (*model.Series, error) {
	set, args := []string{}, []any{}

	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Author; v != nil {
		set, args = append(set, "author = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Thumbnail; v != nil {
		set, args = append(set, "thumbnail = ?"), append(args, *v)
	}
	if v := update.DisplayOrder; v != nil {
		set, args = append(set, "display_order = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, util.TimeNow())
	args = append(args, update.ID)

	stmt := `
        UPDATE series SET ` + strings.Join(set, ", ") + ` WHERE id = ?
        RETURNING id, title, author, description, thumbnail, display_order,
            external_series_id, created_ts, updated_ts`

	var series model.Series
	var author, description, thumbnail, externalSeriesID sql.NullString
	if err := s.db.QueryRow(stmt, args...).Scan(
		&series.ID,
		&series.Title,
		&author,
		&description,
		&thumbnail,
		&series.DisplayOrder,
		&externalSeriesID,
		&series.CreatedTs,
		&series.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperr.ErrNotFound, "series %s", update.ID)
		}
		return nil, apperr.FromSQLite(err)
	}
	series.Author = fromNullString(author)
	series.Description = fromNullString(description)
	series.Thumbnail = fromNullString(thumbnail)
	series.ExternalSeriesID = fromNullString(externalSeriesID)

	s.SeriesCache.Delete(series.ID)
	return &series, nil
}

// DeleteSeries removes a series; the engine cascades the delete to every
// book referencing it. This is the single enforcement point of the
// no-dangling-book invariant.
func (s *Store) DeleteSeries(id string) error {
	// Evict cascaded books from the entity cache before they disappear.
	books, err := s.ListBooks(&model.FindBook{SeriesID: &id})
	if err != nil {
		return err
	}

	stmt := `DELETE FROM series WHERE id = ?`
	res, err := s.db.Exec(stmt, id)
	if err != nil {
		return apperr.FromSQLite(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(apperr.ErrNotFound, "series %s", id)
	}

	s.SeriesCache.Delete(id)
	for _, book := range books {
		s.BookCache.Delete(book.ID)
	}
	return nil
}

// ListSeriesOptions returns the lightweight projection used by selection
// UIs, sorted alphabetically by title.
func (s *Store) ListSeriesOptions() ([]*model.SeriesOption, error) {
	query := `
        SELECT
            s.id,
            s.title,
            s.author,
            COUNT(b.id)
        FROM series s
        LEFT JOIN books b ON b.series_id = s.id
        GROUP BY s.id
        ORDER BY s.title`

	rows, err := s.db.Query(query)
	if err != nil {
		log.Error("Failed to query series options", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.SeriesOption, 0)
	for rows.Next() {
		var opt model.SeriesOption
		var author sql.NullString
		if err := rows.Scan(&opt.ID, &opt.Title, &author, &opt.BookCount); err != nil {
			return nil, err
		}
		opt.Author = fromNullString(author)
		list = append(list, &opt)
	}
	return list, rows.Err()
}

// UpdateSeriesDisplayOrder applies a bulk manual reorder in one transaction.
func (s *Store) UpdateSeriesDisplayOrder(entries []model.DisplayOrderEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := `UPDATE series SET display_order = ?, updated_ts = ? WHERE id = ?`
	now := util.TimeNow()
	for _, entry := range entries {
		res, err := tx.Exec(stmt, entry.DisplayOrder, now, entry.ID)
		if err != nil {
			return apperr.FromSQLite(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.Wrapf(apperr.ErrNotFound, "series %s", entry.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, entry := range entries {
		s.SeriesCache.Delete(entry.ID)
	}
	return nil
}

func (s *Store) CountSeries() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM series`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
