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

const bookColumns = `
            b.id,
            b.title,
            b.author,
            b.description,
            b.isbn,
            b.image_url,
            b.external_book_id,
            b.volume,
            b.target_url,
            b.series_id,
            b.shop_id,
            b.created_ts,
            b.updated_ts`

// CreateBook inserts a row. The series foreign key is checked by the engine;
// a missing series surfaces as apperr.ErrForeignKey.
func (s *Store) CreateBook(create *model.Book) (*model.Book, error) {
	if create.ID == "" {
		create.ID = util.GenUUID()
	}
	now := util.TimeNow()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `
        INSERT INTO books (
            id, title, author, description, isbn, image_url,
            external_book_id, volume, target_url, series_id, shop_id,
            created_ts, updated_ts
        )
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		create.ID, create.Title, nullString(create.Author), nullString(create.Description),
		nullString(create.ISBN), nullString(create.ImageURL), nullString(create.ExternalBookID),
		nullInt(create.Volume), create.TargetURL, create.SeriesID, create.ShopID,
		create.CreatedTs, create.UpdatedTs,
	}

	if _, err := s.db.Exec(stmt, args...); err != nil {
		log.Error("Failed to insert book", zap.Error(err))
		return nil, apperr.FromSQLite(err)
	}

	book := *create
	return &book, nil
}

// GetBook returns a single book or nil when none matches.
func (s *Store) GetBook(find *model.FindBook) (*model.BookWithSeries, error) {
	if find.ID != nil {
		if cache, ok := s.BookCache.Load(*find.ID); ok {
			return cache.(*model.BookWithSeries), nil
		}
	}

	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	book := list[0]
	s.BookCache.Store(book.ID, book)
	return book, nil
}

// ListBooks returns books newest-first, each joined with its series and shop.
func (s *Store) ListBooks(find *model.FindBook) ([]*model.BookWithSeries, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "b.id = ?"), append(args, *v)
	}
	if v := find.SeriesID; v != nil {
		where, args = append(where, "b.series_id = ?"), append(args, *v)
	}
	if v := find.ISBN; v != nil {
		where, args = append(where, "b.isbn = ?"), append(args, *v)
	}
	if v := find.ExternalBookID; v != nil {
		where, args = append(where, "b.external_book_id = ?"), append(args, *v)
	}

	// Newest registrations first
	orderBy := []string{"b.created_ts DESC", "b.id"}
	if find.OrderBy != nil {
		orderBy = append([]string{*find.OrderBy}, orderBy...)
	}

	query := `
        SELECT` + bookColumns + `,
            s.id, s.title, s.author, s.description, s.thumbnail,
            s.display_order, s.external_series_id, s.created_ts, s.updated_ts,
            sh.id, sh.name, sh.created_ts, sh.updated_ts
        FROM books b
        LEFT JOIN series s ON s.id = b.series_id
        LEFT JOIN shops sh ON sh.id = b.shop_id
    WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + strings.Join(orderBy, ", ")
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	log.Debug("SQL query and args:")
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.BookWithSeries, 0)
	for rows.Next() {
		book, err := scanBookWithSeries(rows)
		if err != nil {
			log.Error("Failed to scan book", zap.Error(err))
			return nil, err
		}
		list = append(list, book)
	}
	return list, rows.Err()
}

func scanBookWithSeries(rows *sql.Rows) (*model.BookWithSeries, error) {
	var book model.BookWithSeries
	var author, description, isbn, imageURL, externalBookID sql.NullString
	var volume sql.NullInt64
	var seriesID, seriesTitle, seriesAuthor, seriesDescription, seriesThumbnail, seriesExternalID sql.NullString
	var seriesDisplayOrder sql.NullInt64
	var seriesCreatedTs, seriesUpdatedTs sql.NullString
	var shopID, shopName, shopCreatedTs, shopUpdatedTs sql.NullString

	if err := rows.Scan(
		&book.ID,
		&book.Title,
		&author,
		&description,
		&isbn,
		&imageURL,
		&externalBookID,
		&volume,
		&book.TargetURL,
		&book.SeriesID,
		&book.ShopID,
		&book.CreatedTs,
		&book.UpdatedTs,
		&seriesID,
		&seriesTitle,
		&seriesAuthor,
		&seriesDescription,
		&seriesThumbnail,
		&seriesDisplayOrder,
		&seriesExternalID,
		&seriesCreatedTs,
		&seriesUpdatedTs,
		&shopID,
		&shopName,
		&shopCreatedTs,
		&shopUpdatedTs,
	); err != nil {
		return nil, err
	}

	book.Author = fromNullString(author)
	book.Description = fromNullString(description)
	book.ISBN = fromNullString(isbn)
	book.ImageURL = fromNullString(imageURL)
	book.ExternalBookID = fromNullString(externalBookID)
	book.Volume = fromNullInt(volume)

	if seriesID.Valid {
		book.Series = &model.Series{
			ID:               seriesID.String,
			Title:            seriesTitle.String,
			Author:           fromNullString(seriesAuthor),
			Description:      fromNullString(seriesDescription),
			Thumbnail:        fromNullString(seriesThumbnail),
			DisplayOrder:     int(seriesDisplayOrder.Int64),
			ExternalSeriesID: fromNullString(seriesExternalID),
			CreatedTs:        seriesCreatedTs.String,
			UpdatedTs:        seriesUpdatedTs.String,
		}
	}
	if shopID.Valid {
		book.Shop = &model.Shop{
			ID:        shopID.String,
			Name:      shopName.String,
			CreatedTs: shopCreatedTs.String,
			UpdatedTs: shopUpdatedTs.String,
		}
	}
	return &book, nil
}

// UpdateBook patches only the provided fields and refreshes updated_ts.
func (s *Store) UpdateBook(update *model.UpdateBook) (*model.Book, error) {
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
	if v := update.ISBN; v != nil {
		set, args = append(set, "isbn = ?"), append(args, *v)
	}
	if v := update.Volume; v != nil {
		set, args = append(set, "volume = ?"), append(args, *v)
	}
	if v := update.SeriesID; v != nil {
		set, args = append(set, "series_id = ?"), append(args, *v)
	}
	set, args = append(set, "updated_ts = ?"), append(args, util.TimeNow())
	args = append(args, update.ID)

	stmt := `
        UPDATE books SET ` + strings.Join(set, ", ") + ` WHERE id = ?
        RETURNING id, title, author, description, isbn, image_url,
            external_book_id, volume, target_url, series_id, shop_id,
            created_ts, updated_ts`

	var book model.Book
	var author, description, isbn, imageURL, externalBookID sql.NullString
	var volume sql.NullInt64
	if err := s.db.QueryRow(stmt, args...).Scan(
		&book.ID,
		&book.Title,
		&author,
		&description,
		&isbn,
		&imageURL,
		&externalBookID,
		&volume,
		&book.TargetURL,
		&book.SeriesID,
		&book.ShopID,
		&book.CreatedTs,
		&book.UpdatedTs,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(apperr.ErrNotFound, "book %s", update.ID)
		}
		return nil, apperr.FromSQLite(err)
	}
	book.Author = fromNullString(author)
	book.Description = fromNullString(description)
	book.ISBN = fromNullString(isbn)
	book.ImageURL = fromNullString(imageURL)
	book.ExternalBookID = fromNullString(externalBookID)
	book.Volume = fromNullInt(volume)

	s.BookCache.Delete(book.ID)
	return &book, nil
}

// DeleteBook removes a book and returns the removed row.
func (s *Store) DeleteBook(id string) (*model.Book, error) {
	existing, err := s.GetBook(&model.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.Wrapf(apperr.ErrNotFound, "book %s", id)
	}

	stmt := `DELETE FROM books WHERE id = ?`
	if _, err := s.db.Exec(stmt, id); err != nil {
		return nil, apperr.FromSQLite(err)
	}

	s.BookCache.Delete(id)
	removed := existing.Book
	return &removed, nil
}

// DeleteBooks removes ids in one transaction; any missing id aborts the
// whole batch.
func (s *Store) DeleteBooks(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := `DELETE FROM books WHERE id = ?`
	for _, id := range ids {
		res, err := tx.Exec(stmt, id)
		if err != nil {
			return apperr.FromSQLite(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.Wrapf(apperr.ErrNotFound, "book %s", id)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, id := range ids {
		s.BookCache.Delete(id)
	}
	return nil
}

func (s *Store) CountBooks() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
