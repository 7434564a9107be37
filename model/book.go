package model //import "github.com/hondana-dev/hondana/model"

// Book is a single registered volume. It always belongs to exactly one
// series; the storage layer enforces the foreign key.
type Book struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Author         *string `json:"author"`
	Description    *string `json:"description"`
	ISBN           *string `json:"isbn"`
	ImageURL       *string `json:"image_url"`
	ExternalBookID *string `json:"external_book_id"`
	Volume         *int    `json:"volume"`
	TargetURL      string  `json:"target_url"`
	SeriesID       string  `json:"series_id"`
	ShopID         string  `json:"shop_id"`
	CreatedTs      string  `json:"created_ts"`
	UpdatedTs      string  `json:"updated_ts"`
}

// BookWithSeries is a book joined with its owning series and shop.
type BookWithSeries struct {
	Book
	Series *Series `json:"series,omitempty"`
	Shop   *Shop   `json:"shop,omitempty"`
}

type FindBook struct {
	ID             *string
	SeriesID       *string
	ISBN           *string
	ExternalBookID *string
	OrderBy        *string

	// The maximum number of books to return.
	Limit *int
}

// UpdateBook carries patch semantics: only non-nil fields are written.
type UpdateBook struct {
	ID          string
	Title       *string
	Author      *string
	Description *string
	ISBN        *string
	Volume      *int
	SeriesID    *string
}

type BookList []*Book

func (b BookList) Len() int {
	return len(b)
}
