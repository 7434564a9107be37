package model //import "github.com/hondana-dev/hondana/model"

// UnclassifiedSeriesID is the sentinel series every registration falls back
// to when no series can be resolved or created. Seeded by the schema.
const UnclassifiedSeriesID = "00000000-0000-0000-0000-000000000001"

// Series is a logical grouping of books, e.g. a manga title spanning
// many volumes.
type Series struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Author           *string `json:"author"`
	Description      *string `json:"description"`
	Thumbnail        *string `json:"thumbnail"`
	DisplayOrder     int     `json:"display_order"`
	ExternalSeriesID *string `json:"external_series_id"`
	CreatedTs        string  `json:"created_ts"`
	UpdatedTs        string  `json:"updated_ts"`
}

type FindSeries struct {
	ID               *string
	Title            *string
	Author           *string
	ExternalSeriesID *string
	OrderBy          *string
	Limit            *int
}

// UpdateSeries carries patch semantics: only non-nil fields are written.
type UpdateSeries struct {
	ID           string
	Title        *string
	Author       *string
	Description  *string
	Thumbnail    *string
	DisplayOrder *int
}

// SeriesOption is the lightweight projection used by selection UIs.
type SeriesOption struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Author    *string `json:"author"`
	BookCount int     `json:"book_count"`
}

// DisplayOrderEntry is one element of a bulk manual-sort update.
type DisplayOrderEntry struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"display_order"`
}

// SeriesWithBooks is the derived aggregate: a series with its books nested.
// Not persisted; built by the view builder. Every persisted series appears
// here even with zero books.
type SeriesWithBooks struct {
	Series *Series     `json:"series"`
	Books  []*Book     `json:"books"`
	Stats  SeriesStats `json:"stats"`
}

type SeriesStats struct {
	VolumeCount    int    `json:"volume_count"`
	LatestVolumeTs string `json:"latest_volume_ts,omitempty"`
}

type AppStats struct {
	SeriesCount int `json:"series_count"`
	BookCount   int `json:"book_count"`
}
