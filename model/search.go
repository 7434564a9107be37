package model //import "github.com/hondana-dev/hondana/model"

// Placeholders used when the catalog omits a field. The UI renders them
// as-is instead of empty strings.
const (
	UnknownTitle       = "Unknown title"
	UnknownAuthor      = "Unknown author"
	UnknownDescription = "No description"
)

// BookSearchResult is the catalog-independent shape of one search hit.
type BookSearchResult struct {
	ExternalID  string  `json:"external_id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Volume      *int    `json:"volume,omitempty"`
	Publisher   string  `json:"publisher,omitempty"`
	Description string  `json:"description"`
	ISBN        *string `json:"isbn,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	TargetURL   string  `json:"target_url"`
	SeriesID    *string `json:"series_id,omitempty"`
}

// RegisterBookRequest is the intent "register this search result".
// SelectedSeriesID, when set, bypasses series resolution entirely.
type RegisterBookRequest struct {
	Result           BookSearchResult `json:"result"`
	SelectedSeriesID *string          `json:"selected_series_id,omitempty"`
	ShopID           *string          `json:"shop_id,omitempty"`
}
