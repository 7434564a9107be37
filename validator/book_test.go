package validator //import "github.com/hondana-dev/hondana/validator"

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/model"
)

func TestValidISBN(t *testing.T) {
	cases := []struct {
		isbn  string
		valid bool
	}{
		{"9784047298880", true},
		{"978-4-04-729888-0", true},
		{"014300723X", true},
		{"0143007238", true},
		{"12345", false},
		{"978404729888", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidISBN(tc.isbn); got != tc.valid {
			t.Errorf("ValidISBN(%q) = %v, expected %v", tc.isbn, got, tc.valid)
		}
	}
}

func TestValidTargetURL(t *testing.T) {
	cases := []struct {
		url   string
		valid bool
	}{
		{"https://shop.example/items/1", true},
		{"http://shop.example", true},
		{"ftp://shop.example", false},
		{"/relative/path", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidTargetURL(tc.url); got != tc.valid {
			t.Errorf("ValidTargetURL(%q) = %v, expected %v", tc.url, got, tc.valid)
		}
	}
}

func TestValidateNewBookCollectsAllViolations(t *testing.T) {
	isbn := "garbage"
	volume := 0
	err := ValidateNewBook(&model.Book{
		Title:     "  ",
		TargetURL: "not-a-url",
		ISBN:      &isbn,
		Volume:    &volume,
	})

	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected a validation error, got %v", err)
	}
	// title, target_url, isbn, volume, series_id, shop_id
	if len(verr.Violations) != 6 {
		t.Fatalf("Expected all 6 violations reported at once, got %d: %v", len(verr.Violations), verr)
	}
}

func TestValidateNewBookSanitizesTitle(t *testing.T) {
	book := &model.Book{
		Title:     "  Sample   Manga  ",
		TargetURL: "https://shop.example/items/1",
		SeriesID:  "s1",
		ShopID:    "sh1",
	}
	if err := ValidateNewBook(book); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if book.Title != "Sample Manga" {
		t.Errorf("Title not sanitized: %q", book.Title)
	}
}

func TestValidateUpdateBookChecksOnlyProvidedFields(t *testing.T) {
	// A patch with no fields is fine.
	if err := ValidateUpdateBook(&model.UpdateBook{ID: "b1"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	empty := " "
	err := ValidateUpdateBook(&model.UpdateBook{ID: "b1", Title: &empty})
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func TestValidateNewSeriesLengthBounds(t *testing.T) {
	long := strings.Repeat("x", 501)
	err := ValidateNewSeries(&model.Series{Title: long})
	if !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error, got %v", err)
	}

	if err := ValidateNewSeries(&model.Series{Title: "Fine"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestLengthBoundsCountRunesNotBytes(t *testing.T) {
	// 400 kanji is 1200 bytes but well inside the 500-character limit.
	wide := strings.Repeat("本", 400)
	if err := ValidateNewSeries(&model.Series{Title: wide}); err != nil {
		t.Fatalf("Unexpected error for a 400-character title: %v", err)
	}
	if err := ValidateNewBook(&model.Book{
		Title:     wide,
		TargetURL: "https://shop.example/items/1",
		SeriesID:  "s1",
		ShopID:    "sh1",
	}); err != nil {
		t.Fatalf("Unexpected error for a 400-character title: %v", err)
	}

	tooWide := strings.Repeat("本", 501)
	if err := ValidateNewSeries(&model.Series{Title: tooWide}); !apperr.IsValidation(err) {
		t.Fatalf("Expected validation error for a 501-character title, got %v", err)
	}
}
