package validator //import "github.com/hondana-dev/hondana/validator"

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

const (
	maxTitleLen       = 500
	maxAuthorLen      = 200
	maxDescriptionLen = 2000
)

// ISBN-10 (nine digits plus digit or X) or ISBN-13, hyphens ignored.
var isbnRegexp = regexp.MustCompile(`^(?:\d{9}[\dXx]|\d{13})$`)

func ValidISBN(isbn string) bool {
	normalized := strings.ReplaceAll(isbn, "-", "")
	return isbnRegexp.MatchString(normalized)
}

// ValidTargetURL accepts absolute http(s) URLs only.
func ValidTargetURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateNewBook sanitizes the title in place and checks every schema rule,
// reporting all violations at once.
func ValidateNewBook(book *model.Book) error {
	verr := &apperr.ValidationError{}

	book.Title = util.SanitizeText(book.Title)
	if book.Title == "" {
		verr.Add("title", "must not be empty")
	}
	// Limits are in characters, not bytes; multibyte titles count per rune.
	if utf8.RuneCountInString(book.Title) > maxTitleLen {
		verr.Add("title", "must be at most 500 characters")
	}
	if !ValidTargetURL(book.TargetURL) {
		verr.Add("target_url", "must be an absolute http(s) URL")
	}
	if book.ISBN != nil && !ValidISBN(*book.ISBN) {
		verr.Add("isbn", "must match ISBN-10 or ISBN-13")
	}
	if book.Volume != nil && *book.Volume <= 0 {
		verr.Add("volume", "must be a positive integer")
	}
	if book.SeriesID == "" {
		verr.Add("series_id", "must reference a series")
	}
	if book.ShopID == "" {
		verr.Add("shop_id", "must reference a shop")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// ValidateUpdateBook checks only the provided patch fields.
func ValidateUpdateBook(update *model.UpdateBook) error {
	verr := &apperr.ValidationError{}

	if update.Title != nil {
		*update.Title = util.SanitizeText(*update.Title)
		if *update.Title == "" {
			verr.Add("title", "must not be empty")
		}
	}
	if update.ISBN != nil && !ValidISBN(*update.ISBN) {
		verr.Add("isbn", "must match ISBN-10 or ISBN-13")
	}
	if update.Volume != nil && *update.Volume <= 0 {
		verr.Add("volume", "must be a positive integer")
	}
	if update.SeriesID != nil && *update.SeriesID == "" {
		verr.Add("series_id", "must reference a series")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// ValidateSearchResult guards the registration entry point: the result
// must carry a usable title and target URL before any series resolution.
func ValidateSearchResult(result *model.BookSearchResult) error {
	verr := &apperr.ValidationError{}

	result.Title = util.SanitizeText(result.Title)
	if result.Title == "" {
		verr.Add("title", "must not be empty")
	}
	if !ValidTargetURL(result.TargetURL) {
		verr.Add("target_url", "must be an absolute http(s) URL")
	}
	if result.ISBN != nil && !ValidISBN(*result.ISBN) {
		verr.Add("isbn", "must match ISBN-10 or ISBN-13")
	}
	if result.Volume != nil && *result.Volume <= 0 {
		verr.Add("volume", "must be a positive integer")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
