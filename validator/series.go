package validator //import "github.com/hondana-dev/hondana/validator"

import (
	"unicode/utf8"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

// ValidateNewSeries sanitizes title and author in place and checks every
// schema rule.
func ValidateNewSeries(series *model.Series) error {
	verr := &apperr.ValidationError{}

	series.Title = util.SanitizeText(series.Title)
	if series.Title == "" {
		verr.Add("title", "must not be empty")
	}
	if utf8.RuneCountInString(series.Title) > maxTitleLen {
		verr.Add("title", "must be at most 500 characters")
	}
	if series.Author != nil {
		*series.Author = util.SanitizeText(*series.Author)
		if utf8.RuneCountInString(*series.Author) > maxAuthorLen {
			verr.Add("author", "must be at most 200 characters")
		}
	}
	if series.Description != nil && utf8.RuneCountInString(*series.Description) > maxDescriptionLen {
		verr.Add("description", "must be at most 2000 characters")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// ValidateUpdateSeries re-sanitizes the title on update.
func ValidateUpdateSeries(update *model.UpdateSeries) error {
	verr := &apperr.ValidationError{}

	if update.Title != nil {
		*update.Title = util.SanitizeText(*update.Title)
		if *update.Title == "" {
			verr.Add("title", "must not be empty")
		}
		if utf8.RuneCountInString(*update.Title) > maxTitleLen {
			verr.Add("title", "must be at most 500 characters")
		}
	}
	if update.Author != nil {
		*update.Author = util.SanitizeText(*update.Author)
		if utf8.RuneCountInString(*update.Author) > maxAuthorLen {
			verr.Add("author", "must be at most 200 characters")
		}
	}
	if update.Description != nil && utf8.RuneCountInString(*update.Description) > maxDescriptionLen {
		verr.Add("description", "must be at most 2000 characters")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}
