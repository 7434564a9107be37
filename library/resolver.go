package library //import "github.com/hondana-dev/hondana/library"

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/log"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

// seriesResolverStore is the slice of the repository the resolver needs.
type seriesResolverStore interface {
	GetSeries(find *model.FindSeries) (*model.Series, error)
	CreateSeries(create *model.Series) (*model.Series, error)
}

// resolveSeriesID maps a search result to the id of an existing or newly
// created series. Resolution is idempotent under concurrent duplicate
// registration: a create that loses the race surfaces DuplicateEntry and is
// converted into a re-lookup, so two registrations of the same series can
// never produce two rows.
func resolveSeriesID(rs seriesResolverStore, result *model.BookSearchResult, selectedSeriesID *string) (string, error) {
	// The caller picked a series explicitly; trust the selection.
	if selectedSeriesID != nil && *selectedSeriesID != "" {
		return *selectedSeriesID, nil
	}

	seriesTitle := util.SanitizeText(util.StripVolumeMarker(result.Title))
	if seriesTitle == "" {
		seriesTitle = result.Title
	}
	var seriesAuthor *string
	if result.Author != "" && result.Author != model.UnknownAuthor {
		author := result.Author
		seriesAuthor = &author
	}

	found, err := lookupSeries(rs, result.SeriesID, seriesTitle, seriesAuthor)
	if err != nil {
		return "", err
	}
	if found != nil {
		return found.ID, nil
	}

	created, err := rs.CreateSeries(&model.Series{
		Title:            seriesTitle,
		Author:           seriesAuthor,
		Thumbnail:        result.ImageURL,
		ExternalSeriesID: result.SeriesID,
	})
	if err == nil {
		return created.ID, nil
	}
	if !errors.Is(err, apperr.ErrDuplicateEntry) {
		return "", err
	}

	// Lost a create race; the series exists now, so look it up again.
	log.Debug("Series create conflicted, re-resolving",
		zap.String("title", seriesTitle))
	found, err = lookupSeries(rs, result.SeriesID, seriesTitle, seriesAuthor)
	if err != nil {
		return "", err
	}
	if found != nil {
		return found.ID, nil
	}

	// Registration must not fail on resolution; park the book in the
	// sentinel series instead.
	return model.UnclassifiedSeriesID, nil
}

// lookupSeries tries the external catalog series id first, then the exact
// title+author key.
func lookupSeries(rs seriesResolverStore, externalSeriesID *string, title string, author *string) (*model.Series, error) {
	if externalSeriesID != nil && *externalSeriesID != "" {
		series, err := rs.GetSeries(&model.FindSeries{ExternalSeriesID: externalSeriesID})
		if err != nil {
			return nil, err
		}
		if series != nil {
			return series, nil
		}
	}

	authorKey := ""
	if author != nil {
		authorKey = *author
	}
	return rs.GetSeries(&model.FindSeries{Title: &title, Author: &authorKey})
}
