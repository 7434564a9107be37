package library //import "github.com/hondana-dev/hondana/library"

import (
	"github.com/hondana-dev/hondana/model"
)

// BuildSeriesWithBooks derives the nested aggregate from the flat series
// and book lists in a single pass. Every persisted series appears, even
// with zero books, so empty series stay visible for further registration;
// a book whose series is not in seriesList is dropped (the foreign key
// makes that impossible in practice).
func BuildSeriesWithBooks(seriesList []*model.Series, books []*model.BookWithSeries) []*model.SeriesWithBooks {
	buckets := make(map[string][]*model.Book, len(seriesList))
	known := make(map[string]bool, len(seriesList))
	for _, series := range seriesList {
		known[series.ID] = true
	}

	for _, book := range books {
		if !known[book.SeriesID] {
			continue
		}
		b := book.Book
		buckets[book.SeriesID] = append(buckets[book.SeriesID], &b)
	}

	aggregate := make([]*model.SeriesWithBooks, 0, len(seriesList))
	for _, series := range seriesList {
		bucket := buckets[series.ID]
		if bucket == nil {
			bucket = []*model.Book{}
		}
		aggregate = append(aggregate, &model.SeriesWithBooks{
			Series: series,
			Books:  bucket,
			Stats:  buildSeriesStats(bucket),
		})
	}
	return aggregate
}

func buildSeriesStats(books []*model.Book) model.SeriesStats {
	stats := model.SeriesStats{VolumeCount: len(books)}
	for _, book := range books {
		// RFC 3339 timestamps compare lexicographically.
		if book.CreatedTs > stats.LatestVolumeTs {
			stats.LatestVolumeTs = book.CreatedTs
		}
	}
	return stats
}
