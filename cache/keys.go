package cache //import "github.com/hondana-dev/hondana/cache"

// Cache keys for library views
const (
	// KeyAllBooks is the cache key for the full book list
	KeyAllBooks = "books"

	// KeySeriesList is the cache key for the series list
	KeySeriesList = "series"

	// KeySeriesWithBooks is the cache key for the nested aggregate
	KeySeriesWithBooks = "series_with_books"

	// KeySeriesOptions is the cache key for the selection projection
	KeySeriesOptions = "series_options"

	// KeyAppStats is the cache key for whole-library statistics
	KeyAppStats = "stats"

	// PrefixBook is the prefix for book detail caches (book:{id})
	PrefixBook = "book:"

	// PrefixSeriesDetail is the prefix for per-series caches (series:{id})
	PrefixSeriesDetail = "series:"
)

func BookKey(id string) string {
	return PrefixBook + id
}

func SeriesKey(id string) string {
	return PrefixSeriesDetail + id
}

// BookViewKeys returns the list views a book mutation affects plus the
// detail views of the given books. Callers add the SeriesKey of the owning
// series, which only they know.
func BookViewKeys(bookIDs ...string) []string {
	keys := []string{KeyAllBooks, KeySeriesWithBooks, KeySeriesOptions, KeyAppStats}
	for _, id := range bookIDs {
		keys = append(keys, BookKey(id))
	}
	return keys
}

// SeriesViewKeys returns the list views a series mutation affects plus the
// detail views of the given series. Series mutations can cascade to books,
// so the book list views are included; callers add the BookKeys of the
// affected books.
func SeriesViewKeys(seriesIDs ...string) []string {
	keys := []string{KeySeriesList, KeySeriesWithBooks, KeySeriesOptions, KeyAppStats, KeyAllBooks}
	for _, id := range seriesIDs {
		keys = append(keys, SeriesKey(id))
	}
	return keys
}
