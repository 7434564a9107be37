package library //import "github.com/hondana-dev/hondana/library"

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

// fakeSeriesStore is an in-memory seriesResolverStore with the same
// uniqueness contract as the real one.
type fakeSeriesStore struct {
	series  []*model.Series
	creates int

	// createErr, when set, is returned by every CreateSeries call.
	createErr error
}

func (f *fakeSeriesStore) GetSeries(find *model.FindSeries) (*model.Series, error) {
	for _, s := range f.series {
		if find.ExternalSeriesID != nil {
			if s.ExternalSeriesID != nil && *s.ExternalSeriesID == *find.ExternalSeriesID {
				return s, nil
			}
			continue
		}
		if find.Title != nil && s.Title != *find.Title {
			continue
		}
		if find.Author != nil {
			author := ""
			if s.Author != nil {
				author = *s.Author
			}
			if author != *find.Author {
				continue
			}
		}
		return s, nil
	}
	return nil, nil
}

func (f *fakeSeriesStore) CreateSeries(create *model.Series) (*model.Series, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	s := *create
	s.ID = util.GenUUID()
	f.series = append(f.series, &s)
	return &s, nil
}

func TestResolveSeriesTrustsSelection(t *testing.T) {
	fake := &fakeSeriesStore{}
	selected := "chosen-id"

	id, err := resolveSeriesID(fake, &model.BookSearchResult{Title: "Anything 3"}, &selected)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "chosen-id" {
		t.Errorf("Expected the selected id, got %q", id)
	}
	if f := fake.creates; f != 0 {
		t.Errorf("Selection must bypass creation, got %d creates", f)
	}
}

func TestResolveSeriesSequentialRegistrationsShareOneSeries(t *testing.T) {
	fake := &fakeSeriesStore{}

	first, err := resolveSeriesID(fake, &model.BookSearchResult{Title: "Sample Manga 1", Author: "Some Artist"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := resolveSeriesID(fake, &model.BookSearchResult{Title: "Sample Manga 2", Author: "Some Artist"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first != second {
		t.Fatalf("Volumes of one series must resolve to one id: %q vs %q", first, second)
	}
	if fake.creates != 1 {
		t.Fatalf("Expected exactly one series created, got %d", fake.creates)
	}
	if fake.series[0].Title != "Sample Manga" {
		t.Errorf("Expected derived series title %q, got %q", "Sample Manga", fake.series[0].Title)
	}
}

func TestResolveSeriesPrefersExternalID(t *testing.T) {
	ext := "cat-42"
	fake := &fakeSeriesStore{series: []*model.Series{
		{ID: "existing", Title: "Totally Different Name", ExternalSeriesID: &ext},
	}}

	id, err := resolveSeriesID(fake, &model.BookSearchResult{Title: "Renamed Edition 1", SeriesID: &ext}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "existing" {
		t.Errorf("Expected external-id match, got %q", id)
	}
}

func TestResolveSeriesLostCreateRaceReLooksUp(t *testing.T) {
	// The duplicate error means someone else created the series between our
	// lookup and our insert; the second lookup must find it.
	winner := &model.Series{ID: "winner", Title: "Raced"}
	fake := &fakeSeriesStore{createErr: apperr.ErrDuplicateEntry}

	// First lookup misses, create conflicts, second lookup hits.
	lookups := 0
	rs := &hookedSeriesStore{
		inner: fake,
		onGet: func() {
			lookups++
			if lookups == 2 {
				fake.series = append(fake.series, winner)
			}
		},
	}

	id, err := resolveSeriesID(rs, &model.BookSearchResult{Title: "Raced 1"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "winner" {
		t.Errorf("Expected the winner's id, got %q", id)
	}
}

func TestResolveSeriesFallsBackToUnclassified(t *testing.T) {
	// Duplicate conflict but the row is never visible: registration still
	// proceeds into the sentinel series rather than failing.
	fake := &fakeSeriesStore{createErr: apperr.ErrDuplicateEntry}

	id, err := resolveSeriesID(fake, &model.BookSearchResult{Title: "Phantom 1"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != model.UnclassifiedSeriesID {
		t.Errorf("Expected sentinel series, got %q", id)
	}
}

func TestResolveSeriesPropagatesUnexpectedErrors(t *testing.T) {
	boom := errors.New("db locked")
	fake := &fakeSeriesStore{createErr: boom}

	_, err := resolveSeriesID(fake, &model.BookSearchResult{Title: "Broken 1"}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected error to propagate, got %v", err)
	}
}

// hookedSeriesStore lets a test mutate the fake between lookups.
type hookedSeriesStore struct {
	inner *fakeSeriesStore
	onGet func()
}

func (h *hookedSeriesStore) GetSeries(find *model.FindSeries) (*model.Series, error) {
	h.onGet()
	return h.inner.GetSeries(find)
}

func (h *hookedSeriesStore) CreateSeries(create *model.Series) (*model.Series, error) {
	return h.inner.CreateSeries(create)
}
