package metadata_test

import (
	"context"
	"sync"
	"testing"

	"nomadtool/internal/media"
	"nomadtool/internal/metadata"
	"nomadtool/internal/services/omdb"
)

type fakeQuerier struct {
	mu      sync.Mutex
	lookups []omdb.LookupOptions
	// responses are consumed in order; nil means a miss.
	responses []*omdb.Result
	searches  []string
	results   []omdb.Result
}

func (f *fakeQuerier) Lookup(_ context.Context, _ string, opts omdb.LookupOptions) (*omdb.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, opts)
	if len(f.responses) == 0 {
		return nil, nil
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next, nil
}

func (f *fakeQuerier) Search(_ context.Context, query string, _ omdb.LookupOptions) ([]omdb.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query)
	return f.results, nil
}

func newShowItem(t *testing.T, title, year, season, episode string) *media.Item {
	t.Helper()
	return &media.Item{
		ID:       "item-1",
		Title:    title,
		Year:     year,
		Season:   season,
		Episode:  episode,
		Category: media.CategoryShows,
	}
}

func TestEnrichAppliesMovieResult(t *testing.T) {
	querier := &fakeQuerier{responses: []*omdb.Result{{
		Title:  "Blade Runner",
		Year:   "1982",
		Poster: "https://img.example/blade.jpg",
	}}}
	enricher := metadata.NewEnricher(querier)

	item := &media.Item{ID: "m1", Title: "Bladerunner", Category: media.CategoryMovies}
	enricher.Enrich(context.Background(), item)

	if item.Title != "Blade Runner" {
		t.Fatalf("expected title applied, got %q", item.Title)
	}
	if item.Year != "1982" {
		t.Fatalf("expected year applied, got %q", item.Year)
	}
	if item.PosterURL != "https://img.example/blade.jpg" {
		t.Fatalf("expected poster url applied, got %q", item.PosterURL)
	}
}

func TestEnrichFallbackChainDropsSeasonThenYear(t *testing.T) {
	querier := &fakeQuerier{responses: []*omdb.Result{nil, nil, {
		Title: "The Office",
		Year:  "2005-2013",
	}}}
	enricher := metadata.NewEnricher(querier)

	item := newShowItem(t, "The Office", "2005", "1", "2")
	enricher.Enrich(context.Background(), item)

	if len(querier.lookups) != 3 {
		t.Fatalf("expected three lookups, got %d", len(querier.lookups))
	}
	first := querier.lookups[0]
	if first.Season != 1 || first.Year != 2005 || first.Type != omdb.TypeSeries {
		t.Fatalf("unexpected first lookup: %+v", first)
	}
	if querier.lookups[1].Season != 0 || querier.lookups[1].Year != 2005 {
		t.Fatalf("expected second lookup without season: %+v", querier.lookups[1])
	}
	if querier.lookups[2].Season != 0 || querier.lookups[2].Year != 0 {
		t.Fatalf("expected third lookup without year: %+v", querier.lookups[2])
	}
	if item.Year != "2005" {
		t.Fatalf("expected range year reduced to first year, got %q", item.Year)
	}
}

func TestEnrichFallsBackToSearch(t *testing.T) {
	querier := &fakeQuerier{
		responses: []*omdb.Result{nil},
		results: []omdb.Result{
			{Title: "Unrelated Program", Year: "2001"},
			{Title: "Parks and Recreation", Year: "2009"},
		},
	}
	enricher := metadata.NewEnricher(querier)

	item := newShowItem(t, "Parks and Recreation", "", "", "")
	enricher.Enrich(context.Background(), item)

	if len(querier.searches) != 1 {
		t.Fatalf("expected one search call, got %d", len(querier.searches))
	}
	if item.Title != "Parks and Recreation" {
		t.Fatalf("expected first acceptable search result applied, got %q", item.Title)
	}
	if item.Year != "2009" {
		t.Fatalf("unexpected year: %q", item.Year)
	}
}

func TestEnrichRejectsDissimilarShowTitle(t *testing.T) {
	querier := &fakeQuerier{responses: []*omdb.Result{{
		Title: "My Friends Tigger & Pooh",
		Year:  "2007",
	}}}
	enricher := metadata.NewEnricher(querier)

	item := newShowItem(t, "Friends", "", "", "")
	enricher.Enrich(context.Background(), item)

	if item.Title != "Friends" {
		t.Fatalf("expected dissimilar result rejected, title is %q", item.Title)
	}
	if item.Year != "" {
		t.Fatalf("expected year untouched, got %q", item.Year)
	}
}

func TestEnrichAcceptsExactNormalizedShowTitle(t *testing.T) {
	querier := &fakeQuerier{responses: []*omdb.Result{{
		Title: "The Office",
		Year:  "2005",
	}}}
	enricher := metadata.NewEnricher(querier)

	item := newShowItem(t, "the office", "", "", "")
	enricher.Enrich(context.Background(), item)

	if item.Title != "The Office" {
		t.Fatalf("expected exact normalized match applied, got %q", item.Title)
	}
}

func TestEnrichSkipsNonVideoCategories(t *testing.T) {
	querier := &fakeQuerier{responses: []*omdb.Result{{Title: "Album"}}}
	enricher := metadata.NewEnricher(querier)

	item := &media.Item{ID: "a1", Title: "Some Album", Category: media.CategoryMusic}
	enricher.Enrich(context.Background(), item)

	if len(querier.lookups) != 0 {
		t.Fatalf("expected no lookups for music, got %d", len(querier.lookups))
	}
	if item.Title != "Some Album" {
		t.Fatalf("expected title untouched, got %q", item.Title)
	}
}

func TestEnrichBatchCoversAllEligibleItems(t *testing.T) {
	querier := &fakeQuerier{}
	enricher := metadata.NewEnricher(querier, metadata.WithWorkers(2))

	items := []*media.Item{
		{ID: "1", Title: "Movie One", Category: media.CategoryMovies},
		{ID: "2", Title: "Movie Two", Category: media.CategoryMovies},
		{ID: "3", Title: "Track", Category: media.CategoryMusic},
		{ID: "4", Title: "Movie Three", Category: media.CategoryMovies},
	}
	enricher.EnrichBatch(context.Background(), items)

	querier.mu.Lock()
	defer querier.mu.Unlock()
	if len(querier.lookups) != 3 {
		t.Fatalf("expected three lookups, got %d", len(querier.lookups))
	}
}
