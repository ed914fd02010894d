package metadata

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/services/omdb"
	"nomadtool/internal/textutil"
)

// Enricher resolves canonical title/year/poster data for classified items
// from OMDb. Enrichment is best-effort: every failure is logged and the item
// keeps its inferred values.
type Enricher struct {
	client    omdb.Querier
	threshold float64
	workers   int
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithWorkers bounds the enrichment fan-out.
func WithWorkers(workers int) Option {
	return func(e *Enricher) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithSimilarityThreshold overrides the show-title acceptance threshold.
func WithSimilarityThreshold(threshold float64) Option {
	return func(e *Enricher) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithTimeout sets the per-item lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Enricher) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnricher creates an Enricher backed by the given OMDb querier.
func NewEnricher(client omdb.Querier, opts ...Option) *Enricher {
	enricher := &Enricher{
		client:    client,
		threshold: 0.70,
		workers:   4,
		timeout:   10 * time.Second,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(enricher)
	}
	return enricher
}

// EnrichBatch runs enrichment for every eligible item with a bounded worker
// pool. It returns once all items have been attempted or ctx is cancelled.
func (e *Enricher) EnrichBatch(ctx context.Context, items []*media.Item) {
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for _, item := range items {
		if !eligible(item) {
			continue
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(item *media.Item) {
			defer wg.Done()
			defer func() { <-sem }()
			e.Enrich(ctx, item)
		}(item)
	}
	wg.Wait()
}

// Enrich attempts to resolve one item against OMDb and applies the result
// when the acceptance rules pass.
func (e *Enricher) Enrich(ctx context.Context, item *media.Item) {
	if !eligible(item) {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger := e.logger.With(logging.String(logging.FieldItemID, item.ID), logging.String("title", item.Title))

	result, err := e.resolve(ctx, item)
	if err != nil {
		logger.Warn("metadata lookup failed", logging.Error(err))
		return
	}
	if result == nil {
		logger.Debug("no metadata match")
		return
	}
	if !e.shouldApply(item.Title, result.Title, item.Category) {
		logger.Debug("metadata match rejected", logging.String("candidate", result.Title))
		return
	}

	item.Title = result.Title
	if year := leadingYear(result.Year); year != "" {
		item.Year = year
	}
	if result.HasPoster() {
		item.PosterURL = result.Poster
	}
	logger.Info("metadata applied",
		logging.String("resolved_title", result.Title),
		logging.String("year", item.Year))
}

// resolve walks the query fallback chain. Every step is an independent
// network call; a nil result with nil error means "no match anywhere".
func (e *Enricher) resolve(ctx context.Context, item *media.Item) (*omdb.Result, error) {
	mediaType := omdb.TypeMovie
	if item.Category == media.CategoryShows {
		mediaType = omdb.TypeSeries
	}

	opts := omdb.LookupOptions{Type: mediaType, Year: yearHint(item)}
	if item.Category == media.CategoryShows {
		opts.Season = item.SeasonNumber()
	}

	result, err := e.client.Lookup(ctx, item.Title, opts)
	if err != nil || result != nil {
		return result, err
	}

	if opts.Season > 0 {
		opts.Season = 0
		result, err = e.client.Lookup(ctx, item.Title, opts)
		if err != nil || result != nil {
			return result, err
		}
	}

	if opts.Year > 0 {
		opts.Year = 0
		result, err = e.client.Lookup(ctx, item.Title, opts)
		if err != nil || result != nil {
			return result, err
		}
	}

	matches, err := e.client.Search(ctx, item.Title, omdb.LookupOptions{Type: mediaType})
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if e.shouldApply(item.Title, matches[i].Title, item.Category) {
			return &matches[i], nil
		}
	}
	return nil, nil
}

// shouldApply decides whether a provider result may overwrite the inferred
// title. Movies accept any non-empty match; shows require the normalized
// titles to be identical, or a word-set Jaccard similarity at or above the
// threshold when the inferred title is long enough to be distinctive.
func (e *Enricher) shouldApply(inferred, candidate string, category media.Category) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	if category != media.CategoryShows {
		return true
	}
	normInferred := textutil.NormalizeTitle(inferred)
	normCandidate := textutil.NormalizeTitle(candidate)
	if normInferred == normCandidate {
		return true
	}
	if utf8.RuneCountInString(normInferred) < 4 {
		return false
	}
	return textutil.JaccardSimilarity(inferred, candidate) >= e.threshold
}

func eligible(item *media.Item) bool {
	if item == nil || strings.TrimSpace(item.Title) == "" {
		return false
	}
	return item.Category == media.CategoryMovies || item.Category == media.CategoryShows
}

func yearHint(item *media.Item) int {
	year, err := strconv.Atoi(strings.TrimSpace(item.Year))
	if err != nil {
		return 0
	}
	return year
}

// leadingYear extracts the first four-digit year from an OMDb year string,
// which may be a range such as "2005-2013".
func leadingYear(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < 4 {
		return ""
	}
	candidate := value[:4]
	if _, err := strconv.Atoi(candidate); err != nil {
		return ""
	}
	return candidate
}
