package orchestrator

import (
	"context"
	"log/slog"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/metadata"
	"nomadtool/internal/planner"
	"nomadtool/internal/services/library"
	"nomadtool/internal/transfer"
)

// Transcoder is the encoder surface the orchestrator drives.
type Transcoder interface {
	DetectEncoder(ctx context.Context) string
	Scan(ctx context.Context, item *media.Item) error
	Transcode(ctx context.Context, item *media.Item, encoderID, outputPath string, progress media.ProgressFunc) error
}

// FileCopier is the transfer surface the orchestrator drives.
type FileCopier interface {
	Copy(ctx context.Context, item *media.Item, target media.Target, destPath string, progress media.ProgressFunc) error
}

// Enricher resolves metadata for a whole batch.
type Enricher interface {
	EnrichBatch(ctx context.Context, items []*media.Item)
}

// Orchestrator sequences a batch: metadata fan-out, then per-item
// duplicate check, transcode, and transfer, one heavy operation at a time.
type Orchestrator struct {
	targets    []media.Target
	stagingDir string

	enricher  Enricher
	posters   *metadata.PosterFetcher
	planner   *planner.Planner
	encoder   Transcoder
	copier    FileCopier
	shares    *transfer.ShareManager
	space     *transfer.SpacePlanner
	rescanner library.Rescanner

	logger   *slog.Logger
	progress media.ProgressFunc
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithEnricher attaches metadata enrichment.
func WithEnricher(enricher Enricher) Option {
	return func(o *Orchestrator) { o.enricher = enricher }
}

// WithPosterFetcher attaches poster placement.
func WithPosterFetcher(fetcher *metadata.PosterFetcher) Option {
	return func(o *Orchestrator) { o.posters = fetcher }
}

// WithTranscoder attaches the encoder controller.
func WithTranscoder(transcoder Transcoder) Option {
	return func(o *Orchestrator) { o.encoder = transcoder }
}

// WithRescanner attaches the downstream library rescan trigger.
func WithRescanner(rescanner library.Rescanner) Option {
	return func(o *Orchestrator) { o.rescanner = rescanner }
}

// WithShareManager attaches share connection handling.
func WithShareManager(shares *transfer.ShareManager) Option {
	return func(o *Orchestrator) { o.shares = shares }
}

// WithSpacePlanner attaches the free-space failover decision.
func WithSpacePlanner(space *transfer.SpacePlanner) Option {
	return func(o *Orchestrator) { o.space = space }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress attaches the progress event consumer.
func WithProgress(progress media.ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = progress }
}

// New constructs an orchestrator over the given destination targets. The
// first target is the primary.
func New(targets []media.Target, stagingDir string, plan *planner.Planner, copier FileCopier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		targets:    targets,
		stagingDir: stagingDir,
		planner:    plan,
		copier:     copier,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
