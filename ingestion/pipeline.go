package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
	"github.com/poiesic/tupper/tagging"
)

// DefaultBatchSize is how many descriptions go into one embedding request.
const DefaultBatchSize = 16

// Pipeline orchestrates seeding the catalog from cleaned rows.
type Pipeline struct {
	repository    storage.DishRepository
	embeddingPool *ants.Pool
	tagProc       processor
	embeddingProc processor
	embedder      ai.Embedder
	tagger        *tagging.Tagger
	batchSize     int
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithBatchSize sets how many dishes are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithTagger replaces the default heuristic tagger.
func WithTagger(tagger *tagging.Tagger) Option {
	return func(p *Pipeline) error {
		p.tagger = tagger
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.DishRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:    repository,
		embeddingPool: embeddingPool,
		embedder:      embedder,
		batchSize:     DefaultBatchSize,
		logger:        slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Create processors after options are applied (so they get final config)
	p.tagProc = newTaggingProcessor(p.tagger, p.logger)
	embeddingProc, err := newEmbeddingProcessor(embedder, p.embeddingPool, p.batchSize, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// RowError records a row that was skipped.
type RowError struct {
	Index int
	Name  string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Report summarizes one ingestion run.
type Report struct {
	Rows     int
	Stored   int
	Replaced int // rows whose name repeated an earlier row
	Skipped  []RowError
}

// Ingest validates, tags, embeds and stores the rows. Rows that fail
// validation are skipped and listed in the report. When two rows share a
// name the later one wins.
func (p *Pipeline) Ingest(ctx context.Context, rows []Row) (*Report, error) {
	report := &Report{Rows: len(rows)}

	dishes := make([]*core.Dish, 0, len(rows))
	byID := make(map[core.ID]int, len(rows))
	for i, row := range rows {
		d := row.Dish()
		if err := core.ValidateDish(d); err != nil {
			p.logger.Warn("skipping invalid row", "row", i, "name", d.Name, "err", err)
			report.Skipped = append(report.Skipped, RowError{Index: i, Name: d.Name, Err: err})
			continue
		}

		d.Id = core.DishID(d.Name)
		if at, ok := byID[d.Id]; ok {
			dishes[at] = d
			report.Replaced++
			continue
		}
		byID[d.Id] = len(dishes)
		dishes = append(dishes, d)
	}

	if len(dishes) == 0 {
		p.logger.Warn("no valid rows to ingest", "rows", len(rows))
		return report, nil
	}

	if err := p.tagProc.process(ctx, dishes); err != nil {
		return report, err
	}
	if err := p.embeddingProc.process(ctx, dishes); err != nil {
		p.logger.Error("error processing embeddings", "err", err)
		return report, err
	}

	added, err := p.repository.AddDishes(ctx, dishes...)
	if err != nil {
		return report, err
	}
	report.Stored = len(added)

	p.logger.Info("ingested catalog", "rows", report.Rows, "stored", report.Stored,
		"skipped", len(report.Skipped), "replaced", report.Replaced)
	return report, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
