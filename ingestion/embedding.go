package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/core"
)

// embeddingProcessor generates normalized description embeddings in batches
// spread over a worker pool.
type embeddingProcessor struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(embedder ai.Embedder, pool *ants.Pool, batchSize int, logger *slog.Logger) (processor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if pool == nil {
		return nil, fmt.Errorf("worker pool required")
	}
	if batchSize < 1 {
		return nil, ErrInvalidBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embedder:  embedder,
		pool:      pool,
		batchSize: batchSize,
		logger:    logger.With("processor", "embeddings"),
	}, nil
}

// process embeds every dish description and stores the vector on the dish.
func (ep *embeddingProcessor) process(ctx context.Context, dishes []*core.Dish) error {
	ep.logger.Info("processing dishes for embeddings", "dishes", len(dishes), "batch_size", ep.batchSize)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for start := 0; start < len(dishes); start += ep.batchSize {
		batch := dishes[start:min(start+ep.batchSize, len(dishes))]
		wg.Add(1)
		err := ep.pool.Submit(func() {
			defer wg.Done()
			if err := ep.embedBatch(ctx, batch); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrEmbeddingFailed, errors.Join(errs...))
	}
	return nil
}

func (ep *embeddingProcessor) embedBatch(ctx context.Context, batch []*core.Dish) error {
	texts := make([]string, len(batch))
	for i, d := range batch {
		texts[i] = d.Description
	}

	ep.logger.Debug("generating embeddings for dishes", "dishes", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
	}

	for i := range embeddings {
		batch[i].Vector = core.NormalizeVector(embeddings[i])
	}
	return nil
}
