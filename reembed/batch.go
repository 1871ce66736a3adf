package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
)

// BatchProcessor handles embedding generation for batches of dishes.
type BatchProcessor struct {
	repo           storage.DishRepository
	embedder       ai.Embedder
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxAttempts: maximum number of embedding calls per batch
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.DishRepository, embedder ai.Embedder, maxAttempts int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the descriptions of a batch of dishes and writes the
// normalized vectors back.
func (bp *BatchProcessor) Process(ctx context.Context, dishes []*core.Dish) error {
	if len(dishes) == 0 {
		return nil
	}

	texts := make([]string, len(dishes))
	for i, d := range dishes {
		texts[i] = d.Description
	}

	var embeddings [][]float32
	err := ai.RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		if err == nil && len(embeddings) != len(dishes) {
			err = fmt.Errorf("%w: expected %d embeddings, got %d", ai.ErrMalformedResponse, len(dishes), len(embeddings))
		}
		return err
	}, bp.maxAttempts, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	for i := range dishes {
		dishes[i].Vector = core.NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpdateDishes(ctx, dishes...); err != nil {
		return fmt.Errorf("failed to update dishes: %w", err)
	}
	return nil
}
