// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of dishes to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of dishes)
	ReportInterval int

	// MaxAttempts is the maximum number of embedding calls per batch
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// ContinueOnError skips failed batches instead of stopping the run
	ContinueOnError bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 50,
		MaxAttempts:    3,
		RetryDelay:     1 * time.Second,
	}
}

// Result summarizes a run.
type Result struct {
	Total    int
	Done     int
	Failed   int
	Duration time.Duration
}

// Reembedder orchestrates the reembedding of every dish in the catalog.
type Reembedder struct {
	repo      storage.DishRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *DishIterator
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.DishRepository, embedder ai.Embedder, config *Config, progress io.Writer, logger *slog.Logger) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxAttempts, config.RetryDelay),
		iterator:  NewDishIterator(repo, config.BatchSize),
		logger:    logger.With("component", "reembed"),
	}, nil
}

// Run reembeds all dishes with the configured embedder.
func (r *Reembedder) Run(ctx context.Context) (*Result, error) {
	total, err := r.repo.CountDishes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count dishes: %w", err)
	}

	result := &Result{Total: total}
	if total == 0 {
		fmt.Fprintf(r.progress, "No dishes found in database (0 dishes)\n")
		return result, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d dishes (batch size: %d)\n",
		total, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(dishes []*core.Dish) error {
		if err := r.processor.Process(ctx, dishes); err != nil {
			if !r.config.ContinueOnError || ctx.Err() != nil {
				return fmt.Errorf("failed to process batch: %w", err)
			}
			r.logger.Warn("skipping failed batch", "first_id", dishes[0].Id, "dishes", len(dishes), "err", err)
			tracker.Failed(len(dishes))
			return nil
		}
		tracker.Done(len(dishes))
		return nil
	})

	result.Done, result.Failed = tracker.Counts()
	result.Duration = tracker.Elapsed()
	if err != nil {
		return result, err
	}

	tracker.Finish()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d dishes in %v (%.1f dishes/sec)\n",
		result.Done, result.Duration.Round(time.Second), float64(result.Done)/max(result.Duration.Seconds(), 1e-9))

	r.logger.Info("reembedding finished", "total", total, "done", result.Done, "failed", result.Failed)
	if result.Failed > 0 {
		return result, fmt.Errorf("%w: %d of %d dishes not reembedded", ErrBatchesFailed, result.Failed, total)
	}
	return result, nil
}
