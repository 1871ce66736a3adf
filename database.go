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

// Package tupper answers dietary questions about a fixed dish catalog.
//
// A Database bundles the dish store with the AI provider and builds the
// ingestion, reembedding and answering components on top of them.
package tupper

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/ai/openai"
	"github.com/poiesic/tupper/assistant"
	"github.com/poiesic/tupper/catalog"
	"github.com/poiesic/tupper/ingestion"
	"github.com/poiesic/tupper/reembed"
	"github.com/poiesic/tupper/storage"
	"github.com/poiesic/tupper/storage/badger"
)

type Database struct {
	backend  *badger.Backend
	dishRepo storage.DishRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the configuration of the default OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The Database takes ownership and closes it.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the catalog in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	dishRepo, err := badger.NewDishRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig, openai.WithLogger(options.logger))
		if err != nil {
			dishRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		dishRepo: dishRepo,
		provider: provider,
		logger:   options.logger,
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.dishRepo.Close(); err != nil {
		db.logger.Error("error closing dish repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DishRepository() storage.DishRepository {
	return db.dishRepo
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewPipeline(db.dishRepo, db.provider.Embedder(), opts...)
}

func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.dishRepo, db.provider.Embedder(), config, progress, db.logger)
}

// LoadPool runs the broad catalog retrieval once.
func (db *Database) LoadPool(ctx context.Context, opts ...catalog.Option) (*catalog.Pool, error) {
	opts = append([]catalog.Option{catalog.WithLogger(db.logger)}, opts...)
	return catalog.Load(ctx, db.dishRepo, db.provider.Embedder(), opts...)
}

// NewAssistant loads the candidate pool and builds a pipeline over it.
func (db *Database) NewAssistant(ctx context.Context, poolOpts []catalog.Option, opts ...assistant.Option) (*assistant.Pipeline, error) {
	pool, err := db.LoadPool(ctx, poolOpts...)
	if err != nil {
		return nil, err
	}
	opts = append([]assistant.Option{assistant.WithLogger(db.logger)}, opts...)
	return assistant.NewPipeline(pool, db.provider, opts...)
}
