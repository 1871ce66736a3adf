package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/storage"
)

const (
	// DefaultTerm is the broad query that selects the candidate pool.
	DefaultTerm = "plato"

	// DefaultLimit bounds the candidate pool.
	DefaultLimit = 300
)

// Pool is the read-only candidate set every query is answered from.
// It is loaded once and never refreshed; a catalog change needs a restart.
type Pool struct {
	dishes   []*core.Dish
	scores   map[core.ID]float32
	loadedAt time.Time
}

// NewPool wraps dishes, in the given order, as a pool.
func NewPool(dishes []*core.Dish) *Pool {
	return &Pool{
		dishes:   slices.Clone(dishes),
		scores:   map[core.ID]float32{},
		loadedAt: time.Now().UTC(),
	}
}

// Dishes returns the pool in similarity order. Callers must not modify the
// dishes themselves.
func (p *Pool) Dishes() []*core.Dish {
	return slices.Clone(p.dishes)
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.dishes)
}

// Similarity returns the retrieval score of a pooled dish.
func (p *Pool) Similarity(id core.ID) (float32, bool) {
	s, ok := p.scores[id]
	return s, ok
}

// LoadedAt returns when the pool was built.
func (p *Pool) LoadedAt() time.Time {
	return p.loadedAt
}

type loadConfig struct {
	term          string
	limit         int
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures Load.
type Option func(*loadConfig) error

// WithTerm sets the broad retrieval term.
func WithTerm(term string) Option {
	return func(c *loadConfig) error {
		c.term = term
		return nil
	}
}

// WithLimit sets the maximum pool size.
func WithLimit(limit int) Option {
	return func(c *loadConfig) error {
		if limit <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
		}
		c.limit = limit
		return nil
	}
}

// WithMinSimilarity sets the similarity floor. The default of -1 admits
// every embedded dish, so the pool is simply the nearest DefaultLimit.
func WithMinSimilarity(min float32) Option {
	return func(c *loadConfig) error {
		c.minSimilarity = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *loadConfig) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// Load runs the one-time broad similarity retrieval that builds the pool.
func Load(ctx context.Context, repo storage.DishRepository, embedder ai.Embedder, opts ...Option) (*Pool, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	cfg := &loadConfig{
		term:          DefaultTerm,
		limit:         DefaultLimit,
		minSimilarity: -1,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	logger := cfg.logger.With("component", "catalog")

	start := time.Now()
	vector, err := embedder.EmbedText(ctx, cfg.term)
	if err != nil {
		logger.Error("error embedding pool term", "term", cfg.term, "err", err)
		return nil, fmt.Errorf("embedding pool term: %w", err)
	}

	matches, err := repo.FindSimilar(ctx, core.NormalizeVector(vector), cfg.minSimilarity, cfg.limit)
	if err != nil {
		logger.Error("error querying for pool candidates", "err", err)
		return nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	pool := &Pool{
		dishes:   make([]*core.Dish, 0, len(matches)),
		scores:   make(map[core.ID]float32, len(matches)),
		loadedAt: time.Now().UTC(),
	}
	for _, m := range matches {
		pool.dishes = append(pool.dishes, m.Dish)
		pool.scores[m.Dish.Id] = m.Score
	}

	if pool.Len() == 0 {
		logger.Warn("candidate pool is empty", "term", cfg.term)
	}
	logger.Info("candidate pool loaded", "size", pool.Len(), "limit", cfg.limit, "duration", time.Since(start))
	return pool, nil
}
