package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/catalog"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/filter"
)

// State is a stage of a pipeline run.
type State int

const (
	Extracting State = iota
	Filtering
	FallbackCheck
	Ranking
	Formatting
	Generating
	Done
	ExtractionFailed
	NoMatches
)

var stateNames = map[State]string{
	Extracting:       "extracting",
	Filtering:        "filtering",
	FallbackCheck:    "fallback_check",
	Ranking:          "ranking",
	Formatting:       "formatting",
	Generating:       "generating",
	Done:             "done",
	ExtractionFailed: "extraction_failed",
	NoMatches:        "no_matches",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further stage follows s.
func (s State) Terminal() bool {
	return s == Done || s == ExtractionFailed || s == NoMatches
}

// Answer is the outcome of one question.
type Answer struct {
	Text          string
	State         State
	Constraints   filter.ConstraintSet
	StrictCount   int
	FallbackCount int
	FallbackUsed  bool
	Items         []FormattedItem
	Duration      time.Duration
}

// Pipeline answers dietary questions against a fixed candidate pool.
// A Pipeline holds no per-question state and may serve concurrent calls.
type Pipeline struct {
	pool            *catalog.Pool
	extractor       ai.FilterExtractor
	generator       ai.AnswerGenerator
	rule            FallbackRule
	generateOnEmpty bool
	monitor         Monitor
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

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

// WithMonitor installs stage hooks.
func WithMonitor(m Monitor) Option {
	return func(p *Pipeline) error {
		if m == nil {
			m = &noopMonitor{}
		}
		p.monitor = m
		return nil
	}
}

// WithVarietyKeywords replaces the keywords that raise the fallback threshold.
// Keywords are matched against the lowercased question.
func WithVarietyKeywords(keywords ...string) Option {
	return func(p *Pipeline) error {
		p.rule.Keywords = slices.Clone(keywords)
		return nil
	}
}

// WithThresholds sets the strict counts below which fallback triggers.
func WithThresholds(base, extended int) Option {
	return func(p *Pipeline) error {
		rule := p.rule
		rule.Base, rule.Extended = base, extended
		if err := rule.Validate(); err != nil {
			return err
		}
		p.rule = rule
		return nil
	}
}

// WithEmptyContextGeneration makes Ask call the generator even when no dish
// survived filtering and fallback. By default such questions end in NoMatches.
func WithEmptyContextGeneration(enabled bool) Option {
	return func(p *Pipeline) error {
		p.generateOnEmpty = enabled
		return nil
	}
}

// NewPipeline creates a pipeline over pool using the provider's extractor and generator.
func NewPipeline(pool *catalog.Pool, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		pool:      pool,
		extractor: provider.FilterExtractor(),
		generator: provider.AnswerGenerator(),
		rule:      DefaultFallbackRule(),
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "assistant")

	return p, nil
}

// Pool returns the candidate pool the pipeline answers from.
func (p *Pipeline) Pool() *catalog.Pool {
	return p.pool
}

// Constraints extracts and parses the question's filters without answering.
func (p *Pipeline) Constraints(ctx context.Context, question string) (filter.ConstraintSet, error) {
	set, _, err := p.extract(ctx, question)
	return set, err
}

// Ask runs one question through extraction, strict filtering, the fallback
// check, optional ranking, formatting and generation.
//
// An extraction failure is not an error: the answer carries the fixed
// ExtractionFailedMessage in the ExtractionFailed state. A generation
// failure is returned wrapped in ErrGeneration.
func (p *Pipeline) Ask(ctx context.Context, question string) (answer *Answer, err error) {
	start := time.Now()
	p.monitor.Start(question)
	defer func() {
		if answer != nil {
			answer.Duration = time.Since(start)
		}
		p.monitor.Finish(answer, err)
	}()

	// Extracting
	set, rejected, err := p.extract(ctx, question)
	p.monitor.AfterExtraction(set, rejected, err)
	if err != nil {
		p.logger.Warn("could not interpret question filters", "err", err)
		return &Answer{Text: ExtractionFailedMessage, State: ExtractionFailed}, nil
	}

	// Filtering
	pool := p.pool.Dishes()
	strict := filter.Apply(pool, set)
	p.monitor.AfterFiltering(len(strict))
	answer = &Answer{
		State:       FallbackCheck,
		Constraints: set,
		StrictCount: len(strict),
	}

	// FallbackCheck
	needed := p.rule.Needed(question)
	answer.FallbackUsed = len(strict) < needed
	p.monitor.AfterFallbackCheck(needed, answer.FallbackUsed)

	dishes := strict
	if answer.FallbackUsed {
		// Ranking
		answer.State = Ranking
		ranked := filter.RankScored(filter.Excluded(pool, strict), set)
		p.monitor.AfterRanking(ranked)
		answer.FallbackCount = len(ranked)
		dishes = slices.Grow(slices.Clone(strict), len(ranked))
		for _, r := range ranked {
			dishes = append(dishes, r.Dish)
		}
	}

	// Formatting
	answer.State = Formatting
	answer.Items = FormatDishes(dishes)
	p.monitor.AfterFormatting(answer.Items)

	p.logger.Debug("context assembled",
		"constraints", set.String(),
		"pool", len(pool),
		"strict", answer.StrictCount,
		"needed", needed,
		"fallback", answer.FallbackCount,
		"dishes", itemIDs(answer.Items))

	if len(answer.Items) == 0 && !p.generateOnEmpty {
		p.logger.Warn("no dishes matched question", "constraints", set.String())
		answer.State = NoMatches
		answer.Text = NoMatchesMessage
		return answer, nil
	}

	// Generating
	answer.State = Generating
	text, err := p.generator.GenerateAnswer(ctx, question, RenderContext(answer.Items))
	if err != nil {
		p.logger.Error("error generating answer", "err", err)
		return answer, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	answer.Text = text
	answer.State = Done
	return answer, nil
}

func (p *Pipeline) extract(ctx context.Context, question string) (filter.ConstraintSet, []filter.Rejection, error) {
	raw, err := p.extractor.ExtractFilters(ctx, question)
	if err != nil {
		return filter.ConstraintSet{}, nil, fmt.Errorf("%w: %w", ErrFilterExtraction, err)
	}

	set, rejected := filter.ParseConstraints(raw)
	for _, r := range rejected {
		p.logger.Debug("dropped filter entry", "key", r.Key, "value", r.Value, "reason", r.Err)
	}
	return set, rejected, nil
}

// itemIDs returns the dish IDs of items.
func itemIDs(items []FormattedItem) []core.ID {
	ids := make([]core.ID, len(items))
	for i, item := range items {
		ids[i] = item.Dish.Id
	}
	return ids
}
