package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/tupper/ai/mock"
	"github.com/poiesic/tupper/catalog"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioDishes() []*core.Dish {
	a := &core.Dish{Id: 1, Name: "A", Description: "Plato A", Kcal: core.Known(90),
		Tags: map[core.Tag]bool{core.TagVegetarian: true}}
	b := &core.Dish{Id: 2, Name: "B", Description: "Plato B", Kcal: core.Known(150), Protein: core.Known(20),
		Tags: map[core.Tag]bool{core.TagVegetarian: false}}
	c := &core.Dish{Id: 3, Name: "C", Description: "Plato C", Kcal: core.Known(70),
		Tags: map[core.Tag]bool{core.TagVegetarian: true}}
	return []*core.Dish{a, b, c}
}

func newTestPipeline(t *testing.T, dishes []*core.Dish, filters map[string]any, opts ...Option) (*Pipeline, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider()
	provider.GetMockExtractor().Returns(filters, nil)

	p, err := NewPipeline(catalog.NewPool(dishes), provider, opts...)
	require.NoError(t, err)
	return p, provider
}

func TestAsk_StrictOnly(t *testing.T) {
	p, provider := newTestPipeline(t, scenarioDishes(),
		map[string]any{"is_vegetariano": true, "kcal": "<100"},
		WithThresholds(2, 5))

	answer, err := p.Ask(context.Background(), "algo vegetariano y ligero")
	require.NoError(t, err)

	assert.Equal(t, Done, answer.State)
	assert.Equal(t, 2, answer.StrictCount)
	assert.False(t, answer.FallbackUsed)
	assert.Zero(t, answer.FallbackCount)
	require.Len(t, answer.Items, 2)
	assert.Equal(t, "A", answer.Items[0].Dish.Name)
	assert.Equal(t, "C", answer.Items[1].Dish.Name)

	generator := provider.GetMockGenerator()
	assert.Equal(t, 1, generator.CallCount())
	assert.Equal(t, RenderContext(answer.Items), generator.LastContext())
	assert.NotContains(t, generator.LastContext(), "Plato B")
}

func TestAsk_FallbackAppendsRanked(t *testing.T) {
	p, _ := newTestPipeline(t, scenarioDishes(), map[string]any{"alto_proteina": true})

	answer, err := p.Ask(context.Background(), "quiero mucha proteína")
	require.NoError(t, err)

	assert.Equal(t, Done, answer.State)
	assert.Zero(t, answer.StrictCount)
	assert.True(t, answer.FallbackUsed)
	assert.Equal(t, 1, answer.FallbackCount)
	require.Len(t, answer.Items, 1)
	assert.Equal(t, "B", answer.Items[0].Dish.Name)
}

func TestAsk_StrictResultsStayFirst(t *testing.T) {
	var dishes []*core.Dish
	for i := 1; i <= 6; i++ {
		tags := map[core.Tag]bool{core.TagSpoon: false}
		if i == 1 {
			tags = map[core.Tag]bool{core.TagSpoon: true, core.TagHighProtein: true}
		}
		dishes = append(dishes, &core.Dish{
			Id:          core.ID(i),
			Name:        fmt.Sprintf("D%d", i),
			Description: fmt.Sprintf("Plato %d", i),
			Protein:     core.Known(float64(i * 5)),
			Tags:        tags,
		})
	}
	p, _ := newTestPipeline(t, dishes, map[string]any{"de_cuchara": true, "alto_proteina": true})

	answer, err := p.Ask(context.Background(), "platos de cuchara para la semana")
	require.NoError(t, err)
	assert.Equal(t, 1, answer.StrictCount)
	assert.True(t, answer.FallbackUsed)
	assert.Equal(t, 5, answer.FallbackCount)

	// D2 scores 2, D3 to D6 tie at the 2.5 cap and keep pool order
	var names []string
	for _, item := range answer.Items {
		names = append(names, item.Dish.Name)
	}
	assert.Equal(t, []string{"D1", "D3", "D4", "D5", "D6", "D2"}, names)
}

func TestAsk_ExtractionFailed(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.GetMockExtractor().Returns(nil, errors.New("model returned prose"))
	p, err := NewPipeline(catalog.NewPool(scenarioDishes()), provider)
	require.NoError(t, err)

	answer, err := p.Ask(context.Background(), "???")
	require.NoError(t, err)
	assert.Equal(t, ExtractionFailed, answer.State)
	assert.Equal(t, ExtractionFailedMessage, answer.Text)
	assert.Zero(t, provider.GetMockGenerator().CallCount())
}

func TestAsk_NoMatches(t *testing.T) {
	p, provider := newTestPipeline(t, scenarioDishes(), map[string]any{"is_vegano": true})

	answer, err := p.Ask(context.Background(), "algo vegano")
	require.NoError(t, err)
	assert.Equal(t, NoMatches, answer.State)
	assert.Equal(t, NoMatchesMessage, answer.Text)
	assert.Zero(t, provider.GetMockGenerator().CallCount())
}

func TestAsk_EmptyContextGeneration(t *testing.T) {
	p, provider := newTestPipeline(t, scenarioDishes(), map[string]any{"is_vegano": true},
		WithEmptyContextGeneration(true))

	answer, err := p.Ask(context.Background(), "algo vegano")
	require.NoError(t, err)
	assert.Equal(t, Done, answer.State)
	assert.Equal(t, 1, provider.GetMockGenerator().CallCount())
	assert.Empty(t, provider.GetMockGenerator().LastContext())
}

func TestAsk_GenerationFailure(t *testing.T) {
	p, provider := newTestPipeline(t, scenarioDishes(), map[string]any{})
	failure := errors.New("timeout")
	provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, q, c string) (string, error) {
		return "", failure
	}

	_, err := p.Ask(context.Background(), "qué me recomiendas")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, failure)
}

func TestAsk_DroppedFiltersAreIgnored(t *testing.T) {
	p, _ := newTestPipeline(t, scenarioDishes(), map[string]any{
		"is_vegetariano": "true",
		"kcal":           "menos de 100",
		"picante":        true,
	})

	answer, err := p.Ask(context.Background(), "vegetariano")
	require.NoError(t, err)
	assert.Equal(t, 1, answer.Constraints.Len())
	assert.Equal(t, 2, answer.StrictCount)
}

func TestAsk_PoolIsNotMutated(t *testing.T) {
	dishes := scenarioDishes()
	p, _ := newTestPipeline(t, dishes, map[string]any{"alto_proteina": true})

	before := p.Pool().Dishes()
	_, err := p.Ask(context.Background(), "proteína")
	require.NoError(t, err)
	assert.Equal(t, before, p.Pool().Dishes())
	assert.Equal(t, core.Known(20), dishes[1].Protein)
}

func TestAsk_Concurrent(t *testing.T) {
	p, _ := newTestPipeline(t, scenarioDishes(), map[string]any{"is_vegetariano": true})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answer, err := p.Ask(context.Background(), "vegetariano")
			assert.NoError(t, err)
			assert.Equal(t, 2, answer.StrictCount)
		}()
	}
	wg.Wait()
}

type recordingMonitor struct {
	noopMonitor
	mu     sync.Mutex
	stages []string
}

func (m *recordingMonitor) record(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, s)
}

func (m *recordingMonitor) Start(string) {
	m.record("start")
}

func (m *recordingMonitor) AfterExtraction(filter.ConstraintSet, []filter.Rejection, error) {
	m.record("extraction")
}

func (m *recordingMonitor) AfterFiltering(int) {
	m.record("filtering")
}

func (m *recordingMonitor) AfterFallbackCheck(int, bool) {
	m.record("fallback_check")
}

func (m *recordingMonitor) AfterRanking([]filter.ScoredDish) {
	m.record("ranking")
}

func (m *recordingMonitor) AfterFormatting([]FormattedItem) {
	m.record("formatting")
}

func (m *recordingMonitor) Finish(a *Answer, err error) {
	m.record("finish:" + a.State.String())
}

func TestAsk_MonitorSeesStages(t *testing.T) {
	monitor := &recordingMonitor{}
	p, _ := newTestPipeline(t, scenarioDishes(), map[string]any{"alto_proteina": true}, WithMonitor(monitor))

	_, err := p.Ask(context.Background(), "proteína")
	require.NoError(t, err)
	assert.Equal(t,
		"start extraction filtering fallback_check ranking formatting finish:done",
		strings.Join(monitor.stages, " "))
}

func TestNewPipeline_Errors(t *testing.T) {
	_, err := NewPipeline(nil, mock.NewMockProvider())
	assert.ErrorIs(t, err, ErrPoolRequired)

	_, err = NewPipeline(catalog.NewPool(nil), nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewPipeline(catalog.NewPool(nil), mock.NewMockProvider(), WithThresholds(4, 2))
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestState(t *testing.T) {
	assert.Equal(t, "fallback_check", FallbackCheck.String())
	assert.True(t, NoMatches.Terminal())
	assert.False(t, Ranking.Terminal())

	text, err := Done.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "done", string(text))
}
