package reembed

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/tupper/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		BatchSize:      3,
		ReportInterval: 3,
		MaxAttempts:    2,
		RetryDelay:     time.Millisecond,
	}
}

func TestReembedder_Run(t *testing.T) {
	repo := setupTestDB(t)
	addTestDishes(t, repo, 10)
	ctx := context.Background()

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(repo, embedder, testConfig(), &buf, nil)
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 10, result.Done)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 4, embedder.CallCount())

	dishes, err := repo.ListDishes(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, dishes, 10)
	for _, d := range dishes {
		assert.Len(t, d.Vector, mock.Dimensions)
		assert.InDelta(t, 1.0, magnitude(d.Vector), 0.01, "vector should be normalized")
	}

	assert.Contains(t, buf.String(), "10/10")
	assert.Contains(t, buf.String(), "Reembedding complete")
}

func TestReembedder_EmptyDatabase(t *testing.T) {
	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	r, err := NewReembedder(setupTestDB(t), embedder, nil, &buf, nil)
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Contains(t, buf.String(), "No dishes found")
	assert.Zero(t, embedder.CallCount())
}

func TestReembedder_StopsOnFailure(t *testing.T) {
	repo := setupTestDB(t)
	addTestDishes(t, repo, 9)

	embedder := mock.NewMockEmbedder()
	var calls atomic.Int32
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) > 2 {
			return nil, errors.New("quota exceeded")
		}
		return make([][]float32, len(texts)), nil
	}

	r, err := NewReembedder(repo, embedder, testConfig(), nil, nil)
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 6, result.Done)
	assert.Zero(t, result.Failed)
}

func TestReembedder_ContinueOnError(t *testing.T) {
	repo := setupTestDB(t)
	addTestDishes(t, repo, 9)

	embedder := mock.NewMockEmbedder()
	var calls atomic.Int32
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		n := calls.Add(1)
		if n == 2 || n == 3 {
			return nil, errors.New("quota exceeded")
		}
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{0, 1}
		}
		return out, nil
	}

	config := testConfig()
	config.ContinueOnError = true
	var buf bytes.Buffer
	r, err := NewReembedder(repo, embedder, config, &buf, nil)
	require.NoError(t, err)

	result, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrBatchesFailed)
	assert.Equal(t, 6, result.Done)
	assert.Equal(t, 3, result.Failed)
	assert.Contains(t, buf.String(), "3 failed")
}

func TestNewReembedder_Errors(t *testing.T) {
	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReembedder(setupTestDB(t), nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
