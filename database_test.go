package tupper

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/ai/mock"
	"github.com/poiesic/tupper/assistant"
	"github.com/poiesic/tupper/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.DishRepository())
		assert.NotNil(t, db.Provider())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("invalid AI config", func(t *testing.T) {
		config := ai.DefaultConfig()
		config.MaxAttempts = 0
		db, err := NewDatabase(t.TempDir(), WithAIConfig(config))
		assert.ErrorIs(t, err, ai.ErrInvalidConfig)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestDatabase_EndToEnd(t *testing.T) {
	provider := mock.NewMockProvider()
	db, err := NewDatabase("", WithInMemory(), WithProvider(provider))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	pipeline, err := db.NewIngestionPipeline(ingestion.WithBatchSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	rows, err := ingestion.ReadRows(bytes.NewBufferString(`[
		{"nombre_plato": "Crema de verduras", "ingredientes": "calabacín, puerro", "kcal": 60, "proteinas": 2},
		{"nombre_plato": "Pollo asado", "ingredientes": "pollo, limón", "kcal": 210, "proteinas": 28},
		{"nombre_plato": "Lentejas", "ingredientes": "lentejas, zanahoria", "kcal": 300, "proteinas": 14}
	]`))
	require.NoError(t, err)

	report, err := pipeline.Ingest(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, 3, report.Stored)

	provider.GetMockExtractor().Returns(map[string]any{"is_vegetariano": true, "kcal": "<100"}, nil)
	assist, err := db.NewAssistant(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, assist.Pool().Len())

	answer, err := assist.Ask(ctx, "algo vegetariano y ligero")
	require.NoError(t, err)
	assert.Equal(t, assistant.Done, answer.State)
	assert.Equal(t, 1, answer.StrictCount)
	assert.Equal(t, "Crema de verduras", answer.Items[0].Dish.Name)

	r, err := db.NewReembedder(nil, nil)
	require.NoError(t, err)
	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Done)
}
