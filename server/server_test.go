package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/tupper/ai/mock"
	"github.com/poiesic/tupper/assistant"
	"github.com/poiesic/tupper/catalog"
	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testDishes() []*core.Dish {
	return []*core.Dish{
		{Id: 1, Name: "A", Description: "Plato A", Kcal: core.Known(90),
			Tags: map[core.Tag]bool{core.TagVegetarian: true}},
		{Id: 2, Name: "B", Description: "Plato B", Kcal: core.Known(150), Protein: core.Known(20),
			Tags: map[core.Tag]bool{core.TagVegetarian: false}},
		{Id: 3, Name: "C", Description: "Plato C", Kcal: core.Known(70),
			Tags: map[core.Tag]bool{core.TagVegetarian: true}},
	}
}

func setupServer(t *testing.T, opts ...Option) (*Server, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider()
	pipeline, err := assistant.NewPipeline(catalog.NewPool(testDishes()), provider)
	require.NoError(t, err)

	s, err := New(pipeline, opts...)
	require.NoError(t, err)
	return s, provider
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestAsk(t *testing.T) {
	s, provider := setupServer(t)
	provider.GetMockExtractor().Returns(map[string]any{"is_vegetariano": true}, nil)
	provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, q, c string) (string, error) {
		return "Te recomiendo A y C.", nil
	}

	w := post(t, s, "/v1/ask", `{"question": "algo vegetariano"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var resp AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Te recomiendo A y C.", resp.Answer)
	assert.Equal(t, "done", resp.State)
	assert.Equal(t, 2, resp.Strict)
	assert.Zero(t, resp.Fallback)
}

func TestAsk_ExtractionFailedIsAnAnswer(t *testing.T) {
	s, provider := setupServer(t)
	provider.GetMockExtractor().Returns(nil, errors.New("not json"))

	w := post(t, s, "/v1/ask", `{"question": "???"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, assistant.ExtractionFailedMessage, resp.Answer)
	assert.Equal(t, "extraction_failed", resp.State)
}

func TestAsk_GenerationFailureHidesDetail(t *testing.T) {
	s, provider := setupServer(t)
	provider.GetMockExtractor().Returns(map[string]any{}, nil)
	provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, q, c string) (string, error) {
		return "", errors.New("upstream 500: secret detail")
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question": "hola"}`))
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.NotContains(t, w.Body.String(), "secret")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, assistant.GenerationFailedMessage, resp.Error)
	assert.Equal(t, "req-123", resp.RequestID)
}

func TestAsk_BadRequests(t *testing.T) {
	s, _ := setupServer(t, WithMaxQuestionLen(10))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing question", `{}`, http.StatusBadRequest},
		{"empty question", `{"question": ""}`, http.StatusBadRequest},
		{"too long", `{"question": "una pregunta muy larga"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, s, "/v1/ask", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestFilters(t *testing.T) {
	s, provider := setupServer(t)
	provider.GetMockExtractor().Returns(map[string]any{
		"kcal":           "< 400",
		"is_vegetariano": true,
		"picante":        true,
	}, nil)

	w := post(t, s, "/v1/filters", `{"question": "vegetariano y ligero"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"constraints": {"is_vegetariano": true, "kcal": "<400"}}`, w.Body.String())
	assert.Zero(t, provider.GetMockGenerator().CallCount())
}

func TestFilters_ExtractionFailure(t *testing.T) {
	s, provider := setupServer(t)
	provider.GetMockExtractor().Returns(nil, errors.New("timeout"))

	w := post(t, s, "/v1/filters", `{"question": "hola"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "No se pudieron interpretar")
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "dishes": 3}`, w.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	s, _ := setupServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are off without WithMetrics")

	s, _ = setupServer(t, WithMetrics(metrics.New()))
	post(t, s, "/v1/ask", `{"question": "vegetariano"}`)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tupper_http_requests_total{method="POST",path="/v1/ask",status="200"} 1`)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrPipelineRequired)

	pipeline, err := assistant.NewPipeline(catalog.NewPool(nil), mock.NewMockProvider())
	require.NoError(t, err)
	_, err = New(pipeline, WithMaxQuestionLen(0))
	assert.ErrorIs(t, err, ErrInvalidMaxQuestionLen)
}
