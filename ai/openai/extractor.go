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

package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/tupper/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const extractionTemperature = 0.1

// FilterExtractor implements ai.FilterExtractor using OpenAI-compatible chat APIs.
type FilterExtractor struct {
	client       llms.Model
	policy       ai.CallPolicy
	systemPrompt string
	logger       *slog.Logger
}

// newFilterExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFilterExtractor(config *ai.Config) (*FilterExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newFilterExtractorFromModel(client, config.CallPolicy(), slog.Default()), nil
}

func newFilterExtractorFromModel(client llms.Model, policy ai.CallPolicy, logger *slog.Logger) *FilterExtractor {
	return &FilterExtractor{
		client:       client,
		policy:       policy,
		systemPrompt: buildFilterPrompt(),
		logger:       logger.With("component", "openai-extractor"),
	}
}

// NewFilterExtractor creates a new filter extractor using the provided configuration.
//
// Returns ai.FilterExtractor interface to enforce abstraction.
func NewFilterExtractor(config *ai.Config) (ai.FilterExtractor, error) {
	return newFilterExtractor(config)
}

// ExtractFilters asks the model for a JSON object of filters. Transport
// failures are retried under the call policy; unparseable output is not.
func (e *FilterExtractor) ExtractFilters(ctx context.Context, question string) (map[string]any, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, e.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, "Pregunta: "+question),
	}

	text, err := generateText(ctx, e.client, e.policy, content,
		llms.WithTemperature(extractionTemperature), llms.WithJSONMode())
	if err != nil {
		e.logger.Error("failed to generate filters", "err", err)
		return nil, err
	}

	filters, err := decodeObject(text)
	if err != nil {
		e.logger.Warn("error parsing extractor response", "response", text, "err", err)
		return nil, err
	}

	e.logger.Debug("extracted filters", "keys", len(filters))
	return filters, nil
}

// newChatClient creates the chat completion client shared by extraction and generation.
func newChatClient(config *ai.Config) (*openai.LLM, error) {
	return openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
}
