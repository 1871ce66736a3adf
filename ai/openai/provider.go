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
	"log/slog"

	"github.com/poiesic/tupper/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	extractor *FilterExtractor
	generator *AnswerGenerator
	logger    *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger shared by the provider and its services.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(o *providerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	options := &providerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config, options.logger)
	if err != nil {
		return nil, err
	}

	// Extraction and generation share one chat client
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	policy := config.CallPolicy()

	return &Provider{
		config:    config,
		embedder:  embedder,
		extractor: newFilterExtractorFromModel(client, policy, options.logger),
		generator: newAnswerGeneratorFromModel(client, policy, options.logger),
		logger:    options.logger.With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// FilterExtractor returns the filter extraction service.
func (p *Provider) FilterExtractor() ai.FilterExtractor {
	return p.extractor
}

// AnswerGenerator returns the answer generation service.
func (p *Provider) AnswerGenerator() ai.AnswerGenerator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
