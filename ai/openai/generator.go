package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/tupper/ai"
	"github.com/tmc/langchaingo/llms"
)

// AnswerGenerator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type AnswerGenerator struct {
	client llms.Model
	policy ai.CallPolicy
	logger *slog.Logger
}

func newAnswerGenerator(config *ai.Config) (*AnswerGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return newAnswerGeneratorFromModel(client, config.CallPolicy(), slog.Default()), nil
}

func newAnswerGeneratorFromModel(client llms.Model, policy ai.CallPolicy, logger *slog.Logger) *AnswerGenerator {
	return &AnswerGenerator{
		client: client,
		policy: policy,
		logger: logger.With("component", "openai-generator"),
	}
}

// NewAnswerGenerator creates a new answer generator using the provided configuration.
func NewAnswerGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newAnswerGenerator(config)
}

// GenerateAnswer writes the recommendation using deterministic sampling.
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, answerSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildAnswerPrompt(question, contextText)),
	}

	text, err := generateText(ctx, g.client, g.policy, content, llms.WithTemperature(0))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	g.logger.Debug("generated answer", "length", len(text))
	return strings.TrimSpace(text), nil
}

// generateText runs one chat completion under the policy and returns the
// first choice's content.
func generateText(ctx context.Context, client llms.Model, policy ai.CallPolicy, content []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	var text string
	err := policy.Do(ctx, func(ctx context.Context) error {
		response, err := client.GenerateContent(ctx, content, opts...)
		if err != nil {
			return err
		}
		if len(response.Choices) < 1 || strings.TrimSpace(response.Choices[0].Content) == "" {
			return fmt.Errorf("%w: no choices returned from model", ai.ErrEmptyResponse)
		}
		text = response.Choices[0].Content
		return nil
	})
	return text, err
}
