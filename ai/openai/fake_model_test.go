package openai

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model that replays canned responses.
type fakeModel struct {
	responses []string
	errs      []error
	calls     int
	lastOpts  llms.CallOptions
	lastMsgs  []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	i := f.calls
	f.calls++
	f.lastMsgs = messages
	f.lastOpts = llms.CallOptions{}
	for _, opt := range options {
		opt(&f.lastOpts)
	}

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.responses[i]}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

// fakeEmbeddingClient implements embeddings.EmbedderClient.
type fakeEmbeddingClient struct {
	vectors [][]float32
	err     error
	calls   int
}

func (f *fakeEmbeddingClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}
