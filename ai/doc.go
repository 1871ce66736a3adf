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

// Package ai provides abstractions for the AI services used by tupper.
//
// The package defines the interfaces the recommendation pipeline depends on:
//
//   - Embedder: Generates vector embeddings from text
//   - FilterExtractor: Turns a question into raw structured filters
//   - AnswerGenerator: Writes the final recommendation from a rendered context
//   - AIProvider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and read call counts.
//
// # Call Policy
//
// Every model call runs under a CallPolicy derived from Config: a timeout per
// attempt and a bounded number of attempts with exponential backoff.
// Transport failures are retried. Responses wrapping ErrMalformedResponse or
// ErrEmptyResponse are returned immediately, since asking again rarely fixes them.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	filters, err := provider.FilterExtractor().ExtractFilters(ctx, "platos veganos de menos de 400 kcal")
package ai
