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

package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/tupper/core"
	"github.com/poiesic/tupper/tagging"
)

// processor is an internal interface for one enrichment stage.
// Implementations modify the dishes in place.
type processor interface {
	process(ctx context.Context, dishes []*core.Dish) error
}

// taggingProcessor fills unknown tags from the heuristic rules.
type taggingProcessor struct {
	tagger *tagging.Tagger
	logger *slog.Logger
}

var _ processor = (*taggingProcessor)(nil)

func newTaggingProcessor(tagger *tagging.Tagger, logger *slog.Logger) processor {
	if tagger == nil {
		tagger = tagging.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taggingProcessor{tagger: tagger, logger: logger.With("processor", "tagging")}
}

func (tp *taggingProcessor) process(_ context.Context, dishes []*core.Dish) error {
	inferred := 0
	for _, d := range dishes {
		inferred += tp.tagger.Apply(d)
	}
	tp.logger.Debug("inferred tags", "dishes", len(dishes), "tags", inferred)
	return nil
}
