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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/tupper/ai"
	"github.com/poiesic/tupper/ingestion"
	"github.com/poiesic/tupper/reembed"
	"github.com/poiesic/tupper/server"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return buildApp(&commands{open: openDatabase})
}

func buildApp(cmds *commands) *cli.App {
	return &cli.App{
		Name:  "tupper",
		Usage: "Dietary recommendations over a prepared-meal catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Tag, embed and store catalog rows from a JSON file",
				Action: cmds.seed,
				Flags: append(baseFlags(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON array of cleaned catalog rows",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of descriptions per embedding request",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding requests",
						Value: 2,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Answer one question from the catalog",
				ArgsUsage: "<question>",
				Action:    cmds.ask,
				Flags: append(baseFlags(),
					&cli.BoolFlag{
						Name:  "show-context",
						Usage: "Print the constraints and dishes sent to the model",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: cmds.serve,
				Flags: append(baseFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"TUPPER_ADDR"},
					},
					&cli.IntFlag{
						Name:  "max-question-length",
						Usage: "Largest accepted question in bytes",
						Value: server.DefaultMaxQuestionLen,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all dishes with the configured embedding model",
				Action: cmds.reembed,
				Flags: append(baseFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of dishes to process in each batch",
						Value: reembed.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N dishes",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum embedding attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "continue-on-error",
						Usage: "Skip batches that fail instead of stopping",
					},
				),
			},
		},
	}
}

// baseFlags are shared by every command that opens the catalog.
func baseFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
			EnvVars:  []string{"TUPPER_DB"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "OpenAI-compatible API base URL for both models",
			Value:   defaults.ChatHost,
			EnvVars: []string{"TUPPER_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding API base URL (defaults to --host)",
			EnvVars: []string{"TUPPER_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   defaults.EmbeddingModel,
			EnvVars: []string{"TUPPER_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model used for filter extraction and answers",
			Value:   defaults.ChatModel,
			EnvVars: []string{"TUPPER_CHAT_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model endpoints",
			EnvVars: []string{"TUPPER_API_KEY", "OPENAI_API_KEY"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout of each model call attempt",
			Value: defaults.Timeout,
		},
	}
}

// aiConfig builds the provider configuration from the shared flags.
func aiConfig(c *cli.Context) (*ai.Config, error) {
	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("host")
	}

	config := ai.NewConfig(
		ai.WithChatHost(c.String("host")),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithTimeout(c.Duration("timeout")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
