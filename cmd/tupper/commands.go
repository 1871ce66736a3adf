package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/tupper"
	"github.com/poiesic/tupper/assistant"
	"github.com/poiesic/tupper/ingestion"
	"github.com/poiesic/tupper/metrics"
	"github.com/poiesic/tupper/reembed"
	"github.com/poiesic/tupper/server"
	"github.com/urfave/cli/v2"
)

// opener opens the catalog a command runs against.
type opener func(c *cli.Context) (*tupper.Database, error)

// commands holds the actions of every subcommand.
type commands struct {
	open opener
}

// openDatabase opens the catalog at --db with a provider built from the shared flags.
func openDatabase(c *cli.Context) (*tupper.Database, error) {
	config, err := aiConfig(c)
	if err != nil {
		return nil, err
	}
	db, err := tupper.NewDatabase(c.String("db"),
		tupper.WithAIConfig(config),
		tupper.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func readRowsFile(path string) ([]ingestion.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	rows, err := ingestion.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func (cmds *commands) seed(c *cli.Context) error {
	rows, err := readRowsFile(c.String("input"))
	if err != nil {
		return err
	}

	db, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithPoolSize(c.Int("workers")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(c.Context, rows)
	if err != nil {
		return err
	}

	for _, skipped := range report.Skipped {
		slog.Warn("skipped row", "index", skipped.Index, "name", skipped.Name, "err", skipped.Err)
	}
	fmt.Fprintf(c.App.Writer, "Stored %d dishes from %d rows (%d replaced, %d skipped)\n",
		report.Stored, report.Rows, report.Replaced, len(report.Skipped))
	return nil
}

func (cmds *commands) ask(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return errors.New("a question is required")
	}

	db, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewAssistant(c.Context, nil)
	if err != nil {
		return err
	}

	answer, err := pipeline.Ask(c.Context, question)
	if err != nil {
		return userFacing(err)
	}

	out := c.App.Writer
	if c.Bool("show-context") {
		fmt.Fprintf(out, "Constraints: %s\n", answer.Constraints)
		fmt.Fprintf(out, "Matches: %d strict, %d fallback\n\n", answer.StrictCount, answer.FallbackCount)
		for _, item := range answer.Items {
			fmt.Fprintln(out, item.Text)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, answer.Text)
	return nil
}

func (cmds *commands) serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	m := metrics.New()
	pipeline, err := db.NewAssistant(ctx, nil, assistant.WithMonitor(m.PipelineMonitor()))
	if err != nil {
		return err
	}
	m.PoolSize.Set(float64(pipeline.Pool().Len()))

	srv, err := server.New(pipeline,
		server.WithLogger(slog.Default()),
		server.WithMetrics(m),
		server.WithMaxQuestionLen(c.Int("max-question-length")),
	)
	if err != nil {
		return err
	}

	slog.Info("serving", "addr", c.String("addr"), "dishes", pipeline.Pool().Len())
	return srv.ListenAndServe(ctx, c.String("addr"))
}

func (cmds *commands) reembed(c *cli.Context) error {
	config := &reembed.Config{
		BatchSize:       c.Int("batch-size"),
		ReportInterval:  c.Int("report-interval"),
		MaxAttempts:     c.Int("max-attempts"),
		RetryDelay:      c.Duration("retry-delay"),
		ContinueOnError: c.Bool("continue-on-error"),
	}

	db, err := cmds.open(c)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(config, c.App.Writer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := reembedder.Run(ctx)
	if err != nil {
		if result != nil && errors.Is(err, context.Canceled) {
			slog.Warn("reembedding interrupted", "done", result.Done)
		}
		return err
	}
	return nil
}

// userFacing replaces pipeline failures with the fixed message shown to users.
// The detail is only logged.
func userFacing(err error) error {
	if errors.Is(err, assistant.ErrGeneration) {
		slog.Error("answer generation failed", "err", err)
		return cli.Exit(assistant.GenerationFailedMessage, 1)
	}
	return err
}
