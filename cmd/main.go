package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sentiment-lab/contract"
	"sentiment-lab/domain"
	"sentiment-lab/ingest"
	"sentiment-lab/internal"
	"sentiment-lab/projection"
	"sentiment-lab/repositories"
	"sentiment-lab/runtime"
	"sentiment-lab/sink"
	"syscall"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentiment-lab: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <comments.csv>\n", os.Args[0])
		flag.PrintDefaults()
	}
	show := flag.Int("show", -1, "number of predictions to print, overrides SHOW_PREDICTIONS")
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return exitConfig, fmt.Errorf("expected exactly one input file")
	}
	source := flag.Arg(0)

	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	if *show >= 0 {
		config.ShowPredictions = *show
	}
	opts, err := ingestOptions(config)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Input
	started := time.Now().UTC()
	input, err := ingest.ReadComments(source, opts, logger)
	if err != nil {
		return exitRuntime, err
	}
	logger.Info("Comments read", "source", source, "comments", len(input.Comments),
		"skipped", input.Skipped, "encoding", input.Encoding)

	// 3. Optional persistence
	var predictionSink contract.PredictionSink
	var repository *repositories.PredictionRepository
	if config.Persist {
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
		}
		defer func() {
			logger.Info("Closing Bluge...")
			_ = writer.Close()
		}()
		r := repositories.NewPredictionRepository(db, writer, logger, config.LimitPredictions)
		repository = &r
		predictionSink = sink.NewPredictionSink(repository, logger, config.BatchSize, config.BufferTimeout)
	}

	// 4. Classification
	resources := runtime.NewResources(resourcesConfig(config), logger)
	defer func() {
		if err := resources.Close(); err != nil {
			logger.Warn("Failed to release resources", "error", err)
		}
	}()

	engine := runtime.NewEngine(logger, resources, predictionSink, runtime.EngineConfig{
		NumberOfWorkers: config.NumberOfWorkers,
		Threshold:       config.Threshold,
		MonitorInterval: config.MonitorInterval,
	})
	predictions, report, err := engine.Run(ctx, input.Comments)
	if err != nil {
		return exitRuntime, err
	}

	// 5. Presentation
	projection.RenderReport(os.Stdout, report, config.Colours)
	if config.ShowPredictions > 0 {
		projection.RenderPredictions(os.Stdout, predictions[:min(config.ShowPredictions, len(predictions))])
	}

	if repository != nil {
		runRecord := domain.Run{
			ID:       engine.RunID(),
			Source:   source,
			Scorer:   config.ScorerKind,
			Skipped:  input.Skipped,
			Report:   report,
			Started:  started,
			Finished: time.Now().UTC(),
		}
		if err := repository.StoreRun(runRecord); err != nil {
			return exitRuntime, fmt.Errorf("store run: %w", err)
		}
		logger.Info("Run stored", "run", runRecord.ID, "predictions", len(predictions))
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("Run finished", "elapsed", time.Since(started))
	}
	return exitOK, nil
}
