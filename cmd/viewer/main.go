// Command viewer reads persisted runs and predictions.
//
//	viewer runs
//	viewer predictions <run-id>
//	viewer search refund --label negative --min 0.2
//	viewer inspect
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sentiment-lab/domain"
	"sentiment-lab/domain/search"
	"sentiment-lab/internal"
	"sentiment-lab/projection"
	"sentiment-lab/repositories"
	"strings"
	"syscall"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

const debugPort = 8081

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s runs|predictions <run-id>|search <query>|inspect", os.Args[0])
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("viewer: %v", err)
	}
}

func run(command string, args []string) error {
	// 1. Load config
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Open Badger in Read-Only mode
	// BypassLockGuard allows opening while a classification run holds the lock.
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if command == "inspect" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Printf("Viewer started at http://localhost:%d/inspect\n", debugPort)
		database.StartDebugServer(db, debugPort, "/inspect", PredictionMapper)
		<-ctx.Done()
		return nil
	}

	var writer *bluge.Writer
	if command == "search" {
		writer, err = bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
		if err != nil {
			return fmt.Errorf("failed to open bluge writer: %w", err)
		}
		defer func() { _ = writer.Close() }()
	}
	repository := repositories.NewPredictionRepository(db, writer, logger, config.LimitPredictions)

	switch command {
	case "runs":
		runs, err := repository.GetRuns()
		if err != nil {
			return err
		}
		projection.RenderRuns(os.Stdout, runs)
	case "predictions":
		if len(args) != 1 {
			return fmt.Errorf("predictions expects a run id")
		}
		runID, err := uuid.Parse(args[0])
		if err != nil {
			return err
		}
		var all []domain.Prediction
		var cursor *string
		for {
			page, next, err := repository.GetPredictions(runID, cursor)
			if err != nil {
				return err
			}
			if len(page) == 0 {
				break
			}
			all = append(all, page...)
			cursor = next
		}
		projection.RenderPredictions(os.Stdout, all)
	case "search":
		query := search.NewSearchQuery(strings.Join(args, " "))
		results, total, err := repository.Search(context.Background(), *query)
		if err != nil {
			return err
		}
		fmt.Printf("%d matching predictions\n", total)
		projection.RenderPredictions(os.Stdout, results)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

// PredictionMapper renders stored runs and predictions in the debug inspector.
func PredictionMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	kind, detail, scores, err := repositories.Describe(key, val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = kind
	row.Detail = detail
	row.Scores = scores
	return row
}
