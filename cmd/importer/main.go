// Command importer loads a word2vec or GloVe text file into the Badger
// embedding store read by the forest scorer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sentiment-lab/embedding"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
)

type Config struct {
	VectorsPath    string `envconfig:"VECTORS_PATH" required:"true"`
	EmbeddingsPath string `envconfig:"EMBEDDINGS_PATH" required:"true"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"INFO"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(config.VectorsPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	db, err := badger.Open(badger.DefaultOptions(config.EmbeddingsPath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() { _ = db.Close() }()

	started := time.Now()
	stats, err := embedding.Import(ctx, db, f, logger)
	if err != nil {
		return err
	}
	logger.Info("Embeddings imported",
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"dimension", stats.Dimension,
		"elapsed", time.Since(started))
	return nil
}
