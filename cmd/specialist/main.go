// Command specialist serves the classical scoring pipeline over gRPC so the
// classifier can run it out of process.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sentiment-lab/embedding"
	"sentiment-lab/scoring"
	"sentiment-lab/vectorizer"
	"syscall"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"google.golang.org/grpc"
)

func main() {
	// Flags are passed by StartSpecialist.
	port := flag.Int("port", 50061, "gRPC port")
	model := flag.String("model", "", "Scoring model (JSON)")
	embeddings := flag.String("embeddings", os.Getenv("EMBEDDINGS_PATH"), "Badger embedding store")
	level := flag.String("level", "INFO", "Log Level")
	flag.Parse()

	logger := logs.GetLoggerFromString(lo.FromPtr(level))
	if err := serve(logger, *port, *model, *embeddings); err != nil {
		log.Fatalf("specialist: %v", err)
	}
}

func serve(logger *slog.Logger, port int, modelPath, embeddingsPath string) error {
	if modelPath == "" {
		modelPath = os.Getenv("MODEL_PATH")
	}
	pipeline, err := scoring.LoadPipeline(modelPath)
	if err != nil {
		return err
	}
	store, err := embedding.OpenStore(embeddingsPath, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if store.Dimension() != pipeline.Dimension() {
		return fmt.Errorf("embeddings have %d dimensions, model expects %d", store.Dimension(), pipeline.Dimension())
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	scoring.RegisterScorerServer(s, scoring.NewVectorizingScorer(vectorizer.NewVectorizer(store), pipeline), logger)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		s.GracefulStop()
	}()

	logger.Info("Specialist starting", "port", port, "dimension", pipeline.Dimension())
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
