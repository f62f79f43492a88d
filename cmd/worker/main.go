package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finsight/internal/config"
	"github.com/dvloznov/finsight/internal/gcs"
	"github.com/dvloznov/finsight/internal/importer"
	"github.com/dvloznov/finsight/internal/jobs"
	"github.com/dvloznov/finsight/internal/jobs/inmemory"
	"github.com/dvloznov/finsight/internal/logger"
	"github.com/dvloznov/finsight/internal/statement"
	fsstore "github.com/dvloznov/finsight/internal/store/firestore"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.LogLevel)

	log.Info().Msg("Starting import worker service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := fsstore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Firestore client")
	}
	defer client.Close()

	txnStore := fsstore.NewTransactionStore(client, log)
	storage := gcs.NewClient()
	parser := statement.NewGeminiParser(cfg.GeminiModel)

	// In production the queue would be replaced with Cloud Tasks or Pub/Sub.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.Workers, jobStore)

	pipeline := importer.NewImportPipeline(storage, parser, txnStore)

	handler := func(ctx context.Context, job jobs.Job) error {
		importJob, ok := job.(*jobs.ImportStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", importJob.JobID).
			Str("user_id", importJob.UserID).
			Str("gcs_uri", importJob.GCSURI).
			Msg("Processing import job")

		imported, skipped, err := importer.Run(ctx, pipeline, importJob.UserID, importJob.GCSURI)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", importJob.JobID).
				Msg("Import pipeline failed")
			return err
		}

		importJob.Imported = imported
		importJob.SkippedRows = skipped

		log.Info().
			Str("job_id", importJob.JobID).
			Int("imported", imported).
			Int("skipped", skipped).
			Msg("Import completed")

		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Int("workers", cfg.Workers).Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
