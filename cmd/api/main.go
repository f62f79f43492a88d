package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/finsight/internal/advisor"
	"github.com/dvloznov/finsight/internal/api/handlers"
	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/dvloznov/finsight/internal/config"
	"github.com/dvloznov/finsight/internal/gcs"
	"github.com/dvloznov/finsight/internal/importer"
	"github.com/dvloznov/finsight/internal/jobs"
	"github.com/dvloznov/finsight/internal/jobs/inmemory"
	"github.com/dvloznov/finsight/internal/logger"
	"github.com/dvloznov/finsight/internal/statement"
	fsstore "github.com/dvloznov/finsight/internal/store/firestore"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	// Flags override the environment for local runs.
	var (
		port   = flag.String("port", cfg.Port, "HTTP server port")
		bucket = flag.String("bucket", cfg.Bucket, "GCS bucket for statement uploads (or set GCS_BUCKET env)")
	)
	flag.Parse()
	cfg.Port = *port
	cfg.Bucket = *bucket

	log := logger.NewWithLevel(cfg.LogLevel)

	if cfg.Bucket == "" {
		log.Warn().Msg("No GCS bucket configured - statement uploads will be disabled")
	}

	ctx := context.Background()

	client, err := fsstore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Firestore client")
	}
	defer client.Close()

	txnStore := fsstore.NewTransactionStore(client, log)
	budgetStore := fsstore.NewBudgetStore(client, log)

	storage := gcs.NewClient()
	parser := statement.NewGeminiParser(cfg.GeminiModel)
	gemini := advisor.NewGemini(cfg.GeminiModel)

	// Job infrastructure: the import worker runs in-process.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.Workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	pipeline := importer.NewImportPipeline(storage, parser, txnStore)
	jobHandler := importJobHandler(pipeline, log)

	go func() {
		log.Info().Int("workers", cfg.Workers).Msg("Starting import workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Import workers stopped with error")
		}
	}()

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(txnStore, cfg.DefaultUserID, log)
	budgetsHandler := handlers.NewBudgetsHandler(budgetStore, txnStore, gemini, cfg.DefaultUserID, log)
	dashboardHandler := handlers.NewDashboardHandler(txnStore, cfg.DefaultUserID, log)
	advisorHandler := handlers.NewAdvisorHandler(gemini, gemini, txnStore, cfg.DefaultUserID, log)
	statementsHandler := handlers.NewStatementsHandler(storage, jobQueue, cfg.Bucket, cfg.DefaultUserID, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, cfg.DefaultUserID, log)
	streamHandler := handlers.NewStreamHandler(txnStore, budgetStore, cfg.DefaultUserID, log)

	// Create router
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.ListTransactions(w, r)
		case http.MethodPost:
			transactionsHandler.CreateTransaction(w, r)
		case http.MethodDelete:
			transactionsHandler.DeleteAllTransactions(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		if r.Method == http.MethodDelete {
			transactionsHandler.DeleteTransaction(w, r, id)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Budgets endpoints
	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			budgetsHandler.ListBudgets(w, r)
		case http.MethodPost:
			budgetsHandler.CreateBudget(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/budgets/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
		id, tail, _ := strings.Cut(rest, "/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Budget ID is required")
			return
		}

		switch {
		case tail == "" && r.Method == http.MethodDelete:
			budgetsHandler.DeleteBudget(w, r, id)
		case tail == "progress" && r.Method == http.MethodGet:
			budgetsHandler.BudgetProgress(w, r, id)
		case tail == "forecast" && r.Method == http.MethodPost:
			budgetsHandler.ForecastBudget(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Dashboard endpoints
	mux.HandleFunc("/api/dashboard/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Categories(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard/trend", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Trend(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.Summary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Advisor endpoints
	mux.HandleFunc("/api/tips", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			advisorHandler.FinancialTips(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/voice", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			advisorHandler.VoiceCommand(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Statement import endpoints
	mux.HandleFunc("/api/statements", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.UploadStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Live collection stream
	mux.HandleFunc("/api/stream", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			streamHandler.Stream(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight imports
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}

// importJobHandler runs the statement import pipeline for each queued job
// and records the import counts on the job record.
func importJobHandler(pipeline *importer.Pipeline, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
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
}
