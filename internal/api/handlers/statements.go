package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/dvloznov/finsight/internal/jobs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxStatementBytes caps uploads at 20 MB, matching the inline size limit of
// the parsing model.
const maxStatementBytes = 20 << 20

// StatementsHandler handles statement upload and import endpoints.
type StatementsHandler struct {
	uploader    Uploader
	publisher   jobs.Publisher
	bucket      string
	defaultUser string
	log         zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(uploader Uploader, publisher jobs.Publisher, bucket, defaultUser string, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		uploader:    uploader,
		publisher:   publisher,
		bucket:      bucket,
		defaultUser: defaultUser,
		log:         log,
	}
}

// UploadStatement handles POST /api/statements. The raw PDF is staged in
// object storage and an import job enqueued; the response carries the job ID
// so the client can poll /api/jobs/:id.
func (h *StatementsHandler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "statement.pdf"
	}
	filename = filepath.Base(filename)

	objectName := fmt.Sprintf("statements/%s/%s/%s", uid, time.Now().Format("2006/01/02"), uuid.New().String()+"-"+filename)

	body := http.MaxBytesReader(w, r.Body, maxStatementBytes)
	gcsURI, err := h.uploader.Upload(ctx, h.bucket, objectName, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Statement exceeds the 20 MB upload limit")
			return
		}
		h.log.Error().Err(err).Str("user_id", uid).Str("object", objectName).Msg("Failed to stage statement")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload statement")
		return
	}

	job := &jobs.ImportStatementJob{
		UserID:   uid,
		GCSURI:   gcsURI,
		Filename: filename,
	}
	if err := h.publisher.PublishImportStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Str("gcs_uri", gcsURI).Msg("Failed to enqueue import job")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Import queue unavailable")
		return
	}

	h.log.Info().
		Str("user_id", uid).
		Str("job_id", job.JobID).
		Str("gcs_uri", gcsURI).
		Msg("Statement staged for import")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": gcsURI,
		"status":  string(jobs.JobStatusPending),
	})
}

// JobsHandler handles job status endpoints.
type JobsHandler struct {
	store       jobs.JobStore
	defaultUser string
	log         zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, defaultUser string, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, defaultUser: defaultUser, log: log}
}

// ListJobs handles GET /api/jobs?status=&limit=&offset=
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		UserID: userID(r, h.defaultUser),
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
		Limit:  50,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// GetJob handles GET /api/jobs/:id. A job belonging to another user reads
// as not found.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil || job.UserID != userID(r, h.defaultUser) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}
