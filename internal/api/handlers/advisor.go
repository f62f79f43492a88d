package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dvloznov/finsight/internal/advisor"
	"github.com/dvloznov/finsight/internal/api/middleware"
	"github.com/rs/zerolog"
)

// AdvisorHandler handles the financial tips and voice command endpoints.
type AdvisorHandler struct {
	tips         advisor.TipsService
	transcriber  advisor.TranscriptionService
	transactions TransactionStore
	defaultUser  string
	log          zerolog.Logger
	now          func() time.Time
}

// NewAdvisorHandler creates a new advisor handler.
func NewAdvisorHandler(tips advisor.TipsService, transcriber advisor.TranscriptionService, transactions TransactionStore, defaultUser string, log zerolog.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		tips:         tips,
		transcriber:  transcriber,
		transactions: transactions,
		defaultUser:  defaultUser,
		log:          log,
		now:          time.Now,
	}
}

// FinancialTips handles POST /api/tips
func (h *AdvisorHandler) FinancialTips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	txns, err := h.transactions.List(ctx, uid)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	tips, err := h.tips.FinancialTips(ctx, txns)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Tips generation failed")
		middleware.WriteError(w, http.StatusBadGateway, "Tips service unavailable")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"tips": tips})
}

type voiceRequest struct {
	AudioDataURI string `json:"audioDataUri"`
}

// VoiceCommand handles POST /api/voice. The recorded audio is transcribed,
// the transcription parsed as a structured command, and the resulting
// transaction stored.
func (h *AdvisorHandler) VoiceCommand(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	audio, mimeType, err := decodeDataURI(req.AudioDataURI)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	uid := userID(r, h.defaultUser)

	text, err := h.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Transcription failed")
		middleware.WriteError(w, http.StatusBadGateway, "Transcription service unavailable")
		return
	}

	t, err := advisor.ParseVoiceCommand(text, h.now())
	if err != nil {
		if errors.Is(err, advisor.ErrUnparsedCommand) || errors.Is(err, advisor.ErrUnknownCategory) {
			middleware.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":         err.Error(),
				"transcription": text,
			})
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to parse command")
		return
	}

	if err := h.transactions.Create(ctx, uid, t); err != nil {
		h.log.Error().Err(err).Str("user_id", uid).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"transcription": text,
		"transaction":   t,
	})
}

// decodeDataURI unpacks a "data:<mime>;base64,<payload>" audio capture.
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("audioDataUri must be a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("data URI must be base64 encoded")
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode audio payload: %w", err)
	}
	if len(audio) == 0 {
		return nil, "", fmt.Errorf("empty audio payload")
	}
	return audio, mimeType, nil
}
