// Package advisor holds the language-model collaborators: spending
// forecasts, financial tips and voice transcription. The engine only frames
// requests; everything in here is an external call wrapped at its boundary,
// and a failure leaves local state untouched.
package advisor

import (
	"context"

	"github.com/dvloznov/finsight/internal/domain"
	"github.com/dvloznov/finsight/internal/ledger"
)

// Forecast is the collaborator's projection for one budgeted category.
// The engine does not validate semantic plausibility of the numbers.
type Forecast struct {
	ProjectedSpending float64 `json:"projectedSpending"`
	OverUnderAmount   float64 `json:"overUnderAmount"`
	Insight           string  `json:"insight"`
}

// ForecastService computes an end-of-month spending projection from a
// deterministically framed request.
type ForecastService interface {
	ForecastSpending(ctx context.Context, req ledger.ForecastRequest) (*Forecast, error)
}

// TipsService generates personalized financial tips from transaction history.
type TipsService interface {
	FinancialTips(ctx context.Context, txns []domain.Transaction) ([]string, error)
}

// TranscriptionService turns a recorded voice command into text.
type TranscriptionService interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
