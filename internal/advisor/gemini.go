package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/finsight/internal/domain"
	"github.com/dvloznov/finsight/internal/ledger"
	"google.golang.org/genai"
)

// Gemini implements ForecastService, TipsService and TranscriptionService
// against a Gemini model.
type Gemini struct {
	model string
}

// NewGemini creates the Gemini-backed advisor using the given model name.
func NewGemini(model string) *Gemini {
	return &Gemini{model: model}
}

// ForecastSpending asks the model to project end-of-month spending for the
// request's category and decode its strict-JSON answer.
func (g *Gemini) ForecastSpending(ctx context.Context, req ledger.ForecastRequest) (*Forecast, error) {
	txJSON, err := json.Marshal(req.Transactions)
	if err != nil {
		return nil, fmt.Errorf("ForecastSpending: marshal transactions: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are a financial analyst. Based on the spending pattern for the category %q so far this month, "+
			"forecast the total spending for the entire month.\n\n"+
			"Current day of the month: %d\n"+
			"Total days in the month: %d\n"+
			"Budgeted amount for %s: %.2f\n"+
			"Transaction history for %s this month:\n%s\n\n"+
			"Calculate the projected total spending for the full month, then the difference between the "+
			"projection and the budget (positive if over budget, negative if under). Provide a short, "+
			"one-sentence insight: encouraging if under budget, cautionary but not alarming if over.\n\n"+
			"Output STRICT JSON only, a single object:\n"+
			"{\"projectedSpending\": number, \"overUnderAmount\": number, \"insight\": string}\n"+
			"Do NOT wrap the response in code fences.\n",
		req.Category, req.DayOfMonth, req.DaysInMonth, req.Category, req.BudgetAmount, req.Category, txJSON)

	raw, err := g.generateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ForecastSpending: %w", err)
	}

	var out Forecast
	if err := json.Unmarshal([]byte(cleanObjectJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("ForecastSpending: unmarshal JSON: %w\nraw response: %s", err, raw)
	}
	return &out, nil
}

// FinancialTips asks the model for personalized tips over the full
// transaction history.
func (g *Gemini) FinancialTips(ctx context.Context, txns []domain.Transaction) ([]string, error) {
	txJSON, err := json.Marshal(txns)
	if err != nil {
		return nil, fmt.Errorf("FinancialTips: marshal transactions: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are a personal financial advisor. Analyze the following transaction history and provide "+
			"personalized financial tips to the user.\n\n"+
			"Transaction History:\n%s\n\n"+
			"Output STRICT JSON only, a single object:\n"+
			"{\"tips\": [string, ...]}\n"+
			"Do NOT wrap the response in code fences.\n",
		txJSON)

	raw, err := g.generateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("FinancialTips: %w", err)
	}

	var out struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(cleanObjectJSON(raw)), &out); err != nil {
		return nil, fmt.Errorf("FinancialTips: unmarshal JSON: %w\nraw response: %s", err, raw)
	}
	return out.Tips, nil
}

// Transcribe sends the recorded audio to the model and returns the plain
// transcription text.
func (g *Gemini) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("Transcribe: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: "Transcribe the spoken command in this recording. Return only the transcribed text, nothing else."},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     audio,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Transcribe: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Transcribe: empty response from model")
	}
	return text, nil
}

func (g *Gemini) generateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return raw, nil
}

// cleanObjectJSON strips Markdown fences and surrounding junk around a JSON
// object if the model ignored the raw-JSON instruction.
func cleanObjectJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
