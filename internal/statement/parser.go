package statement

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/finsight/internal/domain"
	"google.golang.org/genai"
)

// Parser is the statement parsing collaborator: it accepts a document
// payload and returns a row-oriented table. Zero rows is a valid, non-error
// outcome ("no transactions found").
type Parser interface {
	ParseStatement(ctx context.Context, pdfBytes []byte) ([]RawRow, error)
}

// GeminiParser parses PDF bank statements with a Gemini model.
type GeminiParser struct {
	model string
}

// NewGeminiParser creates a parser using the given model name.
func NewGeminiParser(model string) *GeminiParser {
	return &GeminiParser{model: model}
}

// ParseStatement sends the PDF to the model and decodes its strict-JSON row
// output. The prompt pins the exact row shape Normalize expects; anything
// the model still gets wrong is caught row-by-row during normalization.
func (p *GeminiParser) ParseStatement(ctx context.Context, pdfBytes []byte) ([]RawRow, error) {
	prompt :=
		"You are a financial statement parser for PDF bank and UPI statements.\n\n" +
			"Task:\n" +
			"- Extract ALL transactions from the attached statement.\n" +
			"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
			"- Output a JSON array of objects.\n\n" +
			"Each object must have these fields, all strings:\n" +
			"- \"date\": \"DD-MM-YYYY\" or \"DD-MM-YYYY HH:MM\"\n" +
			"- \"amount\": signed decimal, negative for money OUT, positive for money IN\n" +
			"- \"category\": best guess from {" + categoryList() + "}, or \"\" if unsure\n" +
			"- \"title\": short description of the transaction\n" +
			"- \"note\": extra detail, or \"\"\n" +
			"- \"account\": account identifier if visible, or \"\"\n\n" +
			"Return ONLY valid raw JSON.\n" +
			"Do NOT wrap the response in code fences.\n" +
			"Do NOT use ```json or any Markdown.\n" +
			"Output must begin with \"[\" and end with \"]\".\n" +
			"If the statement contains no transactions, output [].\n"

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ParseStatement: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: "application/pdf",
						Data:     pdfBytes,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ParseStatement: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ParseStatement: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var rows []RawRow
	if err := json.Unmarshal([]byte(clean), &rows); err != nil {
		return nil, fmt.Errorf("ParseStatement: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}
	return rows, nil
}

func categoryList() string {
	var b strings.Builder
	for i, c := range domain.Categories {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(c))
	}
	return b.String()
}

// cleanModelJSON strips Markdown fences and surrounding junk if the model
// ignored the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
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

	// Extra safety: keep only from the first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
