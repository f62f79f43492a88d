package advisor

import (
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/finsight/internal/domain"
)

func TestParseVoiceCommand(t *testing.T) {
	now := time.Date(2024, 3, 21, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		text    string
		want    domain.Transaction
		wantErr error
	}{
		{
			name: "expense with description",
			text: "expense 12.50 for food lunch with friends",
			want: domain.Transaction{
				Date:        now,
				Description: "lunch with friends",
				Amount:      12.50,
				Type:        domain.TypeExpense,
				Category:    domain.CategoryFood,
				Currency:    domain.DefaultCurrency,
			},
		},
		{
			name: "income without description defaults to category",
			text: "Income 5000 for Salary",
			want: domain.Transaction{
				Date:        now,
				Description: "Salary",
				Amount:      5000,
				Type:        domain.TypeIncome,
				Category:    domain.CategorySalary,
				Currency:    domain.DefaultCurrency,
			},
		},
		{
			name: "case-insensitive category",
			text: "expense 30 for TRANSPORT metro card",
			want: domain.Transaction{
				Date:        now,
				Description: "metro card",
				Amount:      30,
				Type:        domain.TypeExpense,
				Category:    domain.CategoryTransport,
				Currency:    domain.DefaultCurrency,
			},
		},
		{
			name:    "unrecognized sentence",
			text:    "please add fifty rupees somewhere",
			wantErr: ErrUnparsedCommand,
		},
		{
			name:    "unknown category",
			text:    "expense 10 for groceries corner shop",
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "category not eligible for type",
			text:    "income 100 for food refund",
			wantErr: ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVoiceCommand(tt.text, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseVoiceCommand() = %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("parsed draft fails validation: %v", err)
			}
		})
	}
}

func TestCleanObjectJSON(t *testing.T) {
	want := `{"projectedSpending":180,"overUnderAmount":-20,"insight":"ok"}`
	tests := []struct {
		name string
		in   string
	}{
		{"raw", want},
		{"fenced", "```json\n" + want + "\n```"},
		{"chatter", "Sure, here is the forecast:\n" + want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanObjectJSON(tt.in); got != want {
				t.Errorf("cleanObjectJSON(%q) = %q, want %q", tt.in, got, want)
			}
		})
	}
}
