package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/finsight/internal/domain"
	"github.com/dvloznov/finsight/internal/statement"
)

type mockStorage struct {
	data []byte
	err  error
}

func (m *mockStorage) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	return m.data, m.err
}

type mockParser struct {
	rows []statement.RawRow
	err  error
	got  []byte
}

func (m *mockParser) ParseStatement(ctx context.Context, pdfBytes []byte) ([]statement.RawRow, error) {
	m.got = pdfBytes
	return m.rows, m.err
}

type mockCreator struct {
	userID string
	stored []domain.Transaction
	err    error
	calls  int
}

func (m *mockCreator) CreateMany(ctx context.Context, userID string, txns []domain.Transaction) error {
	m.calls++
	m.userID = userID
	m.stored = txns
	return m.err
}

func TestImportPipeline(t *testing.T) {
	storage := &mockStorage{data: []byte("%PDF")}
	parser := &mockParser{rows: []statement.RawRow{
		{Date: "05-03-2024", Amount: "-250.00", Category: "Food", Title: "Groceries"},
		{Date: "05-03-2024", Amount: "garbage", Category: "Food", Title: "Broken"},
		{Date: "06-03-2024", Amount: "-50", Category: "Food", Title: "Lunch"},
	}}
	creator := &mockCreator{}

	p := NewImportPipeline(storage, parser, creator)
	imported, skipped, err := Run(context.Background(), p, "u1", "gs://b/statement.pdf")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if imported != 2 || skipped != 1 {
		t.Errorf("Run = (%d imported, %d skipped), want (2, 1)", imported, skipped)
	}
	if string(parser.got) != "%PDF" {
		t.Error("parser did not receive the fetched bytes")
	}
	if creator.userID != "u1" || len(creator.stored) != 2 {
		t.Errorf("store got userID=%q, %d drafts", creator.userID, len(creator.stored))
	}
}

func TestImportPipelineCSV(t *testing.T) {
	csv := "Date,Amount,Category,Title,Note,Account\n" +
		"05-03-2024,-250.00,Food,Groceries,,Acc1\n" +
		"01-03-2024,5000,Salary,March pay,,Acc1\n"
	storage := &mockStorage{data: []byte(csv)}
	parser := &mockParser{}
	creator := &mockCreator{}

	p := NewImportPipeline(storage, parser, creator)
	imported, skipped, err := Run(context.Background(), p, "u1", "gs://b/export.CSV")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if imported != 2 || skipped != 0 {
		t.Errorf("Run = (%d imported, %d skipped), want (2, 0)", imported, skipped)
	}
	if parser.got != nil {
		t.Error("CSV import must not call the statement parser")
	}
	if len(creator.stored) != 2 || creator.stored[0].Type != domain.TypeExpense || creator.stored[1].Type != domain.TypeIncome {
		t.Errorf("stored drafts = %+v", creator.stored)
	}
}

func TestImportPipelineZeroRows(t *testing.T) {
	// "No transactions found" is a valid, non-error outcome; the store must
	// not be called at all.
	creator := &mockCreator{}
	p := NewImportPipeline(&mockStorage{data: []byte("x")}, &mockParser{rows: nil}, creator)

	imported, skipped, err := Run(context.Background(), p, "u1", "gs://b/o")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if imported != 0 || skipped != 0 {
		t.Errorf("Run = (%d, %d), want (0, 0)", imported, skipped)
	}
	if creator.calls != 0 {
		t.Error("CreateMany must not be called for an empty batch")
	}
}

func TestImportPipelinePropagatesFailures(t *testing.T) {
	fetchErr := errors.New("bucket gone")
	parseErr := errors.New("model unavailable")
	storeErr := errors.New("write failed")

	rows := []statement.RawRow{{Date: "05-03-2024", Amount: "-1", Category: "Food", Title: "x"}}

	tests := []struct {
		name    string
		p       *Pipeline
		wantErr error
	}{
		{"fetch failure", NewImportPipeline(&mockStorage{err: fetchErr}, &mockParser{}, &mockCreator{}), fetchErr},
		{"parse failure", NewImportPipeline(&mockStorage{}, &mockParser{err: parseErr}, &mockCreator{}), parseErr},
		{"store failure", NewImportPipeline(&mockStorage{}, &mockParser{rows: rows}, &mockCreator{err: storeErr}), storeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Run(context.Background(), tt.p, "u1", "gs://b/o"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Run error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
