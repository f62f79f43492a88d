// Package importer runs the statement ingestion pipeline: fetch the staged
// file, hand it to the parsing collaborator, normalize the rows and store
// the accepted drafts in one bulk write.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/finsight/internal/domain"
	"github.com/dvloznov/finsight/internal/statement"
)

// Storage fetches staged statement files.
type Storage interface {
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}

// TransactionCreator is the slice of the transaction store the pipeline
// needs: a single bulk write of validated drafts.
type TransactionCreator interface {
	CreateMany(ctx context.Context, userID string, txns []domain.Transaction) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	UserID    string
	GCSURI    string
	FileBytes []byte
	Rows      []statement.RawRow
	Result    statement.NormalizeResult
}

// Step represents a single step in the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// FetchStep downloads the staged file bytes.
type FetchStep struct {
	Storage Storage
}

func (s *FetchStep) Execute(ctx context.Context, state *State) error {
	data, err := s.Storage.Fetch(ctx, state.GCSURI)
	if err != nil {
		return err
	}
	state.FileBytes = data
	return nil
}

// ParseStep turns the staged file into raw rows. CSV exports are parsed
// locally; anything else goes to the statement parsing collaborator.
// Zero parsed rows is a valid outcome, not an error.
type ParseStep struct {
	Parser statement.Parser
}

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	if strings.HasSuffix(strings.ToLower(state.GCSURI), ".csv") {
		rows, err := statement.ParseCSV(string(state.FileBytes))
		if err != nil {
			return err
		}
		state.Rows = rows
		return nil
	}

	rows, err := s.Parser.ParseStatement(ctx, state.FileBytes)
	if err != nil {
		return err
	}
	state.Rows = rows
	return nil
}

// NormalizeStep maps raw rows into transaction drafts, recording skipped
// rows in the state.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	state.Result = statement.Normalize(state.Rows)
	return nil
}

// StoreStep bulk-creates the accepted drafts. Nothing to store is a no-op.
type StoreStep struct {
	Store TransactionCreator
}

func (s *StoreStep) Execute(ctx context.Context, state *State) error {
	if len(state.Result.Drafts) == 0 {
		return nil
	}
	return s.Store.CreateMany(ctx, state.UserID, state.Result.Drafts)
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewImportPipeline creates the standard pipeline for ingesting a staged
// statement.
func NewImportPipeline(storage Storage, parser statement.Parser, store TransactionCreator) *Pipeline {
	return NewPipeline(
		&FetchStep{Storage: storage},
		&ParseStep{Parser: parser},
		&NormalizeStep{},
		&StoreStep{Store: store},
	)
}

// Run executes the import pipeline for one staged statement and reports how
// many drafts were stored and how many rows the normalizer skipped.
func Run(ctx context.Context, p *Pipeline, userID, gcsURI string) (imported, skipped int, err error) {
	state := &State{UserID: userID, GCSURI: gcsURI}
	if err := p.Execute(ctx, state); err != nil {
		return 0, 0, err
	}
	return len(state.Result.Drafts), len(state.Result.Skipped), nil
}
