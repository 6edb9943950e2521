// Package pipeline turns one statement's text into a fingerprinted,
// reconciled transaction batch and hands it to storage.
package pipeline

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/enrich"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/fingerprint"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/logger"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/normalize"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/parse"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/reconcile"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/stitch"
)

// Step is a single stage of the pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds what the steps hand to each other.
type State struct {
	Source       string
	Text         string
	Lines        []string
	Records      []model.StitchedRecord
	Transactions []model.Transaction
	Rejected     []model.StitchedRecord
	Invalid      []reconcile.ValidationError
	Anomalies    []model.Anomaly
	Summary      model.Summary
}

// Result is the per-statement output.
type Result struct {
	Source       string
	Transactions []model.Transaction // sorted by timestamp
	Anomalies    []model.Anomaly     // indices refer to Transactions
	Invalid      []reconcile.ValidationError
	Rejected     []model.StitchedRecord
	Summary      model.Summary
}

// Options configures the default steps.
type Options struct {
	Normalize normalize.Options
	Parse     parse.Options
	// Tolerance nil means reconcile.DefaultTolerance. Zero demands exact balances.
	Tolerance *decimal.Decimal
}

// Pipeline runs its steps in order. It holds no per-statement state and may
// be shared by goroutines.
type Pipeline struct {
	steps []Step
}

// New builds the standard pipeline.
func New(opts Options) *Pipeline {
	tol := reconcile.DefaultTolerance
	if opts.Tolerance != nil {
		tol = *opts.Tolerance
	}
	return NewWithSteps(
		&NormalizeStep{Normalizer: normalize.New(opts.Normalize)},
		&StitchStep{},
		&ParseStep{Parser: parse.New(opts.Parse)},
		&EnrichStep{},
		&FingerprintStep{},
		&ValidateStep{},
		&ReconcileStep{Tolerance: tol},
	)
}

// NewWithSteps builds a pipeline from explicit steps.
func NewWithSteps(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs every step against state, stopping at the first error.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, s := range p.steps {
		if err := s.Execute(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// Run processes one statement's text.
func (p *Pipeline) Run(ctx context.Context, source, text string) (Result, error) {
	state := &State{Source: source, Text: text}
	if err := p.Execute(ctx, state); err != nil {
		return Result{}, err
	}
	return Result{
		Source:       source,
		Transactions: state.Transactions,
		Anomalies:    state.Anomalies,
		Invalid:      state.Invalid,
		Rejected:     state.Rejected,
		Summary:      state.Summary,
	}, nil
}

// SplitLines splits a text blob on any newline convention.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// NormalizeStep splits the text and cleans each line.
type NormalizeStep struct {
	Normalizer *normalize.Normalizer
}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	raw := SplitLines(state.Text)
	state.Lines = s.Normalizer.Lines(raw)
	log := logger.FromContext(ctx)
	log.Debug().Str("source", state.Source).Int("raw", len(raw)).Int("kept", len(state.Lines)).Msg("lines normalized")
	return nil
}

// StitchStep groups lines into records.
type StitchStep struct{}

func (s *StitchStep) Execute(ctx context.Context, state *State) error {
	state.Records = stitch.Stitch(state.Lines)
	return nil
}

// ParseStep extracts transactions; unparseable records are set aside.
type ParseStep struct {
	Parser *parse.Parser
}

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	state.Transactions = make([]model.Transaction, 0, len(state.Records))
	for _, rec := range state.Records {
		tx, ok := s.Parser.Parse(rec)
		if !ok {
			log.Debug().Str("source", state.Source).Int("first_line", rec.FirstLine).Int("last_line", rec.LastLine).Msg("record rejected")
			state.Rejected = append(state.Rejected, rec)
			continue
		}
		state.Transactions = append(state.Transactions, tx)
	}
	return nil
}

// EnrichStep sets category, tags and counterparty.
type EnrichStep struct{}

func (s *EnrichStep) Execute(ctx context.Context, state *State) error {
	for i := range state.Transactions {
		state.Transactions[i] = enrich.Enrich(state.Transactions[i])
	}
	return nil
}

// FingerprintStep hashes every transaction.
type FingerprintStep struct{}

func (s *FingerprintStep) Execute(ctx context.Context, state *State) error {
	fingerprint.Apply(state.Transactions)
	return nil
}

// ValidateStep records invariant violations.
type ValidateStep struct{}

func (s *ValidateStep) Execute(ctx context.Context, state *State) error {
	state.Invalid = reconcile.Validate(state.Transactions)
	return nil
}

// ReconcileStep orders the batch, checks running balances and totals it.
type ReconcileStep struct {
	Tolerance decimal.Decimal
}

func (s *ReconcileStep) Execute(ctx context.Context, state *State) error {
	state.Transactions = reconcile.Sorted(state.Transactions)
	state.Anomalies = reconcile.Reconcile(state.Transactions, s.Tolerance)
	state.Summary = reconcile.Summarize(state.Transactions, len(state.Records))

	log := logger.FromContext(ctx)
	log.Info().
		Str("source", state.Source).
		Int("records", state.Summary.RecordCount).
		Int("parsed", state.Summary.TransactionCount).
		Int("rejected", state.Summary.RejectedCount).
		Int("anomalies", len(state.Anomalies)).
		Msg("statement processed")
	return nil
}
