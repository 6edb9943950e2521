package importer

import (
	"context"
	"fmt"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
)

// Ekstre parses Turkish retail bank account statements ("hesap ekstresi")
// exported as PDF or text.
type Ekstre struct {
	pipeline *pipeline.Pipeline
}

// NewEkstre builds the format around the standard pipeline.
func NewEkstre(opts pipeline.Options) *Ekstre {
	return &Ekstre{pipeline: pipeline.New(opts)}
}

// Name returns the format name.
func (e *Ekstre) Name() string { return "ekstre" }

// Parse runs the statement text through the pipeline.
func (e *Ekstre) Parse(ctx context.Context, text string) (pipeline.Result, error) {
	res, err := e.pipeline.Run(ctx, e.Name(), text)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("parsing ekstre: %w", err)
	}
	return res, nil
}
