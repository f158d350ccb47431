package store

import (
	"context"
	"time"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
)

// Store persists analysis reports and their per-utterance rows.
type Store interface {
	Close() error

	// Reports
	SaveReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (Report, error)
	ListReports(ctx context.Context, corpus string, limit int) ([]Report, error)

	// Per-utterance results of a CMI report, in corpus order
	SaveUtterances(ctx context.Context, reportID string, rows []UtteranceRow) error
	Utterances(ctx context.Context, reportID string) ([]UtteranceRow, error)
}

// Report kinds.
const (
	KindCMI        = "cmi"
	KindPerplexity = "perplexity"
)

// Report is one stored analysis run.
type Report struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Corpus     string             `json:"corpus"`
	Tagset     string             `json:"tagset,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Stats      cmi.Stats          `json:"stats"`
	Perplexity map[string]float64 `json:"perplexity,omitempty"` // keyed by model order name
}

// UtteranceRow is the stored summary of one utterance result.
type UtteranceRow struct {
	Index    int     `json:"index"`
	Cu       float64 `json:"cu"`
	Switches int     `json:"switches"`
	Delta    int     `json:"delta"`
	Matrix   string  `json:"matrix"`
	Warnings int     `json:"warnings"`
}

// RowFromResult summarises res for storage.
func RowFromResult(index int, res cmi.Result) UtteranceRow {
	return UtteranceRow{
		Index:    index,
		Cu:       res.Cu,
		Switches: res.Switches,
		Delta:    res.Delta,
		Matrix:   res.Matrix.String(),
		Warnings: len(res.Warnings),
	}
}
