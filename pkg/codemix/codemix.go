package codemix

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/ngram"
	"github.com/cognicore/codemix/pkg/codemix/report"
	"github.com/cognicore/codemix/pkg/codemix/store"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
	"github.com/cognicore/codemix/pkg/codemix/textprep"
)

// Engine is the main code-mixing analysis facade
type Engine struct {
	store    store.Store
	builder  *report.Builder
	cmi      cmi.Options
	logger   *log.Logger
	keepRows bool
}

// Options configures an Engine instance
type Options struct {
	Store          store.Store // optional; reports are not persisted when nil
	CMI            cmi.Options
	Logger         *log.Logger // receives tag warnings; nil discards them
	KeepUtterances bool        // also persist per-utterance rows
}

// New creates an Engine with the given dependencies
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		store:    opts.Store,
		builder:  report.New(),
		cmi:      opts.CMI,
		logger:   logger,
		keepRows: opts.KeepUtterances,
	}
}

// Close releases the store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Store returns the configured store, or nil.
func (e *Engine) Store() store.Store { return e.store }

// Builder returns the report builder, mainly so tests can pin its clock.
func (e *Engine) Builder() *report.Builder { return e.builder }

// Analysis is the outcome of a CMI run.
type Analysis struct {
	Report store.Report
	Scores []float64 // per-utterance Cu on the 0-50 scale, in corpus order
}

// Analyze streams src through a fresh aggregator for tagset id, logs tag
// warnings and persists the report when a store is configured.
func (e *Engine) Analyze(ctx context.Context, name string, id tagset.ID, src cmi.Source) (Analysis, error) {
	agg, err := cmi.NewAggregator(id, e.cmi)
	if err != nil {
		return Analysis{}, err
	}

	var (
		scores []float64
		rows   []store.UtteranceRow
	)
	stats, err := cmi.AggregateSource(ctx, agg, src, func(i int, res cmi.Result) {
		for _, w := range res.Warnings {
			e.logger.Printf("%s: utterance %d: %v", name, i+1, w)
		}
		scores = append(scores, res.Score())
		if e.keepRows {
			rows = append(rows, store.RowFromResult(i, res))
		}
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("%s: %w", name, err)
	}

	rep := e.builder.CMI(name, stats)
	if e.store != nil {
		if err := e.store.SaveReport(ctx, rep); err != nil {
			return Analysis{}, fmt.Errorf("save report: %w", err)
		}
		if e.keepRows {
			if err := e.store.SaveUtterances(ctx, rep.ID, rows); err != nil {
				return Analysis{}, fmt.Errorf("save utterances: %w", err)
			}
		}
	}
	return Analysis{Report: rep, Scores: scores}, nil
}

// AnalyzeFile opens a catalog entry and analyzes it.
func (e *Engine) AnalyzeFile(ctx context.Context, entry corpus.Entry) (Analysis, error) {
	f, err := corpus.Open(entry.File, entry.Options)
	if err != nil {
		return Analysis{}, err
	}
	defer f.Close()
	return e.Analyze(ctx, entry.ID, entry.Tagset, f)
}

// Perplexity builds a model from train and evaluates every order on test.
// Orders that hit an unseen n-gram are logged and left out of the report.
func (e *Engine) Perplexity(ctx context.Context, name string, train, test [][]string, smoothing ngram.Smoothing) (store.Report, error) {
	m := ngram.Build(train, smoothing)
	values := make(map[string]float64, 3)
	for _, o := range ngram.Orders() {
		if err := ctx.Err(); err != nil {
			return store.Report{}, err
		}
		pp, err := m.Perplexity(o, test)
		if err != nil {
			e.logger.Printf("%s: %s: %v", name, o, err)
			continue
		}
		values[o.String()] = pp
	}
	if len(values) == 0 {
		return store.Report{}, fmt.Errorf("%s: no order could be evaluated", name)
	}

	rep := e.builder.Perplexity(name, values)
	if e.store != nil {
		if err := e.store.SaveReport(ctx, rep); err != nil {
			return store.Report{}, fmt.Errorf("save report: %w", err)
		}
	}
	return rep, nil
}

// PerplexityFiles prepares the train and test files with prep. An empty
// testPath evaluates on the training text.
func (e *Engine) PerplexityFiles(ctx context.Context, name, trainPath, testPath string, prep *textprep.Preparer, smoothing ngram.Smoothing) (store.Report, error) {
	train, err := readPrepared(trainPath, prep)
	if err != nil {
		return store.Report{}, err
	}
	test := train
	if testPath != "" && testPath != trainPath {
		if test, err = readPrepared(testPath, prep); err != nil {
			return store.Report{}, err
		}
	}
	return e.Perplexity(ctx, name, train, test, smoothing)
}

func readPrepared(path string, prep *textprep.Preparer) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := prep.Lines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}
