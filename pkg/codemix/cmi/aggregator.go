package cmi

import (
	"context"
	"fmt"
	"io"

	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/internalerr"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
)

// Interval upper bounds on the 0-50 scale (Cu * 50). The last bucket is open.
var bucketBounds = [NumBuckets]float64{10, 20, 30, 40, 0}

// NumBuckets is the number of CMI intervals reported.
const NumBuckets = 5

// mixedWeight weights the share of switching utterances, after the
// Flesch Reading Ease ratio.
const mixedWeight = 5.0 / 6.0

// Bucket tallies the mixed utterances whose scaled Cu falls in (Low, High].
// High is 0 for the last, open-ended bucket.
type Bucket struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Count    int     `json:"count"`
	Switches int     `json:"switches"`
}

// TagTotal is the corpus-wide count of one tag.
type TagTotal struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats is the corpus-level aggregate.
type Stats struct {
	Tagset        string             `json:"tagset"`
	Utterances    int                `json:"utterances"`
	Mixed         int                `json:"mixed"`
	NonMixed      int                `json:"non_mixed"`
	CuTotal       float64            `json:"cu_total"` // sum of Cu + delta over mixed utterances
	Switches      int                `json:"switches"`
	InterSwitches int                `json:"inter_switches"`
	Buckets       [NumBuckets]Bucket `json:"buckets"`
	TagTotals     []TagTotal         `json:"tag_totals"`
	Warnings      int                `json:"warnings"`
	Cc            float64            `json:"cc"`
}

// Aggregator folds utterance results in corpus order.
type Aggregator struct {
	proc   *Processor
	prev   tagset.Language
	stats  Stats
	totals []int
}

// NewAggregator returns an empty aggregator for tagset id.
func NewAggregator(id tagset.ID, opts Options) (*Aggregator, error) {
	proc, err := NewProcessor(id, opts)
	if err != nil {
		return nil, err
	}
	a := &Aggregator{proc: proc}
	a.Reset()
	return a, nil
}

// Reset clears all counts and forgets the previous matrix language.
func (a *Aggregator) Reset() {
	a.prev = tagset.LanguageNone
	a.totals = a.proc.ts.NewCounts()
	a.stats = Stats{Tagset: a.proc.ts.Name()}
	for i := range a.stats.Buckets {
		a.stats.Buckets[i].High = bucketBounds[i]
		if i > 0 {
			a.stats.Buckets[i].Low = bucketBounds[i-1]
		}
	}
}

// Matrix returns the matrix language carried into the next utterance.
func (a *Aggregator) Matrix() tagset.Language { return a.prev }

// Process runs the next utterance and adds its result.
func (a *Aggregator) Process(u corpus.Utterance) (Result, error) {
	res, err := a.proc.Process(u, a.prev)
	if err != nil {
		return Result{}, err
	}
	a.Add(res)
	return res, nil
}

// Add accumulates a result produced for the current matrix state.
func (a *Aggregator) Add(res Result) {
	s := &a.stats
	s.Utterances++
	s.InterSwitches += res.Delta
	s.Warnings += len(res.Warnings)
	for i, n := range res.Counts {
		if i < len(a.totals) {
			a.totals[i] += n
		}
	}
	a.prev = res.Matrix

	if res.Cu == 0 {
		s.NonMixed++
		return
	}
	s.Mixed++
	s.CuTotal += res.Cu + float64(res.Delta)
	s.Switches += res.Switches

	b := &s.Buckets[bucketFor(res.Score())]
	b.Count++
	b.Switches += res.Switches
}

func bucketFor(scaled float64) int {
	for i := 0; i < NumBuckets-1; i++ {
		if scaled <= bucketBounds[i] {
			return i
		}
	}
	return NumBuckets - 1
}

// Stats returns the aggregate with Cc computed.
func (a *Aggregator) Stats() (Stats, error) {
	s := a.stats
	if s.Utterances == 0 {
		return Stats{}, internalerr.ErrEmptyCorpus
	}
	s.TagTotals = make([]TagTotal, len(a.totals))
	for i, n := range a.totals {
		s.TagTotals[i] = TagTotal{Tag: a.proc.ts.Tag(i), Count: n}
	}
	s.Cc = (s.CuTotal/2 + mixedWeight*float64(s.Mixed)) / float64(s.Utterances)
	return s, nil
}

// Aggregate computes corpus statistics for utterances in order.
func Aggregate(utterances []corpus.Utterance, id tagset.ID, opts Options) (Stats, error) {
	a, err := NewAggregator(id, opts)
	if err != nil {
		return Stats{}, err
	}
	for _, u := range utterances {
		if _, err := a.Process(u); err != nil {
			return Stats{}, err
		}
	}
	return a.Stats()
}

// Source yields utterances until io.EOF. *corpus.Reader satisfies it.
type Source interface {
	Next() (corpus.Utterance, error)
}

// AggregateSource streams src through a, calling observe (if non-nil) with
// each utterance's index and result. Utterances are discarded once added.
func AggregateSource(ctx context.Context, a *Aggregator, src Source, observe func(int, Result)) (Stats, error) {
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		u, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stats{}, fmt.Errorf("utterance %d: %w", i+1, err)
		}
		res, err := a.Process(u)
		if err != nil {
			return Stats{}, err
		}
		if observe != nil {
			observe(i, res)
		}
	}
	return a.Stats()
}
