package report

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/store"
)

// Builder stamps analysis results with sortable IDs and creation times.
type Builder struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (b *Builder) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *Builder) stamp() (string, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	at := b.now().UTC()
	return ulid.MustNew(ulid.Timestamp(at), b.entropy).String(), at
}

// CMI creates a report for corpus statistics.
func (b *Builder) CMI(corpus string, stats cmi.Stats) store.Report {
	id, at := b.stamp()
	stats.TagTotals = append([]cmi.TagTotal(nil), stats.TagTotals...)
	return store.Report{
		ID:        id,
		Kind:      store.KindCMI,
		Corpus:    corpus,
		Tagset:    stats.Tagset,
		CreatedAt: at,
		Stats:     stats,
	}
}

// Perplexity creates a report holding per-order perplexities.
func (b *Builder) Perplexity(corpus string, values map[string]float64) store.Report {
	id, at := b.stamp()
	pp := make(map[string]float64, len(values))
	for k, v := range values {
		pp[k] = v
	}
	return store.Report{
		ID:         id,
		Kind:       store.KindPerplexity,
		Corpus:     corpus,
		CreatedAt:  at,
		Perplexity: pp,
	}
}
