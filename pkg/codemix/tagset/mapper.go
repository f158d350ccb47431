package tagset

import (
	"fmt"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// Language is the matrix (dominant) language of an utterance. LanguageNone
// marks the absence of a previous utterance and is never produced by a
// mapping that saw language words.
type Language int

// Matrix language slots. With MapOptions.StrictSecondary, Lang2+k names the
// k-th secondary language group of the tagset.
const (
	LanguageNone Language = iota
	Lang1
	Lang2
)

// String returns a short label.
func (l Language) String() string {
	switch {
	case l == LanguageNone:
		return "none"
	case l == Lang1:
		return "lang1"
	case l == Lang2:
		return "lang2"
	case l > Lang2:
		return fmt.Sprintf("lang2.%d", int(l-Lang2))
	}
	return fmt.Sprintf("language(%d)", int(l))
}

// MapOptions tunes the matrix-language decision.
type MapOptions struct {
	// StrictSecondary distinguishes the secondary languages of tagsets with
	// more than one of them (Das, NITA, FIRE). Off by default: every
	// non-primary language then shares the Lang2 slot, so a change of matrix
	// language between two secondary languages is not an inter-utterance switch.
	StrictSecondary bool
}

// Mapping is the language-level summary of one utterance's tag counts.
type Mapping struct {
	LangTotal    int      // words belonging to any language
	NonLangTotal int      // named entities, acronyms, other, unknown
	Lang1Count   int      // primary language words
	Lang2Count   int      // most frequent secondary language words
	MatrixCount  int      // words of the matrix language
	Matrix       Language // dominant language
}

// Map folds counts for the tagset id into a Mapping. prev is the previous
// utterance's matrix language and decides ties.
func Map(counts []int, id ID, prev Language, opts MapOptions) (Mapping, error) {
	ts, err := Get(id)
	if err != nil {
		return Mapping{}, err
	}
	return ts.Map(counts, prev, opts)
}

// Map folds counts into a Mapping.
func (ts *Tagset) Map(counts []int, prev Language, opts MapOptions) (Mapping, error) {
	if len(counts) != len(ts.tags) {
		return Mapping{}, fmt.Errorf("%w: %d counts for tagset %s of %d tags",
			internalerr.ErrInvalidInput, len(counts), ts.name, len(ts.tags))
	}

	var m Mapping
	m.Lang1Count = sum(counts, ts.primary)
	m.LangTotal = m.Lang1Count

	// lang2 is the single most frequent secondary language, not their sum.
	best := 0
	for k, group := range ts.secondary {
		n := sum(counts, group)
		m.LangTotal += n
		if n > m.Lang2Count {
			m.Lang2Count = n
			best = k
		}
	}
	m.LangTotal += sum(counts, ts.mixed)
	m.NonLangTotal = sum(counts, ts.nonLang)

	switch {
	case m.Lang1Count > m.Lang2Count:
		m.Matrix = Lang1
		m.MatrixCount = m.Lang1Count
	case m.Lang2Count > m.Lang1Count:
		m.Matrix = Lang2
		if opts.StrictSecondary {
			m.Matrix = Lang2 + Language(best)
		}
		m.MatrixCount = m.Lang2Count
	default:
		m.Matrix = prev
		if prev == LanguageNone {
			m.Matrix = Lang1
		}
		m.MatrixCount = m.Lang1Count
	}
	return m, nil
}

func sum(counts []int, idx []int) int {
	n := 0
	for _, i := range idx {
		n += counts[i]
	}
	return n
}
