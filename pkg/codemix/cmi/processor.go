package cmi

import (
	"fmt"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
)

// artifactWords are link prefixes left behind by the NL-TR chat export.
// They carry no annotation of their own.
var artifactWords = map[string]struct{}{
	"[object": {},
	"[img":    {},
}

// WarningKind classifies a tag anomaly.
type WarningKind int

// Tag anomalies. Neither aborts processing.
const (
	MissingTag WarningKind = iota + 1 // word has no tag; not counted
	UnknownTag                        // tag not in the tagset; counted as undefined
)

func (k WarningKind) String() string {
	switch k {
	case MissingTag:
		return "missing tag"
	case UnknownTag:
		return "unknown tag"
	}
	return "warning"
}

// TagWarning reports a word whose tag could not be used as-is.
type TagWarning struct {
	Kind     WarningKind
	Position int // token position within the utterance
	Word     string
	Tag      string
}

func (w TagWarning) Error() string {
	if w.Kind == UnknownTag {
		return fmt.Sprintf("%s %q for word %q at %d, counted as undefined", w.Kind, w.Tag, w.Word, w.Position)
	}
	return fmt.Sprintf("%s for word %q at %d", w.Kind, w.Word, w.Position)
}

// Result is the code-mixing summary of one utterance.
type Result struct {
	// Cu is the utterance CMI, 1 - (MatrixCount - Switches) / LangTotal.
	// It is 0 for monolingual utterances and for utterances without
	// language words (NoLanguage).
	Cu         float64
	NoLanguage bool

	Switches int // intra-utterance switch points (P)
	Delta    int // 1 when the matrix language changed from the previous utterance

	Counts  []int           // per-tag occurrences, positional over the tagset
	Matrix  tagset.Language // matrix language carried to the next utterance
	Mapping tagset.Mapping

	Warnings []TagWarning
}

// Mixed reports whether the utterance contains any code-mixing.
func (r Result) Mixed() bool { return r.Cu != 0 }

// Score is Cu on the 0-100 percentage scale of the original index,
// 100 * (N - max + P) / 2N, i.e. 50 * Cu.
func (r Result) Score() float64 { return 50 * r.Cu }

// Options configures processing.
type Options struct {
	// StrictSecondary tells apart the secondary languages of tagsets that
	// have several; see tagset.MapOptions.
	StrictSecondary bool
}

// Processor computes per-utterance results for one tagset.
type Processor struct {
	ts   *tagset.Tagset
	opts Options
}

// NewProcessor returns a processor for tagset id.
func NewProcessor(id tagset.ID, opts Options) (*Processor, error) {
	ts, err := tagset.Get(id)
	if err != nil {
		return nil, err
	}
	return &Processor{ts: ts, opts: opts}, nil
}

// Tagset returns the tagset in use.
func (p *Processor) Tagset() *tagset.Tagset { return p.ts }

// Process scans one utterance. prev is the matrix language of the previous
// utterance, tagset.LanguageNone for the first one.
func (p *Processor) Process(u corpus.Utterance, prev tagset.Language) (Result, error) {
	res := Result{Counts: p.ts.NewCounts()}
	current := "" // most recent language tag; "" until the first one

	for i, tok := range u {
		if strings.HasPrefix(tok.Word, "[") {
			if _, ok := artifactWords[tok.Word]; ok {
				continue
			}
			// bracketed named entities of the FIRE corpora
			res.Counts[p.ts.Undefined()]++
			continue
		}
		if tok.Tag == "" {
			res.Warnings = append(res.Warnings, TagWarning{Kind: MissingTag, Position: i, Word: tok.Word})
			continue
		}

		tag := tok.Tag
		idx, ok := p.ts.Index(tag)
		if !ok {
			// suffix tags may carry a "label:" prefix
			_, tail, _ := strings.Cut(tag, ":")
			idx, ok = p.ts.Index(tail)
			tag = tail
		}
		if !ok {
			res.Counts[p.ts.Undefined()]++
			res.Warnings = append(res.Warnings, TagWarning{Kind: UnknownTag, Position: i, Word: tok.Word, Tag: tok.Tag})
			continue
		}
		res.Counts[idx]++

		if !p.ts.IsLanguage(tag) {
			continue
		}
		switch {
		case current == "":
			current = tag
		case tag != current:
			res.Switches++
			current = tag
		}
	}

	m, err := p.ts.Map(res.Counts, prev, tagset.MapOptions{StrictSecondary: p.opts.StrictSecondary})
	if err != nil {
		return Result{}, err
	}
	res.Mapping = m

	if m.LangTotal == 0 {
		res.NoLanguage = true
		res.Matrix = prev
		return res, nil
	}

	res.Matrix = m.Matrix
	if prev != tagset.LanguageNone && m.Matrix != prev {
		res.Delta = 1
	}
	res.Cu = 1 - float64(m.MatrixCount-res.Switches)/float64(m.LangTotal)
	return res, nil
}
