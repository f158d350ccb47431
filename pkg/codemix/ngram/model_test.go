package ngram

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func split(lines ...[]string) [][]string { return lines }

func TestBuildCounts(t *testing.T) {
	m := Build(split(
		[]string{"a", "b", "c"},
		[]string{"a", "b", "d"},
		nil,
	), SmoothingNone)

	if m.Lines() != 3 {
		t.Fatalf("lines = %d, want 3", m.Lines())
	}
	if m.Tokens() != 6 {
		t.Fatalf("tokens = %d, want 6", m.Tokens())
	}
	if m.VocabSize() != 4 {
		t.Fatalf("vocab = %d, want 4", m.VocabSize())
	}
	if e, ok := m.Vocab("d"); !ok || e.Index != 3 || e.Freq != 1 {
		t.Fatalf("vocab[d] = %+v, %v", e, ok)
	}
	if e, _ := m.Vocab("a"); e.Index != 0 || e.Freq != 2 {
		t.Fatalf("vocab[a] = %+v", e)
	}
	if got := m.Count("", "a"); got != 2 {
		t.Errorf("line-initial a = %d, want 2", got)
	}
	if got := m.Count("a", "b"); got != 2 {
		t.Errorf("count(a b) = %d, want 2", got)
	}
	if got := m.Count("a", "b", "c"); got != 1 {
		t.Errorf("count(a b c) = %d, want 1", got)
	}
	if got := m.Count("x", "y", "z", "w"); got != 0 {
		t.Errorf("4-gram count = %d, want 0", got)
	}
}

func TestUnigramPerplexity(t *testing.T) {
	train := split([]string{"a", "b"}, []string{"a", "c"})
	m := Build(train, SmoothingNone)

	// P(a)=2/4, P(b)=1/4 -> (1/8)^(-1/2)
	pp, err := m.Perplexity(Unigram, train)
	if err != nil {
		t.Fatalf("perplexity: %v", err)
	}
	if !approx(pp, math.Sqrt(8)) {
		t.Fatalf("unigram = %v, want %v", pp, math.Sqrt(8))
	}
}

func TestBigramPerplexity(t *testing.T) {
	train := split([]string{"a", "b"}, []string{"a", "c"})
	m := Build(train, SmoothingNone)

	// P(a|<s>)=2/2, P(b|a)=1/2 -> (1/2)^(-1/2)
	pp, err := m.Perplexity(Bigram, train)
	if err != nil {
		t.Fatalf("perplexity: %v", err)
	}
	if !approx(pp, math.Sqrt2) {
		t.Fatalf("bigram = %v, want %v", pp, math.Sqrt2)
	}
}

func TestTrigramPerplexity(t *testing.T) {
	train := split([]string{"a", "b", "c"}, []string{"a", "b", "d"})
	m := Build(train, SmoothingNone)

	// P(a|<s>)=1, P(a b|<s>)=1, P(c|a b)=1/2 -> (1/2)^(-1/3)
	pp, err := m.Perplexity(Trigram, train)
	if err != nil {
		t.Fatalf("perplexity: %v", err)
	}
	if want := math.Cbrt(2); !approx(pp, want) {
		t.Fatalf("trigram = %v, want %v", pp, want)
	}
}

func TestPerplexityAveragesLines(t *testing.T) {
	train := split([]string{"a"}, []string{"a"}, []string{"b"})
	m := Build(train, SmoothingNone)

	// Unigram: P(a)=2/3 and P(b)=1/3 give line perplexities 1.5 and 3.
	pp, err := m.Perplexity(Unigram, split([]string{"a"}, nil, []string{"b"}))
	if err != nil {
		t.Fatalf("perplexity: %v", err)
	}
	if !approx(pp, 2.25) {
		t.Fatalf("average = %v, want 2.25", pp)
	}
}

func TestUnseenWithoutSmoothing(t *testing.T) {
	m := Build(split([]string{"a", "b"}, []string{"a", "c"}), SmoothingNone)

	for _, o := range Orders() {
		_, err := m.Perplexity(o, split([]string{"a", "z"}))
		if !errors.Is(err, internalerr.ErrUnseenNgram) {
			t.Errorf("%s: err = %v, want ErrUnseenNgram", o, err)
		}
	}
}

func TestLaplaceSmoothing(t *testing.T) {
	m := Build(split([]string{"a", "b"}, []string{"a", "c"}), SmoothingLaplace)

	// (2+1)/(4+3) * (0+1)/(4+3) = 3/49
	pp, err := m.Perplexity(Unigram, split([]string{"a", "z"}))
	if err != nil {
		t.Fatalf("perplexity: %v", err)
	}
	if want := math.Sqrt(49.0 / 3.0); !approx(pp, want) {
		t.Fatalf("laplace unigram = %v, want %v", pp, want)
	}

	all, err := m.PerplexityAll(split([]string{"z", "z", "z"}))
	if err != nil {
		t.Fatalf("perplexity all: %v", err)
	}
	for _, o := range Orders() {
		if v, ok := all[o.String()]; !ok || v <= 0 || math.IsInf(v, 0) {
			t.Errorf("%s = %v, %v", o, v, ok)
		}
	}
}

func TestEmptyEvaluation(t *testing.T) {
	m := Build(split([]string{"a"}), SmoothingNone)
	if _, err := m.Perplexity(Unigram, split(nil, []string{})); !errors.Is(err, internalerr.ErrEmptyCorpus) {
		t.Fatalf("err = %v, want ErrEmptyCorpus", err)
	}
	if _, err := m.LinePerplexity(Unigram, nil); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := m.Perplexity(Order(4), split([]string{"a"})); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestParseSmoothing(t *testing.T) {
	cases := map[string]Smoothing{"": SmoothingNone, "None": SmoothingNone, "laplace": SmoothingLaplace, "add-one": SmoothingLaplace}
	for in, want := range cases {
		got, err := ParseSmoothing(in)
		if err != nil || got != want {
			t.Errorf("ParseSmoothing(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSmoothing("kneser-ney"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
}
