package ngram

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// prob turns a count and its conditioning count into a probability under
// the model's smoothing policy.
func (m *Model) prob(count, given int, gram ...string) (float64, error) {
	if m.smoothing == SmoothingLaplace {
		return float64(count+1) / float64(given+len(m.vocab)), nil
	}
	if count == 0 || given == 0 {
		return 0, fmt.Errorf("%w: %q", internalerr.ErrUnseenNgram, strings.Join(gram, " "))
	}
	return float64(count) / float64(given), nil
}

// logProbs returns log P for each scored position of line.
func (m *Model) logProbs(order Order, line []string) ([]float64, error) {
	out := make([]float64, 0, len(line))
	add := func(count, given int, gram ...string) error {
		p, err := m.prob(count, given, gram...)
		if err != nil {
			return err
		}
		out = append(out, math.Log(p))
		return nil
	}

	switch order {
	case Unigram:
		for _, w := range line {
			if err := add(m.vocab[w].Freq, m.tokens, w); err != nil {
				return nil, err
			}
		}

	case Bigram:
		first := line[0]
		if err := add(m.bigrams[[2]string{start, first}], m.lines, "<s>", first); err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(line); i++ {
			w, next := line[i], line[i+1]
			if err := add(m.bigrams[[2]string{w, next}], m.vocab[w].Freq, w, next); err != nil {
				return nil, err
			}
		}

	case Trigram:
		first := line[0]
		if err := add(m.bigrams[[2]string{start, first}], m.lines, "<s>", first); err != nil {
			return nil, err
		}
		if len(line) > 1 {
			second := line[1]
			if err := add(m.startPairs[[2]string{first, second}], m.lines, "<s>", first, second); err != nil {
				return nil, err
			}
		}
		for i := 0; i+2 < len(line); i++ {
			w1, w2, w3 := line[i], line[i+1], line[i+2]
			if err := add(m.trigrams[[3]string{w1, w2, w3}], m.bigrams[[2]string{w1, w2}], w1, w2, w3); err != nil {
				return nil, err
			}
		}

	default:
		return nil, fmt.Errorf("%w: n-gram order %d", internalerr.ErrInvalidInput, int(order))
	}
	return out, nil
}

// LinePerplexity is the inverse probability of line normalised by its
// length, computed in log space. Empty lines are rejected.
func (m *Model) LinePerplexity(order Order, line []string) (float64, error) {
	if len(line) == 0 {
		return 0, fmt.Errorf("%w: empty line", internalerr.ErrInvalidInput)
	}
	lps, err := m.logProbs(order, line)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, lp := range lps {
		sum += lp
	}
	return math.Exp(-sum / float64(len(line))), nil
}

// Perplexity averages LinePerplexity over the non-empty lines.
func (m *Model) Perplexity(order Order, lines [][]string) (float64, error) {
	pps := make([]float64, 0, len(lines))
	for i, line := range lines {
		if len(line) == 0 {
			continue
		}
		pp, err := m.LinePerplexity(order, line)
		if err != nil {
			return 0, fmt.Errorf("%s line %d: %w", order, i+1, err)
		}
		pps = append(pps, pp)
	}
	if len(pps) == 0 {
		return 0, internalerr.ErrEmptyCorpus
	}
	return stat.Mean(pps, nil), nil
}

// PerplexityAll evaluates every order and keys the result by order name.
func (m *Model) PerplexityAll(lines [][]string) (map[string]float64, error) {
	out := make(map[string]float64, 3)
	for _, o := range Orders() {
		pp, err := m.Perplexity(o, lines)
		if err != nil {
			return nil, err
		}
		out[o.String()] = pp
	}
	return out, nil
}
