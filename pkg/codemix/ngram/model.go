package ngram

import (
	"fmt"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// Order selects the n-gram model.
type Order int

// Supported model orders.
const (
	Unigram Order = 1
	Bigram  Order = 2
	Trigram Order = 3
)

func (o Order) String() string {
	switch o {
	case Unigram:
		return "unigram"
	case Bigram:
		return "bigram"
	case Trigram:
		return "trigram"
	}
	return fmt.Sprintf("order(%d)", int(o))
}

// Orders lists the supported orders, lowest first.
func Orders() []Order { return []Order{Unigram, Bigram, Trigram} }

// Smoothing is the policy for n-grams never seen while building the model.
type Smoothing int

const (
	// SmoothingNone fails with internalerr.ErrUnseenNgram on a zero count.
	SmoothingNone Smoothing = iota
	// SmoothingLaplace adds one to every count and the vocabulary size to
	// every denominator.
	SmoothingLaplace
)

// ParseSmoothing resolves "none" or "laplace" (also "add-one").
func ParseSmoothing(s string) (Smoothing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SmoothingNone, nil
	case "laplace", "add-one", "addone":
		return SmoothingLaplace, nil
	}
	return 0, fmt.Errorf("%w: smoothing %q", internalerr.ErrInvalidInput, s)
}

func (s Smoothing) String() string {
	if s == SmoothingLaplace {
		return "laplace"
	}
	return "none"
}

// start marks the beginning of a line in bigram keys.
const start = ""

// VocabEntry records when a token was first seen and how often it occurs.
type VocabEntry struct {
	Index int
	Freq  int
}

// Model holds frequency tables built from tokenized lines.
type Model struct {
	smoothing  Smoothing
	vocab      map[string]VocabEntry
	tokens     int
	lines      int
	bigrams    map[[2]string]int // [start, w] counts line-initial tokens
	startPairs map[[2]string]int // first two tokens of each line
	trigrams   map[[3]string]int
}

// New returns an empty model.
func New(smoothing Smoothing) *Model {
	return &Model{
		smoothing:  smoothing,
		vocab:      make(map[string]VocabEntry),
		bigrams:    make(map[[2]string]int),
		startPairs: make(map[[2]string]int),
		trigrams:   make(map[[3]string]int),
	}
}

// Build counts every line.
func Build(lines [][]string, smoothing Smoothing) *Model {
	m := New(smoothing)
	for _, line := range lines {
		m.Add(line)
	}
	return m
}

// Add counts one tokenized line.
func (m *Model) Add(line []string) {
	m.lines++
	m.tokens += len(line)
	for _, w := range line {
		e, ok := m.vocab[w]
		if !ok {
			e.Index = len(m.vocab)
		}
		e.Freq++
		m.vocab[w] = e
	}
	if len(line) == 0 {
		return
	}
	m.bigrams[[2]string{start, line[0]}]++
	if len(line) > 1 {
		m.startPairs[[2]string{line[0], line[1]}]++
	}
	for i := 0; i+1 < len(line); i++ {
		m.bigrams[[2]string{line[i], line[i+1]}]++
	}
	for i := 0; i+2 < len(line); i++ {
		m.trigrams[[3]string{line[i], line[i+1], line[i+2]}]++
	}
}

// Vocab returns the entry for token.
func (m *Model) Vocab(token string) (VocabEntry, bool) {
	e, ok := m.vocab[token]
	return e, ok
}

// VocabSize returns the number of distinct tokens.
func (m *Model) VocabSize() int { return len(m.vocab) }

// Tokens returns the number of tokens counted.
func (m *Model) Tokens() int { return m.tokens }

// Lines returns the number of lines counted.
func (m *Model) Lines() int { return m.lines }

// Count returns the frequency of a 1-, 2- or 3-gram. A leading "" in a
// bigram asks for line-initial occurrences.
func (m *Model) Count(gram ...string) int {
	switch len(gram) {
	case 1:
		return m.vocab[gram[0]].Freq
	case 2:
		return m.bigrams[[2]string{gram[0], gram[1]}]
	case 3:
		return m.trigrams[[3]string{gram[0], gram[1], gram[2]}]
	}
	return 0
}
