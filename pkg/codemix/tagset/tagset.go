package tagset

import (
	"fmt"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// ID identifies one of the predefined annotation schemes.
type ID int

// Known tagsets.
const (
	Das    ID = iota + 1 // Das & Gambäck EN-BN-HI
	NITA                 // NITA EN-BN / EN-HI corpora
	ND                   // Nguyen & Dogruöz NL-TR
	Vyas                 // Vyas et al. EN-HI
	FIRE                 // FIRE 2014/2015 shared task
	CSWS14               // EMNLP 2014 code-switching workshop
	CSWS16               // EMNLP 2016 code-switching workshop
	Tweet                // tag-only tweet export (EN/HI/UN)
)

// String returns the identifier used in configuration files.
func (id ID) String() string {
	if def, ok := definitions[id]; ok {
		return def.name
	}
	return fmt.Sprintf("tagset(%d)", int(id))
}

// folding says which tags count towards which language class.
// Every tag of a tagset belongs to exactly one class.
type folding struct {
	primary   []string   // lang1, the English-analog language
	secondary [][]string // one group per other language; lang2 is the max group
	mixed     []string   // language-bearing but not monolingual
	nonLang   []string   // named entities, acronyms, other, unknown
}

type definition struct {
	name  string
	tags  []string
	langs int // number of leading tags that are monolingual language tags
	fold  folding
}

var definitions = map[ID]definition{
	Das: {
		name: "das",
		tags: []string{
			"EN", "EN+BN_SUFFIX", "EN+HI_SUFFIX",
			"BN", "BN+EN_SUFFIX",
			"HI", "HI+EN_SUFFIX",
			"NE", "NE+EN_SUFFIX", "NE+BN_SUFFIX", "NE+HI_SUFFIX",
			"ACRO", "ACRO+EN_SUFFIX", "ACRO+BN_SUFFIX", "ACRO+HI_SUFFIX",
			"UNIV", "UNDEF",
		},
		langs: 7,
		fold: folding{
			// NE and ACRO carrying a language suffix belong to that language.
			primary: []string{"EN", "EN+BN_SUFFIX", "EN+HI_SUFFIX", "NE+EN_SUFFIX", "ACRO+EN_SUFFIX"},
			secondary: [][]string{
				{"BN", "BN+EN_SUFFIX", "NE+BN_SUFFIX", "ACRO+BN_SUFFIX"},
				{"HI", "HI+EN_SUFFIX", "NE+HI_SUFFIX", "ACRO+HI_SUFFIX"},
			},
			nonLang: []string{"NE", "ACRO", "UNIV", "UNDEF"},
		},
	},
	NITA: {
		name:  "nita",
		tags:  []string{"EN", "BN", "HI", "MIXED", "NE", "ACRO", "UNIV", "UNDEF"},
		langs: 3,
		fold: folding{
			primary:   []string{"EN"},
			secondary: [][]string{{"BN"}, {"HI"}},
			mixed:     []string{"MIXED"},
			nonLang:   []string{"NE", "ACRO", "UNIV", "UNDEF"},
		},
	},
	ND: {
		name:  "nd",
		tags:  []string{"NL", "TR", "SKIP"},
		langs: 2,
		fold: folding{
			primary:   []string{"NL"},
			secondary: [][]string{{"TR"}},
			nonLang:   []string{"SKIP"},
		},
	},
	Vyas: {
		name:  "vyas",
		tags:  []string{"E", "H", "F", "O"},
		langs: 2,
		fold: folding{
			primary:   []string{"E"},
			secondary: [][]string{{"H"}},
			// F and O are counted as language words in the published figures.
			mixed: []string{"F", "O"},
		},
	},
	FIRE: {
		name: "fire",
		tags: []string{
			"E", "E+BN_SUFFIX", "E+HI_SUFFIX",
			"B", "B+EN_SUFFIX",
			"H", "H+EN_SUFFIX",
			"G",
			"K",
			"MIX",
			"O",
		},
		langs: 9,
		fold: folding{
			primary:   []string{"E", "E+BN_SUFFIX", "E+HI_SUFFIX"},
			secondary: [][]string{{"B", "B+EN_SUFFIX"}, {"H", "H+EN_SUFFIX"}, {"G"}, {"K"}},
			mixed:     []string{"MIX"},
			nonLang:   []string{"O"},
		},
	},
	CSWS14: {
		name:  "csws14",
		tags:  []string{"LANG1", "LANG2", "MIXED", "AMBIGUOUS", "NE", "OTHER"},
		langs: 2,
		fold: folding{
			primary:   []string{"LANG1"},
			secondary: [][]string{{"LANG2"}},
			mixed:     []string{"MIXED", "AMBIGUOUS"},
			nonLang:   []string{"NE", "OTHER"},
		},
	},
	CSWS16: {
		name:  "csws16",
		tags:  []string{"LANG1", "LANG2", "FW", "MIXED", "AMBIGUOUS", "NE", "OTHER", "UNK"},
		langs: 3,
		fold: folding{
			primary:   []string{"LANG1"},
			secondary: [][]string{{"LANG2"}},
			mixed:     []string{"FW", "MIXED", "AMBIGUOUS"},
			nonLang:   []string{"NE", "OTHER", "UNK"},
		},
	},
	Tweet: {
		name:  "tweet",
		tags:  []string{"EN", "HI", "UN"},
		langs: 2,
		fold: folding{
			primary:   []string{"EN"},
			secondary: [][]string{{"HI"}},
			nonLang:   []string{"UN"},
		},
	},
}

// order fixes the iteration order of All.
var order = []ID{Das, NITA, ND, Vyas, FIRE, CSWS14, CSWS16, Tweet}

var registry = func() map[ID]*Tagset {
	m := make(map[ID]*Tagset, len(definitions))
	for _, id := range order {
		m[id] = compile(id, definitions[id])
	}
	return m
}()

// Tagset is a compiled, immutable tagset definition. Tag positions are the
// indices of per-utterance count vectors.
type Tagset struct {
	id        ID
	name      string
	tags      []string
	langs     int
	index     map[string]int
	primary   []int
	secondary [][]int
	mixed     []int
	nonLang   []int
}

func compile(id ID, def definition) *Tagset {
	ts := &Tagset{
		id:    id,
		name:  def.name,
		tags:  def.tags,
		langs: def.langs,
		index: make(map[string]int, len(def.tags)),
	}
	for i, tag := range def.tags {
		if _, dup := ts.index[tag]; dup {
			panic(fmt.Sprintf("tagset %s: duplicate tag %q", def.name, tag))
		}
		ts.index[tag] = i
	}

	seen := make(map[string]bool, len(def.tags))
	resolve := func(tags []string) []int {
		out := make([]int, 0, len(tags))
		for _, tag := range tags {
			i, ok := ts.index[tag]
			if !ok {
				panic(fmt.Sprintf("tagset %s: folding names unknown tag %q", def.name, tag))
			}
			if seen[tag] {
				panic(fmt.Sprintf("tagset %s: tag %q folded twice", def.name, tag))
			}
			seen[tag] = true
			out = append(out, i)
		}
		return out
	}
	ts.primary = resolve(def.fold.primary)
	for _, group := range def.fold.secondary {
		ts.secondary = append(ts.secondary, resolve(group))
	}
	ts.mixed = resolve(def.fold.mixed)
	ts.nonLang = resolve(def.fold.nonLang)
	if len(seen) != len(def.tags) {
		panic(fmt.Sprintf("tagset %s: %d of %d tags folded", def.name, len(seen), len(def.tags)))
	}
	if def.langs <= 0 || def.langs > len(def.tags) {
		panic(fmt.Sprintf("tagset %s: language prefix %d out of range", def.name, def.langs))
	}
	return ts
}

// Get returns the compiled tagset for id.
func Get(id ID) (*Tagset, error) {
	ts, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrUnknownTagset, id)
	}
	return ts, nil
}

// Lookup resolves a configuration name such as "nita" or "CSWS16".
func Lookup(name string) (*Tagset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, id := range order {
		if definitions[id].name == key {
			return registry[id], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownTagset, name)
}

// All returns every registered tagset in a stable order.
func All() []*Tagset {
	out := make([]*Tagset, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}

// LanguageTags returns the monolingual language tags of a tagset,
// which always form a prefix of its tag list.
func LanguageTags(id ID) ([]string, error) {
	ts, err := Get(id)
	if err != nil {
		return nil, err
	}
	return ts.LanguageTags(), nil
}

// ID returns the tagset identifier.
func (ts *Tagset) ID() ID { return ts.id }

// Name returns the configuration name.
func (ts *Tagset) Name() string { return ts.name }

// Size returns the number of tags.
func (ts *Tagset) Size() int { return len(ts.tags) }

// Tags returns a copy of the ordered tag list.
func (ts *Tagset) Tags() []string {
	out := make([]string, len(ts.tags))
	copy(out, ts.tags)
	return out
}

// Tag returns the tag at position i.
func (ts *Tagset) Tag(i int) string { return ts.tags[i] }

// LanguageTags returns a copy of the language-tag prefix.
func (ts *Tagset) LanguageTags() []string {
	out := make([]string, ts.langs)
	copy(out, ts.tags[:ts.langs])
	return out
}

// Index returns the position of tag, if present.
func (ts *Tagset) Index(tag string) (int, bool) {
	i, ok := ts.index[tag]
	return i, ok
}

// IsLanguage reports whether tag is one of the monolingual language tags.
func (ts *Tagset) IsLanguage(tag string) bool {
	i, ok := ts.index[tag]
	return ok && i < ts.langs
}

// Undefined returns the position of the catch-all tag (the last one).
func (ts *Tagset) Undefined() int { return len(ts.tags) - 1 }

// NewCounts returns a zeroed count vector sized for this tagset.
func (ts *Tagset) NewCounts() []int { return make([]int, len(ts.tags)) }
