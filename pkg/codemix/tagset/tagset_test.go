package tagset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

func TestLanguageTagPrefixLengths(t *testing.T) {
	cases := []struct {
		id   ID
		want int
	}{
		{Das, 7},
		{NITA, 3},
		{ND, 2},
		{Vyas, 2},
		{FIRE, 9},
		{CSWS14, 2},
		{CSWS16, 3},
		{Tweet, 2},
	}
	for _, tc := range cases {
		langs, err := LanguageTags(tc.id)
		if err != nil {
			t.Fatalf("%v: %v", tc.id, err)
		}
		if len(langs) != tc.want {
			t.Errorf("%v: got %d language tags, want %d", tc.id, len(langs), tc.want)
		}
		ts, _ := Get(tc.id)
		if !reflect.DeepEqual(langs, ts.Tags()[:tc.want]) {
			t.Errorf("%v: language tags %v are not a prefix of %v", tc.id, langs, ts.Tags())
		}
	}
}

func TestLanguageTagsCSWS16(t *testing.T) {
	langs, err := LanguageTags(CSWS16)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"LANG1", "LANG2", "FW"}
	if !reflect.DeepEqual(langs, want) {
		t.Errorf("got %v, want %v", langs, want)
	}
}

func TestUnknownTagset(t *testing.T) {
	if _, err := LanguageTags(ID(99)); !errors.Is(err, internalerr.ErrUnknownTagset) {
		t.Errorf("LanguageTags: expected ErrUnknownTagset, got %v", err)
	}
	if _, err := Lookup("klingon"); !errors.Is(err, internalerr.ErrUnknownTagset) {
		t.Errorf("Lookup: expected ErrUnknownTagset, got %v", err)
	}
	if _, err := Map([]int{1}, ID(0), LanguageNone, MapOptions{}); !errors.Is(err, internalerr.ErrUnknownTagset) {
		t.Errorf("Map: expected ErrUnknownTagset, got %v", err)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	ts, err := Lookup(" CSWS14 ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ts.ID() != CSWS14 {
		t.Errorf("got %v, want csws14", ts.ID())
	}
	if ts.ID().String() != "csws14" {
		t.Errorf("String: got %q", ts.ID().String())
	}
}

func TestEveryTagFoldedOnce(t *testing.T) {
	for _, ts := range All() {
		classes := make(map[int]int)
		mark := func(idx []int) {
			for _, i := range idx {
				classes[i]++
			}
		}
		mark(ts.primary)
		for _, g := range ts.secondary {
			mark(g)
		}
		mark(ts.mixed)
		mark(ts.nonLang)
		for i := range ts.tags {
			if classes[i] != 1 {
				t.Errorf("%s: tag %q folded %d times", ts.Name(), ts.tags[i], classes[i])
			}
		}
	}
}

func TestIsLanguageAndUndefined(t *testing.T) {
	ts, _ := Get(NITA)
	if !ts.IsLanguage("HI") {
		t.Error("HI should be a language tag")
	}
	if ts.IsLanguage("MIXED") {
		t.Error("MIXED should not be a language tag")
	}
	if ts.IsLanguage("nope") {
		t.Error("unknown tag should not be a language tag")
	}
	if got := ts.Tag(ts.Undefined()); got != "UNDEF" {
		t.Errorf("undefined slot: got %q", got)
	}
	if len(ts.NewCounts()) != ts.Size() {
		t.Error("NewCounts should match tagset size")
	}
}

func counts(ts *Tagset, byTag map[string]int) []int {
	c := ts.NewCounts()
	for tag, n := range byTag {
		i, ok := ts.Index(tag)
		if !ok {
			panic("unknown tag " + tag)
		}
		c[i] = n
	}
	return c
}

func TestMapDasFoldsSuffixTags(t *testing.T) {
	ts, _ := Get(Das)
	c := counts(ts, map[string]int{
		"EN":             2,
		"NE+EN_SUFFIX":   1,
		"BN":             1,
		"ACRO+BN_SUFFIX": 1,
		"HI":             3,
		"NE":             4,
		"UNIV":           2,
	})
	m, err := ts.Map(c, LanguageNone, MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Lang1Count != 3 {
		t.Errorf("lang1: got %d, want 3", m.Lang1Count)
	}
	if m.Lang2Count != 3 {
		t.Errorf("lang2 (max of BN=2, HI=3): got %d, want 3", m.Lang2Count)
	}
	if m.LangTotal != 8 {
		t.Errorf("lang total: got %d, want 8", m.LangTotal)
	}
	if m.NonLangTotal != 6 {
		t.Errorf("non-lang total: got %d, want 6", m.NonLangTotal)
	}
	if m.Matrix != Lang1 || m.MatrixCount != 3 {
		t.Errorf("tie without previous should pick lang1, got %v/%d", m.Matrix, m.MatrixCount)
	}
}

func TestMapMixedTagsCountAsLanguage(t *testing.T) {
	ts, _ := Get(CSWS16)
	c := counts(ts, map[string]int{"LANG1": 1, "LANG2": 2, "FW": 1, "MIXED": 1, "AMBIGUOUS": 1, "NE": 1, "OTHER": 1, "UNK": 1})
	m, err := ts.Map(c, Lang1, MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if m.LangTotal != 6 {
		t.Errorf("lang total: got %d, want 6", m.LangTotal)
	}
	if m.NonLangTotal != 3 {
		t.Errorf("non-lang total: got %d, want 3", m.NonLangTotal)
	}
	if m.Matrix != Lang2 || m.MatrixCount != 2 {
		t.Errorf("matrix: got %v/%d, want lang2/2", m.Matrix, m.MatrixCount)
	}
}

func TestMapTieInheritsPrevious(t *testing.T) {
	ts, _ := Get(ND)
	c := counts(ts, map[string]int{"NL": 2, "TR": 2})
	for _, prev := range []Language{Lang1, Lang2} {
		m, err := ts.Map(c, prev, MapOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if m.Matrix != prev {
			t.Errorf("prev %v: got matrix %v", prev, m.Matrix)
		}
		if m.MatrixCount != 2 {
			t.Errorf("prev %v: got matrix count %d", prev, m.MatrixCount)
		}
	}
}

func TestMapStrictSecondary(t *testing.T) {
	ts, _ := Get(FIRE)
	bengali := counts(ts, map[string]int{"E": 1, "B": 2, "B+EN_SUFFIX": 1})
	kannada := counts(ts, map[string]int{"E": 1, "K": 3})

	loose1, _ := ts.Map(bengali, LanguageNone, MapOptions{})
	loose2, _ := ts.Map(kannada, loose1.Matrix, MapOptions{})
	if loose1.Matrix != Lang2 || loose2.Matrix != Lang2 {
		t.Errorf("default mode should collapse secondary languages, got %v and %v", loose1.Matrix, loose2.Matrix)
	}

	strict1, _ := ts.Map(bengali, LanguageNone, MapOptions{StrictSecondary: true})
	strict2, _ := ts.Map(kannada, strict1.Matrix, MapOptions{StrictSecondary: true})
	if strict1.Matrix != Lang2 {
		t.Errorf("bengali is the first secondary group, got %v", strict1.Matrix)
	}
	if strict2.Matrix != Lang2+3 {
		t.Errorf("kannada is the fourth secondary group, got %v", strict2.Matrix)
	}
	if strict2.Matrix.String() != "lang2.3" {
		t.Errorf("String: got %q", strict2.Matrix.String())
	}
}

func TestMapRejectsWrongLength(t *testing.T) {
	ts, _ := Get(Vyas)
	if _, err := ts.Map([]int{1, 2}, LanguageNone, MapOptions{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
