package textprep

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

func TestTokenizeWordPunct(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello, world!!", []string{"Hello", ",", "world", "!!"}},
		{"don't", []string{"don", "'", "t"}},
		{"  kya   baat hai ", []string{"kya", "baat", "hai"}},
		{"नमस्ते dost", []string{"नमस्ते", "dost"}},
		{"a_b+c", []string{"a_b", "+", "c"}},
		{"", nil},
	}
	for _, tc := range cases {
		if got := Tokenize(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Tom &amp; Jerry</p><b>bhai</b><script>x()</script>")
	if got != "Tom & Jerry bhai" {
		t.Fatalf("StripHTML = %q", got)
	}
	if plain := StripHTML("no markup here"); plain != "no markup here" {
		t.Fatalf("plain text changed: %q", plain)
	}
}

func TestLineDefaults(t *testing.T) {
	p, err := New(Defaults())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := p.Line("@user I am running <b>fast</b>!!")
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	want := []string{"i", "am", "run", "fast"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Line = %q, want %q", got, want)
	}
}

func TestLineWithoutOptions(t *testing.T) {
	p, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, _ := p.Line("@Yaar Running!")
	want := []string{"@", "Yaar", "Running", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Line = %q, want %q", got, want)
	}
}

func TestLinesSkipsEmpty(t *testing.T) {
	p, _ := New(Options{DropMentions: true, Lowercase: true, WordsOnly: true})
	lines, err := p.Lines(strings.NewReader("@only\n\n... !!\nHello Dost\n"))
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := [][]string{{"hello", "dost"}}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("Lines = %q, want %q", lines, want)
	}
}

func TestUnknownStemmerLanguage(t *testing.T) {
	_, err := New(Options{Stem: true, Language: "klingon"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
