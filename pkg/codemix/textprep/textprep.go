// Package textprep turns raw lines into token lists for the n-gram model.
package textprep

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/net/html"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// Options selects the cleaning steps applied before and after tokenization.
type Options struct {
	DropMentions bool   // drop whitespace-separated words starting with '@'
	StripHTML    bool   // keep only the text nodes of HTML markup
	Lowercase    bool
	Stem         bool   // snowball-stem every token
	Language     string // snowball language, "english" when empty
	WordsOnly    bool   // drop tokens containing punctuation
}

// Defaults mirrors the preprocessing used for the reported perplexities.
func Defaults() Options {
	return Options{
		DropMentions: true,
		StripHTML:    true,
		Lowercase:    true,
		Stem:         true,
		Language:     "english",
		WordsOnly:    true,
	}
}

// Preparer applies Options to lines of text.
type Preparer struct {
	opts Options
}

// New validates opts and returns a Preparer.
func New(opts Options) (*Preparer, error) {
	if opts.Language == "" {
		opts.Language = "english"
	}
	if opts.Stem {
		if _, err := snowball.Stem("test", opts.Language, true); err != nil {
			return nil, fmt.Errorf("%w: stemmer language %q", internalerr.ErrInvalidInput, opts.Language)
		}
	}
	return &Preparer{opts: opts}, nil
}

// Options returns the active options.
func (p *Preparer) Options() Options { return p.opts }

// Line cleans and tokenizes a single line.
func (p *Preparer) Line(line string) ([]string, error) {
	if p.opts.StripHTML {
		line = StripHTML(line)
	}
	if p.opts.DropMentions {
		line = dropMentions(line)
	}
	if p.opts.Lowercase {
		line = strings.ToLower(line)
	}

	raw := Tokenize(line)
	out := raw[:0]
	for _, tok := range raw {
		if p.opts.Stem {
			stemmed, err := snowball.Stem(tok, p.opts.Language, true)
			if err != nil {
				return nil, err
			}
			if stemmed != "" {
				tok = stemmed
			}
		}
		if p.opts.WordsOnly && !isWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

// Lines reads r line by line. Lines left with no tokens are skipped.
func (p *Preparer) Lines(r io.Reader) ([][]string, error) {
	var out [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		toks, err := p.Line(sc.Text())
		if err != nil {
			return nil, err
		}
		if len(toks) > 0 {
			out = append(out, toks)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tokenize splits text into runs of word characters and runs of
// punctuation, discarding whitespace.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	inWord := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case isWordRune(r):
			if !inWord {
				flush()
			}
			inWord = true
			current.WriteRune(r)
		default:
			if inWord {
				flush()
			}
			inWord = false
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func isWord(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

func dropMentions(line string) string {
	fields := strings.Fields(line)
	kept := fields[:0]
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// StripHTML returns the text content of s with entities decoded. Text
// nodes are joined by a space so adjacent elements do not merge words.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var parts []string
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.Join(parts, " ")
}
