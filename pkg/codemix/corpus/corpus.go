package corpus

import (
	"fmt"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// Token is one annotated word. Either field may be empty: bare tags carry no
// word and unannotated words carry no tag.
type Token struct {
	Word string
	Tag  string
}

// Utterance is one sentence or message, in corpus order.
type Utterance []Token

// Format describes how words, tags and utterance boundaries are laid out.
type Format int

// Supported corpus layouts.
const (
	// Tagged: one utterance per line, whitespace separated word<sep>tag tokens.
	Tagged Format = iota
	// FIRE: Tagged with a backslash separator; anything after '=' in a token
	// is the original encoded string and is dropped.
	FIRE
	// CSWS14: one token per row "id user start end tag", grouped by id.
	CSWS14
	// CSWS16: one token per row "id user start end token tag", grouped by id.
	CSWS16
	// Tags: one utterance per line of bare tags.
	Tags
)

var formatNames = map[Format]string{
	Tagged: "tagged",
	FIRE:   "fire",
	CSWS14: "csws14",
	CSWS16: "csws16",
	Tags:   "tags",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat resolves a configuration name.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Tagged, nil
	}
	for f, name := range formatNames {
		if name == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: corpus format %q", internalerr.ErrInvalidInput, s)
}

// Encoding selects the byte decoding of a corpus file.
type Encoding int

// Supported encodings. Auto honours a UTF-8 or UTF-16 byte order mark and
// falls back to UTF-8.
const (
	Auto Encoding = iota
	UTF8
	UTF16
)

// ParseEncoding resolves a configuration name such as "utf8" or "utf-16".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "") {
	case "", "auto":
		return Auto, nil
	case "utf8":
		return UTF8, nil
	case "utf16", "utf16le":
		return UTF16, nil
	}
	return 0, fmt.Errorf("%w: encoding %q", internalerr.ErrInvalidInput, s)
}

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf8"
	case UTF16:
		return "utf16"
	}
	return "auto"
}

// Options configures a Reader.
type Options struct {
	Format    Format
	Separator string // word/tag separator for Tagged; FIRE defaults to `\`
	Encoding  Encoding
	// KeepEmpty makes line-based formats return an empty utterance for a
	// blank line, keeping results aligned with a parallel text file.
	KeepEmpty bool
}

func (o Options) separator() string {
	if o.Separator != "" {
		return o.Separator
	}
	if o.Format == FIRE {
		return `\`
	}
	return "/"
}

// SplitToken splits a word<sep>tag token at the last occurrence of sep.
// The tag is upper-cased; a token without sep has no tag.
func SplitToken(tok, sep string) Token {
	i := strings.LastIndex(tok, sep)
	if i < 0 {
		return Token{Word: tok}
	}
	return Token{Word: tok[:i], Tag: strings.ToUpper(tok[i+len(sep):])}
}
