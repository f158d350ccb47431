package tweets

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// Tweet is a language-tagged tweet export record.
type Tweet struct {
	Text           string `json:"text"`
	LangTaggedText string `json:"lang_tagged_text"`
}

// Load reads a JSON array of tweets, or one tweet per line (JSONL).
// Malformed JSONL lines are logged and skipped.
func Load(path string) ([]Tweet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tweets []Tweet
		if err := json.Unmarshal(trimmed, &tweets); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidInput, path, err)
		}
		return tweets, nil
	}

	var tweets []Tweet
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var tw Tweet
		if err := json.Unmarshal([]byte(line), &tw); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		tweets = append(tweets, tw)
	}

	if len(tweets) == 0 {
		return nil, fmt.Errorf("%w: no valid tweets found in %s", internalerr.ErrInvalidInput, path)
	}
	return tweets, nil
}

// Extract returns the plain text without @mentions and the sequence of
// language tags. Non-ASCII characters are dropped from both. In the tagged
// text a mention is skipped together with the token after it (its tag),
// and every other token contributes its last two characters.
func Extract(tw Tweet) (text, tags string) {
	var words []string
	for _, w := range strings.Fields(asciiOnly(tw.Text)) {
		if w[0] != '@' {
			words = append(words, w)
		}
	}

	var out []string
	ltt := strings.Fields(asciiOnly(tw.LangTaggedText))
	for i := 0; i < len(ltt); {
		tok := ltt[i]
		if tok[0] == '@' {
			i += 2
			continue
		}
		if len(tok) > 2 {
			tok = tok[len(tok)-2:]
		}
		out = append(out, tok)
		i++
	}
	return strings.Join(words, " "), strings.Join(out, " ")
}

func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// WriteLines writes one text line and one tag line per tweet.
func WriteLines(tweets []Tweet, text, tags io.Writer) error {
	tw := bufio.NewWriter(text)
	gw := bufio.NewWriter(tags)
	for _, t := range tweets {
		txt, tg := Extract(t)
		if _, err := tw.WriteString(txt + "\n"); err != nil {
			return err
		}
		if _, err := gw.WriteString(tg + "\n"); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return gw.Flush()
}
