package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

const maxLine = 4 << 20

// Reader yields utterances one at a time so that large corpora never need
// to be held in memory.
type Reader struct {
	sc   *bufio.Scanner
	opts Options
	line int

	// row-per-token formats group consecutive rows sharing an id
	pendingID string
	pending   Utterance
	done      bool
}

// NewReader decodes r according to opts.
func NewReader(r io.Reader, opts Options) *Reader {
	sc := bufio.NewScanner(transform.NewReader(r, decoder(opts.Encoding)))
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc, opts: opts}
}

func decoder(enc Encoding) transform.Transformer {
	switch enc {
	case UTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF8:
		return unicode.UTF8BOM.NewDecoder()
	}
	return unicode.BOMOverride(unicode.UTF8.NewDecoder())
}

// Next returns the next utterance, or io.EOF. Blank lines are skipped
// unless Options.KeepEmpty is set.
func (r *Reader) Next() (Utterance, error) {
	switch r.opts.Format {
	case CSWS14, CSWS16:
		return r.nextGrouped()
	}
	for r.sc.Scan() {
		r.line++
		fields := strings.Fields(norm.NFC.String(r.sc.Text()))
		if len(fields) == 0 {
			if r.opts.KeepEmpty {
				return Utterance{}, nil
			}
			continue
		}
		return r.parseLine(fields), nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	return nil, io.EOF
}

func (r *Reader) parseLine(fields []string) Utterance {
	u := make(Utterance, 0, len(fields))
	sep := r.opts.separator()
	for _, f := range fields {
		switch r.opts.Format {
		case Tags:
			u = append(u, Token{Tag: strings.ToUpper(f)})
		case FIRE:
			head, _, _ := strings.Cut(f, "=")
			u = append(u, SplitToken(head, sep))
		default:
			u = append(u, SplitToken(f, sep))
		}
	}
	return u
}

func (r *Reader) nextGrouped() (Utterance, error) {
	if r.done {
		return nil, io.EOF
	}
	for r.sc.Scan() {
		r.line++
		items := strings.Fields(norm.NFC.String(r.sc.Text()))
		if len(items) == 0 {
			continue
		}
		id, tok, err := r.parseRow(items)
		if err != nil {
			return nil, err
		}
		if len(r.pending) > 0 && id != r.pendingID {
			out := r.pending
			r.pending = Utterance{tok}
			r.pendingID = id
			return out, nil
		}
		r.pendingID = id
		r.pending = append(r.pending, tok)
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	r.done = true
	if len(r.pending) == 0 {
		return nil, io.EOF
	}
	out := r.pending
	r.pending = nil
	return out, nil
}

// parseRow converts one offset row. Words keep the message id prefix of the
// shared-task exports ("id:start-end" or "id:token").
func (r *Reader) parseRow(items []string) (string, Token, error) {
	id := items[0]
	switch r.opts.Format {
	case CSWS14:
		if len(items) < 5 {
			return "", Token{}, fmt.Errorf("%w: line %d: want 5 columns, got %d",
				internalerr.ErrInvalidInput, r.line, len(items))
		}
		return id, Token{
			Word: id + ":" + items[2] + "-" + items[3],
			Tag:  strings.ToUpper(items[4]),
		}, nil
	default:
		if len(items) < 3 {
			return "", Token{}, fmt.Errorf("%w: line %d: want at least 3 columns, got %d",
				internalerr.ErrInvalidInput, r.line, len(items))
		}
		return id, Token{
			Word: id + ":" + items[len(items)-2],
			Tag:  strings.ToUpper(items[len(items)-1]),
		}, nil
	}
}

// ReadAll drains r into memory.
func ReadAll(r io.Reader, opts Options) ([]Utterance, error) {
	rd := NewReader(r, opts)
	var out []Utterance
	for {
		u, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
}

// File is a Reader over an open corpus file.
type File struct {
	*Reader
	f *os.File
}

// Open opens a corpus file for streaming.
func Open(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	return &File{Reader: NewReader(f, opts), f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}
