// Package chunk splits a text file into per-range files by utterance score.
package chunk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix/internalerr"
)

// Range is a score interval (Low, High]. The first range also holds Low.
type Range struct {
	Low  float64
	High float64
}

// NumRanges is the number of ten-point ranges over 0..100.
const NumRanges = 10

// Ranges returns [0,10], (10,20] ... (90,100].
func Ranges() []Range {
	out := make([]Range, NumRanges)
	for i := range out {
		out[i] = Range{Low: float64(10 * i), High: float64(10 * (i + 1))}
	}
	return out
}

// Name is the file stem for the range, e.g. "10_20".
func (r Range) Name() string {
	return fmt.Sprintf("%d_%d", int(r.Low), int(r.High))
}

// Index returns the range holding score, or -1 outside [0,100].
func Index(score float64) int {
	if score < 0 || score > 100 {
		return -1
	}
	for i := 0; i < NumRanges; i++ {
		if score <= float64(10*(i+1)) {
			return i
		}
	}
	return -1
}

// Split sends each line to sink with its range. Lines whose score falls
// outside [0,100] are dropped. lines and scores must be the same length.
func Split(lines []string, scores []float64, sink func(Range, string) error) error {
	if len(lines) != len(scores) {
		return fmt.Errorf("%w: %d lines but %d scores", internalerr.ErrInvalidInput, len(lines), len(scores))
	}
	ranges := Ranges()
	for i, line := range lines {
		idx := Index(scores[i])
		if idx < 0 {
			continue
		}
		if err := sink(ranges[idx], line); err != nil {
			return err
		}
	}
	return nil
}

// WriteFiles creates dir/<range>.txt for every range (empty ones included)
// and returns how many lines each received.
func WriteFiles(dir string, lines []string, scores []float64) (map[string]int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	files := make(map[string]*os.File, NumRanges)
	writers := make(map[string]*bufio.Writer, NumRanges)
	counts := make(map[string]int, NumRanges)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, r := range Ranges() {
		f, err := os.Create(filepath.Join(dir, r.Name()+".txt"))
		if err != nil {
			return nil, err
		}
		files[r.Name()] = f
		writers[r.Name()] = bufio.NewWriter(f)
		counts[r.Name()] = 0
	}

	err := Split(lines, scores, func(r Range, line string) error {
		counts[r.Name()]++
		_, err := writers[r.Name()].WriteString(line + "\n")
		return err
	})
	if err != nil {
		return nil, err
	}
	for name, w := range writers {
		if err := w.Flush(); err != nil {
			return nil, err
		}
		if err := files[name].Close(); err != nil {
			return nil, err
		}
		delete(files, name)
	}
	return counts, nil
}

// ReadLines returns the lines of r without trailing newlines.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// ReadScores parses one number per line. Blank lines are errors so that
// scores stay aligned with their text lines.
func ReadScores(r io.Reader) ([]float64, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(lines))
	for i, l := range lines {
		v, err := strconv.ParseFloat(strings.TrimSpace(l), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: score line %d: %v", internalerr.ErrInvalidInput, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
