package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/ngram"
	"github.com/cognicore/codemix/pkg/codemix/store"
)

const rule = "***********************************"

// bucketLabels follow the 0-50 scale of cmi.Bucket.
var bucketLabels = [cmi.NumBuckets][2]string{
	{"Fraction 0 < C <= 10: ", "Avg P for C = (0,10]: "},
	{"Fraction 10 < C <= 20:", "Avg P for C = (10,20]:"},
	{"Fraction 20 < C <= 30:", "Avg P for C = (20,30]:"},
	{"Fraction 30 < C <= 40:", "Avg P for C = (30,40]:"},
	{"Fraction C > 40:      ", "Avg P for C > 40:     "},
}

// WriteText prints a CMI report as fixed-width text. Percentages are
// scaled by 100; lines averaging over mixed utterances are omitted when
// there are none.
func WriteText(w io.Writer, r store.Report) error {
	bw := bufio.NewWriter(w)
	s := r.Stats
	pct := func(label string, v float64) { fmt.Fprintf(bw, "%s%6.2f\n", label, 100*v) }
	num := func(label string, v float64) { fmt.Fprintf(bw, "%s%6.2f\n", label, v) }
	count := func(label string, n int) { fmt.Fprintf(bw, "%s%6d\n", label, n) }

	fmt.Fprintf(bw, "\n%s\n", rule)
	fmt.Fprintf(bw, "Language / corpus: %s\n\n", r.Corpus)
	pct("Cc:                   ", s.Cc)
	fmt.Fprintln(bw)

	count("Num of utterances:    ", s.Utterances)
	count("Num of mixed:         ", s.Mixed)
	fmt.Fprintln(bw)

	pct("Fraction non-mixed:   ", s.FractionNonMixed())
	pct("Fraction mixed:       ", s.FractionMixed())
	fmt.Fprintln(bw)

	if s.Mixed > 0 {
		pct("Average Cu mixed:     ", s.AvgCuMixed())
	}
	pct("Average Cu total:     ", s.AvgCuTotal())
	fmt.Fprintln(bw)

	count("Num of switches:      ", s.Switches)
	if s.Mixed > 0 {
		num("Average P mixed:      ", s.AvgSwitchesMixed())
	}
	num("Average P total:      ", s.AvgSwitchesTotal())
	count("Num of interswitches: ", s.InterSwitches)
	pct("Fraction interswitch: ", s.FractionInterSwitches())
	fmt.Fprintln(bw)

	for i, b := range s.Buckets {
		pct(bucketLabels[i][0], b.Fraction(s.Utterances))
		if b.Count > 0 {
			num(bucketLabels[i][1], b.AvgSwitches())
		}
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "\n******** Tags ***********  %  *****")
	total := s.TotalTags()
	for _, t := range s.TagTotals {
		share := 0.0
		if total > 0 {
			share = 100 * float64(t.Count) / float64(total)
		}
		fmt.Fprintf(bw, "%-15s %6d  %6.2f\n", t.Tag, t.Count, share)
	}
	fmt.Fprintf(bw, "Total: %15d\n", total)
	if s.Warnings > 0 {
		fmt.Fprintf(bw, "Tag warnings: %8d\n", s.Warnings)
	}
	fmt.Fprintf(bw, "\n%s\n\n\n", rule)

	return bw.Flush()
}

// WritePerplexity prints one line per model order, lowest order first.
// Keys that are not order names follow in sorted order.
func WritePerplexity(w io.Writer, r store.Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Perplexity / corpus: %s\n", r.Corpus)

	title := cases.Title(language.English)
	seen := make(map[string]bool, len(r.Perplexity))
	for _, o := range ngram.Orders() {
		name := o.String()
		if v, ok := r.Perplexity[name]; ok {
			fmt.Fprintf(bw, "%-10s %12.4f\n", title.String(name)+":", v)
			seen[name] = true
		}
	}
	var rest []string
	for k := range r.Perplexity {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Fprintf(bw, "%-10s %12.4f\n", k+":", r.Perplexity[k])
	}
	return bw.Flush()
}
