package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cognicore/codemix/pkg/codemix"
	"github.com/cognicore/codemix/pkg/codemix/config"
	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/report"
	"github.com/cognicore/codemix/pkg/codemix/store"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML configuration")
		corpora    = flag.String("corpus", "", "Comma-separated catalog ids, or \"all\"")
		input      = flag.String("input", "", "Ad hoc corpus file (instead of -corpus)")
		tagsetName = flag.String("tagset", "", "Tagset for -input: das, nita, nd, vyas, fire, csws14, csws16, tweet")
		format     = flag.String("format", "tagged", "Layout for -input: tagged, fire, csws14, csws16, tags")
		sep        = flag.String("sep", "", "Word/tag separator for -input")
		encoding   = flag.String("encoding", "auto", "Encoding for -input: auto, utf8, utf16")
		keepEmpty  = flag.Bool("keep-empty", false, "Count blank lines of -input as empty utterances")
		strict     = flag.Bool("strict", false, "Distinguish secondary language groups when tracking the matrix language")
		dbPath     = flag.String("db", "", "SQLite path to persist reports (overrides config)")
		keepRows   = flag.Bool("keep-utterances", false, "Persist per-utterance results")
		scoresOut  = flag.String("scores", "", "Write per-utterance CMI scores (50 * Cu) to this file")
		asJSON     = flag.Bool("json", false, "Print reports as JSON")
		list       = flag.Int("list", 0, "List the N most recent stored reports and exit")
		verbose    = flag.Bool("v", false, "Log tag warnings")
	)
	flag.Parse()

	ctx := context.Background()

	loader := config.Loader{ConfigPath: *configPath, StorePath: *dbPath}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	defer components.Close()

	if *list > 0 {
		listReports(ctx, components.Store, *list, *asJSON)
		return
	}

	entries, err := selectEntries(components.Catalog, *corpora, *input, *tagsetName, *format, *sep, *encoding, *keepEmpty)
	if err != nil {
		log.Fatal(err)
	}
	if *scoresOut != "" && len(entries) != 1 {
		log.Fatal("--scores needs exactly one corpus")
	}

	opts := codemix.Options{
		Store:          components.Store,
		CMI:            components.CMI,
		KeepUtterances: *keepRows || components.Config.CMI.KeepUtterances,
	}
	if *strict {
		opts.CMI.StrictSecondary = true
	}
	if *verbose {
		opts.Logger = log.Default()
	}
	engine := codemix.New(opts)

	var reports []store.Report
	for _, entry := range entries {
		an, err := engine.AnalyzeFile(ctx, entry)
		if err != nil {
			log.Fatalf("analyze %s: %v", entry.ID, err)
		}
		reports = append(reports, an.Report)
		if *scoresOut != "" {
			if err := writeScores(*scoresOut, an.Scores); err != nil {
				log.Fatalf("write scores: %v", err)
			}
		}
		if !*asJSON {
			if err := report.WriteText(os.Stdout, an.Report); err != nil {
				log.Fatalf("print report: %v", err)
			}
		}
	}

	if *asJSON {
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			log.Fatalf("marshal report: %v", err)
		}
		fmt.Println(string(out))
	}
}

func selectEntries(catalog []corpus.Entry, ids, input, tagsetName, format, sep, encoding string, keepEmpty bool) ([]corpus.Entry, error) {
	if input != "" {
		if tagsetName == "" {
			return nil, fmt.Errorf("--tagset required with --input")
		}
		ts, err := tagset.Lookup(tagsetName)
		if err != nil {
			return nil, err
		}
		f, err := corpus.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		enc, err := corpus.ParseEncoding(encoding)
		if err != nil {
			return nil, err
		}
		return []corpus.Entry{{
			ID:      input,
			File:    input,
			Tagset:  ts.ID(),
			Options: corpus.Options{Format: f, Separator: sep, Encoding: enc, KeepEmpty: keepEmpty},
		}}, nil
	}

	if ids == "" {
		return nil, fmt.Errorf("--corpus or --input required")
	}
	if ids == "all" {
		return catalog, nil
	}
	var out []corpus.Entry
	for _, id := range strings.Split(ids, ",") {
		e, err := corpus.Find(catalog, strings.TrimSpace(id))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// writeScores writes one score per line, the input format of cmi-chunks.
func writeScores(path string, scores []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, s := range scores {
		fmt.Fprintf(w, "%g\n", s)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listReports(ctx context.Context, st store.Store, limit int, asJSON bool) {
	if st == nil {
		log.Fatal("--list needs a store (--db or store.driver in config)")
	}
	reports, err := st.ListReports(ctx, "", limit)
	if err != nil {
		log.Fatalf("list reports: %v", err)
	}
	if asJSON {
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			log.Fatalf("marshal reports: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	for _, r := range reports {
		fmt.Printf("%s  %-10s  %-12s  %s  utterances=%d  Cc=%.2f\n",
			r.ID, r.Kind, r.Corpus, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Stats.Utterances, 100*r.Stats.Cc)
	}
}
