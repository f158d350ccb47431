package codemix

import (
	"bytes"
	"context"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/corpus"
	"github.com/cognicore/codemix/pkg/codemix/ngram"
	"github.com/cognicore/codemix/pkg/codemix/store"
	"github.com/cognicore/codemix/pkg/codemix/store/memstore"
	"github.com/cognicore/codemix/pkg/codemix/tagset"
	"github.com/cognicore/codemix/pkg/codemix/textprep"
)

const sampleCorpus = "hola/lang2 my/lang1 friend/lang1\nxyz/FOO ok/lang1\n"

func TestAnalyzePersistsReport(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	var logs bytes.Buffer
	eng := New(Options{Store: st, Logger: log.New(&logs, "", 0), KeepUtterances: true})
	defer eng.Close()

	src := corpus.NewReader(strings.NewReader(sampleCorpus), corpus.Options{Format: corpus.Tagged})
	an, err := eng.Analyze(ctx, "sample", tagset.CSWS14, src)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if an.Report.Stats.Utterances != 2 || an.Report.Stats.Mixed != 1 || an.Report.Stats.Warnings != 1 {
		t.Fatalf("stats = %+v", an.Report.Stats)
	}
	if len(an.Scores) != 2 || math.Abs(an.Scores[0]-100.0/3) > 1e-9 || an.Scores[1] != 0 {
		t.Fatalf("scores = %v", an.Scores)
	}
	if !strings.Contains(logs.String(), "sample: utterance 2") || !strings.Contains(logs.String(), "FOO") {
		t.Fatalf("warning not logged: %q", logs.String())
	}

	saved, err := st.GetReport(ctx, an.Report.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if saved.Kind != store.KindCMI || saved.Corpus != "sample" || saved.Tagset != "csws14" {
		t.Fatalf("saved = %+v", saved)
	}
	rows, err := st.Utterances(ctx, an.Report.ID)
	if err != nil {
		t.Fatalf("Utterances: %v", err)
	}
	if len(rows) != 2 || rows[0].Switches != 1 || rows[1].Warnings != 1 || rows[1].Matrix != "lang1" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestAnalyzeWithoutStore(t *testing.T) {
	eng := New(Options{CMI: cmi.Options{StrictSecondary: true}})
	src := corpus.NewReader(strings.NewReader("a/EN b/HI\n"), corpus.Options{})
	an, err := eng.Analyze(context.Background(), "nita", tagset.NITA, src)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if an.Report.ID == "" || an.Report.Stats.Switches != 1 {
		t.Fatalf("report = %+v", an.Report)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.txt")
	if err := os.WriteFile(path, []byte("EN HI EN\n\nUN\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	entry := corpus.Entry{ID: "tweets", File: path, Tagset: tagset.Tweet, Options: corpus.Options{Format: corpus.Tags, KeepEmpty: true}}

	an, err := New(Options{}).AnalyzeFile(context.Background(), entry)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if len(an.Scores) != 3 || an.Scores[0] != 50 {
		t.Fatalf("scores = %v", an.Scores)
	}

	entry.File = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := New(Options{}).AnalyzeFile(context.Background(), entry); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPerplexitySkipsUnseenOrders(t *testing.T) {
	st := memstore.New()
	var logs bytes.Buffer
	eng := New(Options{Store: st, Logger: log.New(&logs, "", 0)})

	train := [][]string{{"a", "b"}}
	rep, err := eng.Perplexity(context.Background(), "lm", train, [][]string{{"b", "a"}}, ngram.SmoothingNone)
	if err != nil {
		t.Fatalf("Perplexity: %v", err)
	}
	if len(rep.Perplexity) != 1 || math.Abs(rep.Perplexity["unigram"]-2) > 1e-9 {
		t.Fatalf("perplexity = %v", rep.Perplexity)
	}
	if strings.Count(logs.String(), "unseen n-gram") != 2 {
		t.Fatalf("logs = %q", logs.String())
	}
	if _, err := st.GetReport(context.Background(), rep.ID); err != nil {
		t.Fatalf("report not saved: %v", err)
	}

	if _, err := eng.Perplexity(context.Background(), "lm", train, [][]string{{"z"}}, ngram.SmoothingNone); err == nil {
		t.Fatal("expected error when no order can be evaluated")
	}
}

func TestPerplexityFiles(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.txt")
	if err := os.WriteFile(train, []byte("@x Main ghar ja raha hoon\nghar ja\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prep, err := textprep.New(textprep.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	rep, err := New(Options{}).PerplexityFiles(context.Background(), "train", train, "", prep, ngram.SmoothingLaplace)
	if err != nil {
		t.Fatalf("PerplexityFiles: %v", err)
	}
	for _, o := range ngram.Orders() {
		if v := rep.Perplexity[o.String()]; v <= 1 {
			t.Errorf("%s = %v", o, v)
		}
	}
}
