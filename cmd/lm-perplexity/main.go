package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/cognicore/codemix/pkg/codemix"
	"github.com/cognicore/codemix/pkg/codemix/config"
	"github.com/cognicore/codemix/pkg/codemix/ngram"
	"github.com/cognicore/codemix/pkg/codemix/report"
	"github.com/cognicore/codemix/pkg/codemix/textprep"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML configuration")
		input      = flag.String("input", "", "Training text, one utterance per line (required)")
		test       = flag.String("test", "", "Evaluation text (defaults to -input)")
		name       = flag.String("name", "", "Report name (defaults to the input file name)")
		smoothing  = flag.String("smoothing", "", "none or laplace (overrides config)")
		noStem     = flag.Bool("no-stem", false, "Disable stemming")
		raw        = flag.Bool("raw", false, "Disable all preprocessing except tokenization")
		dbPath     = flag.String("db", "", "SQLite path to persist the report (overrides config)")
		asJSON     = flag.Bool("json", false, "Print the report as JSON")
		verbose    = flag.Bool("v", false, "Log orders that could not be evaluated")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	ctx := context.Background()

	loader := config.Loader{ConfigPath: *configPath, StorePath: *dbPath}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	defer components.Close()

	sm := components.Smoothing
	if *smoothing != "" {
		if sm, err = ngram.ParseSmoothing(*smoothing); err != nil {
			log.Fatal(err)
		}
	}

	prep := components.Prep
	if *noStem || *raw {
		opts := prep.Options()
		if *raw {
			opts = textprep.Options{Language: opts.Language}
		}
		opts.Stem = false
		if prep, err = textprep.New(opts); err != nil {
			log.Fatalf("text options: %v", err)
		}
	}

	reportName := *name
	if reportName == "" {
		reportName = filepath.Base(*input)
	}

	engineOpts := codemix.Options{Store: components.Store}
	if *verbose {
		engineOpts.Logger = log.Default()
	}
	engine := codemix.New(engineOpts)

	rep, err := engine.PerplexityFiles(ctx, reportName, *input, *test, prep, sm)
	if err != nil {
		log.Fatalf("perplexity: %v", err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatalf("marshal report: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	if err := report.WritePerplexity(os.Stdout, rep); err != nil {
		log.Fatalf("print report: %v", err)
	}
}
