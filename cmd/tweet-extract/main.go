package main

import (
	"flag"
	"log"
	"os"

	"github.com/cognicore/codemix/internal/tweets"
)

func main() {
	var (
		input   = flag.String("input", "", "Tweet export, JSON array or JSONL (required)")
		textOut = flag.String("text-out", "text.txt", "Output for tweet text without mentions")
		tagsOut = flag.String("tags-out", "lang_tagged_text.txt", "Output for language tag lines")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	items, err := tweets.Load(*input)
	if err != nil {
		log.Fatalf("load tweets: %v", err)
	}

	tf, err := os.Create(*textOut)
	if err != nil {
		log.Fatalf("create %s: %v", *textOut, err)
	}
	defer tf.Close()
	gf, err := os.Create(*tagsOut)
	if err != nil {
		log.Fatalf("create %s: %v", *tagsOut, err)
	}
	defer gf.Close()

	if err := tweets.WriteLines(items, tf, gf); err != nil {
		log.Fatalf("write: %v", err)
	}
	log.Printf("extracted %d tweets", len(items))
}
