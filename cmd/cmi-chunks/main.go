package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cognicore/codemix/pkg/codemix/chunk"
)

func main() {
	var (
		textPath   = flag.String("text", "", "Text file, one utterance per line (required)")
		scoresPath = flag.String("scores", "", "CMI scores aligned with -text, one per line (required)")
		outDir     = flag.String("out", "Chunks", "Output directory for the range files")
	)
	flag.Parse()

	if *textPath == "" {
		log.Fatal("--text required")
	}
	if *scoresPath == "" {
		log.Fatal("--scores required")
	}

	lines := readLines(*textPath)
	sf, err := os.Open(*scoresPath)
	if err != nil {
		log.Fatalf("open scores: %v", err)
	}
	scores, err := chunk.ReadScores(sf)
	sf.Close()
	if err != nil {
		log.Fatalf("read scores: %v", err)
	}

	counts, err := chunk.WriteFiles(*outDir, lines, scores)
	if err != nil {
		log.Fatalf("write chunks: %v", err)
	}
	for _, r := range chunk.Ranges() {
		fmt.Printf("%-8s %6d\n", r.Name(), counts[r.Name()])
	}
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open text: %v", err)
	}
	defer f.Close()
	lines, err := chunk.ReadLines(f)
	if err != nil {
		log.Fatalf("read text: %v", err)
	}
	return lines
}
