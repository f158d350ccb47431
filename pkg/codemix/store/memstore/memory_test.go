package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/codemix/pkg/codemix/cmi"
	"github.com/cognicore/codemix/pkg/codemix/internalerr"
	"github.com/cognicore/codemix/pkg/codemix/store"
)

func TestReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := store.Report{
		ID:        "01A",
		Kind:      store.KindCMI,
		Corpus:    "test",
		Tagset:    "csws14",
		CreatedAt: time.Unix(100, 0),
		Stats: cmi.Stats{
			Utterances: 2,
			TagTotals:  []cmi.TagTotal{{Tag: "LANG1", Count: 3}},
		},
	}
	if err := s.SaveReport(ctx, r); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	r.Stats.TagTotals[0].Count = 99

	got, err := s.GetReport(ctx, "01A")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Stats.TagTotals[0].Count != 3 {
		t.Fatalf("stored tag total = %d, want 3", got.Stats.TagTotals[0].Count)
	}

	if _, err := s.GetReport(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.SaveReport(ctx, store.Report{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestListReportsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, c := range []string{"a", "b", "a"} {
		r := store.Report{ID: string(rune('x' + i)), Corpus: c, CreatedAt: time.Unix(int64(i), 0)}
		if err := s.SaveReport(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.ListReports(ctx, "", 0)
	if len(all) != 3 || all[0].ID != "z" {
		t.Fatalf("all = %+v", all)
	}
	onlyA, _ := s.ListReports(ctx, "a", 1)
	if len(onlyA) != 1 || onlyA[0].ID != "z" {
		t.Fatalf("filtered = %+v", onlyA)
	}
}

func TestUtterances(t *testing.T) {
	ctx := context.Background()
	s := New()

	rows := []store.UtteranceRow{{Index: 1, Cu: 0.5}, {Index: 0, Cu: 0}}
	if err := s.SaveUtterances(ctx, "nope", rows); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	s.SaveReport(ctx, store.Report{ID: "r"})
	if err := s.SaveUtterances(ctx, "r", rows); err != nil {
		t.Fatalf("SaveUtterances: %v", err)
	}
	got, err := s.Utterances(ctx, "r")
	if err != nil {
		t.Fatalf("Utterances: %v", err)
	}
	if len(got) != 2 || got[0].Index != 0 || got[1].Cu != 0.5 {
		t.Fatalf("rows = %+v", got)
	}
}
