package common

import (
	"errors"
	"testing"
)

func TestErrorSetFirstMessageWins(t *testing.T) {
	var es ErrorSet
	es = es.Add("title", "first")
	es = es.Add("title", "second")
	if es["title"] != "first" {
		t.Fatalf("later messages must not overwrite, got %q", es["title"])
	}
}

func TestErrorSetErrorIsDeterministic(t *testing.T) {
	es := ErrorSet{}.Add("b", "two").Add("a", "one").AddRecord("zero")
	want := "_record: zero; a: one; b: two"
	for i := 0; i < 5; i++ {
		if got := es.Error(); got != want {
			t.Fatalf("iteration %d: got %q, want %q", i, got, want)
		}
	}
}

func TestErrorSetUnwrap(t *testing.T) {
	es := ErrorSet{}.Add("a", "one")
	if !errors.Is(es, ErrValidation) {
		t.Fatalf("ErrorSet should wrap ErrValidation")
	}
}

func TestReportCounters(t *testing.T) {
	r := &Report{}
	r.RecordCreated()
	r.RecordCreated()
	r.RecordSkipped()
	r.RecordFailure(3, ErrorSet{}.Add("date", "invalid format"))

	if r.CreatedCount != 2 || r.SkippedCount != 1 {
		t.Fatalf("counters wrong: %+v", r)
	}
	if len(r.RowErrors) != 1 || r.RowErrors[0].RowIndex != 3 {
		t.Fatalf("row errors wrong: %+v", r.RowErrors)
	}
}
