package tools

import (
	"errors"
	"reflect"
	"testing"
)

func lookup(t *testing.T, query string) (Result, error) {
	t.Helper()
	return NewFormulaLookup().Invoke(map[string]any{"query": query})
}

func TestFormulaLookupDirect(t *testing.T) {
	res, err := lookup(t, "kinetic_energy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record, ok := res.Value.(Formula)
	if !ok {
		t.Fatalf("got %T, want Formula", res.Value)
	}
	if record.Formula != "KE = ½mv²" {
		t.Errorf("got formula %q, want %q", record.Formula, "KE = ½mv²")
	}
	if res.Metadata["lookup_type"] != "direct" {
		t.Errorf("got lookup_type %v, want direct", res.Metadata["lookup_type"])
	}
}

func TestFormulaLookupDirectIsIdempotent(t *testing.T) {
	first, err := lookup(t, "ohms_law")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := lookup(t, "ohms_law")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Value, second.Value) {
		t.Errorf("repeated lookups differ: %v vs %v", first.Value, second.Value)
	}
}

func TestFormulaLookupFuzzySingleMatch(t *testing.T) {
	res, err := lookup(t, "pythagorean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Metadata["matched_key"] != "pythagorean_theorem" {
		t.Errorf("got matched_key %v, want pythagorean_theorem", res.Metadata["matched_key"])
	}
	if res.Metadata["lookup_type"] != "fuzzy" {
		t.Errorf("got lookup_type %v, want fuzzy", res.Metadata["lookup_type"])
	}
}

func TestFormulaLookupDisambiguation(t *testing.T) {
	res, err := lookup(t, "energy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := res.Value.(Disambiguation)
	if !ok {
		t.Fatalf("got %T, want Disambiguation", res.Value)
	}
	// kinetic_energy and potential_energy both mention energy.
	if len(d.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %v", len(d.Suggestions), d.Suggestions)
	}
	if d.Suggestions[0].Key != "kinetic_energy" || d.Suggestions[1].Key != "potential_energy" {
		t.Errorf("unexpected suggestion order: %v", d.Suggestions)
	}
}

func TestFormulaLookupNotFound(t *testing.T) {
	_, err := lookup(t, "zzz qqq")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFormulaLookupAllReturnsCopy(t *testing.T) {
	fl := NewFormulaLookup()
	all := fl.All()
	if len(all) != 10 {
		t.Fatalf("got %d formulas, want 10", len(all))
	}
	delete(all, "force")
	if _, err := fl.Invoke(map[string]any{"query": "force"}); err != nil {
		t.Errorf("table mutated through All(): %v", err)
	}
}
