package diagnostics

import "testing"

func TestBagHasErrorsOnlyCountsErrorSeverity(t *testing.T) {
	bag := NewBag(4)
	bag.Addf(Warning, Span{}, "just a warning")
	if bag.HasErrors() {
		t.Fatal("expected HasErrors to be false with only a warning")
	}
	bag.Addf(Error, Span{}, "boom")
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors to be true after an Error diagnostic")
	}
}

func TestBagAllPreservesInsertionOrder(t *testing.T) {
	bag := NewBag(4)
	bag.Addf(Note, Span{}, "first")
	bag.Addf(Warning, Span{}, "second")
	bag.Addf(Error, Span{}, "third")
	all := bag.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(all))
	}
	if all[0].Message != "first" || all[1].Message != "second" || all[2].Message != "third" {
		t.Fatalf("diagnostics not in insertion order: %v", all)
	}
}

func TestBagErrorsAndWarningsFilterBySeverity(t *testing.T) {
	bag := NewBag(4)
	bag.Addf(Error, Span{}, "e1")
	bag.Addf(Warning, Span{}, "w1")
	bag.Addf(Error, Span{}, "e2")
	if len(bag.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(bag.Errors()))
	}
	if len(bag.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(bag.Warnings()))
	}
}

func TestDiagnosticStringIncludesPositionAndSeverity(t *testing.T) {
	d := Diagnostic{
		Severity: Error,
		Message:  "unexpected token",
		Span:     Span{Start: Position{Line: 3, Column: 7}},
	}
	want := "3:7: error: unexpected token"
	if got := d.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
