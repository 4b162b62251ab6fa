package diag

import (
	"testing"

	"diagen/internal/source"
)

func TestBag_Limit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "a")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(SynUnexpectedToken, source.Span{}, "b")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(SynUnexpectedToken, source.Span{}, "c")) {
		t.Error("add beyond capacity must return false")
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestBag_HasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevInfo, SymWrapped, source.Span{}, "wrapped"))
	if b.HasErrors() {
		t.Error("info finding must not count as error")
	}
	if b.HasWarnings() {
		t.Error("info finding must not count as warning")
	}
	b.Add(New(SevError, SecForbiddenCall, source.Span{}, "exec"))
	if !b.HasErrors() {
		t.Error("error finding not detected")
	}
}

func TestBag_SortDeterministic(t *testing.T) {
	mk := func(start uint32, sev Severity, code Code) Finding {
		return New(sev, code, source.Span{Start: start, End: start + 1}, "m")
	}
	b := NewBag(10)
	b.Add(mk(5, SevInfo, SymWrapped))
	b.Add(mk(1, SevError, SecForbiddenCall))
	b.Add(mk(5, SevError, SynUnexpectedToken))
	b.Sort()

	items := b.Items()
	if items[0].Primary.Start != 1 {
		t.Errorf("first item start = %d, want 1", items[0].Primary.Start)
	}
	// same span: higher severity first
	if items[1].Severity != SevError || items[2].Severity != SevInfo {
		t.Error("same-span ordering must put errors before infos")
	}
}

func TestCode_Category(t *testing.T) {
	tests := []struct {
		code Code
		want Category
	}{
		{LexUnterminatedString, CategorySyntax},
		{SynUnexpectedToken, CategorySyntax},
		{StructNoDiagram, CategoryStructure},
		{SizeTooManyComponents, CategorySizeLimit},
		{SecForbiddenCall, CategoryForbidden},
		{SymWrapped, CategoryUnknownSymbol},
		{ExecTimeout, CategoryExecution},
		{RenderFailed, CategoryRender},
		{UnknownCode, CategoryUnknown},
	}
	for _, tt := range tests {
		if got := tt.code.Category(); got != tt.want {
			t.Errorf("%v.Category() = %v, want %v", tt.code, got, tt.want)
		}
	}
}
