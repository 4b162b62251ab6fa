package observ

import (
	"strings"
	"testing"
)

func TestTimer(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("validate")
	tm.End(idx, "2 findings")
	tm.End(99, "ignored")

	out := tm.Summary()
	if !strings.Contains(out, "validate") || !strings.Contains(out, "// 2 findings") {
		t.Errorf("summary = %q", out)
	}
	if !strings.Contains(out, "total") {
		t.Errorf("summary lacks total: %q", out)
	}
}
