package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag accumulates findings for one candidate, bounded by a maximum.
type Bag struct {
	items []Finding
	max   uint16
}

// NewBag creates a bag that holds at most max findings.
func NewBag(max int) *Bag {
	m, err := safecast.Conv[uint16](max)
	if err != nil {
		panic(fmt.Errorf("bag capacity overflow: %w", err))
	}
	return &Bag{
		items: make([]Finding, 0, max),
		max:   m,
	}
}

// Add appends a finding, honoring the limit. Returns false when the bag is full.
func (b *Bag) Add(f Finding) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, f)
	return true
}

// HasErrors reports whether any finding has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any finding has Severity >= Warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the findings.
// Callers must not modify the returned slice.
func (b *Bag) Items() []Finding {
	return b.items
}

// Merge appends the findings of other, growing max when needed.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if m, err := safecast.Conv[uint16](newTotal); err == nil && m > b.max {
		b.max = m
	}
	b.items = append(b.items, other.items...)
}

// Sort orders findings by file, start, end, severity (desc), code (asc)
// so report contents are deterministic for identical input.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		fi, fj := b.items[i], b.items[j]
		if fi.Primary.File != fj.Primary.File {
			return fi.Primary.File < fj.Primary.File
		}
		if fi.Primary.Start != fj.Primary.Start {
			return fi.Primary.Start < fj.Primary.Start
		}
		if fi.Primary.End != fj.Primary.End {
			return fi.Primary.End < fj.Primary.End
		}
		if fi.Severity != fj.Severity {
			return fi.Severity > fj.Severity
		}
		return fi.Code < fj.Code
	})
}
