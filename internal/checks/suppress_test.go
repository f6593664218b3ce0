package checks

import "testing"

func TestLookupIsCaseInsensitive(t *testing.T) {
	k, ok := Lookup("range_check")
	if !ok || k != Range {
		t.Fatalf("Lookup(range_check) = %v, %v, want Range, true", k, ok)
	}
	k, ok = Lookup("Overflow_Check")
	if !ok || k != Overflow {
		t.Fatalf("Lookup(Overflow_Check) = %v, %v, want Overflow, true", k, ok)
	}
	if _, ok := Lookup("NOT_A_CHECK"); ok {
		t.Fatalf("Lookup(NOT_A_CHECK) found a kind, want false")
	}
}

func TestMaskSuppressIsMonotonic(t *testing.T) {
	var m Mask
	if m.IsSuppressed(Range) {
		t.Fatalf("zero Mask already suppresses Range")
	}
	m = m.Suppress(Range)
	if !m.IsSuppressed(Range) {
		t.Fatalf("Mask.Suppress(Range) did not take effect")
	}
	if m.IsSuppressed(Overflow) {
		t.Fatalf("Mask.Suppress(Range) leaked into Overflow")
	}
	m = m.Suppress(Overflow)
	if !m.IsSuppressed(Range) || !m.IsSuppressed(Overflow) {
		t.Fatalf("Mask.Suppress(Overflow) lost the earlier Range suppression")
	}
}

func TestScopeInheritsFromParent(t *testing.T) {
	outer := NewScope(nil)
	outer.Apply(Overflow)

	inner := NewScope(outer)
	if !inner.IsSuppressed(Overflow) {
		t.Fatalf("inner scope did not inherit Overflow suppression from its parent")
	}
	if inner.IsSuppressed(Range) {
		t.Fatalf("inner scope reports Range suppressed, parent never suppressed it")
	}

	inner.Apply(Range)
	if !inner.IsSuppressed(Range) {
		t.Fatalf("inner scope's own Apply(Range) did not take effect")
	}
	if outer.IsSuppressed(Range) {
		t.Fatalf("inner scope's Apply(Range) leaked back into its parent")
	}
}

func TestNilScopeSuppressesNothing(t *testing.T) {
	var s *Scope
	if s.IsSuppressed(Range) {
		t.Fatalf("nil *Scope reports a check suppressed, want false for every kind")
	}
}
