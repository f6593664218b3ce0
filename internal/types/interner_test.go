package types

import (
	"math/big"
	"testing"
)

func TestUniversalTypesAreSingletons(t *testing.T) {
	in := NewInterner()
	again := in.internScalar(Type{Kind: KindUniversalInteger, Name: "universal_integer"})
	if again != in.Builtins().UniversalInt {
		t.Fatalf("internScalar reallocated a universal type: got %d, want %d", again, in.Builtins().UniversalInt)
	}
}

func TestInternNominalAlwaysFresh(t *testing.T) {
	in := NewInterner()
	a := in.InternNominal(Type{Kind: KindInteger, Name: "MY_INT", Low: big.NewInt(0), High: big.NewInt(10)})
	b := in.InternNominal(Type{Kind: KindInteger, Name: "MY_INT", Low: big.NewInt(0), High: big.NewInt(10)})
	if a == b {
		t.Fatalf("InternNominal deduplicated two structurally identical declarations: both got id %d", a)
	}
}

func TestResolveFollowsSubtypeChain(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if in.Resolve(b.Natural) != b.Integer {
		t.Fatalf("Resolve(NATURAL) = %d, want %d (INTEGER)", in.Resolve(b.Natural), b.Integer)
	}
	if in.Resolve(b.Integer) != b.Integer {
		t.Fatalf("Resolve(INTEGER) should be idempotent")
	}
}

func TestEvalDiscreteAttributeEnumeration(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	first, err := in.EvalDiscreteAttribute(b.Boolean, "FIRST", nil)
	if err != nil {
		t.Fatalf("FIRST: %v", err)
	}
	if first.Name != "FALSE" {
		t.Fatalf("BOOLEAN'FIRST = %q, want FALSE", first.Name)
	}

	last, err := in.EvalDiscreteAttribute(b.Boolean, "LAST", nil)
	if err != nil {
		t.Fatalf("LAST: %v", err)
	}
	if last.Name != "TRUE" {
		t.Fatalf("BOOLEAN'LAST = %q, want TRUE", last.Name)
	}

	val, err := in.EvalDiscreteAttribute(b.Boolean, "VAL", big.NewInt(1))
	if err != nil {
		t.Fatalf("VAL: %v", err)
	}
	if val.Name != "TRUE" {
		t.Fatalf("BOOLEAN'VAL(1) = %q, want TRUE", val.Name)
	}
}

func TestEvalDiscreteAttributeSuccPred(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	succ, err := in.EvalDiscreteAttribute(b.Integer, "SUCC", big.NewInt(5))
	if err != nil {
		t.Fatalf("SUCC: %v", err)
	}
	if succ.Int.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("INTEGER'SUCC(5) = %s, want 6", succ.Int)
	}

	pred, err := in.EvalDiscreteAttribute(b.Integer, "PRED", big.NewInt(5))
	if err != nil {
		t.Fatalf("PRED: %v", err)
	}
	if pred.Int.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("INTEGER'PRED(5) = %s, want 4", pred.Int)
	}
}

func TestUniversalArithmetic(t *testing.T) {
	a := UniversalFromInt(big.NewInt(3))
	b := UniversalFromInt(big.NewInt(4))
	sum := a.Add(b)
	if sum.IsReal || sum.Int.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("3 + 4 = %s, want 7", sum)
	}

	r := UniversalFromRat(big.NewRat(1, 2))
	mixed := a.Add(r)
	if !mixed.IsReal {
		t.Fatalf("integer + real universal should promote to real")
	}
}

func TestFixedPointCanonicalSmall(t *testing.T) {
	delta := big.NewRat(1, 100) // 0.01
	small := CanonicalSmall(delta)
	if small.Cmp(delta) > 0 {
		t.Fatalf("'SMALL %s must not exceed delta %s", small, delta)
	}
	twice := new(big.Rat).Mul(small, big.NewRat(2, 1))
	if twice.Cmp(delta) <= 0 {
		t.Fatalf("'SMALL %s is not the largest power of two below delta %s", small, delta)
	}
}

func TestFixedPointBoundsBracketDeclaredRange(t *testing.T) {
	delta := big.NewRat(1, 100)
	small := CanonicalSmall(delta)
	low, high := FixedPointBounds(big.NewRat(0, 1), big.NewRat(100, 1), small)
	if low.Sign() < 0 {
		t.Fatalf("low bound %s should not go below the declared range", low)
	}
	if high.Sign() <= 0 {
		t.Fatalf("high bound %s should cover the declared range", high)
	}
}
