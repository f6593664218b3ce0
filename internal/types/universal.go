package types

import "math/big"

// Universal is an unresolved numeric literal value: an arbitrary-precision
// integer or rational with no fixed representation yet (LRM 3.5.4, 4.9). It
// stays universal until context forces it into a specific numeric type,
// at which point the analyzer range-checks it against that type's bounds.
type Universal struct {
	IsReal bool
	Int    *big.Int // valid when !IsReal
	Real   *big.Rat // valid when IsReal
}

func UniversalFromInt(v *big.Int) Universal {
	return Universal{Int: new(big.Int).Set(v)}
}

func UniversalFromRat(v *big.Rat) Universal {
	return Universal{IsReal: true, Real: new(big.Rat).Set(v)}
}

// Add, Sub, Mul implement the universal arithmetic that static expression
// folding performs on literal operands before any type is assigned; mixing
// an integer and a real universal promotes the integer side, mirroring
// the implicit convertibility of universal_integer to universal_real
// within a non-static context only when the other operand is already real.
func (u Universal) Add(v Universal) Universal { return u.arith(v, (*big.Int).Add, (*big.Rat).Add) }
func (u Universal) Sub(v Universal) Universal { return u.arith(v, (*big.Int).Sub, (*big.Rat).Sub) }
func (u Universal) Mul(v Universal) Universal { return u.arith(v, (*big.Int).Mul, (*big.Rat).Mul) }

func (u Universal) arith(v Universal, intOp func(z, x, y *big.Int) *big.Int, ratOp func(z, x, y *big.Rat) *big.Rat) Universal {
	if !u.IsReal && !v.IsReal {
		return Universal{Int: intOp(new(big.Int), u.Int, v.Int)}
	}
	return Universal{IsReal: true, Real: ratOp(new(big.Rat), u.asRat(), v.asRat())}
}

func (u Universal) asRat() *big.Rat {
	if u.IsReal {
		return u.Real
	}
	return new(big.Rat).SetInt(u.Int)
}

func (u Universal) Neg() Universal {
	if u.IsReal {
		return Universal{IsReal: true, Real: new(big.Rat).Neg(u.Real)}
	}
	return Universal{Int: new(big.Int).Neg(u.Int)}
}

// Div performs universal real division, or universal integer truncating
// division when both operands are integral (LRM 4.5.5's "/" for integer
// types, truncation toward zero).
func (u Universal) Div(v Universal) Universal {
	if !u.IsReal && !v.IsReal {
		q := new(big.Int)
		q.Quo(u.Int, v.Int)
		return Universal{Int: q}
	}
	return Universal{IsReal: true, Real: new(big.Rat).Quo(u.asRat(), v.asRat())}
}

// FitsIn reports whether an integral universal value lies within a
// discrete type's static bounds, used to range-check a literal against its
// expected type without ever materializing the literal at machine width.
func (u Universal) FitsIn(t *Type) bool {
	if u.IsReal || t.Low == nil || t.High == nil {
		return true
	}
	return u.Int.Cmp(t.Low) >= 0 && u.Int.Cmp(t.High) <= 0
}

// String renders the universal value for diagnostics.
func (u Universal) String() string {
	if u.IsReal {
		f, _ := u.Real.Float64()
		return big.NewFloat(f).Text('g', -1)
	}
	return u.Int.String()
}
