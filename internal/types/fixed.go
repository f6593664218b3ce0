package types

import "math/big"

// CanonicalSmall computes the 'SMALL value implied by a fixed point type's
// delta when no representation clause overrides it: the largest power of
// two not greater than delta (LRM 3.5.9(9)). Implementations are permitted
// to choose any such power; picking the largest keeps 'SMALL as close to
// delta as LRM 3.5.10 recommends.
func CanonicalSmall(delta *big.Rat) *big.Rat {
	if delta.Sign() <= 0 {
		return new(big.Rat).SetInt64(1)
	}
	one := new(big.Rat).SetInt64(1)
	two := new(big.Rat).SetInt64(2)
	small := new(big.Rat).Set(one)
	if delta.Cmp(one) >= 0 {
		for {
			next := new(big.Rat).Mul(small, two)
			if next.Cmp(delta) > 0 {
				return small
			}
			small = next
		}
	}
	for small.Cmp(delta) > 0 {
		small = new(big.Rat).Quo(small, two)
	}
	return small
}

// FixedPointBounds converts a fixed point type's declared real range into
// the integer bounds of its underlying scaled representation: value/small
// rounded inward to a whole number, per LRM 3.5.9(8). Low
// rounds up (away from -inf) and High rounds down, so the resulting integer
// range never admits a value outside the declared real range.
func FixedPointBounds(low, high, small *big.Rat) (lowScaled, highScaled *big.Int) {
	return ratDivCeil(low, small), ratDivFloor(high, small)
}

func ratDivFloor(a, b *big.Rat) *big.Int {
	q := new(big.Rat).Quo(a, b)
	num, den := q.Num(), q.Denom()
	z := new(big.Int)
	z.Div(num, den)
	return z
}

func ratDivCeil(a, b *big.Rat) *big.Int {
	q := new(big.Rat).Quo(a, b)
	if q.IsInt() {
		return q.Num()
	}
	floor := ratDivFloor(a, b)
	return new(big.Int).Add(floor, big.NewInt(1))
}

// NewFixedPointType builds a KindFixedPoint descriptor with Delta, Small
// canonicalized per LRM 3.5.9, and Low/High set to the scaled integer
// bounds representing the declared real range.
func NewFixedPointType(name string, delta, rangeLow, rangeHigh *big.Rat) Type {
	small := CanonicalSmall(delta)
	lo, hi := FixedPointBounds(rangeLow, rangeHigh, small)
	return Type{
		Kind:  KindFixedPoint,
		Name:  name,
		Delta: new(big.Rat).Set(delta),
		Small: small,
		Low:   lo,
		High:  hi,
	}
}
