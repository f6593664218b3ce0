package sema

import (
	"fmt"

	"adalower/internal/ast"
	"adalower/internal/checks"
	"adalower/internal/diag"
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// applyConstraint layers a written constraint over base, producing a fresh
// anonymous subtype (LRM 3.3's subtype = base type + constraint model).
// Only a range constraint produces a new subtype; digits, index and
// discriminant constraints are neither recorded nor checked, and base is
// returned unchanged for them.
func (c *checker) applyConstraint(scope symbols.ScopeID, base types.TypeID, id ast.ConstraintID) types.TypeID {
	con := c.tree.Constraints.Get(id)
	if con == nil {
		return base
	}
	baseType, ok := c.interner.Lookup(c.interner.Resolve(base))
	if !ok {
		return base
	}
	switch con.Kind {
	case ast.ConstraintRange:
		rc := c.tree.Constraints.Ranges.Get(uint32(con.Payload))
		if rc == nil {
			return base
		}
		low := c.evalStaticBound(scope, rc.Low)
		high := c.evalStaticBound(scope, rc.High)
		if !baseType.Kind.IsDiscrete() && baseType.Kind != types.KindFloatingPoint && baseType.Kind != types.KindFixedPoint {
			c.reportAtSpan(diag.SemaExpectDiscreteType, con.Span, "range constraint requires a scalar base type")
			return base
		}
		if low != nil && high != nil && baseType.Low != nil && baseType.High != nil {
			if low.Cmp(baseType.Low) < 0 || high.Cmp(baseType.High) > 0 {
				c.reportAtSpan(diag.SemaRangeViolation, con.Span, "range constraint is not within the base type's range")
			}
		}
		return c.interner.InternNominal(types.Type{
			Kind: types.KindSubtype, Name: "", Base: base, Low: low, High: high,
		})
	case ast.ConstraintDigits, ast.ConstraintIndex, ast.ConstraintDiscriminant:
		// Not applied; see doc comment above.
		return base
	default:
		return base
	}
}

// checkAssignable verifies that a value of type src can initialize or be
// assigned to a target of type dst (LRM 5.2): the two must share a
// resolved base type, unless src is still universal, in which case it
// reports nothing here (a static literal's range is checked separately by
// checkRangeOf).
func (c *checker) checkAssignable(span source.Span, dst, src types.TypeID) {
	if dst == types.NoTypeID || src == types.NoTypeID {
		return
	}
	builtins := c.interner.Builtins()
	if src == builtins.UniversalInt || src == builtins.UniversalReal {
		return
	}
	if c.interner.Resolve(dst) != c.interner.Resolve(src) {
		c.reportAtSpan(diag.SemaTypeMismatch, span, "expression type does not match the target's type")
	}
}

// checkRangeOf verifies a static universal literal expression against a
// scalar type's bounds, reporting SemaLiteralOutOfRange unless RANGE_CHECK
// is suppressed in the current declarative region.
func (c *checker) checkRangeOf(span source.Span, id ast.ExprID, dst types.TypeID) {
	v := c.evalStaticInt(id)
	if v == nil || c.suppress.IsSuppressed(checks.Range) {
		return
	}
	t, ok := c.interner.Lookup(c.interner.Resolve(dst))
	if !ok || t.Low == nil || t.High == nil {
		return
	}
	if v.Cmp(t.Low) < 0 || v.Cmp(t.High) > 0 {
		c.reportAtSpan(diag.SemaLiteralOutOfRange, span, fmt.Sprintf("value %s is outside the range of %s", v, t.Name))
	}
}
