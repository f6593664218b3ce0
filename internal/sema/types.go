package sema

import (
	"math/big"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// checkTypeDecl elaborates a full type declaration (LRM 3.3.1): it builds
// the new type's descriptor from the type definition's syntax and interns
// it as a fresh nominal type, then declares the type's name (and, for an
// enumeration type, each of its literals as an overloadable function-like
// symbol per LRM 3.5.1(7)).
func (c *checker) checkTypeDecl(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.Types.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	t := c.buildTypeDef(scope, d.Name, payload.Def)
	typeID := c.interner.InternNominal(t)
	c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindType, Span: d.Span, Decl: id, Type: typeID})

	if t.Kind == types.KindEnumeration {
		for _, lit := range t.Literals {
			c.declareSymbol(scope, symbols.Symbol{
				Name: lit, Kind: symbols.KindEnumLiteral, Span: d.Span, Decl: id,
				Type: typeID, Overloadable: true, IsFunction: true, ReturnType: typeID,
			})
		}
	}
}

func (c *checker) buildTypeDef(scope symbols.ScopeID, name string, defID ast.TypeDefID) types.Type {
	def := c.tree.TypeDefs.Get(defID)
	if def == nil {
		return types.Type{Kind: types.KindInvalid, Name: name}
	}
	switch def.Kind {
	case ast.TypeDefIntegerRange:
		payload := c.tree.TypeDefs.IntRanges.Get(uint32(def.Payload))
		low, high := c.evalStaticBound(scope, payload.Low), c.evalStaticBound(scope, payload.High)
		return types.Type{Kind: types.KindInteger, Name: name, Low: low, High: high}
	case ast.TypeDefEnumeration:
		payload := c.tree.TypeDefs.Enums.Get(uint32(def.Payload))
		lits := make([]string, len(payload.Literals))
		for i, lit := range payload.Literals {
			lits[i] = lit.Name
		}
		return types.Type{Kind: types.KindEnumeration, Name: name, Literals: lits}
	case ast.TypeDefFloatingPoint:
		payload := c.tree.TypeDefs.Floats.Get(uint32(def.Payload))
		digits := 6
		if v := c.evalStaticBound(scope, payload.Digits); v != nil {
			digits = int(v.Int64())
		}
		return types.Type{Kind: types.KindFloatingPoint, Name: name, Digits: digits}
	case ast.TypeDefFixedPoint:
		payload := c.tree.TypeDefs.Fixeds.Get(uint32(def.Payload))
		delta := c.evalStaticRat(scope, payload.Delta)
		if delta == nil {
			delta = big.NewRat(1, 1)
		}
		low, high := big.NewRat(0, 1), big.NewRat(0, 1)
		if payload.Range.IsValid() {
			if rc := c.tree.Constraints.Get(payload.Range); rc != nil {
				if rng := c.tree.Constraints.Ranges.Get(uint32(rc.Payload)); rng != nil {
					if v := c.evalStaticRat(scope, rng.Low); v != nil {
						low = v
					}
					if v := c.evalStaticRat(scope, rng.High); v != nil {
						high = v
					}
				}
			}
		}
		return types.NewFixedPointType(name, delta, low, high)
	case ast.TypeDefArray:
		payload := c.tree.TypeDefs.Arrays.Get(uint32(def.Payload))
		indexTypes := make([]types.TypeID, 0, len(payload.IndexSubtypes))
		for _, sid := range payload.IndexSubtypes {
			indexTypes = append(indexTypes, c.resolveSubtypeInd(scope, sid))
		}
		return types.Type{
			Kind: types.KindArray, Name: name,
			IndexTypes: indexTypes, ComponentType: c.resolveSubtypeInd(scope, payload.ComponentType),
			Unconstrained: payload.Unconstrained,
		}
	case ast.TypeDefRecord:
		payload := c.tree.TypeDefs.Records.Get(uint32(def.Payload))
		comps := make([]types.RecordComponent, 0, len(payload.Components))
		for _, cid := range payload.Components {
			comp := c.tree.TypeDefs.Components.Get(uint32(cid))
			if comp == nil {
				continue
			}
			comps = append(comps, types.RecordComponent{Name: comp.Name, Type: c.resolveSubtypeInd(scope, comp.Type)})
		}
		if payload.Variant.IsValid() {
			comps = append(comps, c.buildVariantComponents(scope, payload.Variant)...)
		}
		return types.Type{Kind: types.KindRecord, Name: name, Components: comps}
	case ast.TypeDefAccess:
		payload := c.tree.TypeDefs.Accesses.Get(uint32(def.Payload))
		return types.Type{Kind: types.KindAccess, Name: name, Designated: c.resolveSubtypeInd(scope, payload.Designated)}
	case ast.TypeDefDerived:
		payload := c.tree.TypeDefs.Derived.Get(uint32(def.Payload))
		parent := c.resolveSubtypeInd(scope, payload.Parent)
		base, ok := c.interner.Lookup(c.interner.Resolve(parent))
		if !ok {
			return types.Type{Kind: types.KindInvalid, Name: name, Base: parent}
		}
		derived := *base
		derived.Name = name
		derived.Base = parent
		return derived
	case ast.TypeDefPrivate:
		return types.Type{Kind: types.KindPrivate, Name: name}
	case ast.TypeDefTask:
		return types.Type{Kind: types.KindTask, Name: name}
	case ast.TypeDefModular:
		c.reportAtSpan(diag.FutModularTypesNotSupported, def.Span, "modular types are not part of this Ada 83 implementation")
		return types.Type{Kind: types.KindInvalid, Name: name}
	default:
		return types.Type{Kind: types.KindInvalid, Name: name}
	}
}

func (c *checker) buildVariantComponents(scope symbols.ScopeID, id ast.VariantID) []types.RecordComponent {
	v := c.tree.TypeDefs.Variants.Get(uint32(id))
	if v == nil {
		return nil
	}
	var out []types.RecordComponent
	for _, arm := range v.Arms {
		for _, cid := range arm.Components {
			comp := c.tree.TypeDefs.Components.Get(uint32(cid))
			if comp == nil {
				continue
			}
			out = append(out, types.RecordComponent{
				Name: comp.Name, Type: c.resolveSubtypeInd(scope, comp.Type), DiscriminantDependent: true,
			})
		}
		if arm.Nested.IsValid() {
			out = append(out, c.buildVariantComponents(scope, arm.Nested)...)
		}
	}
	return out
}

// resolveSubtypeInd resolves a subtype indication to the TypeID it denotes:
// the type mark's own type when unconstrained, or a fresh anonymous
// subtype descriptor layering the written constraint over it.
func (c *checker) resolveSubtypeInd(scope symbols.ScopeID, id ast.SubtypeIndID) types.TypeID {
	ind := c.tree.SubtypeInds.Get(id)
	if ind == nil {
		return types.NoTypeID
	}
	sym := c.resolveName(scope, ind.Mark)
	if sym == nil {
		return types.NoTypeID
	}
	markType := sym.Type
	if !ind.Constraint.IsValid() {
		return markType
	}
	return c.applyConstraint(scope, markType, ind.Constraint)
}

// evalStaticBound folds a static integer expression into a *big.Int for
// use as a scalar type's bound, returning nil (an unconstrained bound)
// when the expression is not a compile-time-known literal.
func (c *checker) evalStaticBound(scope symbols.ScopeID, id ast.ExprID) *big.Int {
	c.checkExpr(scope, id)
	return c.evalStaticInt(id)
}

func (c *checker) evalStaticRat(scope symbols.ScopeID, id ast.ExprID) *big.Rat {
	c.checkExpr(scope, id)
	e := c.tree.Exprs.Get(id)
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprIntLiteral:
		if v := c.evalStaticInt(id); v != nil {
			return new(big.Rat).SetInt(v)
		}
	case ast.ExprRealLiteral:
		lit := c.tree.Exprs.RealLits.Get(uint32(e.Payload))
		if lit == nil {
			return nil
		}
		r, ok := new(big.Rat).SetString(lit.Text)
		if !ok {
			return nil
		}
		return r
	}
	return nil
}
