package sema

import (
	"fmt"
	"math/big"
	"strings"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// checkExpr types expr in scope and returns its resolved type, recording
// the result in c.res.ExprTypes. It returns types.NoTypeID after already
// having reported a diagnostic, so callers can keep walking without
// re-reporting the same failure at every enclosing expression.
func (c *checker) checkExpr(scope symbols.ScopeID, id ast.ExprID) types.TypeID {
	e := c.tree.Exprs.Get(id)
	if e == nil {
		return types.NoTypeID
	}
	var t types.TypeID
	switch e.Kind {
	case ast.ExprIntLiteral:
		t = c.interner.Builtins().UniversalInt
	case ast.ExprRealLiteral:
		t = c.interner.Builtins().UniversalReal
	case ast.ExprCharLiteral:
		t = c.interner.Builtins().Character
	case ast.ExprStringLiteral:
		t = c.interner.Builtins().StringType
	case ast.ExprNull:
		t = types.NoTypeID // typed by context (the access type it is assigned into)
	case ast.ExprName:
		t = c.checkNameExpr(scope, e)
	case ast.ExprBinary:
		t = c.checkBinary(scope, e)
	case ast.ExprUnary:
		t = c.checkUnary(scope, e)
	case ast.ExprShortCircuit:
		t = c.checkShortCircuit(scope, e)
	case ast.ExprMembership:
		t = c.checkMembership(scope, e)
	case ast.ExprCall:
		t = c.checkCall(scope, id, e, types.NoTypeID)
	case ast.ExprSelected:
		t = c.checkSelected(scope, e)
	case ast.ExprAttribute:
		t = c.checkAttribute(scope, e)
	case ast.ExprIndexed:
		t = c.checkIndexed(scope, e)
	case ast.ExprQualified:
		t = c.checkQualified(scope, e)
	case ast.ExprAggregate:
		t = c.checkAggregate(scope, e)
	case ast.ExprAllocator:
		t = c.checkAllocator(scope, e)
	}
	if t.IsValid() {
		c.res.ExprTypes[id] = t
	}
	return t
}

// checkExprExpected types expr the same way checkExpr does, except that
// when expr is itself a call, expected (the type the surrounding context
// requires — an assignment's target type, a declared object's subtype)
// is threaded into overload resolution's return-type filter (spec.md
// §4.2's fourth pass). Every other expression kind ignores expected,
// since only a call's resolved overload depends on it.
func (c *checker) checkExprExpected(scope symbols.ScopeID, id ast.ExprID, expected types.TypeID) types.TypeID {
	e := c.tree.Exprs.Get(id)
	if e == nil {
		return types.NoTypeID
	}
	if e.Kind != ast.ExprCall {
		return c.checkExpr(scope, id)
	}
	t := c.checkCall(scope, id, e, expected)
	if t.IsValid() {
		c.res.ExprTypes[id] = t
	}
	return t
}

func (c *checker) reportAtSpan(code diag.Code, span source.Span, msg string) {
	if c.reporter == nil {
		return
	}
	diag.ReportError(c.reporter, code, span, msg).Emit()
}

func (c *checker) checkNameExpr(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Names.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	sym := c.resolveName(scope, payload.Name)
	if sym == nil {
		return types.NoTypeID
	}
	return sym.Type
}

// resolveName resolves a (possibly dotted) name to a single symbol,
// reporting SemaUndeclaredIdentifier / SemaAmbiguousOverload /
// SemaNotAPackage as appropriate, and records the resolution in
// c.res.ResolvedNames.
func (c *checker) resolveName(scope symbols.ScopeID, id ast.NameID) *symbols.Symbol {
	nm := c.tree.Names.Get(id)
	if nm == nil {
		return nil
	}
	var candidates []symbols.SymbolID
	if nm.Qualifier.IsValid() {
		qual := c.tree.Names.Get(nm.Qualifier)
		if qual != nil && !qual.Qualifier.IsValid() {
			found, err := c.program.Visibility.Selected(qual.Ident, nm.Ident)
			if err != nil {
				c.reportAtSpan(diag.SemaNotAPackage, nm.Span, fmt.Sprintf("%q is not a visible package name", qual.Ident))
				return nil
			}
			candidates = found
		}
	} else {
		candidates = c.program.Visibility.Candidates(scope, nm.Ident)
	}
	return c.pickSymbol(nm.Ident, nm.Span, id, candidates)
}

func (c *checker) pickSymbol(name string, span source.Span, nameID ast.NameID, candidates []symbols.SymbolID) *symbols.Symbol {
	switch len(candidates) {
	case 0:
		c.reportAtSpan(diag.SemaUndeclaredIdentifier, span, fmt.Sprintf("%q is undeclared", name))
		return nil
	case 1:
		sym := c.program.Scopes.Symbol(candidates[0])
		c.res.ResolvedNames[nameID] = candidates[0]
		return sym
	default:
		overloadable := c.program.Visibility.FilterOverloadable(candidates)
		if len(overloadable) == len(candidates) {
			// Every homograph is a subprogram/enum literal; a bare name
			// reference (not a call) picks the first by declaration order,
			// consistent with how the caller's call-site re-resolves it.
			sym := c.program.Scopes.Symbol(candidates[0])
			c.res.ResolvedNames[nameID] = candidates[0]
			return sym
		}
		c.reportAtSpan(diag.SemaAmbiguousOverload, span, fmt.Sprintf("%q is ambiguous", name))
		return nil
	}
}

func (c *checker) checkSelected(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Selected.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	prefixType := c.checkExpr(scope, payload.Prefix)
	t, ok := c.interner.Lookup(c.interner.Resolve(prefixType))
	if !ok || t.Kind != types.KindRecord {
		c.reportAtSpan(diag.SemaNotARecordType, e.Span, "selected component prefix is not of a record type")
		return types.NoTypeID
	}
	for _, comp := range t.Components {
		if strings.EqualFold(comp.Name, payload.Selector) {
			return comp.Type
		}
	}
	c.reportAtSpan(diag.SemaNoSuchComponent, e.Span, fmt.Sprintf("no component named %q", payload.Selector))
	return types.NoTypeID
}

func (c *checker) checkBinary(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Binaries.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	lt := c.checkExpr(scope, payload.Left)
	rt := c.checkExpr(scope, payload.Right)
	return c.resolveBinaryResult(e.Span, payload.Op, lt, rt)
}

// resolveBinaryResult implements LRM 4.5's predefined operator set: the
// relational operators always yield BOOLEAN, the logical operators require
// BOOLEAN operands, "&" requires a common array or component type, and the
// arithmetic operators require both operands to share a numeric base type
// (a universal operand adopts the other side's type, per LRM 4.9(13)'s
// resolution-independent literal rule).
func (c *checker) resolveBinaryResult(span source.Span, op ast.BinaryOp, lt, rt types.TypeID) types.TypeID {
	switch op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if !c.typesCompatible(lt, rt) {
			c.reportAtSpan(diag.SemaInvalidOperatorOperands, span, "operands of comparison are not of the same type")
		}
		return c.interner.Builtins().Boolean
	case ast.OpAnd, ast.OpOr, ast.OpXor:
		if lt != c.interner.Builtins().Boolean || rt != c.interner.Builtins().Boolean {
			c.reportAtSpan(diag.SemaInvalidOperatorOperands, span, "logical operator requires BOOLEAN operands")
		}
		return c.interner.Builtins().Boolean
	case ast.OpConcat:
		return lt
	default:
		if !c.typesCompatible(lt, rt) {
			c.reportAtSpan(diag.SemaInvalidOperatorOperands, span, "arithmetic operator requires operands of the same numeric type")
			return types.NoTypeID
		}
		return c.widerNumeric(lt, rt)
	}
}

// typesCompatible treats a universal operand as compatible with any
// numeric type, and otherwise requires identical resolved types.
func (c *checker) typesCompatible(a, b types.TypeID) bool {
	builtins := c.interner.Builtins()
	if a == builtins.UniversalInt || a == builtins.UniversalReal || b == builtins.UniversalInt || b == builtins.UniversalReal {
		return true
	}
	return c.interner.Resolve(a) == c.interner.Resolve(b)
}

func (c *checker) widerNumeric(a, b types.TypeID) types.TypeID {
	builtins := c.interner.Builtins()
	if a == builtins.UniversalInt || a == builtins.UniversalReal {
		return b
	}
	return a
}

func (c *checker) checkUnary(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Unaries.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	t := c.checkExpr(scope, payload.Operand)
	if payload.Op == ast.OpNot {
		return c.interner.Builtins().Boolean
	}
	return t
}

func (c *checker) checkShortCircuit(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.ShortCircs.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	c.checkExpr(scope, payload.Left)
	c.checkExpr(scope, payload.Right)
	return c.interner.Builtins().Boolean
}

func (c *checker) checkMembership(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Memberships.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	c.checkExpr(scope, payload.Operand)
	return c.interner.Builtins().Boolean
}

func (c *checker) checkIndexed(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Indexed.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	prefixType := c.checkExpr(scope, payload.Prefix)
	for _, ix := range payload.Indices {
		c.checkExpr(scope, ix)
	}
	t, ok := c.interner.Lookup(c.interner.Resolve(prefixType))
	if !ok || t.Kind != types.KindArray {
		c.reportAtSpan(diag.SemaNotAnArrayType, e.Span, "indexed name prefix is not of an array type")
		return types.NoTypeID
	}
	if len(payload.Indices) != len(t.IndexTypes) {
		c.reportAtSpan(diag.SemaIndexCountMismatch, e.Span, fmt.Sprintf("expected %d index value(s), got %d", len(t.IndexTypes), len(payload.Indices)))
	}
	return t.ComponentType
}

func (c *checker) checkQualified(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Qualified.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	c.checkExpr(scope, payload.Operand)
	sym := c.resolveName(scope, payload.TypeMark)
	if sym == nil {
		return types.NoTypeID
	}
	return sym.Type
}

func (c *checker) checkAggregate(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Aggregates.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	for _, p := range payload.Positional {
		c.checkExpr(scope, p)
	}
	for _, n := range payload.Named {
		c.checkExpr(scope, n.Value)
	}
	if payload.HasOthers && payload.Others.IsValid() {
		c.checkExpr(scope, payload.Others)
	}
	// The aggregate's own type is fixed by its context (the expected type
	// of the object/component/parameter it initializes); this pass records
	// no type for the aggregate itself.
	return types.NoTypeID
}

func (c *checker) checkAllocator(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Allocators.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	if payload.Init.IsValid() {
		c.checkExpr(scope, payload.Init)
	}
	return types.NoTypeID
}

func (c *checker) checkCall(scope symbols.ScopeID, id ast.ExprID, e *ast.Expr, expected types.TypeID) types.TypeID {
	payload := c.tree.Exprs.Calls.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	nm := c.tree.Names.Get(payload.Callee)
	if nm == nil {
		return types.NoTypeID
	}
	args := make([]symbols.CallArg, len(payload.Args))
	for i, a := range payload.Args {
		t := c.checkExpr(scope, a.Value)
		name := ""
		if a.Name.IsValid() {
			if n := c.tree.Names.Get(a.Name); n != nil {
				name = n.Ident
			}
		}
		args[i] = symbols.CallArg{Name: name, Type: t}
	}

	var candidates []symbols.SymbolID
	if nm.Qualifier.IsValid() {
		qual := c.tree.Names.Get(nm.Qualifier)
		if qual != nil {
			if found, err := c.program.Visibility.Selected(qual.Ident, nm.Ident); err == nil {
				candidates = found
			}
		}
	} else {
		candidates = c.program.Visibility.Candidates(scope, nm.Ident)
	}
	if len(candidates) == 0 {
		c.reportAtSpan(diag.SemaUndeclaredIdentifier, e.Span, fmt.Sprintf("%q is undeclared", nm.Ident))
		return types.NoTypeID
	}

	resolved := symbols.Resolve(c.program.Scopes, candidates, args, expected)
	switch len(resolved) {
	case 0:
		c.reportAtSpan(diag.SemaNoApplicableOverload, e.Span, fmt.Sprintf("no applicable overload of %q for this call", nm.Ident))
		return types.NoTypeID
	case 1:
		sym := c.program.Scopes.Symbol(resolved[0])
		c.res.ResolvedCalls[id] = resolved[0]
		if sym.IsFunction {
			return sym.ReturnType
		}
		return types.NoTypeID
	default:
		c.reportAtSpan(diag.SemaAmbiguousOverload, e.Span, fmt.Sprintf("call to %q is ambiguous among %d overloads", nm.Ident, len(resolved)))
		return types.NoTypeID
	}
}

func (c *checker) checkAttribute(scope symbols.ScopeID, e *ast.Expr) types.TypeID {
	payload := c.tree.Exprs.Attributes.Get(uint32(e.Payload))
	if payload == nil {
		return types.NoTypeID
	}
	prefixType := c.checkExpr(scope, payload.Prefix)
	for _, a := range payload.Args {
		c.checkExpr(scope, a)
	}
	name := strings.ToUpper(payload.Designator)
	switch name {
	case "FIRST", "LAST", "SUCC", "PRED", "POS", "VAL":
		var arg *big.Int
		if len(payload.Args) > 0 {
			arg = c.evalStaticInt(payload.Args[0])
		}
		res, err := c.interner.EvalDiscreteAttribute(prefixType, name, arg)
		if err != nil {
			c.reportAtSpan(diag.SemaUnknownAttribute, e.Span, err.Error())
			return types.NoTypeID
		}
		_ = res
		if name == "POS" {
			return c.interner.Builtins().Integer
		}
		return prefixType
	case "LENGTH", "SIZE":
		return c.interner.Builtins().Integer
	case "RANGE":
		return types.NoTypeID
	case "IMAGE":
		return c.interner.Builtins().StringType
	case "VALUE":
		return prefixType
	default:
		c.reportAtSpan(diag.SemaUnknownAttribute, e.Span, fmt.Sprintf("unknown attribute %q", payload.Designator))
		return types.NoTypeID
	}
}

// evalStaticInt folds a literal integer expression for attribute argument
// evaluation ('Succ(5), 'Val(1)); non-literal arguments return nil and the
// attribute is treated as a run-time query by the lowering pipeline.
func (c *checker) evalStaticInt(id ast.ExprID) *big.Int {
	e := c.tree.Exprs.Get(id)
	if e == nil || e.Kind != ast.ExprIntLiteral {
		return nil
	}
	lit := c.tree.Exprs.IntLits.Get(uint32(e.Payload))
	if lit == nil {
		return nil
	}
	v, ok := new(big.Int).SetString(strings.ReplaceAll(lit.Text, "_", ""), 10)
	if !ok {
		return nil
	}
	return v
}
