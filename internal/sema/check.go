// Package sema performs semantic analysis over a parsed compilation unit:
// declaration elaboration, name and overload resolution, constraint and
// mode checking, and the expression typing that the lowering pipeline
// consumes to pick concrete instruction forms. It never mutates the AST:
// every result it derives (an expression's type, a resolved call's target
// symbol, an implicit conversion inserted at a boundary) lives in a side
// table keyed by the AST node's ID, so the same *ast.Tree can be re-walked
// by independent passes without one pass's findings leaking into another's.
package sema

import (
	"adalower/internal/ast"
	"adalower/internal/checks"
	"adalower/internal/diag"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// Options configures one semantic pass over a unit.
type Options struct {
	Reporter diag.Reporter
	Program  *symbols.Program
	Types    *types.Interner
	// UnitScope is the declarative region this compilation unit's library
	// item elaborates into (its package/subprogram's own scope, nested
	// directly under the STANDARD root scope).
	UnitScope symbols.ScopeID
}

// Result collects every artefact a semantic pass derives about a unit.
type Result struct {
	TypeInterner *types.Interner
	ExprTypes    map[ast.ExprID]types.TypeID
	// ResolvedCalls maps a call expression to the subprogram symbol
	// overload resolution selected for it.
	ResolvedCalls map[ast.ExprID]symbols.SymbolID
	// ResolvedNames maps a name expression or selected name to the symbol
	// it denotes.
	ResolvedNames map[ast.NameID]symbols.SymbolID
	// ImplicitConversions maps an expression to a type lowering uses in
	// place of its ExprTypes entry. The checker allocates it but records
	// no entries, so lowering always falls back to ExprTypes.
	ImplicitConversions map[ast.ExprID]types.TypeID
	// SuppressScopes and SuppressScopesByStmt record the checks.Scope that
	// resulted from elaborating each declarative region (a subprogram or
	// package body, a task body) or block statement, so ssair's lowering
	// pass — which re-walks the same tree after sema runs — can consult
	// the same pragma SUPPRESS state this pass computed instead of
	// re-deriving it.
	SuppressScopes       map[ast.DeclID]*checks.Scope
	SuppressScopesByStmt map[ast.StmtID]*checks.Scope
}

func newResult(in *types.Interner) Result {
	return Result{
		TypeInterner:        in,
		ExprTypes:           make(map[ast.ExprID]types.TypeID),
		ResolvedCalls:       make(map[ast.ExprID]symbols.SymbolID),
		ResolvedNames:       make(map[ast.NameID]symbols.SymbolID),
		ImplicitConversions:  make(map[ast.ExprID]types.TypeID),
		SuppressScopes:       make(map[ast.DeclID]*checks.Scope),
		SuppressScopesByStmt: make(map[ast.StmtID]*checks.Scope),
	}
}

// checker carries the mutable state threaded through one unit's analysis.
type checker struct {
	tree     *ast.Tree
	reporter diag.Reporter
	program  *symbols.Program
	interner *types.Interner
	res      Result

	// loopStack holds the labels of enclosing loops, innermost last, so an
	// unlabeled `exit` and `exit LoopName` can both be checked.
	loopStack []string
	// inFunction is true while checking the body of a function (as opposed
	// to a procedure), so a missing `return` on some path can be flagged.
	inFunction bool
	sawReturn  bool
	suppress   *checks.Scope
}

// Check analyzes one compilation unit's library item, returning every
// derived artefact plus any diagnostics reported through opts.Reporter.
func Check(tree *ast.Tree, unit *ast.Unit, opts Options) Result {
	in := opts.Types
	if in == nil {
		in = types.NewInterner()
	}
	c := &checker{
		tree:     tree,
		reporter: opts.Reporter,
		program:  opts.Program,
		interner: in,
		res:      newResult(in),
		suppress: checks.NewScope(nil),
	}
	if unit == nil {
		return c.res
	}

	// A with clause makes the named unit's name directly visible but not
	// use-visible (LRM 8.4); only an explicit "use" clause pulls a unit's
	// declarations into direct visibility, so only Uses affects the scope.
	scope := opts.UnitScope
	for _, u := range unit.Uses {
		if s := c.program.Scopes.Scope(scope); s != nil {
			s.AddUse(u)
		}
	}

	if unit.Root.IsValid() {
		c.checkDecl(scope, unit.Root)
	}
	return c.res
}
