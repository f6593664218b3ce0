package sema

import (
	"fmt"

	"adalower/internal/ast"
	"adalower/internal/checks"
	"adalower/internal/diag"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// checkDecl elaborates one declaration in scope: it declares the symbol(s)
// it introduces, resolves its subtype indications against already-visible
// types, and recurses into nested declarative parts (subprogram/package
// bodies, blocks).
func (c *checker) checkDecl(scope symbols.ScopeID, id ast.DeclID) {
	d := c.tree.Decls.Get(id)
	if d == nil {
		return
	}
	switch d.Kind {
	case ast.DeclObject:
		c.checkObjectDecl(scope, id, d)
	case ast.DeclNumber:
		c.checkNumberDecl(scope, id, d)
	case ast.DeclType:
		c.checkTypeDecl(scope, id, d)
	case ast.DeclSubtype:
		c.checkSubtypeDecl(scope, id, d)
	case ast.DeclSubprogramSpec:
		c.checkSubprogramSpec(scope, id, d)
	case ast.DeclSubprogramBody:
		c.checkSubprogramBody(scope, id, d)
	case ast.DeclPackageSpec:
		c.checkPackageSpec(scope, id, d)
	case ast.DeclPackageBody:
		c.checkPackageBody(scope, id, d)
	case ast.DeclException:
		c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindException, Span: d.Span, Decl: id})
	case ast.DeclUse:
		payload := c.tree.Decls.Uses.Get(uint32(d.Payload))
		if payload != nil {
			if s := c.program.Scopes.Scope(scope); s != nil {
				s.AddUse(payload.Unit)
			}
		}
	case ast.DeclRenaming:
		c.checkRenamingDecl(scope, id, d)
	case ast.DeclPragma:
		c.checkPragmaDecl(d)
	case ast.DeclTaskSpec, ast.DeclTaskBody, ast.DeclEntry, ast.DeclRepresentation:
		// Tasking rendezvous bodies and representation clauses are accepted
		// syntactically; their bodies (if any) still get their nested
		// declarations and statements checked like any other region.
		c.checkMiscDecl(scope, id, d)
	}
}

// declareSymbol declares sym in scope and reports SemaDuplicateSymbol
// when a non-overloadable homograph already exists (LRM 8.3(17)).
func (c *checker) declareSymbol(scope symbols.ScopeID, sym symbols.Symbol) symbols.SymbolID {
	s := c.program.Scopes.Scope(scope)
	if s == nil {
		return c.program.Scopes.Declare(scope, sym)
	}
	existing := s.Direct(sym.Name)
	if len(existing) > 0 && !(sym.Overloadable && allOverloadable(c.program.Scopes, existing)) {
		c.reportAtSpan(diag.SemaDuplicateSymbol, sym.Span, "duplicate declaration of "+sym.Name+" in this declarative region")
	}
	return c.program.Scopes.Declare(scope, sym)
}

// checkPragmaDecl applies a recognized pragma's effect. Only pragma
// SUPPRESS (LRM 11.7) has one: it turns off a named run-time check from
// here to the end of the enclosing declarative region, recorded on the
// checker's current checks.Scope so later checkRangeOf/lowering queries
// see it. Any other pragma name is accepted with no effect.
func (c *checker) checkPragmaDecl(d *ast.Decl) {
	payload := c.tree.Decls.Pragmas.Get(uint32(d.Payload))
	if payload == nil || payload.Name != "SUPPRESS" {
		return
	}
	kind, ok := checks.Lookup(payload.CheckName)
	if !ok {
		c.reportAtSpan(diag.SemaUnknownSuppressName, d.Span, fmt.Sprintf("unknown check name %q in pragma SUPPRESS", payload.CheckName))
		return
	}
	c.suppress.Apply(kind)
}

// enterSuppressScope opens a fresh checks.Scope nested under the
// checker's current one for a declarative region about to be checked
// (LRM 11.7(5): a pragma SUPPRESS in an outer region reaches everything
// declared within it, but one here must not leak back out once the
// region's declarations are done). id identifies the region so ssair's
// lowering pass, which re-walks the same declarations after sema, can
// look up the very scope that resulted. The returned func restores the
// outer scope and must be called when the region is finished.
func (c *checker) enterSuppressScope(id ast.DeclID) func() {
	outer := c.suppress
	c.suppress = checks.NewScope(outer)
	c.res.SuppressScopes[id] = c.suppress
	return func() { c.suppress = outer }
}

// enterSuppressScopeForStmt is enterSuppressScope for a block statement,
// which is its own declarative region (LRM 5.6) but is identified by a
// StmtID rather than a DeclID.
func (c *checker) enterSuppressScopeForStmt(id ast.StmtID) func() {
	outer := c.suppress
	c.suppress = checks.NewScope(outer)
	c.res.SuppressScopesByStmt[id] = c.suppress
	return func() { c.suppress = outer }
}

func allOverloadable(scopes *symbols.Scopes, ids []symbols.SymbolID) bool {
	for _, id := range ids {
		if sym := scopes.Symbol(id); sym == nil || !sym.Overloadable {
			return false
		}
	}
	return true
}

func (c *checker) checkObjectDecl(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.Objects.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	t := c.resolveSubtypeInd(scope, payload.Type)
	if payload.Init.IsValid() {
		initType := c.checkExprExpected(scope, payload.Init, t)
		c.checkAssignable(d.Span, t, initType)
	} else if payload.Constant {
		// LRM 3.2.1(7): a constant declaration (other than a deferred
		// constant in a package's visible part) must have an initial value.
		c.reportAtSpan(diag.SemaMissingActualForIn, d.Span, "constant declaration requires an initial value")
	}
	kind := symbols.KindObject
	if payload.Constant {
		kind = symbols.KindConstant
	}
	c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: kind, Span: d.Span, Decl: id, Type: t})
}

func (c *checker) checkNumberDecl(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.Numbers.Get(uint32(d.Payload))
	var t types.TypeID
	if payload != nil {
		t = c.checkExpr(scope, payload.Value)
	}
	c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindConstant, Span: d.Span, Decl: id, Type: t})
}

func (c *checker) checkSubtypeDecl(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.Subtypes.Get(uint32(d.Payload))
	var t types.TypeID
	if payload != nil {
		t = c.resolveSubtypeInd(scope, payload.Ind)
	}
	c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindSubtype, Span: d.Span, Decl: id, Type: t})
}

func (c *checker) checkRenamingDecl(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.Renamings.Get(uint32(d.Payload))
	var t types.TypeID
	if payload != nil {
		if sym := c.resolveName(scope, payload.Target); sym != nil {
			t = sym.Type
		}
	}
	c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindObject, Span: d.Span, Decl: id, Type: t})
}

func (c *checker) checkSubprogramSpec(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.SubSpecs.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	params := c.resolveParams(scope, payload.Params)
	var ret types.TypeID
	if payload.IsFunction {
		ret = c.resolveSubtypeInd(scope, payload.ReturnType)
	}
	c.declareSymbol(scope, symbols.Symbol{
		Name: d.Name, Kind: symbols.KindSubprogram, Span: d.Span, Decl: id,
		IsFunction: payload.IsFunction, Params: params, ReturnType: ret, Overloadable: true,
	})
}

func (c *checker) resolveParams(scope symbols.ScopeID, ids []ast.ParamID) []symbols.ParamSymbol {
	out := make([]symbols.ParamSymbol, 0, len(ids))
	for _, pid := range ids {
		p := c.tree.Decls.Params.Get(uint32(pid))
		if p == nil {
			continue
		}
		t := c.resolveSubtypeInd(scope, p.Type)
		if p.Mode == ast.ModeOut && p.Default.IsValid() {
			c.reportAtSpan(diag.SemaDefaultForOutMode, p.Span, "a parameter of mode out cannot have a default expression")
		}
		out = append(out, symbols.ParamSymbol{Name: p.Name, Mode: p.Mode, Type: t, Default: p.Default})
	}
	return out
}

func (c *checker) checkSubprogramBody(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.SubBodies.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	bodyScope := c.program.Scopes.NewScope(scope, d.Name)

	isFunction := false
	if payload.Spec.IsValid() {
		if specDecl := c.tree.Decls.Get(payload.Spec); specDecl != nil {
			if spec := c.tree.Decls.SubSpecs.Get(uint32(specDecl.Payload)); spec != nil {
				isFunction = spec.IsFunction
				for _, pid := range spec.Params {
					if p := c.tree.Decls.Params.Get(uint32(pid)); p != nil {
						c.declareSymbol(bodyScope, symbols.Symbol{
							Name: p.Name, Kind: symbols.KindObject, Span: p.Span,
							Type: c.resolveSubtypeInd(bodyScope, p.Type), Mode: p.Mode, IsParameter: true,
						})
					}
				}
			}
		}
	} else {
		// A body with no separate spec declares its own profile directly;
		// register it now so recursive calls within its own body resolve.
		c.checkSubprogramSpec(scope, id, d)
	}

	outerFn, outerReturn := c.inFunction, c.sawReturn
	c.inFunction, c.sawReturn = isFunction, false
	leaveSuppress := c.enterSuppressScope(id)

	for _, nested := range payload.Decls {
		c.checkDecl(bodyScope, nested)
	}
	for _, s := range payload.Stmts {
		c.checkStmt(bodyScope, s)
	}
	for _, h := range payload.Handlers {
		c.checkHandler(bodyScope, h)
	}

	if isFunction && !c.sawReturn {
		c.reportAtSpan(diag.SemaMissingReturn, d.Span, "function body has no return statement on some path")
	}
	leaveSuppress()
	c.inFunction, c.sawReturn = outerFn, outerReturn
}

func (c *checker) checkPackageSpec(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.PkgSpecs.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	pkgScope := c.program.Scopes.NewScope(scope, d.Name)
	c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindPackage, Span: d.Span, Decl: id})
	c.program.Visibility.RegisterPackage(d.Name, pkgScope)
	leaveSuppress := c.enterSuppressScope(id)
	for _, decl := range payload.Public {
		c.checkDecl(pkgScope, decl)
	}
	privateScope := c.program.Scopes.NewScope(pkgScope, d.Name+".PRIVATE")
	for _, decl := range payload.Private {
		c.checkDecl(privateScope, decl)
	}
	leaveSuppress()
}

func (c *checker) checkPackageBody(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.PkgBodies.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	bodyScope := c.program.Scopes.NewScope(scope, d.Name+".BODY")
	leaveSuppress := c.enterSuppressScope(id)
	for _, decl := range payload.Decls {
		c.checkDecl(bodyScope, decl)
	}
	for _, s := range payload.Stmts {
		c.checkStmt(bodyScope, s)
	}
	leaveSuppress()
}

// checkMiscDecl recurses into a tasking or representation-clause
// declaration's nested body without modeling the construct's own
// semantics beyond accepting its declarative part and statements.
func (c *checker) checkMiscDecl(scope symbols.ScopeID, id ast.DeclID, d *ast.Decl) {
	switch d.Kind {
	case ast.DeclTaskBody:
		payload := c.tree.Decls.TaskBodies.Get(uint32(d.Payload))
		if payload == nil {
			return
		}
		taskScope := c.program.Scopes.NewScope(scope, d.Name)
		leaveSuppress := c.enterSuppressScope(id)
		for _, decl := range payload.Decls {
			c.checkDecl(taskScope, decl)
		}
		for _, s := range payload.Stmts {
			c.checkStmt(taskScope, s)
		}
		leaveSuppress()
	case ast.DeclTaskSpec:
		c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindType, Span: d.Span, Decl: id})
	case ast.DeclEntry:
		c.declareSymbol(scope, symbols.Symbol{Name: d.Name, Kind: symbols.KindEntry, Span: d.Span, Decl: id, Overloadable: true})
	}
}
