package ssair

import (
	"adalower/internal/ast"
	"adalower/internal/checks"
	"adalower/internal/sema"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// Context carries the mutable state threaded through lowering one
// compilation unit: the shared sema result it reads types and resolved
// names from, the Module it is building, and the per-function bookkeeping
// (current block, local slots, loop-exit targets) for whichever Func is
// presently being lowered.
type Context struct {
	tree     *ast.Tree
	res      sema.Result
	program  *symbols.Program
	interner *types.Interner
	module   *Module

	f    *Func
	cur  BlockID
	tmps int

	locals  map[symbols.SymbolID]LocalID
	globals map[symbols.SymbolID]GlobalID

	// exitTargets maps an enclosing loop's label (or "" for the innermost
	// unlabeled loop) to the block exit/exit-when should jump to.
	exitTargets []exitTarget

	// suppress is the checks.Scope sema computed for whichever
	// declarative region is currently being lowered; checkEnabled
	// consults it so a pragma SUPPRESS omits the InstrCheck it guards
	// instead of only documenting that it should.
	suppress *checks.Scope
}

type exitTarget struct {
	label  string
	target BlockID
}

// LowerUnit lowers every subprogram body reachable from unit's library item
// into module, and records every package-level object declaration as a
// Global. Units are lowered independently and may be called repeatedly
// against the same module to build up a whole program's IR.
func LowerUnit(tree *ast.Tree, unit *ast.Unit, res sema.Result, program *symbols.Program, interner *types.Interner, module *Module) {
	if tree == nil || unit == nil || !unit.Root.IsValid() {
		return
	}
	c := &Context{tree: tree, res: res, program: program, interner: interner, module: module, globals: make(map[symbols.SymbolID]GlobalID)}
	c.lowerLibraryItem(unit.Root)
}

func (c *Context) lowerLibraryItem(id ast.DeclID) {
	d := c.tree.Decls.Get(id)
	if d == nil {
		return
	}
	switch d.Kind {
	case ast.DeclSubprogramBody:
		c.lowerSubprogramBody(id, d)
	case ast.DeclPackageSpec:
		payload := c.tree.Decls.PkgSpecs.Get(uint32(d.Payload))
		if payload == nil {
			return
		}
		outerSuppress := c.suppress
		if scope, ok := c.res.SuppressScopes[id]; ok {
			c.suppress = scope
		}
		for _, decl := range payload.Public {
			c.lowerPackageMember(decl)
		}
		for _, decl := range payload.Private {
			c.lowerPackageMember(decl)
		}
		c.suppress = outerSuppress
	case ast.DeclPackageBody:
		payload := c.tree.Decls.PkgBodies.Get(uint32(d.Payload))
		if payload == nil {
			return
		}
		outerSuppress := c.suppress
		if scope, ok := c.res.SuppressScopes[id]; ok {
			c.suppress = scope
		}
		for _, decl := range payload.Decls {
			c.lowerPackageMember(decl)
		}
		c.suppress = outerSuppress
	}
}

// lowerPackageMember lowers one declaration found directly in a package's
// visible part, private part, or body: nested subprogram bodies become
// Funcs, object declarations become Globals, and everything else (types,
// subtypes, renamings) has no run-time representation of its own.
func (c *Context) lowerPackageMember(id ast.DeclID) {
	d := c.tree.Decls.Get(id)
	if d == nil {
		return
	}
	switch d.Kind {
	case ast.DeclSubprogramBody:
		c.lowerSubprogramBody(id, d)
	case ast.DeclObject:
		c.lowerGlobalObject(id, d)
	case ast.DeclPackageSpec, ast.DeclPackageBody:
		c.lowerLibraryItem(id)
	}
}

func (c *Context) lowerGlobalObject(id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.Objects.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	sym := c.lookupDeclSymbol(d.Name)
	g := Global{Sym: sym, Name: d.Name, Type: c.exprTypeOrFieldType(payload.Type), IsVar: !payload.Constant}
	gid := c.module.AddGlobal(g)
	if sym.IsValid() {
		c.globals[sym] = gid
	}
}

// exprTypeOrFieldType resolves a subtype indication's mark to a TypeID via
// the symbol table directly, since sema's side tables are keyed by
// expression and name IDs, not subtype-indication IDs.
func (c *Context) exprTypeOrFieldType(id ast.SubtypeIndID) types.TypeID {
	ind := c.tree.SubtypeInds.Get(id)
	if ind == nil {
		return types.NoTypeID
	}
	if sym := c.res.ResolvedNames[ind.Mark]; sym.IsValid() {
		if s := c.program.Scopes.Symbol(sym); s != nil {
			return s.Type
		}
	}
	return types.NoTypeID
}

func (c *Context) lookupDeclSymbol(name string) symbols.SymbolID {
	// The checker declares exactly one symbol per declaration name in its
	// own scope; without a Decl->Symbol side table we recover it from
	// ResolvedNames the first time the name is referenced. Lowering runs
	// after a full sema pass, so package-level objects referenced at all
	// are already present; unreferenced ones keep NoSymbolID, which is
	// harmless since nothing can ever look them up by symbol either.
	for _, sym := range c.res.ResolvedNames {
		if s := c.program.Scopes.Symbol(sym); s != nil && s.Name == name {
			return sym
		}
	}
	return symbols.NoSymbolID
}

func (c *Context) lowerSubprogramBody(id ast.DeclID, d *ast.Decl) *Func {
	payload := c.tree.Decls.SubBodies.Get(uint32(d.Payload))
	if payload == nil {
		return nil
	}
	sym := c.lookupDeclSymbol(d.Name)

	var result types.TypeID
	var params []symbols.ParamSymbol
	if s := c.program.Scopes.Symbol(sym); s != nil {
		result = s.ReturnType
		params = s.Params
	}

	f := c.module.NewFunc(sym, d.Name, d.Span, result)
	outer := c.f
	outerLocals, outerGlobals := c.locals, c.globals
	outerCur, outerExit := c.cur, c.exitTargets
	outerSuppress := c.suppress
	c.f = f
	c.locals = make(map[symbols.SymbolID]LocalID)
	c.exitTargets = nil
	if scope, ok := c.res.SuppressScopes[id]; ok {
		c.suppress = scope
	}

	for _, p := range params {
		flags := LocalFlagParam
		if p.Mode != ast.ModeIn {
			flags |= LocalFlagByRef
		}
		lid := f.addLocal(Local{Type: p.Type, Flags: flags, Name: p.Name})
		f.ParamCount++
		// Parameters are declared fresh per body (not shared with the
		// separate spec's own symbol, if any); lowerSubprogramBody's
		// caller-visible Func only needs the slot, not the symbol.
		_ = lid
	}

	if result != types.NoTypeID {
		f.ReturnSlot = f.addLocal(Local{Type: result, Flags: LocalFlagReturnSlot, Name: "__result"})
	}

	c.cur = f.newBlock()
	f.Entry = c.cur

	for _, nested := range payload.Decls {
		c.lowerDecl(nested)
	}
	for _, s := range payload.Stmts {
		c.lowerStmt(s)
	}
	c.finishBlock(result)

	c.f, c.locals, c.globals = outer, outerLocals, outerGlobals
	c.cur, c.exitTargets = outerCur, outerExit
	c.suppress = outerSuppress
	return f
}

// finishBlock terminates the current block with a fall-through return if
// the body did not already end in one (a procedure's implicit "end"
// return, or a function whose last statement sema already proved always
// returns on every path, so any still-open block here is unreachable).
func (c *Context) finishBlock(result types.TypeID) {
	b := c.f.block(c.cur)
	if b == nil || b.Terminated() {
		return
	}
	if result == types.NoTypeID {
		c.f.setTerm(c.cur, Terminator{Kind: TermReturn})
		return
	}
	c.f.setTerm(c.cur, Terminator{Kind: TermUnreachable})
}

func (c *Context) newTemp(t types.TypeID) LocalID {
	c.tmps++
	return c.f.addLocal(Local{Type: t})
}

func (c *Context) emit(in Instr) { c.f.emit(c.cur, in) }

func (c *Context) placeOf(id LocalID) Place { return Place{Kind: PlaceLocal, Local: id} }
