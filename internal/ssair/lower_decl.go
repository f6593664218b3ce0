package ssair

import (
	"adalower/internal/ast"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// lowerDecl handles one declaration found in a subprogram body's (or
// block's) declarative part. Type, subtype, renaming, use, and exception
// declarations have no run-time representation of their own; they only
// ever show up indirectly, through the types and symbols other lowered
// constructs reference.
func (c *Context) lowerDecl(id ast.DeclID) {
	d := c.tree.Decls.Get(id)
	if d == nil {
		return
	}
	switch d.Kind {
	case ast.DeclObject:
		c.lowerLocalObject(d)
	case ast.DeclSubprogramBody:
		c.lowerNestedSubprogram(id, d)
	case ast.DeclTaskBody:
		c.lowerTaskBody(id, d)
	}
}

func (c *Context) lowerLocalObject(d *ast.Decl) {
	payload := c.tree.Decls.Objects.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	typ := c.exprTypeOrFieldType(payload.Type)
	lid := c.f.addLocal(Local{Type: typ, Name: d.Name, Span: d.Span})

	sym := c.lookupDeclSymbol(d.Name)
	if sym.IsValid() {
		c.locals[sym] = lid
	}

	if !payload.Init.IsValid() {
		return
	}
	src := c.lowerExprToOperand(payload.Init)
	c.emit(Instr{Kind: InstrAssign, Assign: Assign{Dst: c.placeOf(lid), Src: src}})
}

// lowerNestedSubprogram lowers a subprogram declared locally to another
// body into its own Func, the same as a library-level one; Ada 83 nested
// subprograms close over their enclosing activation only through the
// static link the runtime ABI provides, never through ssair locals
// directly, so no extra wiring is needed here beyond registering the Func.
func (c *Context) lowerNestedSubprogram(id ast.DeclID, d *ast.Decl) {
	c.lowerSubprogramBody(id, d)
}

// lowerTaskBody lowers a task body's own declarative part and statement
// sequence into a Func the same shape as a procedure's, reachable only
// through the runtime's task-creation ABI call rather than an ordinary
// InstrCall; rendezvous inside it still lowers through lowerAcceptStmt.
func (c *Context) lowerTaskBody(id ast.DeclID, d *ast.Decl) {
	payload := c.tree.Decls.TaskBodies.Get(uint32(d.Payload))
	if payload == nil {
		return
	}
	sym := c.lookupDeclSymbol(d.Name)
	f := c.module.NewFunc(sym, d.Name, d.Span, types.NoTypeID)

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

	c.cur = f.newBlock()
	f.Entry = c.cur
	for _, nested := range payload.Decls {
		c.lowerDecl(nested)
	}
	for _, s := range payload.Stmts {
		c.lowerStmt(s)
	}
	c.finishBlock(types.NoTypeID)

	c.f, c.locals, c.globals = outer, outerLocals, outerGlobals
	c.cur, c.exitTargets = outerCur, outerExit
	c.suppress = outerSuppress
}
