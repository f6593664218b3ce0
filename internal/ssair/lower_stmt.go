package ssair

import (
	"adalower/internal/ast"
	"adalower/internal/types"
)

func (c *Context) lowerStmts(ids []ast.StmtID) {
	for _, id := range ids {
		c.lowerStmt(id)
	}
}

func (c *Context) lowerStmt(id ast.StmtID) {
	s := c.tree.Stmts.Get(id)
	if s == nil {
		return
	}
	// A block that already ended in a terminator (a prior return/exit/
	// raise) makes every following statement unreachable; each lowering
	// below returns without emitting anything once the current block is
	// closed, so nested declarations in such a statement are not lowered
	// either.
	switch s.Kind {
	case ast.StmtNull:
	case ast.StmtAssign:
		c.lowerAssignStmt(s)
	case ast.StmtCall:
		c.lowerCallStmt(s)
	case ast.StmtIf:
		c.lowerIfStmt(s)
	case ast.StmtCase:
		c.lowerCaseStmt(s)
	case ast.StmtLoopPlain, ast.StmtLoopWhile, ast.StmtLoopFor:
		c.lowerLoopStmt(s)
	case ast.StmtBlock:
		c.lowerBlockStmt(id, s)
	case ast.StmtExit:
		c.lowerExitStmt(s)
	case ast.StmtReturn:
		c.lowerReturnStmt(s)
	case ast.StmtRaise:
		c.lowerRaiseStmt(s)
	case ast.StmtAccept:
		c.lowerAcceptStmt(s)
	case ast.StmtDelay:
		c.lowerDelayStmt(s)
	case ast.StmtSelect:
		c.lowerSelectStmt(s)
	case ast.StmtGoto, ast.StmtLabel, ast.StmtAbort:
		// goto/label pairs and abort statements need a CFG-wide label
		// table to resolve jump targets across the whole body, built once
		// up front rather than statement by statement; left unhandled
		// here deliberately, same as sema's own pass over these kinds.
	}
}

func (c *Context) blockOpen() bool {
	b := c.f.block(c.cur)
	return b != nil && !b.Terminated()
}

func (c *Context) lowerAssignStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Assigns.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	src := c.lowerExprToOperand(p.Value)
	dst := c.exprToPlace(p.Target)
	c.emit(Instr{Kind: InstrAssign, Assign: Assign{Dst: dst, Src: src}})
}

func (c *Context) lowerCallStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Calls.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	e := c.tree.Exprs.Get(p.Call)
	if e == nil {
		return
	}
	call := c.buildCall(p.Call, e, types.NoTypeID)
	if call == nil {
		return
	}
	c.emit(Instr{Kind: InstrCall, Call: *call})
}

func (c *Context) lowerIfStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Ifs.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	join := c.f.newBlock()
	c.lowerIfChain(p.Cond, p.Then, p.ElsifArm, p.Else, join)
	c.cur = join
}

// lowerIfChain lowers the condition, then-body, elsif arms, and else-body
// of one if statement (or one elsif arm's tail, recursively) against a
// shared join block every branch that falls through eventually reaches.
func (c *Context) lowerIfChain(cond ast.ExprID, then []ast.StmtID, elsifs []ast.ElsifArm, els []ast.StmtID, join BlockID) {
	condOp := c.lowerExprToOperand(cond)
	thenBlock := c.f.newBlock()
	elseBlock := c.f.newBlock()
	c.f.setTerm(c.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: condOp, Then: thenBlock, Else: elseBlock}})

	c.cur = thenBlock
	c.lowerStmts(then)
	if c.blockOpen() {
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
	}

	c.cur = elseBlock
	if len(elsifs) > 0 {
		c.lowerIfChain(elsifs[0].Cond, elsifs[0].Body, elsifs[1:], els, join)
		return
	}
	c.lowerStmts(els)
	if c.blockOpen() {
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
	}
}

func (c *Context) lowerReturnStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Returns.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	if !p.Value.IsValid() {
		c.f.setTerm(c.cur, Terminator{Kind: TermReturn})
		return
	}
	v := c.lowerExprToOperand(p.Value)
	c.emit(Instr{Kind: InstrAssign, Assign: Assign{Dst: c.placeOf(c.f.ReturnSlot), Src: v}})
	c.f.setTerm(c.cur, Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: v}})
}

func (c *Context) lowerRaiseStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Raises.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	c.emit(Instr{Kind: InstrRaise, Raise: Raise{Name: p.Exception}})
	c.f.setTerm(c.cur, Terminator{Kind: TermUnreachable})
}

func (c *Context) lowerExitStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Exits.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	target := c.findExitTarget(p.LoopLabel)
	if target == NoBlockID {
		return
	}
	if !p.When.IsValid() {
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
		return
	}
	cond := c.lowerExprToOperand(p.When)
	fallthroughBlock := c.f.newBlock()
	c.f.setTerm(c.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: target, Else: fallthroughBlock}})
	c.cur = fallthroughBlock
}

func (c *Context) findExitTarget(label string) BlockID {
	for i := len(c.exitTargets) - 1; i >= 0; i-- {
		t := c.exitTargets[i]
		if label == "" || t.label == label {
			return t.target
		}
	}
	return NoBlockID
}

func (c *Context) lowerLoopStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Loops.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	exit := c.f.newBlock()
	c.exitTargets = append(c.exitTargets, exitTarget{label: s.Label, target: exit})
	defer func() { c.exitTargets = c.exitTargets[:len(c.exitTargets)-1] }()

	switch s.Kind {
	case ast.StmtLoopWhile:
		head := c.f.newBlock()
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})
		c.cur = head
		cond := c.lowerExprToOperand(p.While)
		body := c.f.newBlock()
		c.f.setTerm(head, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: body, Else: exit}})
		c.cur = body
		c.lowerStmts(p.Body)
		if c.blockOpen() {
			c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})
		}
	case ast.StmtLoopFor:
		c.lowerForLoop(p, exit)
	default: // StmtLoopPlain: an unconditional loop exited only by "exit"
		body := c.f.newBlock()
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: body}})
		c.cur = body
		c.lowerStmts(p.Body)
		if c.blockOpen() {
			c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: body}})
		}
	}
	c.cur = exit
}

// lowerForLoop lowers a for-loop's iteration scheme into an induction
// variable local plus a head block testing it against the range's bound,
// counting up or down to match ForScheme.Reverse (LRM 5.5).
func (c *Context) lowerForLoop(p *ast.LoopStmt, exit BlockID) {
	typ := c.loopVarType(p.For.Range)
	iv := c.f.addLocal(Local{Type: typ, Name: p.For.VarName})

	low, high := c.rangeBoundsOf(p.For.Range)
	start, bound := low, high
	if p.For.Reverse {
		start, bound = high, low
	}
	c.emit(Instr{Kind: InstrAssign, Assign: Assign{Dst: c.placeOf(iv), Src: start}})

	head := c.f.newBlock()
	c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})
	c.cur = head
	ivOperand := Operand{Kind: OperandUse, Type: typ, Place: c.placeOf(iv)}
	testOp := ast.OpLe
	if p.For.Reverse {
		testOp = ast.OpGe
	}
	testDst := c.newTemp(typ)
	c.emit(Instr{Kind: InstrBinOp, BinOp: BinOp{Dst: c.placeOf(testDst), Op: testOp, Left: ivOperand, Right: bound}})
	body := c.f.newBlock()
	c.f.setTerm(head, Terminator{Kind: TermIf, If: IfTerm{Cond: Operand{Kind: OperandUse, Type: typ, Place: c.placeOf(testDst)}, Then: body, Else: exit}})

	c.cur = body
	c.lowerStmts(p.Body)
	if c.blockOpen() {
		step := ast.OpAdd
		if p.For.Reverse {
			step = ast.OpSub
		}
		one := constOperand(typ, Const{Kind: ConstInt, Type: typ, Text: "1"})
		nextDst := c.newTemp(typ)
		c.emit(Instr{Kind: InstrBinOp, BinOp: BinOp{Dst: c.placeOf(nextDst), Op: step, Left: ivOperand, Right: one}})
		c.emit(Instr{Kind: InstrAssign, Assign: Assign{Dst: c.placeOf(iv), Src: Operand{Kind: OperandUse, Type: typ, Place: c.placeOf(nextDst)}}})
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})
	}
}

func (c *Context) loopVarType(id ast.SubtypeIndID) types.TypeID {
	return c.exprTypeOrFieldType(id)
}

func (c *Context) lowerBlockStmt(id ast.StmtID, s *ast.Stmt) {
	p := c.tree.Stmts.Blocks.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	outerSuppress := c.suppress
	if scope, ok := c.res.SuppressScopesByStmt[id]; ok {
		c.suppress = scope
	}
	for _, d := range p.Decls {
		c.lowerDecl(d)
	}
	c.lowerStmts(p.Stmts)
	// p.Handlers: an enclosing exception handler changes which block a
	// raised exception transfers control to, not anything about the
	// straight-line code above; handled by the runtime's unwinder rather
	// than by an explicit edge in this CFG.
	c.suppress = outerSuppress
}

func (c *Context) lowerDelayStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Delays.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	d := c.lowerExprToOperand(p.Duration)
	c.emit(Instr{Kind: InstrCall, Call: Call{Callee: Callee{Kind: CalleeSym, Name: "__rt_delay"}, Args: []Operand{d}}})
}
