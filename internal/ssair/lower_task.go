package ssair

import (
	"strconv"

	"adalower/internal/abi"
	"adalower/internal/ast"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// lowerSelectStmt lowers a selective wait (LRM 9.7.1) to one
// __rt_select_wait call against every alternative's guard value, followed
// by a TermSwitch dispatching on the index it returns: one case per accept
// alternative (each lowering its accept the same way a standalone accept
// statement would), a default case running the delay alternative's body,
// the else part, or neither, in that priority order. Sema rejects an else
// part together with a terminate alternative but not together with a
// delay alternative; when both of those are present, only the delay body
// is lowered. There is no first-class select
// instruction in this IR — select's "wait for one of several events"
// semantics reduce to an ordinary call against a runtime entry point plus a
// multiway branch, the same way accept itself reduces to calls rather than
// a dedicated suspension instruction.
func (c *Context) lowerSelectStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Selects.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}

	boolType := c.interner.Builtins().Boolean
	intType := c.interner.Builtins().Integer

	var guards []Operand
	for _, arm := range p.Arms {
		guards = append(guards, c.selectGuardOperand(arm.Guard, boolType))
	}
	if p.HasDelay {
		guards = append(guards, c.selectGuardOperand(p.Delay.Guard, boolType))
	}

	chosen := c.newTemp(intType)
	c.emit(Instr{Kind: InstrCall, Call: Call{
		HasDst: true, Dst: c.placeOf(chosen),
		Callee: Callee{Kind: CalleeSym, Name: string(abi.SelectWait)},
		Args:   guards,
	}})
	chosenOp := Operand{Kind: OperandUse, Type: intType, Place: c.placeOf(chosen)}

	join := c.f.newBlock()
	callBlock := c.cur

	var cases []SwitchCase
	for i, arm := range p.Arms {
		target := c.f.newBlock()
		idx := constOperand(intType, Const{Kind: ConstInt, Type: intType, Text: strconv.Itoa(i)})
		cases = append(cases, SwitchCase{Low: idx, High: idx, Target: target})

		c.cur = target
		c.lowerStmt(arm.Accept)
		c.lowerStmts(arm.Body)
		if c.blockOpen() {
			c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
		}
	}

	dflt := c.f.newBlock()
	c.f.setTerm(callBlock, Terminator{Kind: TermSwitch, Switch: SwitchTerm{Value: chosenOp, Cases: cases, Default: dflt}})

	c.cur = dflt
	switch {
	case p.HasDelay:
		c.lowerStmts(p.Delay.Body)
	case p.HasElse:
		c.lowerStmts(p.Else)
	}
	// No delay and no else: the default case is only ever reached by an
	// "or terminate" choice or an impossible runtime result, neither of
	// which continues executing straight-line code past the select.
	if c.blockOpen() {
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
	}

	c.cur = join
}

func (c *Context) selectGuardOperand(guard ast.ExprID, boolType types.TypeID) Operand {
	if guard.IsValid() {
		return c.lowerExprToOperand(guard)
	}
	return constOperand(boolType, Const{Kind: ConstBool, Type: boolType, BoolValue: true})
}

// lowerAcceptStmt lowers a rendezvous to a pair of runtime ABI calls
// around the accept body: __rt_accept_open blocks until a caller's entry
// call is matched and returns a handle to the caller's parameter block,
// the accept's own formal parameters are bound against that handle as
// ordinary locals, the body runs as straight-line code, and
// __rt_accept_complete copies any out/in-out parameters back and wakes
// the caller. A tasking rendezvous is not modeled as a first-class
// suspension point in this IR; it lowers to calls the same as any other
// blocking runtime operation.
func (c *Context) lowerAcceptStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Accepts.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}

	entrySym := c.lookupDeclSymbol(p.Entry)
	handle := c.newTemp(0)
	c.emit(Instr{Kind: InstrCall, Call: Call{
		HasDst: true, Dst: c.placeOf(handle),
		Callee: Callee{Kind: CalleeSym, Sym: entrySym, Name: string(abi.AcceptOpen)},
		Args:   []Operand{{Kind: OperandConst, Const: Const{Kind: ConstString, StringValue: p.Entry}}},
	}})

	outerLocals := c.locals
	c.locals = copyLocals(outerLocals)
	for i, paramID := range p.Params {
		param := c.tree.Decls.Params.Get(uint32(paramID))
		if param == nil {
			continue
		}
		typ := c.exprTypeOrFieldType(param.Type)
		flags := LocalFlagParam
		if param.Mode != ast.ModeIn {
			flags |= LocalFlagByRef
		}
		lid := c.f.addLocal(Local{Type: typ, Flags: flags, Name: param.Name, Span: param.Span})
		c.emit(Instr{Kind: InstrIndex, Index: Index{
			Dst: c.placeOf(lid), Object: c.placeOf(handle),
			Indices: []Operand{{Kind: OperandConst, Const: Const{Kind: ConstInt, Text: strconv.Itoa(i)}}},
		}})
		if sym := c.lookupDeclSymbol(param.Name); sym.IsValid() {
			c.locals[sym] = lid
		}
	}

	c.lowerStmts(p.Body)

	c.emit(Instr{Kind: InstrCall, Call: Call{
		Callee: Callee{Kind: CalleeSym, Name: string(abi.AcceptComplete)},
		Args:   []Operand{{Kind: OperandUse, Place: c.placeOf(handle)}},
	}})
	c.locals = outerLocals
}

func copyLocals(m map[symbols.SymbolID]LocalID) map[symbols.SymbolID]LocalID {
	out := make(map[symbols.SymbolID]LocalID, len(m)+4)
	for k, v := range m {
		out[k] = v
	}
	return out
}
