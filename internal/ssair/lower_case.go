package ssair

import (
	"math/big"

	"adalower/internal/ast"
)

// denseJumpTableThreshold bounds how sparse a case statement's choices
// may be and still lower to a single TermSwitch jump table instead of a
// chain of equality tests: the value spread (highest minus lowest choice,
// plus one) may be at most this factor times the number of choices.
// recognize_switch.go reconstructs a jump table from a chain of
// equality-tested ifs by checking this same density ratio in reverse;
// here the direction runs forward, deciding at emission time whether a
// case arm set is dense enough to deserve a table.
const denseJumpTableThreshold = 4

// lowerCaseStmt lowers a case statement to a TermSwitch jump table when
// its choices are few, contiguous, and entirely static, and falls back to
// a chain of equality-tested TermIf blocks otherwise — for a non-static
// choice (a named number that folds to a value sema already checked, but
// this pass has no static evaluator of its own to re-derive bounds from)
// and for a choice set too sparse to be worth a table.
func (c *Context) lowerCaseStmt(s *ast.Stmt) {
	p := c.tree.Stmts.Cases.Get(uint32(s.Payload))
	if p == nil || !c.blockOpen() {
		return
	}
	join := c.f.newBlock()
	selector := c.lowerExprToOperand(p.Selector)

	if cases, ok := c.buildSwitchCases(p.Arms, join); ok {
		dflt := c.caseOthersBlock(p.Arms, join)
		c.f.setTerm(c.cur, Terminator{Kind: TermSwitch, Switch: SwitchTerm{Value: selector, Cases: cases, Default: dflt}})
		c.cur = join
		return
	}
	c.lowerCaseChain(selector, p.Arms, join)
	c.cur = join
}

// buildSwitchCases attempts to build one SwitchCase per non-"others" arm
// choice, each choice's own fresh block holding that arm's body. It
// reports ok=false (causing the caller to fall back to an if/elsif
// chain) when a choice is not a literal the lowering pass can fold to an
// integer bound, or when the resulting spread is too sparse to justify a
// table.
func (c *Context) buildSwitchCases(arms []ast.CaseArm, join BlockID) ([]SwitchCase, bool) {
	var cases []SwitchCase
	var low, high *big.Int

	for _, arm := range arms {
		if arm.HasOthers {
			continue
		}
		target := c.f.newBlock()
		for _, choice := range arm.Choices {
			v, ok := c.staticIntChoice(choice)
			if !ok {
				return nil, false
			}
			if low == nil || v.Cmp(low) < 0 {
				low = v
			}
			if high == nil || v.Cmp(high) > 0 {
				high = v
			}
			op := c.lowerExprToOperand(choice)
			cases = append(cases, SwitchCase{Low: op, High: op, Target: target})
		}
		saved := c.cur
		c.cur = target
		c.lowerStmts(arm.Body)
		if c.blockOpen() {
			c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
		}
		c.cur = saved
	}

	if len(cases) == 0 || low == nil || high == nil {
		return nil, false
	}
	spread := new(big.Int).Sub(high, low)
	spread.Add(spread, big.NewInt(1))
	limit := big.NewInt(int64(len(cases) * denseJumpTableThreshold))
	if spread.Cmp(limit) > 0 {
		return nil, false
	}
	return cases, true
}

// staticIntChoice folds a choice expression to an integer literal value,
// the only shape this pass can place directly into a SwitchCase bound
// without a general constant-folding pass over arbitrary static
// expressions.
func (c *Context) staticIntChoice(id ast.ExprID) (*big.Int, bool) {
	e := c.tree.Exprs.Get(id)
	if e == nil || e.Kind != ast.ExprIntLiteral {
		return nil, false
	}
	p := c.tree.Exprs.IntLits.Get(uint32(e.Payload))
	if p == nil {
		return nil, false
	}
	v, ok := new(big.Int).SetString(stripUnderscores(p.Text), 10)
	return v, ok
}

func stripUnderscores(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (c *Context) caseOthersBlock(arms []ast.CaseArm, join BlockID) BlockID {
	for _, arm := range arms {
		if !arm.HasOthers {
			continue
		}
		target := c.f.newBlock()
		saved := c.cur
		c.cur = target
		c.lowerStmts(arm.Body)
		if c.blockOpen() {
			c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
		}
		c.cur = saved
		return target
	}
	// No "when others" arm: LRM 5.4(4) only permits this when the choices
	// already cover the selector subtype, so falling through here means
	// the selector held a value outside its subtype — unreachable in a
	// well-typed program, reached only through a representation-level
	// violation a run-time check elsewhere should have already caught.
	unreachable := c.f.newBlock()
	c.f.setTerm(unreachable, Terminator{Kind: TermUnreachable})
	return unreachable
}

// lowerCaseChain lowers a case statement as a cascade of equality tests
// against the selector, each arm's choices OR'd together, in source
// order; the final "others" arm (if any) becomes the cascade's plain
// fall-through else.
func (c *Context) lowerCaseChain(selector Operand, arms []ast.CaseArm, join BlockID) {
	for _, arm := range arms {
		if arm.HasOthers {
			continue
		}
		next := c.f.newBlock()
		body := c.f.newBlock()
		var condOp Operand
		for i, choice := range arm.Choices {
			choiceOp := c.lowerExprToOperand(choice)
			typ := choiceOp.Type
			eqDst := c.newTemp(typ)
			c.emit(Instr{Kind: InstrBinOp, BinOp: BinOp{Dst: c.placeOf(eqDst), Op: ast.OpEq, Left: selector, Right: choiceOp}})
			eqOp := Operand{Kind: OperandUse, Type: typ, Place: c.placeOf(eqDst)}
			if i == 0 {
				condOp = eqOp
				continue
			}
			orDst := c.newTemp(typ)
			c.emit(Instr{Kind: InstrBinOp, BinOp: BinOp{Dst: c.placeOf(orDst), Op: ast.OpOr, Left: condOp, Right: eqOp}})
			condOp = Operand{Kind: OperandUse, Type: typ, Place: c.placeOf(orDst)}
		}
		c.f.setTerm(c.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: condOp, Then: body, Else: next}})

		c.cur = body
		c.lowerStmts(arm.Body)
		if c.blockOpen() {
			c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
		}
		c.cur = next
	}
	for _, arm := range arms {
		if !arm.HasOthers {
			continue
		}
		c.lowerStmts(arm.Body)
	}
	if c.blockOpen() {
		c.f.setTerm(c.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: join}})
	}
}
