package sema

import (
	"fmt"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

func (c *checker) checkStmts(scope symbols.ScopeID, ids []ast.StmtID) {
	for _, id := range ids {
		c.checkStmt(scope, id)
	}
}

func (c *checker) checkStmt(scope symbols.ScopeID, id ast.StmtID) {
	s := c.tree.Stmts.Get(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtNull:
	case ast.StmtAssign:
		c.checkAssignStmt(scope, s)
	case ast.StmtCall:
		payload := c.tree.Stmts.Calls.Get(uint32(s.Payload))
		if payload != nil {
			c.checkExpr(scope, payload.Call)
		}
	case ast.StmtIf:
		c.checkIfStmt(scope, s)
	case ast.StmtCase:
		c.checkCaseStmt(scope, s)
	case ast.StmtLoopPlain, ast.StmtLoopWhile, ast.StmtLoopFor:
		c.checkLoopStmt(scope, s)
	case ast.StmtBlock:
		c.checkBlockStmt(scope, id, s)
	case ast.StmtExit:
		c.checkExitStmt(scope, s)
	case ast.StmtReturn:
		c.checkReturnStmt(scope, s)
	case ast.StmtRaise:
		payload := c.tree.Stmts.Raises.Get(uint32(s.Payload))
		if payload != nil && payload.Exception != "" {
			if !isPredefinedException(payload.Exception) {
				candidates := c.program.Visibility.Candidates(scope, payload.Exception)
				c.pickSymbol(payload.Exception, s.Span, ast.NoNameID, candidates)
			}
		}
	case ast.StmtAccept:
		c.checkAcceptStmt(scope, s)
	case ast.StmtDelay:
		payload := c.tree.Stmts.Delays.Get(uint32(s.Payload))
		if payload != nil {
			c.checkExpr(scope, payload.Duration)
		}
	case ast.StmtSelect:
		c.checkSelectStmt(scope, s)
	case ast.StmtGoto, ast.StmtLabel, ast.StmtAbort:
		// Not checked: goto/label targets and abort's task names are
		// resolved nowhere, and lowering emits nothing for these
		// statements either.
	}
}

func isPredefinedException(name string) bool {
	switch name {
	case "CONSTRAINT_ERROR", "NUMERIC_ERROR", "PROGRAM_ERROR", "STORAGE_ERROR", "TASKING_ERROR":
		return true
	}
	return false
}

func (c *checker) checkAssignStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Assigns.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	dst := c.checkExpr(scope, payload.Target)
	src := c.checkExprExpected(scope, payload.Value, dst)
	c.checkTargetMode(scope, payload.Target)
	c.checkAssignable(s.Span, dst, src)
	c.checkRangeOf(s.Span, payload.Value, dst)
}

// checkTargetMode reports SemaIllegalModeAssignment when the assignment
// target denotes a constant, or a parameter declared with mode "in"
// (LRM 6.2(3)): an "in" formal denotes a constant view and can never
// appear as the target of an assignment statement.
func (c *checker) checkTargetMode(scope symbols.ScopeID, target ast.ExprID) {
	e := c.tree.Exprs.Get(target)
	if e == nil || e.Kind != ast.ExprName {
		return
	}
	payload := c.tree.Exprs.Names.Get(uint32(e.Payload))
	if payload == nil {
		return
	}
	sym := c.resolveName(scope, payload.Name)
	if sym == nil {
		return
	}
	if sym.Kind == symbols.KindConstant || (sym.IsParameter && sym.Mode == ast.ModeIn) {
		c.reportAtSpan(diag.SemaIllegalModeAssignment, e.Span, "cannot assign to a constant or an \"in\" parameter")
	}
}

func (c *checker) checkIfStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Ifs.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	c.requireBoolean(scope, payload.Cond)
	c.checkStmts(scope, payload.Then)
	for _, arm := range payload.ElsifArm {
		c.requireBoolean(scope, arm.Cond)
		c.checkStmts(scope, arm.Body)
	}
	c.checkStmts(scope, payload.Else)
}

func (c *checker) requireBoolean(scope symbols.ScopeID, id ast.ExprID) {
	t := c.checkExpr(scope, id)
	if t.IsValid() && t != c.interner.Builtins().Boolean {
		if e := c.tree.Exprs.Get(id); e != nil {
			c.reportAtSpan(diag.SemaTypeMismatch, e.Span, "condition must be of type BOOLEAN")
		}
	}
}

func (c *checker) checkCaseStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Cases.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	selType := c.checkExpr(scope, payload.Selector)
	hasOthers := false
	for _, arm := range payload.Arms {
		for _, ch := range arm.Choices {
			c.checkExpr(scope, ch)
		}
		if arm.HasOthers {
			hasOthers = true
		}
		c.checkStmts(scope, arm.Body)
	}
	if !hasOthers && !c.caseCoversAllValues(selType) {
		c.reportAtSpan(diag.SemaMissingOthers, s.Span, "case statement does not cover all values and has no \"others\"")
	}
}

// caseCoversAllValues reports whether a case statement's explicit choices
// exhaust the selector type's value set without an "others" arm. No
// per-choice static value extraction is done, so it always returns false:
// every case statement without "others" is reported, a BOOLEAN selector
// included.
func (c *checker) caseCoversAllValues(selType types.TypeID) bool {
	return false
}

func (c *checker) checkLoopStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Loops.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	if s.Kind == ast.StmtLoopWhile {
		c.requireBoolean(scope, payload.While)
	}
	loopScope := scope
	if s.Kind == ast.StmtLoopFor {
		loopScope = c.program.Scopes.NewScope(scope, "")
		t := c.resolveSubtypeInd(loopScope, payload.For.Range)
		c.declareSymbol(loopScope, symbols.Symbol{Name: payload.For.VarName, Kind: symbols.KindConstant, Span: s.Span, Type: t})
	}
	c.loopStack = append(c.loopStack, s.Label)
	c.checkStmts(loopScope, payload.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *checker) checkBlockStmt(scope symbols.ScopeID, id ast.StmtID, s *ast.Stmt) {
	payload := c.tree.Stmts.Blocks.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	blockScope := c.program.Scopes.NewScope(scope, payload.Label)
	leaveSuppress := c.enterSuppressScopeForStmt(id)
	for _, d := range payload.Decls {
		c.checkDecl(blockScope, d)
	}
	c.checkStmts(blockScope, payload.Stmts)
	for _, h := range payload.Handlers {
		c.checkHandler(blockScope, h)
	}
	leaveSuppress()
}

func (c *checker) checkExitStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Exits.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	if payload.When.IsValid() {
		c.requireBoolean(scope, payload.When)
	}
	if len(c.loopStack) == 0 {
		c.reportAtSpan(diag.SemaExitOutsideLoop, s.Span, "exit statement outside any loop")
		return
	}
	if payload.LoopLabel == "" {
		return
	}
	for _, label := range c.loopStack {
		if label == payload.LoopLabel {
			return
		}
	}
	c.reportAtSpan(diag.SemaNoSuchLoopLabel, s.Span, fmt.Sprintf("no enclosing loop named %q", payload.LoopLabel))
}

func (c *checker) checkReturnStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Returns.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	if payload.Value.IsValid() {
		c.checkExpr(scope, payload.Value)
	}
	c.sawReturn = true
}

func (c *checker) checkHandler(scope symbols.ScopeID, id ast.HandlerID) {
	h := c.tree.Decls.Handlers.Get(uint32(id))
	if h == nil {
		return
	}
	for _, exc := range h.Exceptions {
		if exc == "others" || isPredefinedException(exc) {
			continue
		}
		candidates := c.program.Visibility.Candidates(scope, exc)
		c.pickSymbol(exc, h.Span, ast.NoNameID, candidates)
	}
	c.checkStmts(scope, h.Stmts)
}

func (c *checker) checkAcceptStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Accepts.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	candidates := c.program.Visibility.Candidates(scope, payload.Entry)
	sym := c.pickSymbol(payload.Entry, s.Span, ast.NoNameID, candidates)
	if sym != nil && sym.Kind != symbols.KindEntry {
		c.reportAtSpan(diag.SemaEntryNotFound, s.Span, fmt.Sprintf("%q does not denote an entry", payload.Entry))
	}
	acceptScope := c.program.Scopes.NewScope(scope, "")
	for _, pid := range payload.Params {
		if p := c.tree.Decls.Params.Get(uint32(pid)); p != nil {
			c.declareSymbol(acceptScope, symbols.Symbol{
				Name: p.Name, Kind: symbols.KindObject, Span: p.Span,
				Type: c.resolveSubtypeInd(acceptScope, p.Type), Mode: p.Mode, IsParameter: true,
			})
		}
	}
	c.checkStmts(acceptScope, payload.Body)
}

// checkSelectStmt checks a selective wait (LRM 9.7.1): every guard must be
// BOOLEAN, every alternative's accept statement and body is checked the
// same as a standalone accept/delay statement, and at most one of an else
// part and a terminate alternative may be present.
func (c *checker) checkSelectStmt(scope symbols.ScopeID, s *ast.Stmt) {
	payload := c.tree.Stmts.Selects.Get(uint32(s.Payload))
	if payload == nil {
		return
	}
	if len(payload.Arms) == 0 {
		c.reportAtSpan(diag.SemaEmptySelect, s.Span, "selective wait has no accept alternatives")
	}
	for _, arm := range payload.Arms {
		if arm.Guard.IsValid() {
			c.requireBoolean(scope, arm.Guard)
		}
		c.checkStmt(scope, arm.Accept)
		c.checkStmts(scope, arm.Body)
	}
	if payload.HasDelay {
		if payload.Delay.Guard.IsValid() {
			c.requireBoolean(scope, payload.Delay.Guard)
		}
		c.checkExpr(scope, payload.Delay.Duration)
		c.checkStmts(scope, payload.Delay.Body)
	}
	if payload.HasTerminate && payload.TerminateGuard.IsValid() {
		c.requireBoolean(scope, payload.TerminateGuard)
	}
	if payload.HasElse && payload.HasTerminate {
		c.reportAtSpan(diag.SemaSelectElseAndTerminate, s.Span, "selective wait cannot have both an else part and a terminate alternative")
	}
	if payload.HasElse {
		c.checkStmts(scope, payload.Else)
	}
}
