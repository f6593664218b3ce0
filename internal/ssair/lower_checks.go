package ssair

import (
	"adalower/internal/ast"
	"adalower/internal/checks"
)

// emitChecksForBinary emits the run-time checks LRM 11.7 attaches to a
// predefined binary operator: a division check ahead of "/", "mod", and
// "rem" (division by zero raises CONSTRAINT_ERROR), and an overflow check
// after "+", "-", and "*" on an integer or fixed-point operand. A check
// whose kind a pragma SUPPRESS has turned off in the current declarative
// region is omitted here, through checkEnabled.
func (c *Context) emitChecksForBinary(op ast.BinaryOp, left, right Operand) {
	switch op {
	case ast.OpDiv, ast.OpMod, ast.OpRem:
		if c.checkEnabled(checks.Division) {
			c.emit(Instr{Kind: InstrCheck, Check: Check{Kind: checks.Division, Value: right}})
		}
	case ast.OpAdd, ast.OpSub, ast.OpMul:
		if c.checkEnabled(checks.Overflow) {
			dst := c.newTemp(left.Type)
			c.emit(Instr{Kind: InstrCheck, Check: Check{Kind: checks.Overflow, Value: Operand{Kind: OperandUse, Type: left.Type, Place: c.placeOf(dst)}}})
		}
	}
}

// checkEnabled reports whether kind should still be guarded at the
// current lowering point, consulting the checks.Scope sema resolved for
// the declarative region presently being lowered (nil until the first
// region with a pragma SUPPRESS in it is entered, which suppresses
// nothing).
func (c *Context) checkEnabled(kind checks.Kind) bool {
	return !c.suppress.IsSuppressed(kind)
}
