package ssair

import (
	"testing"

	"adalower/internal/ast"
	"adalower/internal/checks"
	"adalower/internal/diag"
	"adalower/internal/sema"
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// buildOverflowUnit constructs:
//
//	procedure Proc is
//	   type Small is range 1 .. 10;
//	   X : Small;
//	   pragma Suppress(Overflow_Check);  -- only when withSuppress
//	begin
//	   X := X + 1;
//	end Proc;
//
// so lowering the assignment's "+" has an overflow check to either emit or
// omit.
func buildOverflowUnit(withSuppress bool) (*ast.Tree, *ast.Unit) {
	tree := ast.NewTree()
	b := ast.NewBuilder(tree)
	var sp source.Span

	lowLit := b.IntLit(sp, "1")
	highLit := b.IntLit(sp, "10")
	typeDecl := b.IntegerType(sp, "Small", lowLit, highLit)

	mark := b.Ident(sp, "Small")
	objDecl := b.ObjectDecl(sp, "X", b.SubtypeInd(sp, mark), false, ast.NoExprID)

	decls := []ast.DeclID{typeDecl, objDecl}
	if withSuppress {
		pragma := ast.PragmaDecl{Name: "SUPPRESS", CheckName: "OVERFLOW_CHECK"}
		decls = append(decls, tree.Decls.NewPragma(sp, pragma))
	}

	sum := b.Binary(sp, ast.OpAdd, b.NameExpr(sp, b.Ident(sp, "X")), b.IntLit(sp, "1"))
	assign := b.Assign(sp, b.NameExpr(sp, b.Ident(sp, "X")), sum)

	spec := b.SubprogramSpec(sp, "Proc", nil, ast.NoSubtypeIndID)
	body := b.SubprogramBody(sp, "Proc", spec, decls, []ast.StmtID{assign})
	unit := b.Unit(source.FileID(1), sp, nil, body)
	return tree, unit
}

func lowerOverflowUnit(t *testing.T, withSuppress bool) *Func {
	t.Helper()
	tree, unit := buildOverflowUnit(withSuppress)
	bag := diag.NewBag(20)
	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	interner := types.NewInterner()

	res := sema.Check(tree, unit, sema.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		Program:   program,
		Types:     interner,
		UnitScope: root,
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected sema errors: %v", bag.Items())
	}

	module := NewModule()
	LowerUnit(tree, unit, res, program, interner, module)
	for _, f := range module.Funcs {
		return f
	}
	t.Fatalf("lowering produced no function")
	return nil
}

func hasOverflowCheck(f *Func) bool {
	for _, block := range f.Blocks {
		for _, instr := range block.Instrs {
			if instr.Kind == InstrCheck && instr.Check.Kind == checks.Overflow {
				return true
			}
		}
	}
	return false
}

func TestOverflowCheckEmittedWithoutSuppress(t *testing.T) {
	f := lowerOverflowUnit(t, false)
	if !hasOverflowCheck(f) {
		t.Fatalf("expected an overflow InstrCheck without a suppressing pragma")
	}
}

func TestPragmaSuppressOverflowCheckOmitsInstrCheck(t *testing.T) {
	f := lowerOverflowUnit(t, true)
	if hasOverflowCheck(f) {
		t.Fatalf("pragma Suppress(Overflow_Check) did not prevent the overflow InstrCheck from being lowered")
	}
}
