package ssair

import (
	"testing"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/sema"
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// buildShortCircuitUnit constructs:
//
//	procedure Proc is
//	   X, Y, Z : BOOLEAN;
//	begin
//	   Z := X and then Y;  -- or "X or else Y" when orElse
//	end Proc;
//
// BOOLEAN is declared by hand in the STANDARD scope lowerShortCircuitUnit
// builds.
func buildShortCircuitUnit(orElse bool) (*ast.Tree, *ast.Unit) {
	tree := ast.NewTree()
	b := ast.NewBuilder(tree)
	var sp source.Span

	mark := b.Ident(sp, "BOOLEAN")
	xDecl := b.ObjectDecl(sp, "X", b.SubtypeInd(sp, mark), false, ast.NoExprID)
	yDecl := b.ObjectDecl(sp, "Y", b.SubtypeInd(sp, mark), false, ast.NoExprID)
	zDecl := b.ObjectDecl(sp, "Z", b.SubtypeInd(sp, mark), false, ast.NoExprID)

	sc := tree.Exprs.NewShortCircuit(sp, orElse, b.NameExpr(sp, b.Ident(sp, "X")), b.NameExpr(sp, b.Ident(sp, "Y")))
	assign := b.Assign(sp, b.NameExpr(sp, b.Ident(sp, "Z")), sc)

	spec := b.SubprogramSpec(sp, "Proc", nil, ast.NoSubtypeIndID)
	body := b.SubprogramBody(sp, "Proc", spec, []ast.DeclID{xDecl, yDecl, zDecl}, []ast.StmtID{assign})
	unit := b.Unit(source.FileID(1), sp, nil, body)
	return tree, unit
}

func lowerShortCircuitUnit(t *testing.T, orElse bool) *Func {
	t.Helper()
	tree, unit := buildShortCircuitUnit(orElse)
	bag := diag.NewBag(20)
	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	interner := types.NewInterner()
	program.Scopes.Declare(root, symbols.Symbol{Name: "BOOLEAN", Kind: symbols.KindType, Type: interner.Builtins().Boolean})

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

// blockUses reports whether any instruction in block reads from local.
func blockUses(f *Func, blockID BlockID, local LocalID) bool {
	operandUses := func(op Operand) bool {
		return op.Kind == OperandUse && op.Place.Kind == PlaceLocal && op.Place.Local == local
	}
	for _, instr := range f.Blocks[blockID].Instrs {
		if instr.Kind == InstrAssign && operandUses(instr.Assign.Src) {
			return true
		}
	}
	return false
}

// TestShortCircuitNeverUnconditionallyEvaluatesRight verifies LRM 4.5.1:
// lowering "and then"/"or else" produces a conditional branch whose
// short-circuiting arm never touches the right operand's local at all,
// so the right operand cannot be read unless the branch that evaluates it
// is actually taken.
func TestShortCircuitNeverUnconditionallyEvaluatesRight(t *testing.T) {
	for _, orElse := range []bool{false, true} {
		f := lowerShortCircuitUnit(t, orElse)
		entry := f.Blocks[f.Entry]
		if entry.Term.Kind != TermIf {
			t.Fatalf("orElse=%v: entry block does not end in a conditional branch, got %v", orElse, entry.Term.Kind)
		}

		var yLocal LocalID = NoLocalID
		for i, l := range f.Locals {
			if l.Name == "Y" {
				yLocal = LocalID(i)
			}
		}
		if yLocal == NoLocalID {
			t.Fatalf("orElse=%v: no local named Y was allocated", orElse)
		}

		// "and then" short-circuits on Else (left false); "or else"
		// short-circuits on Then (left true) — see lowerShortCircuitExpr.
		shortArm, evalArm := entry.Term.If.Else, entry.Term.If.Then
		if orElse {
			shortArm, evalArm = entry.Term.If.Then, entry.Term.If.Else
		}

		if blockUses(f, shortArm, yLocal) {
			t.Fatalf("orElse=%v: the short-circuiting arm reads Y, it must never evaluate the right operand", orElse)
		}
		if !blockUses(f, evalArm, yLocal) {
			t.Fatalf("orElse=%v: the evaluating arm never reads Y", orElse)
		}
	}
}
