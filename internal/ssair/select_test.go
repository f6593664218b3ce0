package ssair

import (
	"testing"

	"adalower/internal/abi"
	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/sema"
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// buildSelectLoweringUnit constructs:
//
//	procedure Proc is
//	begin
//	   select
//	      accept E;
//	   else
//	      null;
//	   end select;
//	end Proc;
func buildSelectLoweringUnit() (*ast.Tree, *ast.Unit, *symbols.Program, symbols.ScopeID) {
	tree := ast.NewTree()
	b := ast.NewBuilder(tree)
	var sp source.Span

	accept := b.Accept(sp, "E", nil, nil)
	sel := ast.SelectStmt{
		Arms:    []ast.SelectArm{{Guard: ast.NoExprID, Accept: accept}},
		HasElse: true,
		Else:    []ast.StmtID{tree.Stmts.NewNull(sp)},
	}
	stmt := b.Select(sp, sel)

	spec := b.SubprogramSpec(sp, "Proc", nil, ast.NoSubtypeIndID)
	body := b.SubprogramBody(sp, "Proc", spec, nil, []ast.StmtID{stmt})
	unit := b.Unit(source.FileID(1), sp, nil, body)

	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	program.Scopes.Declare(root, symbols.Symbol{Name: "E", Kind: symbols.KindEntry, Overloadable: true})
	return tree, unit, program, root
}

func TestSelectStmtLowersToSelectWaitCallAndSwitch(t *testing.T) {
	tree, unit, program, root := buildSelectLoweringUnit()
	bag := diag.NewBag(20)
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
	var f *Func
	for _, fn := range module.Funcs {
		f = fn
	}
	if f == nil {
		t.Fatalf("lowering produced no function")
	}

	var sawCall, sawSwitch bool
	for _, block := range f.Blocks {
		for _, instr := range block.Instrs {
			if instr.Kind == InstrCall && instr.Call.Callee.Name == string(abi.SelectWait) {
				sawCall = true
			}
		}
		if block.Term.Kind == TermSwitch {
			sawSwitch = true
			if len(block.Term.Switch.Cases) != 1 {
				t.Fatalf("expected exactly one switch case for one accept alternative, got %d", len(block.Term.Switch.Cases))
			}
		}
	}
	if !sawCall {
		t.Fatalf("expected an InstrCall against %s", abi.SelectWait)
	}
	if !sawSwitch {
		t.Fatalf("expected a TermSwitch dispatching on the chosen alternative")
	}
}
