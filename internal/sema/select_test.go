package sema

import (
	"testing"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/source"
	"adalower/internal/symbols"
)

// buildSelectUnit constructs:
//
//	procedure Proc is
//	begin
//	   select
//	      accept E;
//	   else
//	      null;
//	   end select;
//	end Proc;
//
// optionally with zero arms or with both an else part and a terminate
// alternative, to exercise checkSelectStmt's two legality checks.
func buildSelectUnit(t *testing.T, noArms, elseAndTerminate bool) (*ast.Tree, *ast.Unit, symbols.ScopeID, *symbols.Program) {
	t.Helper()
	tree := ast.NewTree()
	b := ast.NewBuilder(tree)
	var sp source.Span

	var arms []ast.SelectArm
	if !noArms {
		accept := b.Accept(sp, "E", nil, nil)
		arms = append(arms, ast.SelectArm{Guard: ast.NoExprID, Accept: accept})
	}

	sel := ast.SelectStmt{
		Arms:         arms,
		HasElse:      true,
		Else:         []ast.StmtID{tree.Stmts.NewNull(sp)},
		HasTerminate: elseAndTerminate,
	}
	stmt := b.Select(sp, sel)

	spec := b.SubprogramSpec(sp, "Proc", nil, ast.NoSubtypeIndID)
	body := b.SubprogramBody(sp, "Proc", spec, nil, []ast.StmtID{stmt})
	unit := b.Unit(source.FileID(1), sp, nil, body)

	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	program.Scopes.Declare(root, symbols.Symbol{Name: "E", Kind: symbols.KindEntry, Overloadable: true})
	return tree, unit, root, program
}

func checkSelectUnit(t *testing.T, noArms, elseAndTerminate bool) *diag.Bag {
	t.Helper()
	tree, unit, root, program := buildSelectUnit(t, noArms, elseAndTerminate)
	bag := diag.NewBag(20)
	Check(tree, unit, Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		Program:   program,
		UnitScope: root,
	})
	return bag
}

func TestSelectStmtWithOneAcceptAndElseHasNoDiagnostics(t *testing.T) {
	bag := checkSelectUnit(t, false, false)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for a well-formed selective wait: %v", bag.Items())
	}
}

func TestEmptySelectIsReported(t *testing.T) {
	bag := checkSelectUnit(t, true, false)
	found := false
	for _, item := range bag.Items() {
		if item.Code == diag.SemaEmptySelect {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaEmptySelect for a selective wait with no accept alternatives, got: %v", bag.Items())
	}
}

func TestSelectElseAndTerminateIsReported(t *testing.T) {
	bag := checkSelectUnit(t, false, true)
	found := false
	for _, item := range bag.Items() {
		if item.Code == diag.SemaSelectElseAndTerminate {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaSelectElseAndTerminate for a selective wait with both an else part and a terminate alternative, got: %v", bag.Items())
	}
}
