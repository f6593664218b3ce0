package sema

import (
	"testing"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/source"
	"adalower/internal/symbols"
)

// buildSuppressUnit constructs a package body:
//
//	package body Pkg_N is
//	   type Small is range 1 .. 10;
//	   X : Small;
//	   pragma Suppress(Range_Check);  -- only when withSuppress
//	   X := 20;
//	end Pkg_N;
//
// so checkRangeOf has a statically-out-of-range assignment to react to.
func buildSuppressUnit(withSuppress bool) (*ast.Tree, *ast.Unit) {
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
		pragma := ast.PragmaDecl{Name: "SUPPRESS", CheckName: "RANGE_CHECK"}
		decls = append(decls, tree.Decls.NewPragma(sp, pragma))
	}

	target := b.NameExpr(sp, b.Ident(sp, "X"))
	value := b.IntLit(sp, "20")
	assign := b.Assign(sp, target, value)

	body := b.PackageBody(sp, "Pkg", decls, []ast.StmtID{assign})
	unit := b.Unit(source.FileID(1), sp, nil, body)
	return tree, unit
}

func checkSuppressUnit(t *testing.T, withSuppress bool) *diag.Bag {
	t.Helper()
	tree, unit := buildSuppressUnit(withSuppress)
	bag := diag.NewBag(20)
	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")

	Check(tree, unit, Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		Program:   program,
		UnitScope: root,
	})
	return bag
}

func TestPragmaSuppressRangeCheckOmitsDiagnostic(t *testing.T) {
	bag := checkSuppressUnit(t, true)
	for _, item := range bag.Items() {
		if item.Code == diag.SemaLiteralOutOfRange {
			t.Fatalf("pragma Suppress(Range_Check) did not prevent SemaLiteralOutOfRange: %v", bag.Items())
		}
	}
}

func TestOutOfRangeAssignmentWithoutSuppressIsReported(t *testing.T) {
	bag := checkSuppressUnit(t, false)
	found := false
	for _, item := range bag.Items() {
		if item.Code == diag.SemaLiteralOutOfRange {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaLiteralOutOfRange without a suppressing pragma, got: %v", bag.Items())
	}
}

func TestPragmaSuppressUnknownCheckNameIsReported(t *testing.T) {
	tree := ast.NewTree()
	b := ast.NewBuilder(tree)
	var sp source.Span

	pragma := ast.PragmaDecl{Name: "SUPPRESS", CheckName: "NOT_A_REAL_CHECK"}
	body := b.PackageBody(sp, "Pkg", []ast.DeclID{tree.Decls.NewPragma(sp, pragma)}, nil)
	unit := b.Unit(source.FileID(1), sp, nil, body)

	bag := diag.NewBag(20)
	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	Check(tree, unit, Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		Program:   program,
		UnitScope: root,
	})

	found := false
	for _, item := range bag.Items() {
		if item.Code == diag.SemaUnknownSuppressName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SemaUnknownSuppressName for an unrecognized check name, got: %v", bag.Items())
	}
}

func TestSuppressScopeDoesNotLeakPastItsPackageBody(t *testing.T) {
	tree := ast.NewTree()
	b := ast.NewBuilder(tree)
	var sp source.Span

	lowLit := b.IntLit(sp, "1")
	highLit := b.IntLit(sp, "10")
	typeDecl := b.IntegerType(sp, "Small", lowLit, highLit)
	mark := b.Ident(sp, "Small")
	objDecl := b.ObjectDecl(sp, "X", b.SubtypeInd(sp, mark), false, ast.NoExprID)
	pragma := ast.PragmaDecl{Name: "SUPPRESS", CheckName: "RANGE_CHECK"}

	inner := b.PackageBody(sp, "Inner", []ast.DeclID{tree.Decls.NewPragma(sp, pragma)}, nil)

	target := b.NameExpr(sp, b.Ident(sp, "X"))
	value := b.IntLit(sp, "20")
	assign := b.Assign(sp, target, value)

	outer := b.PackageBody(sp, "Outer", []ast.DeclID{typeDecl, objDecl, inner}, []ast.StmtID{assign})
	unit := b.Unit(source.FileID(1), sp, nil, outer)

	bag := diag.NewBag(20)
	program := symbols.NewProgram()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	Check(tree, unit, Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		Program:   program,
		UnitScope: root,
	})

	found := false
	for _, item := range bag.Items() {
		if item.Code == diag.SemaLiteralOutOfRange {
			found = true
		}
	}
	if !found {
		t.Fatalf("a pragma Suppress inside a nested package body leaked out to the enclosing one's own assignment: %v", bag.Items())
	}
}
