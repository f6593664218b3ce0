package frontend

import (
	"testing"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Tree, *ast.Unit, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ads", []byte(src))
	tree := ast.NewTree()
	bag := diag.NewBag(20)

	fe := New()
	unitID, err := fe.ParseFile(tree, fs.Get(id), &diag.BagReporter{Bag: bag})
	if err != nil {
		return tree, nil, bag
	}
	return tree, tree.Unit(unitID), bag
}

func TestParsePackageSpec(t *testing.T) {
	tree, unit, bag := parseSource(t, `
package Greetings is
   Max_Len : constant := 10;
   procedure Hello(Name : in String);
end Greetings;
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	if unit == nil {
		t.Fatalf("expected a parsed unit")
	}
	root := tree.Decls.Get(unit.Root)
	if root.Kind != ast.DeclPackageSpec || root.Name != "Greetings" {
		t.Fatalf("expected package spec Greetings, got %+v", root)
	}
	spec := tree.Decls.PkgSpecs.Get(uint32(root.Payload))
	if len(spec.Public) != 2 {
		t.Fatalf("expected 2 public declarations, got %d: %+v", len(spec.Public), spec.Public)
	}
	num := tree.Decls.Get(spec.Public[0])
	if num.Kind != ast.DeclNumber || num.Name != "Max_Len" {
		t.Fatalf("expected number decl Max_Len, got %+v", num)
	}
	sub := tree.Decls.Get(spec.Public[1])
	if sub.Kind != ast.DeclSubprogramSpec || sub.Name != "Hello" {
		t.Fatalf("expected subprogram spec Hello, got %+v", sub)
	}
}

func TestParseSubprogramBodyWithStatements(t *testing.T) {
	tree, unit, bag := parseSource(t, `
procedure Count_Down(N : in Integer) is
begin
   while N > 0 loop
      N := N - 1;
   end loop;
end Count_Down;
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	root := tree.Decls.Get(unit.Root)
	if root.Kind != ast.DeclSubprogramBody || root.Name != "Count_Down" {
		t.Fatalf("expected subprogram body Count_Down, got %+v", root)
	}
	body := tree.Decls.SubBodies.Get(uint32(root.Payload))
	if len(body.Stmts) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(body.Stmts))
	}
}

func TestParseContextClause(t *testing.T) {
	_, unit, bag := parseSource(t, `
with Ada.Text_IO;
use Ada.Text_IO;
procedure Main is
begin
   null;
end Main;
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	if len(unit.Context) != 1 || unit.Context[0].Unit != "Ada.Text_IO" {
		t.Fatalf("expected one with-clause for Ada.Text_IO, got %+v", unit.Context)
	}
	if len(unit.Uses) != 1 || unit.Uses[0] != "Ada.Text_IO" {
		t.Fatalf("expected one use-clause for Ada.Text_IO, got %+v", unit.Uses)
	}
}

func TestParseUnexpectedTokenReportsDiagnostic(t *testing.T) {
	_, _, bag := parseSource(t, `
procedure Broken is
begin
   X := ;
end Broken;
`)
	if !bag.HasErrors() {
		t.Fatalf("expected a syntax error for the missing expression")
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	tree, unit, bag := parseSource(t, `
procedure P is
   Result : Integer;
begin
   Result := 1 + 2 * 3 - 4 / 2;
end P;
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.Items())
	}
	root := tree.Decls.Get(unit.Root)
	body := tree.Decls.SubBodies.Get(uint32(root.Payload))
	if len(body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(body.Stmts))
	}
	stmt := tree.Stmts.Get(body.Stmts[0])
	if stmt.Kind != ast.StmtAssign {
		t.Fatalf("expected an assignment statement, got %+v", stmt)
	}
	binary := func(id ast.ExprID) *ast.BinaryExpr {
		e := tree.Exprs.Get(id)
		if e == nil || e.Kind != ast.ExprBinary {
			t.Fatalf("expected a binary expression, got %+v", e)
		}
		return tree.Exprs.Binaries.Get(uint32(e.Payload))
	}
	assign := tree.Stmts.Assigns.Get(uint32(stmt.Payload))
	top := binary(assign.Value)
	if top.Op != ast.OpSub {
		t.Fatalf("expected '-' at the root, got op %v", top.Op)
	}
	left, right := binary(top.Left), binary(top.Right)
	if left.Op != ast.OpAdd || right.Op != ast.OpDiv {
		t.Fatalf("expected (1 + 2 * 3) - (4 / 2), got ops %v and %v", left.Op, right.Op)
	}
	if inner := binary(left.Right); inner.Op != ast.OpMul {
		t.Fatalf("expected 2 * 3 under '+', got op %v", inner.Op)
	}
}
