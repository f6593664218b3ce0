package ast

import "adalower/internal/source"

// Builder provides a fluent, low-ceremony way to construct AST fragments
// directly from Go code, for use in tests and in the non-normative
// hand-written front end. It wraps a Tree and never fails: malformed
// combinations surface later as semantic diagnostics, not builder panics.
type Builder struct {
	Tree *Tree
}

func NewBuilder(t *Tree) *Builder {
	if t == nil {
		t = NewTree()
	}
	return &Builder{Tree: t}
}

func (b *Builder) Ident(span source.Span, name string) NameID {
	return b.Tree.Names.NewIdent(span, name)
}

func (b *Builder) Selected(span source.Span, qualifier NameID, selector string) NameID {
	return b.Tree.Names.NewSelected(span, qualifier, selector)
}

func (b *Builder) IntLit(span source.Span, text string) ExprID {
	idx := PayloadID(b.Tree.Exprs.IntLits.Allocate(IntLiteralExpr{Text: text}))
	return b.Tree.Exprs.new(ExprIntLiteral, span, idx)
}

func (b *Builder) RealLit(span source.Span, text string) ExprID {
	idx := PayloadID(b.Tree.Exprs.RealLits.Allocate(RealLiteralExpr{Text: text}))
	return b.Tree.Exprs.new(ExprRealLiteral, span, idx)
}

func (b *Builder) StringLit(span source.Span, value string) ExprID {
	idx := PayloadID(b.Tree.Exprs.StringLits.Allocate(StringLiteralExpr{Value: value}))
	return b.Tree.Exprs.new(ExprStringLiteral, span, idx)
}

func (b *Builder) CharLit(span source.Span, value rune) ExprID {
	idx := PayloadID(b.Tree.Exprs.CharLits.Allocate(CharLiteralExpr{Value: value}))
	return b.Tree.Exprs.new(ExprCharLiteral, span, idx)
}

func (b *Builder) NameExpr(span source.Span, name NameID) ExprID {
	return b.Tree.Exprs.NewName(span, name)
}

func (b *Builder) Binary(span source.Span, op BinaryOp, lhs, rhs ExprID) ExprID {
	return b.Tree.Exprs.NewBinary(span, op, lhs, rhs)
}

func (b *Builder) SubtypeInd(span source.Span, mark NameID) SubtypeIndID {
	return b.Tree.SubtypeInds.New(span, mark, NoConstraintID)
}

func (b *Builder) SubtypeIndConstrained(span source.Span, mark NameID, constraint ConstraintID) SubtypeIndID {
	return b.Tree.SubtypeInds.New(span, mark, constraint)
}

func (b *Builder) RangeConstraint(span source.Span, low, high ExprID) ConstraintID {
	return b.Tree.Constraints.NewRange(span, low, high)
}

func (b *Builder) ObjectDecl(span source.Span, name string, typ SubtypeIndID, constant bool, init ExprID) DeclID {
	return b.Tree.Decls.NewObject(span, name, ObjectDecl{Constant: constant, Type: typ, Init: init})
}

func (b *Builder) IntegerType(span source.Span, name string, low, high ExprID) DeclID {
	def := b.Tree.TypeDefs.NewIntegerRange(span, IntegerRangeTypeDef{Low: low, High: high})
	return b.Tree.Decls.NewType(span, name, TypeDecl{Def: def})
}

func (b *Builder) SubprogramSpec(span source.Span, name string, params []ParamID, ret SubtypeIndID) DeclID {
	return b.Tree.Decls.NewSubprogramSpec(span, name, SubprogramSpec{
		IsFunction: ret.IsValid(),
		Params:     params,
		ReturnType: ret,
	})
}

func (b *Builder) Param(span source.Span, name string, mode Mode, typ SubtypeIndID, def ExprID) ParamID {
	return ParamID(b.Tree.Decls.Params.Allocate(Param{Name: name, Mode: mode, Type: typ, Default: def, Span: span}))
}

func (b *Builder) SubprogramBody(span source.Span, name string, spec DeclID, decls []DeclID, stmts []StmtID) DeclID {
	return b.Tree.Decls.NewSubprogramBody(span, name, SubprogramBody{Spec: spec, Decls: decls, Stmts: stmts})
}

func (b *Builder) PackageSpec(span source.Span, name string, public, private []DeclID) DeclID {
	return b.Tree.Decls.NewPackageSpec(span, name, PackageSpec{Public: public, Private: private})
}

func (b *Builder) PackageBody(span source.Span, name string, decls []DeclID, stmts []StmtID) DeclID {
	return b.Tree.Decls.NewPackageBody(span, name, PackageBody{Decls: decls, Stmts: stmts})
}

func (b *Builder) Assign(span source.Span, target, value ExprID) StmtID {
	return b.Tree.Stmts.NewAssign(span, target, value)
}

func (b *Builder) Return(span source.Span, value ExprID) StmtID {
	return b.Tree.Stmts.NewReturn(span, value)
}

func (b *Builder) Accept(span source.Span, entry string, params []ParamID, body []StmtID) StmtID {
	return b.Tree.Stmts.NewAccept(span, AcceptStmt{Entry: entry, Params: params, Body: body})
}

func (b *Builder) Delay(span source.Span, duration ExprID) StmtID {
	return b.Tree.Stmts.NewDelay(span, duration)
}

func (b *Builder) Block(span source.Span, label string, decls []DeclID, stmts []StmtID, handlers []HandlerID) StmtID {
	return b.Tree.Stmts.NewBlock(span, BlockDecl{Label: label, Decls: decls, Stmts: stmts, Handlers: handlers})
}

func (b *Builder) Select(span source.Span, st SelectStmt) StmtID {
	return b.Tree.Stmts.NewSelect(span, st)
}

func (b *Builder) Unit(file source.FileID, span source.Span, withs []With, root DeclID) *Unit {
	u := &Unit{File: file, Context: withs, Root: root, Span: span}
	b.Tree.AddUnit(u)
	return u
}
