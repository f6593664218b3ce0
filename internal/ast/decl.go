package ast

import "adalower/internal/source"

// DeclKind enumerates the kinds of declarations that can appear in a
// declarative part.
type DeclKind uint8

const (
	DeclObject DeclKind = iota // variable or constant
	DeclNumber                 // named number (universal constant)
	DeclType
	DeclSubtype
	DeclSubprogramSpec
	DeclSubprogramBody
	DeclPackageSpec
	DeclPackageBody
	DeclException
	DeclRenaming
	DeclUse
	DeclTaskSpec
	DeclTaskBody
	DeclEntry
	DeclRepresentation // representation clause, accepted but inert (REDESIGN: see checks)
	DeclPragma
)

type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Name    string
	Payload PayloadID
}

// Mode is a parameter passing mode.
type Mode uint8

const (
	ModeIn Mode = iota
	ModeOut
	ModeInOut
)

type Param struct {
	Name    string
	Mode    Mode
	Type    SubtypeIndID
	Default ExprID // NoExprID if absent
	Span    source.Span
}

type ObjectDecl struct {
	Constant bool
	Type     SubtypeIndID
	Init     ExprID // NoExprID if uninitialized
}

type NumberDecl struct {
	Value ExprID // must be a static universal expression
}

type TypeDecl struct {
	Discriminants []DiscriminantID
	Def           TypeDefID
}

type Discriminant struct {
	Name    string
	Type    SubtypeIndID
	Default ExprID
	Span    source.Span
}

type SubtypeDecl struct {
	Ind SubtypeIndID
}

// SubprogramSpec covers both function and procedure profiles; ReturnType is
// NoSubtypeIndID for a procedure.
type SubprogramSpec struct {
	IsFunction bool
	Params     []ParamID
	ReturnType SubtypeIndID
}

type SubprogramBody struct {
	Spec        DeclID // the matching DeclSubprogramSpec, or NoDeclID if implicit
	Decls       []DeclID
	Stmts       []StmtID
	Handlers    []HandlerID
}

type PackageSpec struct {
	Public  []DeclID
	Private []DeclID
}

type PackageBody struct {
	Decls []DeclID
	Stmts []StmtID // initialization sequence, may be empty
}

type ExceptionDecl struct{}

type RenamingDecl struct {
	Target NameID
}

type UseDecl struct {
	Unit string
}

type TaskSpec struct {
	Entries []EntryID
}

type TaskBody struct {
	Decls []DeclID
	Stmts []StmtID
}

type EntryDecl struct {
	Params []ParamID
}

type BlockDecl struct {
	Label    string
	Decls    []DeclID
	Stmts    []StmtID
	Handlers []HandlerID
}

type Handler struct {
	Exceptions []string // "others" represented as the literal string "others"
	Stmts      []StmtID
	Span       source.Span
}

// PragmaDecl is a recognized pragma's parsed arguments. Only pragma
// SUPPRESS's shape (LRM 11.7: a check name and an optional entity name)
// is captured; every other pragma name still parses but carries no
// arguments, since nothing downstream consults them.
type PragmaDecl struct {
	Name      string // upper-cased pragma identifier, e.g. "SUPPRESS"
	CheckName string // first argument, for pragma SUPPRESS
	Entity    string // second argument, if present
}

// Decls owns the per-kind arenas backing Decl payloads.
type Decls struct {
	Arena        *Arena[Decl]
	Params       *Arena[Param]
	Discriminants *Arena[Discriminant]
	Objects      *Arena[ObjectDecl]
	Numbers      *Arena[NumberDecl]
	Types        *Arena[TypeDecl]
	Subtypes     *Arena[SubtypeDecl]
	SubSpecs     *Arena[SubprogramSpec]
	SubBodies    *Arena[SubprogramBody]
	PkgSpecs     *Arena[PackageSpec]
	PkgBodies    *Arena[PackageBody]
	Exceptions   *Arena[ExceptionDecl]
	Renamings    *Arena[RenamingDecl]
	Uses         *Arena[UseDecl]
	TaskSpecs    *Arena[TaskSpec]
	TaskBodies   *Arena[TaskBody]
	Entries      *Arena[EntryDecl]
	Handlers     *Arena[Handler]
	Pragmas      *Arena[PragmaDecl]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Decls{
		Arena:         NewArena[Decl](capHint),
		Params:        NewArena[Param](capHint),
		Discriminants: NewArena[Discriminant](capHint),
		Objects:       NewArena[ObjectDecl](capHint),
		Numbers:       NewArena[NumberDecl](capHint),
		Types:         NewArena[TypeDecl](capHint),
		Subtypes:      NewArena[SubtypeDecl](capHint),
		SubSpecs:      NewArena[SubprogramSpec](capHint),
		SubBodies:     NewArena[SubprogramBody](capHint),
		PkgSpecs:      NewArena[PackageSpec](capHint),
		PkgBodies:     NewArena[PackageBody](capHint),
		Exceptions:    NewArena[ExceptionDecl](capHint),
		Renamings:     NewArena[RenamingDecl](capHint),
		Uses:          NewArena[UseDecl](capHint),
		TaskSpecs:     NewArena[TaskSpec](capHint),
		TaskBodies:    NewArena[TaskBody](capHint),
		Entries:       NewArena[EntryDecl](capHint),
		Handlers:      NewArena[Handler](capHint),
		Pragmas:       NewArena[PragmaDecl](capHint),
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, name string, payload PayloadID) DeclID {
	return DeclID(d.Arena.Allocate(Decl{Kind: kind, Span: span, Name: name, Payload: payload}))
}

func (d *Decls) Get(id DeclID) *Decl { return d.Arena.Get(uint32(id)) }

func (d *Decls) NewObject(span source.Span, name string, obj ObjectDecl) DeclID {
	idx := PayloadID(d.Objects.Allocate(obj))
	return d.new(DeclObject, span, name, idx)
}

func (d *Decls) NewNumber(span source.Span, name string, num NumberDecl) DeclID {
	idx := PayloadID(d.Numbers.Allocate(num))
	return d.new(DeclNumber, span, name, idx)
}

func (d *Decls) NewType(span source.Span, name string, t TypeDecl) DeclID {
	idx := PayloadID(d.Types.Allocate(t))
	return d.new(DeclType, span, name, idx)
}

func (d *Decls) NewSubtype(span source.Span, name string, ind SubtypeIndID) DeclID {
	idx := PayloadID(d.Subtypes.Allocate(SubtypeDecl{Ind: ind}))
	return d.new(DeclSubtype, span, name, idx)
}

func (d *Decls) NewSubprogramSpec(span source.Span, name string, spec SubprogramSpec) DeclID {
	idx := PayloadID(d.SubSpecs.Allocate(spec))
	return d.new(DeclSubprogramSpec, span, name, idx)
}

func (d *Decls) NewSubprogramBody(span source.Span, name string, body SubprogramBody) DeclID {
	idx := PayloadID(d.SubBodies.Allocate(body))
	return d.new(DeclSubprogramBody, span, name, idx)
}

func (d *Decls) NewPackageSpec(span source.Span, name string, spec PackageSpec) DeclID {
	idx := PayloadID(d.PkgSpecs.Allocate(spec))
	return d.new(DeclPackageSpec, span, name, idx)
}

func (d *Decls) NewPackageBody(span source.Span, name string, body PackageBody) DeclID {
	idx := PayloadID(d.PkgBodies.Allocate(body))
	return d.new(DeclPackageBody, span, name, idx)
}

func (d *Decls) NewException(span source.Span, name string) DeclID {
	idx := PayloadID(d.Exceptions.Allocate(ExceptionDecl{}))
	return d.new(DeclException, span, name, idx)
}

func (d *Decls) NewUse(span source.Span, unit string) DeclID {
	idx := PayloadID(d.Uses.Allocate(UseDecl{Unit: unit}))
	return d.new(DeclUse, span, "", idx)
}

func (d *Decls) NewPragma(span source.Span, pragma PragmaDecl) DeclID {
	idx := PayloadID(d.Pragmas.Allocate(pragma))
	return d.new(DeclPragma, span, pragma.Name, idx)
}
