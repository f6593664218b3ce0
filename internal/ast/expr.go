package ast

import "adalower/internal/source"

// ExprKind enumerates the kinds of expression nodes.
type ExprKind uint8

const (
	ExprName ExprKind = iota
	ExprIntLiteral
	ExprRealLiteral
	ExprCharLiteral
	ExprStringLiteral
	ExprNull
	ExprBinary
	ExprUnary
	ExprShortCircuit // and then / or else
	ExprMembership   // in / not in
	ExprCall         // function call or type conversion, disambiguated in sema
	ExprIndexed
	ExprSelected    // record component or selected name
	ExprAttribute   // Prefix'Attribute(args)
	ExprAggregate   // record or array aggregate
	ExprQualified   // Type'(Expr)
	ExprAllocator   // new T
)

// BinaryOp enumerates the dyadic operators of predefined Ada operator symbols.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpRem
	OpPow
	OpConcat
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpXor
)

// UnaryOp enumerates the monadic operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpIdentity
	OpNot
	OpAbs
)

// Expr is the generic expression node: Kind selects which arena in Exprs
// holds the node-specific payload, addressed by Payload.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type NameExpr struct {
	Name NameID
}

type IntLiteralExpr struct {
	// Text is the literal exactly as written, preserving underscores and
	// base notation (e.g. "16#FF#"); sema parses it into a universal integer.
	Text string
}

type RealLiteralExpr struct {
	Text string
}

type CharLiteralExpr struct {
	Value rune
}

type StringLiteralExpr struct {
	Value string
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type UnaryExpr struct {
	Op      UnaryOp
	Operand ExprID
}

type ShortCircuitExpr struct {
	IsOrElse bool // false = "and then", true = "or else"
	Left     ExprID
	Right    ExprID
}

type MembershipExpr struct {
	Negated bool
	Operand ExprID
	Range   SubtypeIndID
}

type CallExpr struct {
	Callee NameID
	Args   []Argument
}

// Argument is one actual parameter, either positional (Name invalid) or
// named ("Formal => Expr").
type Argument struct {
	Name  NameID
	Value ExprID
	Span  source.Span
}

type IndexedExpr struct {
	Prefix  ExprID
	Indices []ExprID
}

type SelectedExpr struct {
	Prefix   ExprID
	Selector string
	Span     source.Span
}

type AttributeExpr struct {
	Prefix     ExprID
	Designator string
	Args       []ExprID
}

// AggregateExpr covers both positional and named component associations for
// record and array aggregates; sema disambiguates against the target type.
type AggregateExpr struct {
	Positional []ExprID
	Named      []NamedComponent
	HasOthers  bool
	Others     ExprID
}

type NamedComponent struct {
	Choices []ExprID // component name(s) or index range(s)
	Value   ExprID
	Span    source.Span
}

type QualifiedExpr struct {
	TypeMark NameID
	Operand  ExprID
}

type AllocatorExpr struct {
	SubtypeInd SubtypeIndID
	Init       ExprID // NoExprID if uninitialized
}

// Exprs owns the per-kind arenas backing Expr payloads.
type Exprs struct {
	Arena       *Arena[Expr]
	Names       *Arena[NameExpr]
	IntLits     *Arena[IntLiteralExpr]
	RealLits    *Arena[RealLiteralExpr]
	CharLits    *Arena[CharLiteralExpr]
	StringLits  *Arena[StringLiteralExpr]
	Binaries    *Arena[BinaryExpr]
	Unaries     *Arena[UnaryExpr]
	ShortCircs  *Arena[ShortCircuitExpr]
	Memberships *Arena[MembershipExpr]
	Calls       *Arena[CallExpr]
	Indexed     *Arena[IndexedExpr]
	Selected    *Arena[SelectedExpr]
	Attributes  *Arena[AttributeExpr]
	Aggregates  *Arena[AggregateExpr]
	Qualified   *Arena[QualifiedExpr]
	Allocators  *Arena[AllocatorExpr]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Names:       NewArena[NameExpr](capHint),
		IntLits:     NewArena[IntLiteralExpr](capHint),
		RealLits:    NewArena[RealLiteralExpr](capHint),
		CharLits:    NewArena[CharLiteralExpr](capHint),
		StringLits:  NewArena[StringLiteralExpr](capHint),
		Binaries:    NewArena[BinaryExpr](capHint),
		Unaries:     NewArena[UnaryExpr](capHint),
		ShortCircs:  NewArena[ShortCircuitExpr](capHint),
		Memberships: NewArena[MembershipExpr](capHint),
		Calls:       NewArena[CallExpr](capHint),
		Indexed:     NewArena[IndexedExpr](capHint),
		Selected:    NewArena[SelectedExpr](capHint),
		Attributes:  NewArena[AttributeExpr](capHint),
		Aggregates:  NewArena[AggregateExpr](capHint),
		Qualified:   NewArena[QualifiedExpr](capHint),
		Allocators:  NewArena[AllocatorExpr](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

func (e *Exprs) Get(id ExprID) *Expr { return e.Arena.Get(uint32(id)) }

func (e *Exprs) NewNull(span source.Span) ExprID {
	return e.new(ExprNull, span, NoPayloadID)
}

func (e *Exprs) NewName(span source.Span, name NameID) ExprID {
	idx := PayloadID(e.Names.Allocate(NameExpr{Name: name}))
	return e.new(ExprName, span, idx)
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, lhs, rhs ExprID) ExprID {
	idx := PayloadID(e.Binaries.Allocate(BinaryExpr{Op: op, Left: lhs, Right: rhs}))
	return e.new(ExprBinary, span, idx)
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	idx := PayloadID(e.Unaries.Allocate(UnaryExpr{Op: op, Operand: operand}))
	return e.new(ExprUnary, span, idx)
}

func (e *Exprs) NewShortCircuit(span source.Span, orElse bool, lhs, rhs ExprID) ExprID {
	idx := PayloadID(e.ShortCircs.Allocate(ShortCircuitExpr{IsOrElse: orElse, Left: lhs, Right: rhs}))
	return e.new(ExprShortCircuit, span, idx)
}

func (e *Exprs) NewCall(span source.Span, callee NameID, args []Argument) ExprID {
	idx := PayloadID(e.Calls.Allocate(CallExpr{Callee: callee, Args: args}))
	return e.new(ExprCall, span, idx)
}

func (e *Exprs) NewSelected(span source.Span, prefix ExprID, selector string, selSpan source.Span) ExprID {
	idx := PayloadID(e.Selected.Allocate(SelectedExpr{Prefix: prefix, Selector: selector, Span: selSpan}))
	return e.new(ExprSelected, span, idx)
}

func (e *Exprs) NewAttribute(span source.Span, prefix ExprID, designator string, args []ExprID) ExprID {
	idx := PayloadID(e.Attributes.Allocate(AttributeExpr{Prefix: prefix, Designator: designator, Args: args}))
	return e.new(ExprAttribute, span, idx)
}
