package ast

import "adalower/internal/source"

// SubtypeInd is a subtype indication: a type mark plus an optional
// constraint, as written at a declaration site (e.g. "INTEGER range 1..10").
type SubtypeInd struct {
	Mark       NameID
	Constraint ConstraintID // NoConstraintID if unconstrained
	Span       source.Span
}

type ConstraintKind uint8

const (
	ConstraintRange ConstraintKind = iota
	ConstraintIndex
	ConstraintDiscriminant
	ConstraintDigits // fixed/float 'digits' or 'delta' constraint
)

type Constraint struct {
	Kind    ConstraintKind
	Payload PayloadID
	Span    source.Span
}

type RangeConstraint struct {
	Low  ExprID
	High ExprID
}

type IndexConstraint struct {
	Ranges []ConstraintID // each a ConstraintRange, one per array dimension
}

type DiscriminantConstraint struct {
	Values []ExprID // positional; named discriminant associations resolved in sema
	Names  []string // parallel to Values when named, else empty
}

type DigitsConstraint struct {
	Digits ExprID // NoExprID if absent
	Delta  ExprID // NoExprID if absent (float 'digits' has no delta)
	Range  ConstraintID
}

// TypeDefKind enumerates the right-hand sides a full type declaration may have.
type TypeDefKind uint8

const (
	TypeDefDerived TypeDefKind = iota
	TypeDefEnumeration
	TypeDefIntegerRange // signed integer: "range L .. H"
	TypeDefModular      // modular type: "mod M"  (REDESIGN: Ada 83 has no mod types; accepted for forward compatibility, diagnosed as unsupported)
	TypeDefFloatingPoint
	TypeDefFixedPoint
	TypeDefArray
	TypeDefRecord
	TypeDefAccess
	TypeDefPrivate // private / limited private, body supplied elsewhere
	TypeDefTask
)

type Enumerator struct {
	Name string
	// CharLiteral holds the character code for a character-literal enumerator
	// ('A') or -1 for an identifier enumerator.
	CharLiteral rune
	Span        source.Span
}

type DerivedTypeDef struct {
	Parent SubtypeIndID
}

type EnumerationTypeDef struct {
	Literals []Enumerator
}

type IntegerRangeTypeDef struct {
	Low  ExprID
	High ExprID
}

type FloatingPointTypeDef struct {
	Digits ExprID
	Range  ConstraintID // NoConstraintID if absent
}

type FixedPointTypeDef struct {
	Delta ExprID
	Range ConstraintID
}

type ArrayTypeDef struct {
	// IndexSubtypes holds one entry per dimension for a constrained array
	// type; for an unconstrained array type each entry's Mark names the
	// index subtype and Unconstrained is true.
	IndexSubtypes  []SubtypeIndID
	Unconstrained  bool
	ComponentType  SubtypeIndID
}

type RecordTypeDef struct {
	Components []ComponentID
	Variant    VariantID // NoVariantID if the record has no variant part
}

type Component struct {
	Name string
	Type SubtypeIndID
	Default ExprID
	Span source.Span
}

// Variant models a record's variant part: "case Disc is when Choices => ... end case".
type Variant struct {
	Discriminant string
	Arms         []VariantArm
}

type VariantArm struct {
	Choices   []ExprID
	HasOthers bool
	Components []ComponentID
	Nested    VariantID // NoVariantID if this arm has no nested variant part
}

type AccessTypeDef struct {
	Designated SubtypeIndID
}

type PrivateTypeDef struct {
	Limited bool
}

type TaskTypeDef struct {
	Spec DeclID // NoDeclID for a task type with no explicit entries
}

type TypeDefs struct {
	Arena      *Arena[TypeDefNode]
	Derived    *Arena[DerivedTypeDef]
	Enums      *Arena[EnumerationTypeDef]
	IntRanges  *Arena[IntegerRangeTypeDef]
	Floats     *Arena[FloatingPointTypeDef]
	Fixeds     *Arena[FixedPointTypeDef]
	Arrays     *Arena[ArrayTypeDef]
	Records    *Arena[RecordTypeDef]
	Accesses   *Arena[AccessTypeDef]
	Privates   *Arena[PrivateTypeDef]
	Tasks      *Arena[TaskTypeDef]
	Components *Arena[Component]
	Variants   *Arena[Variant]
}

type TypeDefNode struct {
	Kind    TypeDefKind
	Span    source.Span
	Payload PayloadID
}

func NewTypeDefs(capHint uint) *TypeDefs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &TypeDefs{
		Arena:      NewArena[TypeDefNode](capHint),
		Derived:    NewArena[DerivedTypeDef](capHint),
		Enums:      NewArena[EnumerationTypeDef](capHint),
		IntRanges:  NewArena[IntegerRangeTypeDef](capHint),
		Floats:     NewArena[FloatingPointTypeDef](capHint),
		Fixeds:     NewArena[FixedPointTypeDef](capHint),
		Arrays:     NewArena[ArrayTypeDef](capHint),
		Records:    NewArena[RecordTypeDef](capHint),
		Accesses:   NewArena[AccessTypeDef](capHint),
		Privates:   NewArena[PrivateTypeDef](capHint),
		Tasks:      NewArena[TaskTypeDef](capHint),
		Components: NewArena[Component](capHint),
		Variants:   NewArena[Variant](capHint),
	}
}

func (t *TypeDefs) Get(id TypeDefID) *TypeDefNode { return t.Arena.Get(uint32(id)) }

func (t *TypeDefs) new(kind TypeDefKind, span source.Span, payload PayloadID) TypeDefID {
	return TypeDefID(t.Arena.Allocate(TypeDefNode{Kind: kind, Span: span, Payload: payload}))
}

func (t *TypeDefs) NewIntegerRange(span source.Span, def IntegerRangeTypeDef) TypeDefID {
	idx := PayloadID(t.IntRanges.Allocate(def))
	return t.new(TypeDefIntegerRange, span, idx)
}

func (t *TypeDefs) NewEnumeration(span source.Span, def EnumerationTypeDef) TypeDefID {
	idx := PayloadID(t.Enums.Allocate(def))
	return t.new(TypeDefEnumeration, span, idx)
}

func (t *TypeDefs) NewArray(span source.Span, def ArrayTypeDef) TypeDefID {
	idx := PayloadID(t.Arrays.Allocate(def))
	return t.new(TypeDefArray, span, idx)
}

func (t *TypeDefs) NewRecord(span source.Span, def RecordTypeDef) TypeDefID {
	idx := PayloadID(t.Records.Allocate(def))
	return t.new(TypeDefRecord, span, idx)
}

func (t *TypeDefs) NewAccess(span source.Span, def AccessTypeDef) TypeDefID {
	idx := PayloadID(t.Accesses.Allocate(def))
	return t.new(TypeDefAccess, span, idx)
}

func (t *TypeDefs) NewDerived(span source.Span, def DerivedTypeDef) TypeDefID {
	idx := PayloadID(t.Derived.Allocate(def))
	return t.new(TypeDefDerived, span, idx)
}

func (t *TypeDefs) NewFloatingPoint(span source.Span, def FloatingPointTypeDef) TypeDefID {
	idx := PayloadID(t.Floats.Allocate(def))
	return t.new(TypeDefFloatingPoint, span, idx)
}

func (t *TypeDefs) NewFixedPoint(span source.Span, def FixedPointTypeDef) TypeDefID {
	idx := PayloadID(t.Fixeds.Allocate(def))
	return t.new(TypeDefFixedPoint, span, idx)
}

// Constraints and SubtypeInds are owned directly by Tree, not TypeDefs,
// because both declarations and expressions (range membership tests) refer
// to them.
type Constraints struct {
	Arena          *Arena[Constraint]
	Ranges         *Arena[RangeConstraint]
	Indices        *Arena[IndexConstraint]
	Discriminants  *Arena[DiscriminantConstraint]
	Digits         *Arena[DigitsConstraint]
}

func NewConstraints(capHint uint) *Constraints {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Constraints{
		Arena:         NewArena[Constraint](capHint),
		Ranges:        NewArena[RangeConstraint](capHint),
		Indices:       NewArena[IndexConstraint](capHint),
		Discriminants: NewArena[DiscriminantConstraint](capHint),
		Digits:        NewArena[DigitsConstraint](capHint),
	}
}

func (c *Constraints) Get(id ConstraintID) *Constraint { return c.Arena.Get(uint32(id)) }

func (c *Constraints) NewRange(span source.Span, low, high ExprID) ConstraintID {
	idx := PayloadID(c.Ranges.Allocate(RangeConstraint{Low: low, High: high}))
	return ConstraintID(c.Arena.Allocate(Constraint{Kind: ConstraintRange, Span: span, Payload: idx}))
}

func (c *Constraints) NewIndex(span source.Span, def IndexConstraint) ConstraintID {
	idx := PayloadID(c.Indices.Allocate(def))
	return ConstraintID(c.Arena.Allocate(Constraint{Kind: ConstraintIndex, Span: span, Payload: idx}))
}

func (c *Constraints) NewDiscriminant(span source.Span, def DiscriminantConstraint) ConstraintID {
	idx := PayloadID(c.Discriminants.Allocate(def))
	return ConstraintID(c.Arena.Allocate(Constraint{Kind: ConstraintDiscriminant, Span: span, Payload: idx}))
}

func (c *Constraints) NewDigits(span source.Span, def DigitsConstraint) ConstraintID {
	idx := PayloadID(c.Digits.Allocate(def))
	return ConstraintID(c.Arena.Allocate(Constraint{Kind: ConstraintDigits, Span: span, Payload: idx}))
}

type SubtypeInds struct {
	Arena *Arena[SubtypeInd]
}

func NewSubtypeInds(capHint uint) *SubtypeInds {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &SubtypeInds{Arena: NewArena[SubtypeInd](capHint)}
}

func (s *SubtypeInds) Get(id SubtypeIndID) *SubtypeInd { return s.Arena.Get(uint32(id)) }

func (s *SubtypeInds) New(span source.Span, mark NameID, constraint ConstraintID) SubtypeIndID {
	return SubtypeIndID(s.Arena.Allocate(SubtypeInd{Mark: mark, Constraint: constraint, Span: span}))
}
