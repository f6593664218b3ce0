package ast

type (
	// UnitID identifies a compilation unit (a library unit spec, body, or subunit).
	UnitID uint32
	// DeclID identifies a declaration.
	DeclID uint32
	// StmtID identifies a statement.
	StmtID uint32
	// ExprID identifies an expression.
	ExprID uint32
	// NameID identifies a (possibly selected/indexed) name.
	NameID uint32
	// SubtypeIndID identifies a subtype indication (type mark plus optional constraint).
	SubtypeIndID uint32
	// ConstraintID identifies a range, index, or discriminant constraint.
	ConstraintID uint32
	// TypeDefID identifies a type definition (the right-hand side of a type declaration).
	TypeDefID uint32
	// ParamID identifies a formal parameter specification.
	ParamID uint32
	// DiscriminantID identifies a discriminant specification.
	DiscriminantID uint32
	// ComponentID identifies a record component declaration.
	ComponentID uint32
	// VariantID identifies one arm of a record variant part.
	VariantID uint32
	// ChoiceID identifies one choice in a case alternative or variant part.
	ChoiceID uint32
	// HandlerID identifies an exception handler.
	HandlerID uint32
	// WithID identifies one entry of a with-clause.
	WithID uint32
	// EntryID identifies a task entry declaration.
	EntryID uint32
	// PayloadID indexes auxiliary per-kind node data in the owning arena.
	PayloadID uint32
)

const (
	NoUnitID        UnitID         = 0
	NoDeclID        DeclID         = 0
	NoStmtID        StmtID         = 0
	NoExprID        ExprID         = 0
	NoNameID        NameID         = 0
	NoSubtypeIndID  SubtypeIndID   = 0
	NoConstraintID  ConstraintID   = 0
	NoTypeDefID     TypeDefID      = 0
	NoParamID       ParamID        = 0
	NoDiscriminantID DiscriminantID = 0
	NoComponentID   ComponentID    = 0
	NoVariantID     VariantID      = 0
	NoChoiceID      ChoiceID       = 0
	NoHandlerID     HandlerID      = 0
	NoWithID        WithID         = 0
	NoEntryID       EntryID        = 0
	NoPayloadID     PayloadID      = 0
)

func (id UnitID) IsValid() bool         { return id != NoUnitID }
func (id DeclID) IsValid() bool         { return id != NoDeclID }
func (id StmtID) IsValid() bool         { return id != NoStmtID }
func (id ExprID) IsValid() bool         { return id != NoExprID }
func (id NameID) IsValid() bool         { return id != NoNameID }
func (id SubtypeIndID) IsValid() bool   { return id != NoSubtypeIndID }
func (id ConstraintID) IsValid() bool   { return id != NoConstraintID }
func (id TypeDefID) IsValid() bool      { return id != NoTypeDefID }
func (id ParamID) IsValid() bool        { return id != NoParamID }
func (id DiscriminantID) IsValid() bool { return id != NoDiscriminantID }
func (id ComponentID) IsValid() bool    { return id != NoComponentID }
func (id VariantID) IsValid() bool      { return id != NoVariantID }
func (id ChoiceID) IsValid() bool       { return id != NoChoiceID }
func (id HandlerID) IsValid() bool      { return id != NoHandlerID }
func (id WithID) IsValid() bool         { return id != NoWithID }
func (id EntryID) IsValid() bool        { return id != NoEntryID }
