package ssair

import (
	"adalower/internal/ast"
	"adalower/internal/checks"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// InstrKind enumerates straight-line instruction kinds. Each kind that
// produces a value writes it to a Dst Place; this is a three-address-code
// IR, not an expression tree, so every intermediate result gets its own
// temporary local.
type InstrKind uint8

const (
	// InstrAssign copies an Operand into a Place unchanged.
	InstrAssign InstrKind = iota
	// InstrCall invokes a subprogram, optionally storing its result.
	InstrCall
	// InstrBinOp applies a dyadic predefined operator.
	InstrBinOp
	// InstrUnOp applies a monadic predefined operator.
	InstrUnOp
	// InstrConvert performs an explicit or implicit type conversion
	// (LRM 4.6), including the fixed/float and integer/fixed conversions
	// that fix a universal value to a concrete representation.
	InstrConvert
	// InstrIndex reads one component of an array Place.
	InstrIndex
	// InstrField reads one component of a record Place.
	InstrField
	// InstrAlloc allocates a new object of a designated type on the heap,
	// producing an access value (LRM 4.8, "allocator").
	InstrAlloc
	// InstrLoad dereferences an access value into a Place.
	InstrLoad
	// InstrStore writes through an access value.
	InstrStore
	// InstrRaise raises a named exception, or re-raises the exception
	// currently being handled when Exception is empty (LRM 11.3).
	InstrRaise
	// InstrCheck performs a runtime check (range, index, overflow, ...)
	// and raises CONSTRAINT_ERROR on failure, unless the check's kind is
	// statically known to be suppressed in scope (pragma SUPPRESS).
	InstrCheck
	// InstrNop is a placeholder that does nothing; used by simplification
	// passes that remove an instruction without renumbering a block.
	InstrNop
)

// Instr is one straight-line instruction; Kind selects which field is live.
type Instr struct {
	Kind InstrKind

	Assign  Assign
	Call    Call
	BinOp   BinOp
	UnOp    UnOp
	Convert Convert
	Index   Index
	Field   Field
	Alloc   Alloc
	Load    Load
	Store   Store
	Raise   Raise
	Check   Check
}

// Assign is InstrAssign's payload.
type Assign struct {
	Dst Place
	Src Operand
}

// CalleeKind distinguishes a call's target.
type CalleeKind uint8

const (
	// CalleeSym calls a statically known subprogram symbol.
	CalleeSym CalleeKind = iota
	// CalleeValue calls through an access-to-subprogram value (not part
	// of Ada 83, reserved for a future dialect extension).
	CalleeValue
)

// Callee names a call's target.
type Callee struct {
	Kind CalleeKind
	Sym  symbols.SymbolID
	Name string
}

// Call is InstrCall's payload.
type Call struct {
	HasDst bool
	Dst    Place
	Callee Callee
	Args   []Operand
}

// BinOp is InstrBinOp's payload.
type BinOp struct {
	Dst   Place
	Op    ast.BinaryOp
	Left  Operand
	Right Operand
}

// UnOp is InstrUnOp's payload.
type UnOp struct {
	Dst     Place
	Op      ast.UnaryOp
	Operand Operand
}

// Convert is InstrConvert's payload.
type Convert struct {
	Dst    Place
	Value  Operand
	Target types.TypeID
}

// Index is InstrIndex's payload; one Operand per array dimension.
type Index struct {
	Dst     Place
	Object  Place
	Indices []Operand
}

// Field is InstrField's payload.
type Field struct {
	Dst       Place
	Object    Place
	FieldName string
	FieldIdx  int
}

// Alloc is InstrAlloc's payload: Dst receives the new access value.
type Alloc struct {
	Dst  Place
	Type types.TypeID // the designated type being allocated
	Init Operand       // zero Operand if the allocator has no qualified init
}

// Load is InstrLoad's payload.
type Load struct {
	Dst Place
	Src Place
}

// Store is InstrStore's payload.
type Store struct {
	Dst Place
	Src Operand
}

// Raise is InstrRaise's payload.
type Raise struct {
	Exception symbols.SymbolID // NoSymbolID for a bare re-raise
	Name      string
}

// Check is InstrCheck's payload. Low/High are present only for Kind ==
// checks.Range; Bound is present only for checks.Index/checks.Length.
type Check struct {
	Kind  checks.Kind
	Value Operand
	Low   Operand
	High  Operand
	Bound Operand
}

// OperandKind distinguishes an Operand's source.
type OperandKind uint8

const (
	OperandConst OperandKind = iota
	OperandUse               // read from a Place without consuming it
)

// Operand is a value used as an instruction's argument.
type Operand struct {
	Kind  OperandKind
	Type  types.TypeID
	Const Const
	Place Place
}

// ConstKind distinguishes a Const's representation.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstReal
	ConstBool
	ConstString
	ConstEnumLiteral
	ConstNull // the null access value
)

// Const is a compile-time-known value.
type Const struct {
	Kind ConstKind
	Type types.TypeID

	// Text preserves the big.Int/big.Rat's canonical decimal text so
	// arbitrary-precision universal values survive lowering without
	// committing to a machine width until codegen picks one.
	Text        string
	BoolValue   bool
	StringValue string
	EnumLiteral string
}
