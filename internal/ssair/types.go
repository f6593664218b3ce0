// Package ssair defines the intermediate representation that semantic
// analysis lowers into: one Func per subprogram body, made of basic blocks
// of straight-line Instrs ending in a single Terminator. Unlike the AST,
// every name in ssair is already resolved: places refer to locals or
// globals by index, types are TypeIDs, and calls/exceptions refer to
// Symbols, not source text.
package ssair

import (
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// FuncID identifies a function in a Module.
type FuncID int32

// BlockID identifies a basic block within a Func.
type BlockID int32

// LocalID identifies a local variable (including parameters) within a Func.
type LocalID int32

// GlobalID identifies a package-level object.
type GlobalID int32

const (
	NoFuncID   FuncID   = -1
	NoBlockID  BlockID  = -1
	NoLocalID  LocalID  = -1
	NoGlobalID GlobalID = -1
)

// LocalFlags records properties of a local slot beyond its type.
type LocalFlags uint8

const (
	// LocalFlagParam marks a slot that holds an incoming parameter.
	LocalFlagParam LocalFlags = 1 << iota
	// LocalFlagByRef marks a slot passed by reference (mode out/in out,
	// or any mode for an unconstrained array or large composite, per the
	// implementation's parameter-passing convention).
	LocalFlagByRef
	// LocalFlagReturnSlot marks the slot a function's result is assembled
	// into before the Return terminator reads it.
	LocalFlagReturnSlot
)

// Local describes one local variable, parameter, or temporary.
type Local struct {
	Sym   symbols.SymbolID // NoSymbolID for a compiler-introduced temporary
	Type  types.TypeID
	Flags LocalFlags
	Name  string
	Span  source.Span
}

// PlaceProjKind distinguishes the ways a Place can be projected from its
// base local or global.
type PlaceProjKind uint8

const (
	// PlaceProjField selects a record component by name.
	PlaceProjField PlaceProjKind = iota
	// PlaceProjIndex selects an array component by an index operand,
	// one per array dimension.
	PlaceProjIndex
	// PlaceProjDeref follows an access value to its designated object.
	PlaceProjDeref
)

// PlaceProj is one step of a Place's projection chain.
type PlaceProj struct {
	Kind       PlaceProjKind
	FieldName  string
	FieldIdx   int
	IndexLocal LocalID
}

// PlaceKind distinguishes a Place's base storage.
type PlaceKind uint8

const (
	PlaceLocal PlaceKind = iota
	PlaceGlobal
)

// Place names a storage location: a local or global, optionally projected
// through field selection, array indexing, or access dereference.
type Place struct {
	Kind   PlaceKind
	Local  LocalID
	Global GlobalID
	Proj   []PlaceProj
}

// IsValid reports whether p names a real location.
func (p Place) IsValid() bool {
	switch p.Kind {
	case PlaceGlobal:
		return p.Global != NoGlobalID
	default:
		return p.Local != NoLocalID
	}
}
