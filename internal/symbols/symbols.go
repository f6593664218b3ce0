// Package symbols models the name space a library unit elaborates into:
// declarative regions chained into lexical scopes, the symbols visible in
// each, and the cross-unit visibility rules (with, use, selected names)
// that govern which declarations a given identifier can denote.
package symbols

import (
	"adalower/internal/ast"
	"adalower/internal/source"
	"adalower/internal/types"
)

// SymbolID identifies an interned symbol. The zero value denotes "no symbol".
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// ScopeID identifies a declarative region.
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// Kind classifies what a symbol denotes, mirroring the entity categories
// LRM 8.3 distinguishes for the purpose of overload resolution and
// visibility ("denotable entities").
type Kind uint8

const (
	KindInvalid Kind = iota
	KindObject
	KindConstant
	KindType
	KindSubtype
	KindSubprogram
	KindPackage
	KindException
	KindLabel
	KindLoopName
	KindBlockName
	KindEntry
	KindDiscriminant
	KindEnumLiteral
)

// Symbol is one declared entity. Which of Type/Params/ReturnType are
// meaningful depends on Kind: KindSubprogram and KindEntry use Params and
// (for functions) ReturnType, every other kind that carries a type uses
// Type alone.
type Symbol struct {
	ID         SymbolID
	Name       string // as declared; matching is case-insensitive (LRM 2.3)
	Kind       Kind
	Span       source.Span
	Decl       ast.DeclID
	Type       types.TypeID
	IsFunction bool
	Params     []ParamSymbol
	ReturnType types.TypeID
	Scope      ScopeID // the scope this symbol was declared directly in

	// Overloadable is true for subprograms and enumeration literals, the
	// only denotable entities for which more than one homograph may be
	// simultaneously visible (LRM 8.3(12)).
	Overloadable bool

	// IsParameter marks a KindObject symbol as a formal parameter rather
	// than an ordinary variable; Mode is only meaningful when this is set.
	IsParameter bool
	Mode        ast.Mode
}

// ParamSymbol is one formal parameter of a subprogram or entry symbol.
type ParamSymbol struct {
	Name    string
	Mode    ast.Mode
	Type    types.TypeID
	Default ast.ExprID
}
