package types

import (
	"fmt"
	"math/big"
)

// Builtins holds the TypeIDs for the predefined environment types every
// compilation implicitly withs: STANDARD's scalar types plus the two
// universal numeric types used for unresolved literals (LRM 3.5.4, 4.9).
type Builtins struct {
	Invalid        TypeID
	UniversalInt   TypeID
	UniversalReal  TypeID
	Integer        TypeID
	Natural        TypeID
	Positive       TypeID
	Float          TypeID
	Boolean        TypeID
	Character      TypeID
	StringType     TypeID // unconstrained array of Character
}

// Interner is the arena of every type descriptor produced while analyzing a
// set of library units. Only the two universal numeric types are
// deduplicated, by kind and name; the predefined STANDARD types are each
// created once by NewInterner. Nominal types introduced by
// a full type declaration (arrays, records, access, task, private, and any
// named integer/enumeration/float/fixed type) are never deduplicated against
// each other: in Ada two declarations always introduce distinct types even
// if structurally identical, so each call to InternNominal gets a fresh ID.
type Interner struct {
	types    []Type
	scalarDedup map[string]TypeID
	builtins Builtins
}

func NewInterner() *Interner {
	in := &Interner{
		types:       make([]Type, 1, 64), // index 0 reserved for KindInvalid
		scalarDedup: make(map[string]TypeID, 32),
	}
	in.builtins.Invalid = NoTypeID
	in.builtins.UniversalInt = in.internScalar(Type{Kind: KindUniversalInteger, Name: "universal_integer"})
	in.builtins.UniversalReal = in.internScalar(Type{Kind: KindUniversalReal, Name: "universal_real"})
	in.builtins.Integer = in.InternNominal(Type{
		Kind: KindInteger, Name: "INTEGER",
		Low:  big.NewInt(-(1 << 31)), High: big.NewInt((1 << 31) - 1),
	})
	in.builtins.Natural = in.InternNominal(Type{
		Kind: KindSubtype, Name: "NATURAL", Base: in.builtins.Integer,
		Low: big.NewInt(0), High: big.NewInt((1 << 31) - 1),
	})
	in.builtins.Positive = in.InternNominal(Type{
		Kind: KindSubtype, Name: "POSITIVE", Base: in.builtins.Integer,
		Low: big.NewInt(1), High: big.NewInt((1 << 31) - 1),
	})
	in.builtins.Float = in.InternNominal(Type{Kind: KindFloatingPoint, Name: "FLOAT", Digits: 6})
	in.builtins.Boolean = in.InternNominal(Type{Kind: KindEnumeration, Name: "BOOLEAN", Literals: []string{"FALSE", "TRUE"}})
	in.builtins.Character = in.InternNominal(Type{Kind: KindEnumeration, Name: "CHARACTER", Literals: latin1Literals()})
	in.builtins.StringType = in.InternNominal(Type{
		Kind: KindArray, Name: "STRING", Unconstrained: true,
		IndexTypes: []TypeID{in.builtins.Positive}, ComponentType: in.builtins.Character,
	})
	return in
}

func (in *Interner) Builtins() Builtins { return in.builtins }

// internScalar interns a type that should be a process-wide singleton
// (the universal types) keyed by its Kind and Name alone.
func (in *Interner) internScalar(t Type) TypeID {
	key := fmt.Sprintf("%d:%s", t.Kind, t.Name)
	if id, ok := in.scalarDedup[key]; ok {
		return id
	}
	id := in.push(t)
	in.scalarDedup[key] = id
	return id
}

// InternNominal always allocates a fresh TypeID: it backs every full type
// declaration and subtype declaration, each of which introduces a distinct
// type identity per LRM 3.3.
func (in *Interner) InternNominal(t Type) TypeID {
	return in.push(t)
}

func (in *Interner) push(t Type) TypeID {
	in.types = append(in.types, t)
	return TypeID(len(in.types) - 1)
}

func (in *Interner) Lookup(id TypeID) (*Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return nil, false
	}
	return &in.types[id], true
}

// Resolve follows KindSubtype.Base links until it reaches the first type
// that is not itself a subtype view: the type's "ultimate base type" used
// for operator and overload compatibility checks (LRM 3.3.2).
func (in *Interner) Resolve(id TypeID) TypeID {
	seen := map[TypeID]bool{}
	for {
		t, ok := in.Lookup(id)
		if !ok || t.Kind != KindSubtype || !t.Base.IsValid() || seen[id] {
			return id
		}
		seen[id] = true
		id = t.Base
	}
}

func latin1Literals() []string {
	out := make([]string, 256)
	for i := range out {
		out[i] = string(rune(i))
	}
	return out
}
