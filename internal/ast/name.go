package ast

import "adalower/internal/source"

// Name is a possibly-qualified reference as written in source, before name
// resolution. A bare identifier has no Qualifier; a selected name chains
// Qualifier -> Ident ("Pkg.Child" becomes Ident="Child", Qualifier names "Pkg").
type Name struct {
	Ident     string
	Qualifier NameID // NoNameID for an unqualified name
	Span      source.Span
}

type Names struct {
	Arena *Arena[Name]
}

func NewNames(capHint uint) *Names {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Names{Arena: NewArena[Name](capHint)}
}

func (n *Names) Get(id NameID) *Name { return n.Arena.Get(uint32(id)) }

func (n *Names) NewIdent(span source.Span, ident string) NameID {
	return NameID(n.Arena.Allocate(Name{Ident: ident, Span: span}))
}

func (n *Names) NewSelected(span source.Span, qualifier NameID, ident string) NameID {
	return NameID(n.Arena.Allocate(Name{Ident: ident, Qualifier: qualifier, Span: span}))
}

// Flatten renders a Name back into its dotted textual form, e.g. "Parent.Child".
func (n *Names) Flatten(id NameID) string {
	nm := n.Get(id)
	if nm == nil {
		return ""
	}
	if !nm.Qualifier.IsValid() {
		return nm.Ident
	}
	return n.Flatten(nm.Qualifier) + "." + nm.Ident
}
