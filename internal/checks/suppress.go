// Package checks tracks which run-time checks a pragma SUPPRESS has turned
// off within a declarative region, so the lowering pipeline can omit the
// corresponding guard instructions (LRM 11.7).
package checks

import "strings"

// Kind is one of the check names LRM 11.7(3) lists as suppressible.
type Kind uint16

const (
	Overflow Kind = 1 << iota
	Range
	Index
	Discriminant
	Length
	Division
	Elaboration
	Access
	Storage
)

// ByName maps a pragma SUPPRESS check-name identifier to its Kind. Unknown
// names are reported by the caller as SemaUnknownSuppressName.
var ByName = map[string]Kind{
	"OVERFLOW_CHECK":     Overflow,
	"RANGE_CHECK":        Range,
	"INDEX_CHECK":        Index,
	"DISCRIMINANT_CHECK": Discriminant,
	"LENGTH_CHECK":       Length,
	"DIVISION_CHECK":     Division,
	"ELABORATION_CHECK":  Elaboration,
	"ACCESS_CHECK":       Access,
	"STORAGE_CHECK":      Storage,
}

// Lookup resolves a pragma's check-name argument case-insensitively.
func Lookup(name string) (Kind, bool) {
	k, ok := ByName[strings.ToUpper(name)]
	return k, ok
}

// Mask is the set of checks suppressed in some declarative region. The
// zero Mask suppresses nothing: every check defaults to enabled.
type Mask uint16

// Suppress returns a mask with k turned off in addition to whatever m
// already suppresses; pragma SUPPRESS is never retroactive and never
// re-enables a check, matching LRM 11.7(7)'s "permission, not requirement"
// wording taken as monotonic within this implementation's model.
func (m Mask) Suppress(k Kind) Mask {
	return m | Mask(k)
}

func (m Mask) IsSuppressed(k Kind) bool {
	return Mask(k)&m != 0
}

// Scope is one lexical nesting level's suppress mask, inheriting its
// parent's suppressions (LRM 11.7(5): suppression in an outer region
// applies to everything declared within it).
type Scope struct {
	parent *Scope
	local  Mask
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Apply records a pragma SUPPRESS(k) effective from here to the end of
// this declarative region.
func (s *Scope) Apply(k Kind) {
	s.local = s.local.Suppress(k)
}

// IsSuppressed reports whether k is suppressed here, considering every
// enclosing scope.
func (s *Scope) IsSuppressed(k Kind) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.local.IsSuppressed(k) {
			return true
		}
	}
	return false
}
