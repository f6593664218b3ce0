package symbols

import "fmt"

// Visibility resolves names against the scope chain and the set of
// packages named in "use" clauses, implementing LRM 8.3's distinction
// between directly visible and use-visible declarations.
type Visibility struct {
	scopes *Scopes
	// packageScope maps a package symbol's folded name to the ScopeID of
	// its visible part, so a "use Pkg" clause can pull every symbol
	// declared there into direct visibility from the using scope onward.
	packageScope map[string]ScopeID
}

func NewVisibility(scopes *Scopes) *Visibility {
	return &Visibility{scopes: scopes, packageScope: make(map[string]ScopeID, 8)}
}

// RegisterPackage records which scope holds a package's visible
// declarations, so later "use" clauses naming it can be honored.
func (v *Visibility) RegisterPackage(name string, visiblePart ScopeID) {
	v.packageScope[foldName(name)] = visiblePart
}

// Candidates returns every symbol a bare identifier could denote when
// looked up starting from scopeID: first every directly visible homograph
// set found by walking up the enclosing-scope chain (LRM 8.3(4)), and only
// if none is found, the use-visible declarations contributed by "use"
// clauses active anywhere along that same chain (LRM 8.4(5)). A
// non-empty, multi-element result other than an overloadable set is an
// ambiguity the caller must diagnose.
func (v *Visibility) Candidates(scopeID ScopeID, name string) []SymbolID {
	var useVisible []SymbolID
	for id := scopeID; id.IsValid(); {
		scope := v.scopes.Scope(id)
		if scope == nil {
			break
		}
		if direct := scope.Direct(name); len(direct) > 0 {
			return direct
		}
		for _, unit := range scope.UsedUnit {
			if pkgScopeID, ok := v.packageScope[foldName(unit)]; ok {
				if pkgScope := v.scopes.Scope(pkgScopeID); pkgScope != nil {
					useVisible = append(useVisible, pkgScope.Direct(name)...)
				}
			}
		}
		id = scope.Parent
	}
	return useVisible
}

// Selected resolves a dotted name "Prefix.Selector" where Prefix already
// denotes a package, returning the symbols declared directly in that
// package's visible part (LRM 4.1.3). It does not walk "use" clauses: a
// selected name is always directly visible once the prefix is a package.
func (v *Visibility) Selected(prefixName, selector string) ([]SymbolID, error) {
	scopeID, ok := v.packageScope[foldName(prefixName)]
	if !ok {
		return nil, fmt.Errorf("%q is not a known package", prefixName)
	}
	scope := v.scopes.Scope(scopeID)
	if scope == nil {
		return nil, fmt.Errorf("%q has no visible part", prefixName)
	}
	return scope.Direct(selector), nil
}

// FilterOverloadable keeps only the symbols from ids that are overloadable,
// used once a lookup returns more than one homograph: a non-overloadable
// duplicate alongside anything else is always an error raised earlier at
// declaration time, never at use time.
func (v *Visibility) FilterOverloadable(ids []SymbolID) []SymbolID {
	out := ids[:0:0]
	for _, id := range ids {
		if sym := v.scopes.Symbol(id); sym != nil && sym.Overloadable {
			out = append(out, id)
		}
	}
	return out
}
