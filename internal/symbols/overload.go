package symbols

import (
	"adalower/internal/ast"
	"adalower/internal/types"
)

// CallArg describes one actual argument at a call site for the purpose of
// overload resolution: its static type (NoTypeID if not yet determined,
// e.g. a universal literal still being resolved) and, for a named
// association, the formal parameter name it targets.
type CallArg struct {
	Name string // "" for a positional association
	Type types.TypeID
}

// Resolve implements Ada's overload resolution (LRM 8.7, 6.6, spec.md
// §4.2): candidates are already narrowed by name before Resolve is called;
// from there it filters by arity and named associations, then by actual
// parameter type, then — when expected (the type the surrounding context
// requires, or NoTypeID if there is none) names a concrete type and more
// than one candidate remains — by return-type compatibility against
// expected. Zero survivors after the parameter-type filter means no
// candidate is applicable at all, and Resolve reports that as an empty
// result rather than deferring to the caller. Argument types are taken as
// given: sema calls Resolve once per call expression, and a nested call
// whose own type depends on an outer resolution is not resolved again.
func Resolve(scopes *Scopes, candidates []SymbolID, args []CallArg, expected types.TypeID) []SymbolID {
	pass1 := make([]SymbolID, 0, len(candidates))
	for _, id := range candidates {
		sym := scopes.Symbol(id)
		if sym == nil || !profileMatches(sym, args) {
			continue
		}
		pass1 = append(pass1, id)
	}
	if len(pass1) <= 1 {
		return pass1
	}

	pass2 := make([]SymbolID, 0, len(pass1))
	for _, id := range pass1 {
		sym := scopes.Symbol(id)
		if typesMatch(sym, args) {
			pass2 = append(pass2, id)
		}
	}
	if len(pass2) == 0 {
		// No candidate's parameter profile is type-compatible with the
		// actual arguments: nothing is applicable, not merely ambiguous.
		return nil
	}
	if len(pass2) <= 1 || expected == types.NoTypeID {
		return pass2
	}

	pass3 := make([]SymbolID, 0, len(pass2))
	for _, id := range pass2 {
		sym := scopes.Symbol(id)
		if sym.IsFunction && sym.ReturnType == expected {
			pass3 = append(pass3, id)
		}
	}
	if len(pass3) > 0 {
		return pass3
	}
	// No candidate's return type matches the expected context; the set
	// is still ambiguous among whatever matched arity and parameter
	// types, not merely "no applicable overload" (those candidates are
	// applicable, just not uniquely so in this context).
	return pass2
}

// profileMatches checks that sym accepts exactly len(args) actuals, with
// every named association naming one of sym's formals and no formal
// receiving two associations.
func profileMatches(sym *Symbol, args []CallArg) bool {
	if sym.Kind != KindSubprogram && sym.Kind != KindEntry {
		return false
	}
	if len(args) > len(sym.Params) {
		return false
	}
	assigned := make([]bool, len(sym.Params))
	namedSeen := 0
	for i, a := range args {
		if a.Name == "" {
			if i >= len(sym.Params) || assigned[i] {
				return false
			}
			assigned[i] = true
			continue
		}
		namedSeen++
		found := false
		for j, p := range sym.Params {
			if !assigned[j] && foldName(p.Name) == foldName(a.Name) {
				assigned[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for i, p := range sym.Params {
		if !assigned[i] && p.Default == ast.NoExprID {
			return false
		}
	}
	return true
}

// typesMatch checks actual-to-formal type compatibility positionally and
// by name, treating NoTypeID (a still-universal literal) as compatible
// with any numeric formal.
func typesMatch(sym *Symbol, args []CallArg) bool {
	for i, a := range args {
		var formalType types.TypeID
		if a.Name == "" {
			formalType = sym.Params[i].Type
		} else {
			for _, p := range sym.Params {
				if foldName(p.Name) == foldName(a.Name) {
					formalType = p.Type
					break
				}
			}
		}
		if a.Type == types.NoTypeID || formalType == types.NoTypeID {
			continue
		}
		if a.Type != formalType {
			return false
		}
	}
	return true
}
