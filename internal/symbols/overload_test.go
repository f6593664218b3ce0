package symbols

import (
	"testing"

	"adalower/internal/types"
)

func TestResolveNarrowsByArity(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	oneArg := scopes.Declare(root, Symbol{
		Name: "Image", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "X", Type: 1}},
	})
	twoArgs := scopes.Declare(root, Symbol{
		Name: "Image", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "X", Type: 1}, {Name: "Width", Type: 1}},
	})

	candidates := []SymbolID{oneArg, twoArgs}
	resolved := Resolve(scopes, candidates, []CallArg{{Type: 1}}, types.NoTypeID)
	if len(resolved) != 1 || resolved[0] != oneArg {
		t.Fatalf("Resolve(1 arg) = %v, want [%d]", resolved, oneArg)
	}

	resolved = Resolve(scopes, candidates, []CallArg{{Type: 1}, {Name: "Width", Type: 1}}, types.NoTypeID)
	if len(resolved) != 1 || resolved[0] != twoArgs {
		t.Fatalf("Resolve(named Width) = %v, want [%d]", resolved, twoArgs)
	}
}

func TestResolveNarrowsByType(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	var intType, floatType types.TypeID = 1, 2
	onInt := scopes.Declare(root, Symbol{
		Name: "Scale", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "V", Type: intType}},
	})
	onFloat := scopes.Declare(root, Symbol{
		Name: "Scale", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "V", Type: floatType}},
	})

	candidates := []SymbolID{onInt, onFloat}
	resolved := Resolve(scopes, candidates, []CallArg{{Type: floatType}}, types.NoTypeID)
	if len(resolved) != 1 || resolved[0] != onFloat {
		t.Fatalf("Resolve(float arg) = %v, want [%d]", resolved, onFloat)
	}
}

func TestResolveUniversalArgStaysAmbiguous(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	var intType, floatType types.TypeID = 1, 2
	onInt := scopes.Declare(root, Symbol{
		Name: "Scale", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "V", Type: intType}},
	})
	onFloat := scopes.Declare(root, Symbol{
		Name: "Scale", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "V", Type: floatType}},
	})

	resolved := Resolve(scopes, []SymbolID{onInt, onFloat}, []CallArg{{Type: types.NoTypeID}}, types.NoTypeID)
	if len(resolved) != 2 {
		t.Fatalf("Resolve(universal arg) = %v, want both candidates left for the caller to diagnose", resolved)
	}
}

func TestResolveNoCandidateMatchesTypeIsUndefined(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	var intType, boolType, stringType types.TypeID = 1, 2, 3
	onInt := scopes.Declare(root, Symbol{
		Name: "Foo", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "X", Type: intType}},
	})
	onBool := scopes.Declare(root, Symbol{
		Name: "Foo", Kind: KindSubprogram, Overloadable: true,
		Params: []ParamSymbol{{Name: "X", Type: boolType}},
	})

	// Foo(S) where S has a concrete String type: arity matches both, but
	// neither formal accepts String, so the result must be empty (no
	// applicable overload), never the arity-only set.
	resolved := Resolve(scopes, []SymbolID{onInt, onBool}, []CallArg{{Type: stringType}}, types.NoTypeID)
	if len(resolved) != 0 {
		t.Fatalf("Resolve(no type match) = %v, want no candidates (undefined, not ambiguous)", resolved)
	}
}

func TestResolveFiltersByExpectedReturnType(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	var argType, intType, floatType types.TypeID = 1, 2, 3
	toInt := scopes.Declare(root, Symbol{
		Name: "Convert", Kind: KindSubprogram, Overloadable: true, IsFunction: true,
		Params: []ParamSymbol{{Name: "X", Type: argType}}, ReturnType: intType,
	})
	toFloat := scopes.Declare(root, Symbol{
		Name: "Convert", Kind: KindSubprogram, Overloadable: true, IsFunction: true,
		Params: []ParamSymbol{{Name: "X", Type: argType}}, ReturnType: floatType,
	})

	candidates := []SymbolID{toInt, toFloat}
	resolved := Resolve(scopes, candidates, []CallArg{{Type: argType}}, floatType)
	if len(resolved) != 1 || resolved[0] != toFloat {
		t.Fatalf("Resolve(expected float) = %v, want [%d]", resolved, toFloat)
	}

	resolved = Resolve(scopes, candidates, []CallArg{{Type: argType}}, types.NoTypeID)
	if len(resolved) != 2 {
		t.Fatalf("Resolve(no expected type) = %v, want both candidates left ambiguous", resolved)
	}
}
