package symbols

import "testing"

func TestDeclareAndLookupCaseInsensitive(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	id := scopes.Declare(root, Symbol{Name: "Counter", Kind: KindObject})
	if !id.IsValid() {
		t.Fatalf("expected valid symbol id")
	}

	scope := scopes.Scope(root)
	for _, variant := range []string{"Counter", "COUNTER", "counter"} {
		found := scope.Direct(variant)
		if len(found) != 1 || found[0] != id {
			t.Fatalf("Direct(%q) = %v, want [%d]", variant, found, id)
		}
	}
}

func TestDeclareOverloadSet(t *testing.T) {
	scopes := NewScopes()
	root := scopes.NewScope(NoScopeID, "STANDARD")

	a := scopes.Declare(root, Symbol{Name: "Put", Kind: KindSubprogram, Overloadable: true})
	b := scopes.Declare(root, Symbol{Name: "Put", Kind: KindSubprogram, Overloadable: true})

	found := scopes.Scope(root).Direct("PUT")
	if len(found) != 2 || found[0] != a || found[1] != b {
		t.Fatalf("Direct(PUT) = %v, want [%d %d]", found, a, b)
	}
}

func TestVisibilityWalksParentChain(t *testing.T) {
	scopes := NewScopes()
	vis := NewVisibility(scopes)
	root := scopes.NewScope(NoScopeID, "STANDARD")
	inner := scopes.NewScope(root, "")

	id := scopes.Declare(root, Symbol{Name: "Pi", Kind: KindConstant})

	found := vis.Candidates(inner, "Pi")
	if len(found) != 1 || found[0] != id {
		t.Fatalf("Candidates from nested scope = %v, want [%d]", found, id)
	}
}

func TestVisibilityUseClauseExposesPackageContents(t *testing.T) {
	scopes := NewScopes()
	vis := NewVisibility(scopes)
	root := scopes.NewScope(NoScopeID, "STANDARD")
	pkgScope := scopes.NewScope(root, "MATH_UTILS")
	id := scopes.Declare(pkgScope, Symbol{Name: "Sqrt", Kind: KindSubprogram, Overloadable: true})
	vis.RegisterPackage("MATH_UTILS", pkgScope)

	client := scopes.NewScope(root, "")
	if found := vis.Candidates(client, "Sqrt"); len(found) != 0 {
		t.Fatalf("expected Sqrt not visible before use clause, got %v", found)
	}

	scopes.Scope(client).AddUse("Math_Utils")
	found := vis.Candidates(client, "Sqrt")
	if len(found) != 1 || found[0] != id {
		t.Fatalf("Candidates after use clause = %v, want [%d]", found, id)
	}
}

func TestVisibilitySelectedName(t *testing.T) {
	scopes := NewScopes()
	vis := NewVisibility(scopes)
	root := scopes.NewScope(NoScopeID, "STANDARD")
	pkgScope := scopes.NewScope(root, "TEXT_IO")
	id := scopes.Declare(pkgScope, Symbol{Name: "Put_Line", Kind: KindSubprogram, Overloadable: true})
	vis.RegisterPackage("TEXT_IO", pkgScope)

	found, err := vis.Selected("Text_IO", "Put_Line")
	if err != nil {
		t.Fatalf("Selected: %v", err)
	}
	if len(found) != 1 || found[0] != id {
		t.Fatalf("Selected = %v, want [%d]", found, id)
	}

	if _, err := vis.Selected("No_Such_Unit", "X"); err == nil {
		t.Fatalf("expected error for unknown package prefix")
	}
}
