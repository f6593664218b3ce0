package symbols

import (
	"testing"

	"adalower/internal/project"
)

func TestPlanElaborationOrdersByWithGraph(t *testing.T) {
	p := NewProgram()
	root := p.Scopes.NewScope(NoScopeID, "")

	p.AddUnit("UTIL", root, NoScopeID, project.UnitMeta{Name: "UTIL"})
	p.AddUnit("CORE", root, NoScopeID, project.UnitMeta{
		Name: "CORE", Withs: []project.WithMeta{{Unit: "UTIL"}},
	})
	p.AddUnit("MAIN", root, NoScopeID, project.UnitMeta{
		Name: "MAIN", Withs: []project.WithMeta{{Unit: "CORE"}},
	})

	if err := p.PlanElaboration(); err != nil {
		t.Fatalf("PlanElaboration: %v", err)
	}

	pos := map[string]int{}
	for i, name := range p.Order {
		pos[name] = i
	}
	if pos["UTIL"] >= pos["CORE"] || pos["CORE"] >= pos["MAIN"] {
		t.Fatalf("elaboration order %v does not respect with-clause dependencies", p.Order)
	}
}

func TestPlanElaborationReportsCycle(t *testing.T) {
	p := NewProgram()
	root := p.Scopes.NewScope(NoScopeID, "")

	p.AddUnit("A", root, NoScopeID, project.UnitMeta{Name: "A", Withs: []project.WithMeta{{Unit: "B"}}})
	p.AddUnit("B", root, NoScopeID, project.UnitMeta{Name: "B", Withs: []project.WithMeta{{Unit: "A"}}})

	if err := p.PlanElaboration(); err == nil {
		t.Fatalf("expected an error for a with-clause cycle")
	}
}

func TestElaborationStateTransitions(t *testing.T) {
	p := NewProgram()
	root := p.Scopes.NewScope(NoScopeID, "")
	p.AddUnit("MAIN", root, NoScopeID, project.UnitMeta{Name: "MAIN"})

	if p.RequireElaborated("MAIN") {
		t.Fatalf("unit should not be elaborated yet")
	}
	if err := p.BeginElaboration("MAIN"); err != nil {
		t.Fatalf("BeginElaboration: %v", err)
	}
	if err := p.BeginElaboration("MAIN"); err == nil {
		t.Fatalf("expected error re-beginning an in-progress unit")
	}
	p.FinishElaboration("MAIN")
	if !p.RequireElaborated("MAIN") {
		t.Fatalf("unit should be elaborated after FinishElaboration")
	}
}
