package symbols

import (
	"fmt"

	"adalower/internal/project"
	"adalower/internal/project/dag"
)

// ElabState is a library unit's elaboration status, tracked so that a
// reference from one unit's elaboration code into another can be checked
// against LRM 3.9's "no use before elaboration" rule.
type ElabState uint8

const (
	ElabNotStarted ElabState = iota
	ElabInProgress
	ElabElaborated
)

// LibraryUnit ties one compilation's name, its public/private scopes, and
// its elaboration state together.
type LibraryUnit struct {
	Name         string
	Public       ScopeID
	Private      ScopeID // NoScopeID if the unit has no package body / private part
	State        ElabState
	Meta         project.UnitMeta
}

// Program is the whole set of library units being analyzed together, plus
// the elaboration order the with-graph implies.
type Program struct {
	Scopes     *Scopes
	Visibility *Visibility
	Units      map[string]*LibraryUnit // keyed by normalized unit name
	Order      []string                // elaboration order, normalized names
}

func NewProgram() *Program {
	scopes := NewScopes()
	return &Program{
		Scopes:     scopes,
		Visibility: NewVisibility(scopes),
		Units:      make(map[string]*LibraryUnit, 16),
	}
}

// AddUnit registers a library unit's scopes under its normalized name and
// makes its public part reachable by selected names and "use" clauses.
func (p *Program) AddUnit(name string, public, private ScopeID, meta project.UnitMeta) *LibraryUnit {
	u := &LibraryUnit{Name: name, Public: public, Private: private, Meta: meta}
	p.Units[name] = u
	p.Visibility.RegisterPackage(name, public)
	return u
}

// PlanElaboration computes the with-graph elaboration order for every
// registered unit, reusing the same deterministic topological sort used
// for build scheduling so that elaboration and build order are always
// consistent with each other.
func (p *Program) PlanElaboration() error {
	metas := make([]project.UnitMeta, 0, len(p.Units))
	for _, u := range p.Units {
		metas = append(metas, u.Meta)
	}
	idx := dag.BuildIndex(metas)
	nodes := make([]dag.UnitNode, len(metas))
	for i, m := range metas {
		nodes[i] = dag.UnitNode{Meta: m}
	}
	graph, _ := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	if topo.Cyclic {
		return fmt.Errorf("with-clause dependency cycle involving %d unit(s)", len(topo.Cycles))
	}
	// topo.Order lists each unit before the units it withs; elaborate in
	// the reverse, so every withed unit comes first.
	order := make([]string, 0, len(topo.Order))
	for i := len(topo.Order) - 1; i >= 0; i-- {
		order = append(order, idx.IDToName[topo.Order[i]])
	}
	p.Order = order
	return nil
}

// BeginElaboration transitions a unit from NotStarted to InProgress,
// returning an error if it is already elaborating (a cycle the with-graph
// check did not already catch, e.g. introduced by a subunit) or already
// elaborated (a caller bug, since PlanElaboration's order visits each
// unit once).
func (p *Program) BeginElaboration(name string) error {
	u, ok := p.Units[name]
	if !ok {
		return fmt.Errorf("unknown library unit %q", name)
	}
	switch u.State {
	case ElabInProgress:
		return fmt.Errorf("library unit %q is already elaborating", name)
	case ElabElaborated:
		return fmt.Errorf("library unit %q is already elaborated", name)
	}
	u.State = ElabInProgress
	return nil
}

func (p *Program) FinishElaboration(name string) {
	if u, ok := p.Units[name]; ok {
		u.State = ElabElaborated
	}
}

// RequireElaborated reports whether referencing unit's declarations right
// now would violate LRM 3.9's elaboration-order rule.
func (p *Program) RequireElaborated(name string) bool {
	u, ok := p.Units[name]
	return ok && u.State == ElabElaborated
}
