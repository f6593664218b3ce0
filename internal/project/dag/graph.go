package dag

import (
	"fmt"
	"slices"
	"strings"

	"adalower/internal/diag"
	"adalower/internal/project"
	"adalower/internal/source"
)

// Graph is the with-clause dependency graph over library units.
type Graph struct {
	Edges   [][]UnitID // Edges[from] = units that from withs
	Indeg   []int      // in-degree, counting only present units
	Present []bool     // whether a unit was actually loaded, vs. only withed
}

type UnitNode struct {
	Meta     project.UnitMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

type UnitSlot struct {
	Meta     project.UnitMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

// BuildGraph lays out unit nodes against a precomputed UnitIndex, reporting
// duplicate and missing library units as it goes.
func BuildGraph(idx UnitIndex, nodes []UnitNode) (Graph, []UnitSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]UnitID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]UnitSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Name == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Name]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				notes := make([]diag.Note, 0, 1)
				if slot.Meta.Span != (source.Span{}) {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous declaration of %q", slot.Meta.Name),
					})
				}
				node.Reporter.Report(
					diag.ProjDuplicateUnit,
					diag.SevError,
					meta.Span,
					fmt.Sprintf("duplicate library unit %q", meta.Name),
					notes,
					nil,
				)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		slot.Broken = node.Broken
		slot.FirstErr = node.FirstErr
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Withs) == 0 {
			continue
		}
		seen := make(map[UnitID]struct{}, len(slot.Meta.Withs))
		for _, w := range slot.Meta.Withs {
			if w.Unit == "" {
				continue
			}
			toID, ok := idx.NameToID[w.Unit]
			if !ok {
				if slot.Reporter != nil {
					slot.Reporter.Report(
						diag.ProjMissingLibraryUnit,
						diag.SevError,
						w.Span,
						fmt.Sprintf("unit %q withs unknown unit %q", slot.Meta.Name, w.Unit),
						nil,
						nil,
					)
				}
				continue
			}
			if UnitID(from) == toID {
				if slot.Reporter != nil {
					slot.Reporter.Report(
						diag.ProjSelfWith,
						diag.SevError,
						w.Span,
						fmt.Sprintf("unit %q withs itself", slot.Meta.Name),
						nil,
						nil,
					)
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			} else if slot.Reporter != nil {
				slot.Reporter.Report(
					diag.ProjMissingLibraryUnit,
					diag.SevError,
					w.Span,
					fmt.Sprintf("unit %q withs missing unit %q", slot.Meta.Name, idx.IDToName[int(toID)]),
					nil,
					nil,
				)
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

// ReportCycles emits a with-cycle diagnostic against every unit participating
// in a non-elaborable dependency cycle found by ToposortKahn.
func ReportCycles(idx UnitIndex, slots []UnitSlot, topo Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("unit %q participates in a with-clause dependency cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjWithCycle, diag.SevError, slot.Meta.Span, msg, nil, nil)
	}
}

// ReportBrokenDeps emits a diagnostic on every unit that withs another unit
// which itself failed semantic analysis, so downstream failures are not
// silently swallowed.
func ReportBrokenDeps(idx UnitIndex, slots []UnitSlot) {
	for i := range slots {
		slotFrom := &slots[i]
		if !slotFrom.Present || slotFrom.Reporter == nil || len(slotFrom.Meta.Withs) == 0 {
			continue
		}
		emitted := make(map[string]struct{}, len(slotFrom.Meta.Withs))
		for _, w := range slotFrom.Meta.Withs {
			toID, ok := idx.NameToID[w.Unit]
			if !ok {
				continue
			}
			depSlot := slots[int(toID)]
			if !depSlot.Broken {
				continue
			}
			key := w.Unit + "|" + w.Span.String()
			if _, seen := emitted[key]; seen {
				continue
			}
			emitted[key] = struct{}{}

			notes := []diag.Note(nil)
			if depSlot.FirstErr != nil {
				notes = append(notes, diag.Note{
					Span: depSlot.FirstErr.Primary,
					Msg:  fmt.Sprintf("first error in dependency: %s", depSlot.FirstErr.Message),
				})
			}

			msg := fmt.Sprintf("with'd library unit %q has errors", w.Unit)
			slotFrom.Reporter.Report(diag.ProjDependencyFailed, diag.SevError, w.Span, msg, notes, nil)
		}
	}
}
