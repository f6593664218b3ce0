package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"adalower/internal/project"
)

// Topo is the result of a deterministic Kahn topological sort over the
// with-graph. Order lists every unit before the units it withs, so
// elaboration order is Order read back to front.
type Topo struct {
	Order   []UnitID   // each unit before the units it withs (present units only)
	Batches [][]UnitID // waves of mutually independent units
	Cyclic  bool
	Cycles  []UnitID // units left over in a with-cycle, if any
}

// ToposortKahn computes a deterministic topological order: units that no
// other unit withs come first, each unit follows every unit that withs it,
// and ties are broken by UnitID (i.e. by unit name, since BuildIndex sorts
// names before assigning IDs) so the same with-graph always yields the same
// order.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]UnitID, 0, nodeCount),
		Batches: make([][]UnitID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]UnitID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			id, err := safecast.Conv[UnitID](i)
			if err != nil {
				panic(fmt.Errorf("library unit id overflow: %w", err))
			}
			current = append(current, id)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]UnitID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]UnitID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if !g.Present[i] {
				continue
			}
			if indeg[i] > 0 {
				id, err := safecast.Conv[UnitID](i)
				if err != nil {
					panic(fmt.Errorf("library unit id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, id)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}

// ComputeUnitHashes computes UnitHash for every present node as
// H(content || dep1 || dep2 ...), where dep* are the already-computed
// hashes of withed units. Requires an acyclic graph; on a cyclic graph it
// computes nothing, so every hash is left zero.
func ComputeUnitHashes(idx UnitIndex, g Graph, slots []UnitSlot, topo *Topo) {
	if topo == nil || topo.Cyclic {
		return
	}
	// Walk topo.Order in reverse: Edges[from] holds from's dependencies, so by
	// the time we process a unit all of its dependencies have already had
	// their hash computed.
	for i := len(topo.Order) - 1; i >= 0; i-- {
		id := topo.Order[i]
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		deps := make([]project.Digest, 0, len(g.Edges[int(id)]))
		for _, to := range g.Edges[int(id)] {
			if !g.Present[int(to)] {
				continue
			}
			deps = append(deps, slots[int(to)].Meta.UnitHash)
		}
		slot.Meta.UnitHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}
