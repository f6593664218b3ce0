package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"adalower/internal/project"
)

// UnitID is a unique identifier for a library unit in the with-graph.
type UnitID uint32

// UnitIndex maps normalized library unit names to their numeric IDs.
type UnitIndex struct {
	NameToID map[string]UnitID
	IDToName []string
}

// BuildIndex collects unique unit names (both declared units and everything
// they with) so the resulting graph and topological order are deterministic
// across runs regardless of discovery order on disk.
func BuildIndex(metas []project.UnitMeta) UnitIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Name != "" {
			uniq[meta.Name] = struct{}{}
		}
		for _, w := range meta.Withs {
			if w.Unit == "" {
				continue
			}
			uniq[w.Unit] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]UnitID, len(names))
	for i, name := range names {
		id, err := safecast.Conv[UnitID](i)
		if err != nil {
			panic(fmt.Errorf("library unit id overflow: %w", err))
		}
		nameToID[name] = id
	}

	return UnitIndex{
		NameToID: nameToID,
		IDToName: names,
	}
}
