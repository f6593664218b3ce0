package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"adalower/internal/ast"
	"adalower/internal/buildpipeline"
	"adalower/internal/diag"
	"adalower/internal/project"
	"adalower/internal/project/dag"
	"adalower/internal/sema"
	"adalower/internal/source"
	"adalower/internal/ssair"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// Options configures one whole-program Run.
type Options struct {
	Frontend       Frontend
	Jobs           int // goroutine cap for the parallel load stage; GOMAXPROCS if <= 0
	MaxDiagnostics int
	DisableCache   bool
	Sink           buildpipeline.ProgressSink // optional; nil disables progress events
}

// UnitResult is one library unit's outcome: its diagnostics, whether it was
// served from the emit cache, and (when analysis succeeded) its semantic
// side tables.
type UnitResult struct {
	Name      string
	Path      string
	Bag       *diag.Bag
	CacheHit  bool
	SemaResult sema.Result
}

// Session is the result of a whole-program Run: every unit's outcome plus
// the single ssair.Module every unit that lowered cleanly contributed to.
type Session struct {
	FileSet *source.FileSet
	Program *symbols.Program
	Module  *ssair.Module
	Types   *types.Interner
	Units   []UnitResult
}

// Run discovers every Ada source file under dir, builds the with-graph,
// elaborates and checks each library unit in dependency order, and lowers
// every unit whose semantic pass reported no errors. It never returns a
// partial with-graph: a cycle aborts the whole run, the same way a real
// compiler cannot schedule elaboration for a program that has none.
func Run(ctx context.Context, dir string, opts Options) (*Session, error) {
	if opts.Frontend == nil {
		return nil, fmt.Errorf("driver: no Frontend configured")
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}

	paths, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	emit(opts.Sink, buildpipeline.Event{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})

	fileSet := source.NewFileSetWithBase(dir)
	tree := ast.NewTree()

	type loaded struct {
		path string
		file *source.File
		unit *ast.Unit
		bag  *diag.Bag
	}
	results := make([]loaded, len(paths))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// Parsing shares one *ast.Tree, whose arenas are not safe for concurrent
	// writers, so only file loading (I/O plus hashing) runs in parallel;
	// each file's Frontend.ParseFile call still happens on the main
	// goroutine below, in path order, once every file is loaded.
	fileIDs := make([]source.FileID, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))
	for i, p := range paths {
		g.Go(func(i int, p string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				id, loadErr := fileSet.Load(p)
				if loadErr != nil {
					return fmt.Errorf("loading %s: %w", p, loadErr)
				}
				fileIDs[i] = id
				return nil
			}
		}(i, p))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, p := range paths {
		bag := diag.NewBag(maxDiag)
		file := fileSet.Get(fileIDs[i])
		unitID, parseErr := opts.Frontend.ParseFile(tree, file, &diag.BagReporter{Bag: bag})
		var unit *ast.Unit
		if parseErr == nil {
			unit = tree.Unit(unitID)
		}
		results[i] = loaded{path: p, file: file, unit: unit, bag: bag}
	}
	emit(opts.Sink, buildpipeline.Event{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone})

	program := symbols.NewProgram()
	interner := types.NewInterner()
	root := program.Scopes.NewScope(symbols.NoScopeID, "STANDARD")
	module := ssair.NewModule()
	session := &Session{FileSet: fileSet, Program: program, Module: module, Types: interner}

	byName := make(map[string]*loaded, len(results))
	metas := make([]project.UnitMeta, 0, len(results))
	for i := range results {
		r := &results[i]
		meta := unitMetaFromUnit(tree, r.unit, r.file)
		if meta.Name == "" {
			// Nothing a with-graph can schedule (a parse failure, or a
			// file whose library item never produced a root decl); still
			// surface whatever the Frontend already reported rather than
			// dropping the file's diagnostics silently.
			r.bag.Sort()
			session.Units = append(session.Units, UnitResult{Path: r.path, Bag: r.bag})
			continue
		}
		program.AddUnit(meta.Name, symbols.NoScopeID, symbols.NoScopeID, meta)
		byName[meta.Name] = r
		metas = append(metas, meta)
	}
	computeUnitHashes(program, metas)

	if err := program.PlanElaboration(); err != nil {
		return nil, err
	}

	var cache *DiskCache
	if !opts.DisableCache {
		cache, err = OpenDiskCache("adalower")
		if err != nil {
			return nil, err
		}
	}

	for _, name := range program.Order {
		r, ok := byName[name]
		if !ok || r.unit == nil {
			continue
		}
		u := program.Units[name]

		emit(opts.Sink, buildpipeline.Event{File: r.path, Stage: buildpipeline.StageSema, Status: buildpipeline.StatusWorking})
		if err := program.BeginElaboration(name); err != nil {
			return nil, err
		}
		res := sema.Check(tree, r.unit, sema.Options{
			Reporter:  &diag.BagReporter{Bag: r.bag},
			Program:   program,
			Types:     interner,
			UnitScope: root,
		})
		program.FinishElaboration(name)
		emit(opts.Sink, buildpipeline.Event{File: r.path, Stage: buildpipeline.StageSema, Status: buildpipeline.StatusDone})

		ur := UnitResult{Name: name, Path: r.path, Bag: r.bag, SemaResult: res}

		if r.bag.HasErrors() {
			r.bag.Sort()
			session.Units = append(session.Units, ur)
			continue
		}

		cacheHit := false
		if cache != nil {
			if payload, hit, _ := cache.Get(u.Meta.UnitHash); hit && payload.UnitName == name {
				cacheHit = true
			}
		}
		ur.CacheHit = cacheHit

		emit(opts.Sink, buildpipeline.Event{File: r.path, Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
		ssair.LowerUnit(tree, r.unit, res, program, interner, module)
		emit(opts.Sink, buildpipeline.Event{File: r.path, Stage: buildpipeline.StageLower, Status: buildpipeline.StatusDone})

		r.bag.Sort()
		session.Units = append(session.Units, ur)
	}

	if err := ssair.Validate(module); err != nil {
		return session, err
	}

	if cache != nil {
		emit(opts.Sink, buildpipeline.Event{Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusWorking})
		if writeErr := cacheModuleDump(cache, program, module, interner); writeErr != nil {
			return session, writeErr
		}
		emit(opts.Sink, buildpipeline.Event{Stage: buildpipeline.StageEmit, Status: buildpipeline.StatusDone})
	}

	return session, nil
}

func computeUnitHashes(program *symbols.Program, metas []project.UnitMeta) {
	idx := dag.BuildIndex(metas)
	nodes := make([]dag.UnitNode, len(metas))
	for i, m := range metas {
		nodes[i] = dag.UnitNode{Meta: m}
	}
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ComputeUnitHashes(idx, graph, slots, topo)
	for i := range slots {
		if !slots[i].Present {
			continue
		}
		if u, ok := program.Units[slots[i].Meta.Name]; ok {
			u.Meta.UnitHash = slots[i].Meta.UnitHash
		}
	}
}

// cacheModuleDump records the whole program's rendered ssair text under
// every present unit's own UnitHash, so a later run recognizes an unchanged
// unit (and its unchanged dependencies) by cache hit even though the cached
// payload is shared. Caching each Func's own lowered instructions instead
// of the whole module's text would let a cache hit skip that unit's
// lowering outright, but ssair's Func/Block/Instr types carry no
// serialization tags yet; recording (and re-rendering) the whole module is
// the simplification chosen instead of inventing that encoding.
func cacheModuleDump(cache *DiskCache, program *symbols.Program, module *ssair.Module, interner *types.Interner) error {
	var buf strings.Builder
	if err := ssair.DumpModule(&buf, module, interner); err != nil {
		return err
	}
	dump := buf.String()
	for name, u := range program.Units {
		if err := cache.Put(u.Meta.UnitHash, &DiskPayload{UnitName: name, Dump: dump}); err != nil {
			return err
		}
	}
	return nil
}

func listSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".ads" || ext == ".adb" || ext == ".ada" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func emit(sink buildpipeline.ProgressSink, evt buildpipeline.Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
