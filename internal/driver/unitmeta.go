package driver

import (
	"adalower/internal/ast"
	"adalower/internal/project"
	"adalower/internal/source"
)

// unitMetaFromUnit extracts the project-level metadata (name, with-clauses,
// content hash) a with-graph needs, without running any semantic analysis.
// It is the with-clause analogue of the teacher's own module-metadata
// extraction: a cheap pre-pass over one compilation's surface, run before
// the expensive elaboration order is computed.
func unitMetaFromUnit(tree *ast.Tree, unit *ast.Unit, file *source.File) project.UnitMeta {
	if unit == nil {
		return project.UnitMeta{}
	}
	name, kind, span := rootUnitIdentity(tree, unit)

	withs := make([]project.WithMeta, 0, len(unit.Context))
	for _, w := range unit.Context {
		norm, err := project.NormalizeUnitName(w.Unit)
		if err != nil {
			continue
		}
		withs = append(withs, project.WithMeta{Unit: norm, Span: w.Span})
	}

	var contentHash project.Digest
	if file != nil {
		contentHash = project.Digest(file.Hash)
	}

	meta := project.UnitMeta{
		Name:        name,
		Kind:        kind,
		Span:        span,
		Withs:       withs,
		ContentHash: contentHash,
	}
	if file != nil {
		meta.Files = []project.UnitFileMeta{{Path: file.Path, Span: span, Hash: contentHash}}
	}
	return meta
}

// rootUnitIdentity reads the library item's name, kind, and span off the
// unit's root declaration. An unparseable or empty unit (Root invalid)
// yields an empty name, which Run never registers for elaboration.
func rootUnitIdentity(tree *ast.Tree, unit *ast.Unit) (name string, kind project.UnitKind, span source.Span) {
	if unit == nil || !unit.Root.IsValid() {
		return "", project.UnitKindUnknown, source.Span{}
	}
	d := tree.Decls.Get(unit.Root)
	if d == nil {
		return "", project.UnitKindUnknown, source.Span{}
	}
	normalized, err := project.NormalizeUnitName(d.Name)
	if err != nil {
		normalized = d.Name
	}
	switch d.Kind {
	case ast.DeclPackageSpec:
		kind = project.UnitKindPackageSpec
	case ast.DeclPackageBody:
		kind = project.UnitKindPackageBody
	case ast.DeclSubprogramSpec:
		kind = project.UnitKindSubprogramSpec
	case ast.DeclSubprogramBody:
		kind = project.UnitKindSubprogramBody
	default:
		kind = project.UnitKindUnknown
	}
	return normalized, kind, d.Span
}
