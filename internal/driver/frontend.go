// Package driver orchestrates a whole-program run of the pipeline: it
// discovers compilation units, builds the with-graph, elaborates and
// semantically checks every unit in dependency order, and lowers each one
// to ssair. It never parses source text itself; parsing and lexing are
// external collaborators reached through the Frontend boundary below, so
// this package can be exercised against hand-built ASTs the same way it
// would be against a real front end.
package driver

import (
	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/source"
)

// Frontend turns one loaded source file into a compilation unit, adding its
// declarations into the shared tree and returning the new unit's ID. A
// Frontend is free to report its own diagnostics (a lex or parse error)
// through reporter. When ParseFile returns an error, Run keeps the file's
// diagnostics but checks nothing in it; otherwise Run calls sema.Check on
// the returned unit even if reporter received errors, and calls
// ssair.LowerUnit only when the unit's bag holds no error after checking.
type Frontend interface {
	ParseFile(tree *ast.Tree, file *source.File, reporter diag.Reporter) (ast.UnitID, error)
}
