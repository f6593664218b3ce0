package diagfmt

import (
	"io"

	"adalower/internal/diag"
	"adalower/internal/source"
)

// Sarif is the entry point for --format sarif. No SARIF encoder is wired
// behind it: it writes nothing to w.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) {
	_ = w
	_ = bag
	_ = fs
	_ = meta
}
