package ssair

import (
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// Global is one library-level object: a package-level variable or constant
// that outlives any single subprogram activation.
type Global struct {
	Sym   symbols.SymbolID
	Name  string
	Type  types.TypeID
	IsVar bool // false for a constant
}

// Module is a whole compilation's lowered output: every subprogram body
// reachable from the compiled units, plus the library-level objects they
// reference.
type Module struct {
	Funcs     map[FuncID]*Func
	FuncBySym map[symbols.SymbolID]FuncID
	Globals   []Global
	nextFunc  FuncID
}

// NewModule returns an empty Module ready for NewFunc.
func NewModule() *Module {
	return &Module{Funcs: make(map[FuncID]*Func), FuncBySym: make(map[symbols.SymbolID]FuncID)}
}

// NewFunc allocates and registers a fresh Func.
func (m *Module) NewFunc(sym symbols.SymbolID, name string, span source.Span, result types.TypeID) *Func {
	id := m.nextFunc
	m.nextFunc++
	f := newFunc(id, sym, name, span, result)
	m.Funcs[id] = f
	if sym.IsValid() {
		m.FuncBySym[sym] = id
	}
	return f
}

// AddGlobal records a library-level object.
func (m *Module) AddGlobal(g Global) GlobalID {
	id := GlobalID(len(m.Globals))
	m.Globals = append(m.Globals, g)
	return id
}
