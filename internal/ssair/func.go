package ssair

import (
	"adalower/internal/source"
	"adalower/internal/symbols"
	"adalower/internal/types"
)

// Func is one lowered subprogram (procedure or function) body.
type Func struct {
	ID   FuncID
	Sym  symbols.SymbolID
	Name string
	Span source.Span

	// Result is NoTypeID for a procedure.
	Result types.TypeID

	ParamCount int
	ReturnSlot LocalID

	Locals []Local
	Blocks []Block
	Entry  BlockID
}

func newFunc(id FuncID, sym symbols.SymbolID, name string, span source.Span, result types.TypeID) *Func {
	return &Func{ID: id, Sym: sym, Name: name, Span: span, Result: result, Entry: NoBlockID, ReturnSlot: NoLocalID}
}

func (f *Func) addLocal(l Local) LocalID {
	id := LocalID(len(f.Locals))
	f.Locals = append(f.Locals, l)
	return id
}

func (f *Func) newBlock() BlockID {
	id := BlockID(len(f.Blocks))
	f.Blocks = append(f.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	return id
}

func (f *Func) block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

func (f *Func) emit(bb BlockID, in Instr) {
	if b := f.block(bb); b != nil {
		b.Instrs = append(b.Instrs, in)
	}
}

func (f *Func) setTerm(bb BlockID, t Terminator) {
	if b := f.block(bb); b != nil {
		b.Term = t
	}
}

func (f *Func) local(id LocalID) *Local {
	if id < 0 || int(id) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[id]
}
