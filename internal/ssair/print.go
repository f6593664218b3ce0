package ssair

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"adalower/internal/types"
)

// DumpModule writes a human-readable textual rendering of m, primarily for
// golden-file testing of the lowering pipeline.
func DumpModule(w io.Writer, m *Module, typesIn *types.Interner) error {
	if w == nil || m == nil {
		return nil
	}
	if len(m.Globals) > 0 {
		fmt.Fprintf(w, "globals=%d\n", len(m.Globals))
		for i, g := range m.Globals {
			kind := "constant"
			if g.IsVar {
				kind = "variable"
			}
			fmt.Fprintf(w, "  G%d: %s %s %s\n", i, typeStr(typesIn, g.Type), kind, g.Name)
		}
	}

	funcs := make([]*Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		if f != nil {
			funcs = append(funcs, f)
		}
	}
	slices.SortFunc(funcs, func(a, b *Func) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		return int(a.ID) - int(b.ID)
	})

	fmt.Fprintf(w, "funcs=%d\n", len(funcs))
	for _, f := range funcs {
		dumpFunc(w, f, typesIn)
	}
	return nil
}

func dumpFunc(w io.Writer, f *Func, typesIn *types.Interner) {
	fmt.Fprintf(w, "\nfn %s:\n", f.Name)
	fmt.Fprintf(w, "  locals:\n")
	for i, l := range f.Locals {
		name := l.Name
		if name == "" {
			name = "_"
		}
		fmt.Fprintf(w, "    L%d: %s name=%s%s\n", i, typeStr(typesIn, l.Type), name, formatLocalFlags(l.Flags))
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		fmt.Fprintf(w, "  bb%d:\n", bb.ID)
		for j := range bb.Instrs {
			fmt.Fprintf(w, "    %s\n", formatInstr(typesIn, &bb.Instrs[j]))
		}
		fmt.Fprintf(w, "    %s\n", formatTerm(&bb.Term))
	}
}

func formatLocalFlags(f LocalFlags) string {
	var parts []string
	if f&LocalFlagParam != 0 {
		parts = append(parts, "param")
	}
	if f&LocalFlagByRef != 0 {
		parts = append(parts, "byref")
	}
	if f&LocalFlagReturnSlot != 0 {
		parts = append(parts, "retslot")
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ",") + "]"
}

func formatInstr(typesIn *types.Interner, ins *Instr) string {
	switch ins.Kind {
	case InstrAssign:
		return fmt.Sprintf("%s = %s", formatPlace(ins.Assign.Dst), formatOperand(&ins.Assign.Src))
	case InstrCall:
		dst := ""
		if ins.Call.HasDst {
			dst = formatPlace(ins.Call.Dst) + " = "
		}
		return fmt.Sprintf("%scall %s(%s)", dst, ins.Call.Callee.Name, formatOperands(ins.Call.Args))
	case InstrBinOp:
		return fmt.Sprintf("%s = %s %d %s", formatPlace(ins.BinOp.Dst), formatOperand(&ins.BinOp.Left), ins.BinOp.Op, formatOperand(&ins.BinOp.Right))
	case InstrUnOp:
		return fmt.Sprintf("%s = %d %s", formatPlace(ins.UnOp.Dst), ins.UnOp.Op, formatOperand(&ins.UnOp.Operand))
	case InstrConvert:
		return fmt.Sprintf("%s = %s(%s)", formatPlace(ins.Convert.Dst), typeStr(typesIn, ins.Convert.Target), formatOperand(&ins.Convert.Value))
	case InstrIndex:
		return fmt.Sprintf("%s = %s%s", formatPlace(ins.Index.Dst), formatPlace(ins.Index.Object), formatIndices(ins.Index.Indices))
	case InstrField:
		return fmt.Sprintf("%s = %s.%s", formatPlace(ins.Field.Dst), formatPlace(ins.Field.Object), ins.Field.FieldName)
	case InstrAlloc:
		return fmt.Sprintf("%s = alloc %s", formatPlace(ins.Alloc.Dst), typeStr(typesIn, ins.Alloc.Type))
	case InstrLoad:
		return fmt.Sprintf("%s = load %s", formatPlace(ins.Load.Dst), formatPlace(ins.Load.Src))
	case InstrStore:
		return fmt.Sprintf("store %s, %s", formatPlace(ins.Store.Dst), formatOperand(&ins.Store.Src))
	case InstrRaise:
		if ins.Raise.Name == "" {
			return "raise"
		}
		return "raise " + ins.Raise.Name
	case InstrCheck:
		return fmt.Sprintf("check %d %s", ins.Check.Kind, formatOperand(&ins.Check.Value))
	case InstrNop:
		return "nop"
	default:
		return "<instr?>"
	}
}

func formatTerm(term *Terminator) string {
	switch term.Kind {
	case TermNone:
		return "<unterminated>"
	case TermGoto:
		return fmt.Sprintf("goto bb%d", term.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %s then bb%d else bb%d", formatOperand(&term.If.Cond), term.If.Then, term.If.Else)
	case TermReturn:
		if !term.Return.HasValue {
			return "return"
		}
		return fmt.Sprintf("return %s", formatOperand(&term.Return.Value))
	case TermSwitch:
		out := fmt.Sprintf("switch %s {", formatOperand(&term.Switch.Value))
		for _, c := range term.Switch.Cases {
			out += fmt.Sprintf(" %s..%s -> bb%d;", formatOperand(&c.Low), formatOperand(&c.High), c.Target)
		}
		out += fmt.Sprintf(" default -> bb%d; }", term.Switch.Default)
		return out
	case TermUnreachable:
		return "unreachable"
	default:
		return "<term?>"
	}
}

func formatPlace(p Place) string {
	if !p.IsValid() {
		return "<?>"
	}
	out := fmt.Sprintf("L%d", p.Local)
	if p.Kind == PlaceGlobal {
		out = fmt.Sprintf("G%d", p.Global)
	}
	for _, proj := range p.Proj {
		switch proj.Kind {
		case PlaceProjField:
			out += "." + proj.FieldName
		case PlaceProjIndex:
			out += fmt.Sprintf("[L%d]", proj.IndexLocal)
		case PlaceProjDeref:
			out += ".all"
		}
	}
	return out
}

func formatOperand(op *Operand) string {
	switch op.Kind {
	case OperandConst:
		return formatConst(&op.Const)
	case OperandUse:
		return formatPlace(op.Place)
	default:
		return "<?>"
	}
}

func formatConst(c *Const) string {
	switch c.Kind {
	case ConstInt, ConstReal:
		return c.Text
	case ConstBool:
		if c.BoolValue {
			return "TRUE"
		}
		return "FALSE"
	case ConstString:
		return fmt.Sprintf("%q", c.StringValue)
	case ConstEnumLiteral:
		return c.EnumLiteral
	case ConstNull:
		return "NULL"
	default:
		return "<?>"
	}
}

func formatOperands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i := range ops {
		parts[i] = formatOperand(&ops[i])
	}
	return strings.Join(parts, ", ")
}

func formatIndices(ops []Operand) string {
	parts := make([]string, len(ops))
	for i := range ops {
		parts[i] = formatOperand(&ops[i])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func typeStr(typesIn *types.Interner, id types.TypeID) string {
	if typesIn == nil || id == types.NoTypeID {
		return "?"
	}
	if t, ok := typesIn.Lookup(id); ok {
		return t.Name
	}
	return "?"
}
