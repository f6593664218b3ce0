package ssair

import (
	"errors"
	"fmt"

	"adalower/internal/types"
)

// Validate checks Module invariants after lowering: every block is
// terminated, every jump target and local reference exists, and every
// Return carries a value exactly when its function has a result type (the
// value's type is not compared against it).
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *Func) error {
	var errs []error
	if err := validateBlocksTerminated(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateBlockTargets(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateLocalIDs(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateReturn(f); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateBlocksTerminated(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", i))
		}
	}
	return errors.Join(errs...)
}

func validateBlockTargets(f *Func) error {
	var errs []error
	exists := func(id BlockID) bool { return id >= 0 && int(id) < len(f.Blocks) }

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		switch bb.Term.Kind {
		case TermGoto:
			if !exists(bb.Term.Goto.Target) {
				errs = append(errs, fmt.Errorf("bb%d: goto target bb%d does not exist", i, bb.Term.Goto.Target))
			}
		case TermIf:
			if !exists(bb.Term.If.Then) {
				errs = append(errs, fmt.Errorf("bb%d: if-then target bb%d does not exist", i, bb.Term.If.Then))
			}
			if !exists(bb.Term.If.Else) {
				errs = append(errs, fmt.Errorf("bb%d: if-else target bb%d does not exist", i, bb.Term.If.Else))
			}
		case TermSwitch:
			for j, c := range bb.Term.Switch.Cases {
				if !exists(c.Target) {
					errs = append(errs, fmt.Errorf("bb%d: switch case %d target bb%d does not exist", i, j, c.Target))
				}
			}
			if !exists(bb.Term.Switch.Default) {
				errs = append(errs, fmt.Errorf("bb%d: switch default bb%d does not exist", i, bb.Term.Switch.Default))
			}
		}
	}
	return errors.Join(errs...)
}

func validateLocalIDs(f *Func) error {
	var errs []error
	localExists := func(id LocalID) bool { return id >= 0 && int(id) < len(f.Locals) }

	checkPlace := func(p Place, ctx string) {
		if p.Kind == PlaceLocal && !localExists(p.Local) {
			errs = append(errs, fmt.Errorf("%s: local L%d does not exist", ctx, p.Local))
		}
		for _, proj := range p.Proj {
			if proj.Kind == PlaceProjIndex && !localExists(proj.IndexLocal) {
				errs = append(errs, fmt.Errorf("%s: index local L%d does not exist", ctx, proj.IndexLocal))
			}
		}
	}
	checkOperand := func(op Operand, ctx string) {
		if op.Kind == OperandUse {
			checkPlace(op.Place, ctx)
		}
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			ctx := fmt.Sprintf("bb%d instr %d", i, j)
			switch ins.Kind {
			case InstrAssign:
				checkPlace(ins.Assign.Dst, ctx)
				checkOperand(ins.Assign.Src, ctx)
			case InstrCall:
				if ins.Call.HasDst {
					checkPlace(ins.Call.Dst, ctx)
				}
				for _, arg := range ins.Call.Args {
					checkOperand(arg, ctx)
				}
			case InstrBinOp:
				checkPlace(ins.BinOp.Dst, ctx)
				checkOperand(ins.BinOp.Left, ctx)
				checkOperand(ins.BinOp.Right, ctx)
			case InstrUnOp:
				checkPlace(ins.UnOp.Dst, ctx)
				checkOperand(ins.UnOp.Operand, ctx)
			case InstrConvert:
				checkPlace(ins.Convert.Dst, ctx)
				checkOperand(ins.Convert.Value, ctx)
			case InstrIndex:
				checkPlace(ins.Index.Dst, ctx)
				checkPlace(ins.Index.Object, ctx)
				for _, idx := range ins.Index.Indices {
					checkOperand(idx, ctx)
				}
			case InstrField:
				checkPlace(ins.Field.Dst, ctx)
				checkPlace(ins.Field.Object, ctx)
			case InstrAlloc:
				checkPlace(ins.Alloc.Dst, ctx)
			case InstrLoad:
				checkPlace(ins.Load.Dst, ctx)
				checkPlace(ins.Load.Src, ctx)
			case InstrStore:
				checkPlace(ins.Store.Dst, ctx)
				checkOperand(ins.Store.Src, ctx)
			case InstrCheck:
				checkOperand(ins.Check.Value, ctx)
			}
		}
		ctx := fmt.Sprintf("bb%d terminator", i)
		switch bb.Term.Kind {
		case TermReturn:
			if bb.Term.Return.HasValue {
				checkOperand(bb.Term.Return.Value, ctx)
			}
		case TermIf:
			checkOperand(bb.Term.If.Cond, ctx)
		case TermSwitch:
			checkOperand(bb.Term.Switch.Value, ctx)
		}
	}
	return errors.Join(errs...)
}

func validateReturn(f *Func) error {
	var errs []error
	isProcedure := f.Result == types.NoTypeID
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if bb.Term.Kind != TermReturn {
			continue
		}
		if isProcedure && bb.Term.Return.HasValue {
			errs = append(errs, fmt.Errorf("bb%d: return with a value in a procedure", i))
		}
		if !isProcedure && !bb.Term.Return.HasValue {
			errs = append(errs, fmt.Errorf("bb%d: return with no value in a function", i))
		}
	}
	return errors.Join(errs...)
}
