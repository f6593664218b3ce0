// Package abi declares the runtime entry points lowered code calls into
// instead of expanding in line: heap allocation, bounds and range checks
// that need more than a single comparison, exception propagation, and the
// tasking primitives a rendezvous lowers to. None of these are
// implemented here — only named and shaped, the way a cross-compiler
// declares the calling convention of a runtime it links against but
// never builds itself.
package abi

// Func names one runtime entry point lowered IR calls by name.
type Func string

const (
	// Heap and object lifetime.
	Alloc   Func = "__rt_alloc"
	Dealloc Func = "__rt_dealloc"

	// Run-time checks too wide for a single InstrCheck comparison.
	RangeCheck      Func = "__rt_range_check"
	IndexCheck      Func = "__rt_index_check"
	DiscriminantChk Func = "__rt_discriminant_check"
	LengthCheck     Func = "__rt_length_check"
	OverflowCheck   Func = "__rt_overflow_check"

	// Exception propagation.
	Raise   Func = "__rt_raise"
	Reraise Func = "__rt_reraise"

	// Task lifecycle (LRM 9.3, 9.4).
	TaskCreate    Func = "__rt_task_create"
	TaskActivate  Func = "__rt_task_activate"
	TaskTerminate Func = "__rt_task_terminate"
	TaskAbort     Func = "__rt_task_abort"

	// Rendezvous (LRM 9.5): an accept statement enqueues itself as
	// willing to rendezvous, blocks until a caller is matched (or an
	// optional "or terminate"/"or delay" guard fires), then completes by
	// copying out parameters back to the caller and releasing it.
	EntryCall     Func = "__rt_entry_call"
	AcceptOpen    Func = "__rt_accept_open"
	AcceptComplete Func = "__rt_accept_complete"
	SelectWait    Func = "__rt_select_wait"

	// delay statement (LRM 9.6).
	Delay Func = "__rt_delay"

	// Predefined TEXT_IO subset (LRM Appendix A): PUT/PUT_LINE for
	// String, Integer, and Float, plus NEW_LINE.
	TextIOPut       Func = "__rt_text_io_put"
	TextIOPutLine   Func = "__rt_text_io_put_line"
	TextIOPutInt    Func = "__rt_text_io_put_int"
	TextIOPutFloat  Func = "__rt_text_io_put_float"
	TextIONewLine   Func = "__rt_text_io_new_line"
)

// Signature describes a Func's parameter and result arity for codegen's
// benefit; Params/HasResult are informational only, since this package
// never emits a definition, only the declaration lowering code calls
// against.
type Signature struct {
	Params    int
	HasResult bool
}

// Signatures maps every Func declared above to its calling shape.
var Signatures = map[Func]Signature{
	Alloc:           {Params: 1, HasResult: true},
	Dealloc:         {Params: 1},
	RangeCheck:      {Params: 3},
	IndexCheck:      {Params: 3},
	DiscriminantChk: {Params: 2},
	LengthCheck:     {Params: 2},
	OverflowCheck:   {Params: 1, HasResult: true},
	Raise:           {Params: 1},
	Reraise:         {},
	TaskCreate:      {Params: 1, HasResult: true},
	TaskActivate:    {Params: 1},
	TaskTerminate:   {Params: 1},
	TaskAbort:       {Params: 1},
	EntryCall:       {Params: 2},
	AcceptOpen:      {Params: 2, HasResult: true},
	AcceptComplete:  {Params: 1},
	SelectWait:      {Params: 1, HasResult: true},
	Delay:           {Params: 1},
	TextIOPut:       {Params: 1},
	TextIOPutLine:   {Params: 1},
	TextIOPutInt:    {Params: 1},
	TextIOPutFloat:  {Params: 1},
	TextIONewLine:   {},
}
