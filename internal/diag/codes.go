package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown diagnostic, placeholder only.
	UnknownCode Code = 0

	// Lexical (reserved range; produced by the external front end).
	LexInfo                     Code = 1000
	LexUnknownChar               Code = 1001
	LexUnterminatedString        Code = 1002
	LexUnterminatedBlockComment  Code = 1003
	LexBadNumber                 Code = 1004
	LexTokenTooLong              Code = 1005

	// Syntactic (reserved range; produced by the external front end).
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectSemicolon   Code = 2003

	// Semantic — name resolution and visibility.
	SemaInfo                 Code = 3000
	SemaUndeclaredIdentifier  Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaAmbiguousOverload     Code = 3003
	SemaNoApplicableOverload  Code = 3004
	SemaSelectedNotVisible    Code = 3005
	SemaHiddenByUse           Code = 3006
	SemaNotAPackage           Code = 3007
	SemaNotOverloadable       Code = 3008
	SemaAmbiguousUse          Code = 3009
	SemaIllegalRedeclaration  Code = 3010

	// Semantic — types, subtypes and constraints.
	SemaTypeMismatch           Code = 3100
	SemaInvalidOperatorOperands Code = 3101
	SemaConstraintViolation    Code = 3102
	SemaRangeViolation         Code = 3103
	SemaNonStaticConstraint    Code = 3104
	SemaDiscriminantMismatch   Code = 3105
	SemaIndexCountMismatch     Code = 3106
	SemaLiteralOutOfRange      Code = 3107
	SemaIllegalSubtypeWidening Code = 3108
	SemaUnknownAttribute       Code = 3109
	SemaAttributeArity         Code = 3110
	SemaExpectDiscreteType     Code = 3111
	SemaNotAnArrayType         Code = 3112
	SemaNotARecordType         Code = 3113
	SemaNoSuchComponent        Code = 3114
	SemaVariantPartMismatch    Code = 3115
	SemaFixedPointDeltaError   Code = 3116
	SemaUniversalOverflow      Code = 3117
	SemaIncompatibleArrays     Code = 3118
	SemaNotAnAccessType        Code = 3119
	SemaDesignatedTypeMismatch Code = 3120

	// Semantic — legality, modes, subprograms.
	SemaIllegalModeAssignment Code = 3200
	SemaMissingOthers         Code = 3201
	SemaUnreachableCase       Code = 3202
	SemaMissingReturn         Code = 3203
	SemaExitOutsideLoop       Code = 3204
	SemaNoSuchLoopLabel       Code = 3205
	SemaUnknownException      Code = 3206
	SemaUnknownSuppressName   Code = 3207
	SemaDefaultForOutMode     Code = 3208
	SemaPositionalAfterNamed  Code = 3209
	SemaDuplicateNamedArg     Code = 3210
	SemaMissingActualForIn    Code = 3211

	// Semantic — elaboration and library-unit ordering.
	SemaElaborationCycle  Code = 3300
	SemaNotYetElaborated  Code = 3301
	SemaCircularTypeDef   Code = 3302

	// Semantic — tasking.
	SemaEntryNotFound       Code = 3400
	SemaAcceptOutsideTask   Code = 3401
	SemaRendezvousMismatch  Code = 3402
	SemaSelectElseAndTerminate Code = 3403
	SemaEmptySelect            Code = 3404

	// I/O (reserved range; source and include-path access).
	IOLoadFileError Code = 4001

	// Library unit / with-graph.
	ProjInfo               Code = 5000
	ProjDuplicateUnit      Code = 5001
	ProjMissingLibraryUnit Code = 5002
	ProjSelfWith           Code = 5003
	ProjWithCycle          Code = 5004
	ProjInvalidUnitName    Code = 5005
	ProjAmbiguousUnit      Code = 5006
	ProjDependencyFailed   Code = 5007

	// Observability (reserved range; pipeline timing diagnostics).
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Reserved for features explicitly out of scope.
	FutGenericsNotSupported Code = 7000
	FutTaskingStubOnly      Code = 7001
	FutRepresentationClause Code = 7002
	FutModularTypesNotSupported Code = 7003

	// Alien-source hints (optional, emitted only when the front end tags
	// a construct borrowed from another language's syntax).
	AlnCStyleComment  Code = 8001
	AlnCStyleBlockEnd Code = 8002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown diagnostic",
	LexInfo:                     "lexical information",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed numeric literal",
	LexTokenTooLong:             "token too long",
	SynInfo:                     "syntax information",
	SynUnexpectedToken:          "unexpected token",
	SynUnclosedDelimiter:        "unclosed delimiter",
	SynExpectSemicolon:          "expected ';'",

	SemaInfo:                 "semantic information",
	SemaUndeclaredIdentifier: "undeclared identifier",
	SemaDuplicateSymbol:      "duplicate declaration in this declarative region",
	SemaAmbiguousOverload:    "ambiguous overload resolution",
	SemaNoApplicableOverload: "no applicable overload for this call",
	SemaSelectedNotVisible:   "selected component is not visible at this point",
	SemaHiddenByUse:          "name hidden by another use-visible declaration",
	SemaNotAPackage:          "prefix of selected component is not a package",
	SemaNotOverloadable:      "entity is not an overloadable kind",
	SemaAmbiguousUse:         "identifier is use-visible from more than one package",
	SemaIllegalRedeclaration: "illegal redeclaration in the same declarative part",

	SemaTypeMismatch:            "type mismatch",
	SemaInvalidOperatorOperands: "invalid operand types for this operator",
	SemaConstraintViolation:     "constraint violation (CONSTRAINT_ERROR)",
	SemaRangeViolation:          "value not in range of subtype",
	SemaNonStaticConstraint:     "constraint is not static where a static value is required",
	SemaDiscriminantMismatch:    "discriminant values do not match the constrained subtype",
	SemaIndexCountMismatch:      "wrong number of index ranges for this array type",
	SemaLiteralOutOfRange:       "universal literal out of range of the target type",
	SemaIllegalSubtypeWidening:  "subtype constraint is not compatible with its parent subtype",
	SemaUnknownAttribute:        "unknown attribute designator",
	SemaAttributeArity:          "wrong number of arguments for this attribute",
	SemaExpectDiscreteType:      "expected a discrete type",
	SemaNotAnArrayType:          "expected an array type",
	SemaNotARecordType:          "expected a record type",
	SemaNoSuchComponent:         "no such record component",
	SemaVariantPartMismatch:     "component is not present for this discriminant value",
	SemaFixedPointDeltaError:    "invalid delta or small for fixed point type",
	SemaUniversalOverflow:       "universal arithmetic result out of model range",
	SemaIncompatibleArrays:      "array types have incompatible index or component types",
	SemaNotAnAccessType:        "expected an access type",
	SemaDesignatedTypeMismatch: "designated type does not match the access value",

	SemaIllegalModeAssignment: "assignment to a name with mode in",
	SemaMissingOthers:         "case statement does not cover all values and has no 'others'",
	SemaUnreachableCase:       "case alternative is unreachable",
	SemaMissingReturn:         "function body has a path with no return statement",
	SemaExitOutsideLoop:       "exit statement outside any loop",
	SemaNoSuchLoopLabel:       "no enclosing loop with this name",
	SemaUnknownException:      "unknown exception name",
	SemaUnknownSuppressName:   "unknown pragma SUPPRESS check name",
	SemaDefaultForOutMode:     "default expression not allowed for mode out parameter",
	SemaPositionalAfterNamed:  "positional association follows named association",
	SemaDuplicateNamedArg:     "duplicate named association for the same parameter",
	SemaMissingActualForIn:    "missing actual for parameter with no default",

	SemaElaborationCycle: "non-elaborable dependency cycle",
	SemaNotYetElaborated: "use of entity before its elaboration",
	SemaCircularTypeDef:  "circular type definition",

	SemaEntryNotFound:      "no such entry on this task",
	SemaAcceptOutsideTask:  "accept statement outside a task body",
	SemaRendezvousMismatch: "accept statement parameter profile does not match the entry",
	SemaSelectElseAndTerminate: "selective wait cannot have both an else part and a terminate alternative",
	SemaEmptySelect:            "selective wait has no accept alternatives",

	IOLoadFileError: "I/O load file error",

	ProjInfo:               "library information",
	ProjDuplicateUnit:      "duplicate library unit",
	ProjMissingLibraryUnit: "with'd library unit not found on the include path",
	ProjSelfWith:           "library unit withs itself",
	ProjWithCycle:          "with-clause dependency cycle",
	ProjInvalidUnitName:    "invalid library unit name",
	ProjAmbiguousUnit:      "library unit name is ambiguous across include directories",
	ProjDependencyFailed:   "with'd library unit failed semantic analysis",

	ObsInfo:    "observability information",
	ObsTimings: "pipeline stage timings",

	FutGenericsNotSupported:     "generic declaration or instantiation is not supported in this pipeline",
	FutTaskingStubOnly:          "tasking construct accepted but only stub semantics are lowered",
	FutRepresentationClause:     "representation clause accepted but has no effect on lowering",
	FutModularTypesNotSupported: "modular types (Ada 95) are not part of this Ada 83 implementation",

	AlnCStyleComment:  "alien hint: C-style line comment",
	AlnCStyleBlockEnd: "alien hint: C-style block comment terminator",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("FUT%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("ALN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
