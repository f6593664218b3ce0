// Package frontend is a best-effort, non-normative recursive-descent
// tokenizer and parser for a practical subset of Ada 83: library-level
// package and subprogram units, object/type/subtype declarations, the
// common statement forms, and expressions with Ada's predefined operator
// precedence. It exists so adac has something real to run end-to-end
// against; constructing ast.Tree nodes directly via ast.Builder (as the
// test suite does) remains the normative way to exercise sema and ssair.
package frontend

import "adalower/internal/source"

// Kind enumerates lexical token categories.
type Kind uint8

const (
	KindEOF Kind = iota
	KindIdent
	KindIntLit
	KindRealLit
	KindCharLit
	KindStringLit

	// Punctuation and operator symbols.
	KindLParen
	KindRParen
	KindComma
	KindDot
	KindSemicolon
	KindColon
	KindColonEq
	KindArrow // =>
	KindDotDot
	KindTick // '

	KindPlus
	KindMinus
	KindStar
	KindStarStar
	KindSlash
	KindAmp
	KindEq
	KindNe
	KindLt
	KindLe
	KindGt
	KindGe

	KindKeyword
)

// Token is one lexeme together with its source span and (for identifiers
// and keywords) normalized text.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

// keywords lists the Ada 83 reserved words this subset recognizes. Ada is
// case-insensitive; Text is folded to upper case for keyword lookups and
// left as written for identifiers.
var keywords = map[string]bool{
	"ABORT": true, "ABS": true, "ACCEPT": true, "ACCESS": true, "ALL": true,
	"AND": true, "ARRAY": true, "AT": true, "BEGIN": true, "BODY": true,
	"CASE": true, "CONSTANT": true, "DECLARE": true, "DELAY": true,
	"DELTA": true, "DIGITS": true, "DO": true, "ELSE": true, "ELSIF": true,
	"END": true, "ENTRY": true, "EXCEPTION": true, "EXIT": true, "FOR": true,
	"FUNCTION": true, "GENERIC": true, "GOTO": true, "IF": true, "IN": true,
	"IS": true, "LIMITED": true, "LOOP": true, "MOD": true, "NEW": true,
	"NOT": true, "NULL": true, "OF": true, "OR": true, "OTHERS": true,
	"OUT": true, "PACKAGE": true, "PRAGMA": true, "PRIVATE": true,
	"PROCEDURE": true, "RAISE": true, "RANGE": true, "RECORD": true,
	"REM": true, "RENAMES": true, "RETURN": true, "REVERSE": true,
	"SELECT": true, "SEPARATE": true, "SUBTYPE": true, "TASK": true,
	"TERMINATE": true, "THEN": true, "TYPE": true, "USE": true, "WHEN": true,
	"WHILE": true, "WITH": true, "XOR": true,
}

func isKeyword(upper string) bool { return keywords[upper] }
