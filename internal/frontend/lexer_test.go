package frontend

import (
	"testing"

	"adalower/internal/diag"
	"adalower/internal/source"
)

func lexAll(t *testing.T, src string) ([]Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ads", []byte(src))
	bag := diag.NewBag(20)
	l := newLexer(id, fs.Get(id).Content, &diag.BagReporter{Bag: bag})

	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			break
		}
	}
	return toks, bag
}

func TestLexerKeywordsAreCaseFolded(t *testing.T) {
	toks, bag := lexAll(t, "procedure Foo is begin null; end Foo;")
	if bag.HasErrors() {
		t.Fatalf("unexpected lexer errors: %v", bag.Items())
	}
	if toks[0].Kind != KindKeyword || toks[0].Text != "PROCEDURE" {
		t.Fatalf("expected PROCEDURE keyword, got %+v", toks[0])
	}
	if toks[1].Kind != KindIdent || toks[1].Text != "Foo" {
		t.Fatalf("expected ident Foo with original case, got %+v", toks[1])
	}
}

func TestLexerComments(t *testing.T) {
	toks, _ := lexAll(t, "X -- a comment\n:= 1;")
	if toks[0].Kind != KindIdent || toks[0].Text != "X" {
		t.Fatalf("expected ident X, got %+v", toks[0])
	}
	if toks[1].Kind != KindColonEq {
		t.Fatalf("expected := after skipping comment, got %+v", toks[1])
	}
}

func TestLexerNumericLiterals(t *testing.T) {
	toks, _ := lexAll(t, "1 3.14 1_000 2#1010#")
	want := []Kind{KindIntLit, KindRealLit, KindIntLit, KindIntLit}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: want kind %v, got %+v", i, k, toks[i])
		}
	}
}

func TestLexerStringAndDoubledQuote(t *testing.T) {
	toks, bag := lexAll(t, `"he said ""hi"""`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if toks[0].Kind != KindStringLit || toks[0].Text != `he said "hi"` {
		t.Fatalf("unexpected string literal: %+v", toks[0])
	}
}

func TestLexerUnterminatedStringReportsError(t *testing.T) {
	_, bag := lexAll(t, `"unterminated`)
	if !bag.HasErrors() {
		t.Fatalf("expected unterminated string to report an error")
	}
}

func TestLexerCharLiteralVsTick(t *testing.T) {
	toks, _ := lexAll(t, "'x' X'Length")
	if toks[0].Kind != KindCharLit || toks[0].Text != "x" {
		t.Fatalf("expected char literal, got %+v", toks[0])
	}
	// X 'Length: ident, then tick, then ident
	if toks[1].Kind != KindIdent || toks[2].Kind != KindTick || toks[3].Kind != KindIdent {
		t.Fatalf("unexpected attribute token shape: %+v", toks[1:4])
	}
}

func TestLexerUnknownCharReportsAndSkips(t *testing.T) {
	toks, bag := lexAll(t, "X $ Y;")
	if !bag.HasErrors() {
		t.Fatalf("expected unknown character to report an error")
	}
	if toks[0].Text != "X" || toks[1].Text != "Y" {
		t.Fatalf("expected lexer to skip the bad char and keep going, got %+v", toks)
	}
}

func TestLexerOperatorPunctuation(t *testing.T) {
	toks, _ := lexAll(t, "=> .. := /= <= >= **")
	want := []Kind{KindArrow, KindDotDot, KindColonEq, KindNe, KindLe, KindGe, KindStarStar}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: want %v, got %+v", i, k, toks[i])
		}
	}
}
