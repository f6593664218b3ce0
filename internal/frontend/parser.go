package frontend

import (
	"fmt"
	"strings"

	"adalower/internal/ast"
	"adalower/internal/diag"
	"adalower/internal/source"
)

// Frontend implements driver.Frontend with the tokenizer and parser in this
// package. It is registered with internal/driver the same way a production
// front end would be; nothing in driver or sema knows the difference.
type Frontend struct{}

// New returns a ready-to-use Frontend. There is no state to configure yet.
func New() *Frontend { return &Frontend{} }

func (f *Frontend) ParseFile(tree *ast.Tree, file *source.File, reporter diag.Reporter) (ast.UnitID, error) {
	p := newParser(tree, file, reporter)
	return p.parseUnit()
}

// stopFn reports whether the current token ends the construct being
// collected (a declarative part, a statement sequence), so the caller can
// stop without consuming the terminator itself.
type stopFn func(*parser) bool

func stopAtEnd(p *parser) bool          { return p.atKeyword("END") }
func stopAtBeginOrEnd(p *parser) bool   { return p.atKeyword("BEGIN") || p.atKeyword("END") }
func stopAtPrivateOrEnd(p *parser) bool { return p.atKeyword("PRIVATE") || p.atKeyword("END") }
func stopAtEndOrException(p *parser) bool {
	return p.atKeyword("END") || p.atKeyword("EXCEPTION")
}
func stopAtElsifElseEnd(p *parser) bool {
	return p.atKeyword("ELSIF") || p.atKeyword("ELSE") || p.atKeyword("END")
}
func stopAtEndOrWhen(p *parser) bool { return p.atKeyword("END") || p.atKeyword("WHEN") }

// parser is a single-file recursive-descent parser over a token stream,
// building directly into a shared ast.Tree. It never aborts on a malformed
// construct: every parse* method that can fail reports through reporter and
// returns an error that its caller turns into a resync to the next ';' (or
// enclosing stop keyword), the same recovery strategy real Ada front ends use
// to keep finding errors after the first one.
type parser struct {
	tree     *ast.Tree
	file     *source.File
	reporter diag.Reporter
	builder  *ast.Builder

	lex    *lexer
	tok    Token
	prev   Token
	peeked *Token
}

func newParser(tree *ast.Tree, file *source.File, reporter diag.Reporter) *parser {
	p := &parser{
		tree:     tree,
		file:     file,
		reporter: reporter,
		builder:  ast.NewBuilder(tree),
		lex:      newLexer(file.ID, file.Content, reporter),
	}
	p.advance()
	return p
}

func (p *parser) advance() {
	p.prev = p.tok
	if p.peeked != nil {
		p.tok = *p.peeked
		p.peeked = nil
		return
	}
	p.tok = p.lex.Next()
}

func (p *parser) peekNext() Token {
	if p.peeked == nil {
		t := p.lex.Next()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *parser) at(k Kind) bool            { return p.tok.Kind == k }
func (p *parser) atEOF() bool               { return p.tok.Kind == KindEOF }
func (p *parser) atKeyword(kw string) bool  { return p.tok.Kind == KindKeyword && p.tok.Text == kw }
func (p *parser) spanOf(e ast.ExprID) source.Span { return p.tree.Exprs.Get(e).Span }

func tokenText(t Token) string {
	if t.Kind == KindEOF {
		return "end of file"
	}
	if t.Text != "" {
		return t.Text
	}
	return "?"
}

func (p *parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	if p.reporter == nil {
		return
	}
	diag.ReportError(p.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (p *parser) expect(k Kind, what string) source.Span {
	sp := p.tok.Span
	if p.tok.Kind != k {
		p.errorf(diag.SynUnexpectedToken, sp, "expected %s, found %q", what, tokenText(p.tok))
		return sp
	}
	p.advance()
	return sp
}

func (p *parser) expectKeyword(kw string) source.Span {
	sp := p.tok.Span
	if !p.atKeyword(kw) {
		p.errorf(diag.SynUnexpectedToken, sp, "expected %s, found %q", kw, tokenText(p.tok))
		return sp
	}
	p.advance()
	return sp
}

func (p *parser) expectSemicolon() source.Span {
	sp := p.tok.Span
	if p.tok.Kind != KindSemicolon {
		p.errorf(diag.SynExpectSemicolon, sp, "expected ';'")
		return sp
	}
	p.advance()
	return sp
}

func (p *parser) syncTo(stop stopFn) {
	for !p.atEOF() {
		if p.at(KindSemicolon) {
			p.advance()
			return
		}
		if stop(p) {
			return
		}
		p.advance()
	}
}

// parseDottedIdentText reads Ident {. Ident} and renders it back as a dotted
// string, for contexts (with/use clauses, exception names) that only need
// the unit name rather than a resolvable ast.NameID.
func (p *parser) parseDottedIdentText() string {
	if !p.at(KindIdent) {
		p.errorf(diag.SynUnexpectedToken, p.tok.Span, "expected identifier, found %q", tokenText(p.tok))
		return ""
	}
	text := p.tok.Text
	p.advance()
	for p.at(KindDot) {
		p.advance()
		if !p.at(KindIdent) {
			p.errorf(diag.SynUnexpectedToken, p.tok.Span, "expected identifier after '.'")
			break
		}
		text += "." + p.tok.Text
		p.advance()
	}
	return text
}

func (p *parser) parseIdentList() []string {
	var names []string
	for {
		if !p.at(KindIdent) {
			p.errorf(diag.SynUnexpectedToken, p.tok.Span, "expected identifier, found %q", tokenText(p.tok))
			break
		}
		names = append(names, p.tok.Text)
		p.advance()
		if p.at(KindComma) {
			p.advance()
			continue
		}
		break
	}
	return names
}

func (p *parser) parseTypeMarkName() (ast.NameID, error) {
	if !p.at(KindIdent) {
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "expected a type mark, found %q", tokenText(p.tok))
		return ast.NoNameID, fmt.Errorf("expected type mark")
	}
	id := p.tree.Names.NewIdent(p.tok.Span, p.tok.Text)
	p.advance()
	for p.at(KindDot) {
		p.advance()
		if !p.at(KindIdent) {
			sp := p.tok.Span
			p.errorf(diag.SynUnexpectedToken, sp, "expected identifier after '.'")
			return id, fmt.Errorf("expected identifier after '.'")
		}
		id = p.tree.Names.NewSelected(p.tok.Span, id, p.tok.Text)
		p.advance()
	}
	return id, nil
}

func (p *parser) parseSubtypeIndication() (ast.SubtypeIndID, error) {
	start := p.tok.Span
	mark, err := p.parseTypeMarkName()
	if err != nil {
		return ast.NoSubtypeIndID, err
	}
	span := start.Cover(p.prev.Span)
	constraint := ast.NoConstraintID
	if p.atKeyword("RANGE") {
		rangeStart := p.tok.Span
		p.advance()
		low, err := p.parseExpr()
		if err != nil {
			return ast.NoSubtypeIndID, err
		}
		p.expect(KindDotDot, "'..'")
		high, err := p.parseExpr()
		if err != nil {
			return ast.NoSubtypeIndID, err
		}
		constraintSpan := rangeStart.Cover(p.spanOf(high))
		constraint = p.tree.Constraints.NewRange(constraintSpan, low, high)
		span = start.Cover(constraintSpan)
	}
	return p.tree.SubtypeInds.New(span, mark, constraint), nil
}

// parseReturnSubtypeMark parses a function's RETURN type mark, which Ada 83
// never allows to carry a constraint.
func (p *parser) parseReturnSubtypeMark() (ast.SubtypeIndID, error) {
	start := p.tok.Span
	mark, err := p.parseTypeMarkName()
	if err != nil {
		return ast.NoSubtypeIndID, err
	}
	return p.tree.SubtypeInds.New(start.Cover(p.prev.Span), mark, ast.NoConstraintID), nil
}

// ---- context clause -------------------------------------------------

func (p *parser) parseContextClause() ([]ast.With, []string) {
	var withs []ast.With
	var uses []string
	for p.atKeyword("WITH") || p.atKeyword("USE") {
		if p.atKeyword("WITH") {
			start := p.tok.Span
			p.advance()
			for {
				nameStart := p.tok.Span
				name := p.parseDottedIdentText()
				withs = append(withs, ast.With{Unit: name, Span: start.Cover(nameStart)})
				if p.at(KindComma) {
					p.advance()
					continue
				}
				break
			}
			p.expectSemicolon()
			continue
		}
		p.advance() // USE
		for {
			uses = append(uses, p.parseDottedIdentText())
			if p.at(KindComma) {
				p.advance()
				continue
			}
			break
		}
		p.expectSemicolon()
	}
	return withs, uses
}

// ---- library item -----------------------------------------------------

func (p *parser) parseUnit() (ast.UnitID, error) {
	start := p.tok.Span
	withs, uses := p.parseContextClause()
	root, rootSpan, err := p.parseLibraryItem()
	if err != nil {
		return ast.NoUnitID, err
	}
	if !p.atEOF() {
		p.errorf(diag.SynUnexpectedToken, p.tok.Span, "unexpected content after end of compilation unit")
	}
	unit := &ast.Unit{File: p.file.ID, Context: withs, Uses: uses, Root: root, Span: start.Cover(rootSpan)}
	return p.tree.AddUnit(unit), nil
}

func (p *parser) parseLibraryItem() (ast.DeclID, source.Span, error) {
	switch {
	case p.atKeyword("PACKAGE"):
		return p.parsePackage()
	case p.atKeyword("PROCEDURE"), p.atKeyword("FUNCTION"):
		return p.parseSubprogram()
	case p.atKeyword("GENERIC"):
		return p.parseGenericDecl()
	default:
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "expected PACKAGE, PROCEDURE, or FUNCTION, found %q", tokenText(p.tok))
		return ast.NoDeclID, sp, fmt.Errorf("no library item found")
	}
}

// parseGenericDecl rejects a generic declaration (LRM 12): Ada 83
// generics have no instantiation model in this pipeline. The generic
// formal part is skipped and the subprogram or package it introduces is
// still parsed as an ordinary, non-generic one, so the rest of analysis
// sees a ready-made declaration rather than nothing at all — an
// instantiation of it would be rejected the same way any other call to
// an unsupported construct is, through the reported diagnostic, not
// through a parse failure that aborts the whole unit.
func (p *parser) parseGenericDecl() (ast.DeclID, source.Span, error) {
	start := p.tok.Span
	p.advance() // GENERIC
	for !p.atEOF() {
		atUnitStart := p.atKeyword("PROCEDURE") || p.atKeyword("FUNCTION") || p.atKeyword("PACKAGE")
		precededByWith := p.prev.Kind == KindKeyword && p.prev.Text == "WITH"
		if atUnitStart && !precededByWith {
			break
		}
		p.advance()
	}
	p.errorf(diag.FutGenericsNotSupported, start, "generic declarations are not supported in this pipeline")
	if p.atEOF() {
		return ast.NoDeclID, start, fmt.Errorf("generic declaration has no underlying unit")
	}
	id, sp, err := p.parseLibraryItem()
	return id, start.Cover(sp), err
}

func (p *parser) parsePackage() (ast.DeclID, source.Span, error) {
	start := p.tok.Span
	p.advance() // PACKAGE
	isBody := false
	if p.atKeyword("BODY") {
		isBody = true
		p.advance()
	}
	name := p.parseDottedIdentText()
	p.expectKeyword("IS")
	if isBody {
		decls := p.parseDeclarativePart(stopAtBeginOrEnd)
		var stmts []ast.StmtID
		if p.atKeyword("BEGIN") {
			p.advance()
			stmts = p.parseStatementSequence(stopAtEnd)
		}
		p.expectKeyword("END")
		if p.at(KindIdent) {
			p.parseDottedIdentText()
		}
		endSpan := p.expectSemicolon()
		decl := p.tree.Decls.NewPackageBody(start.Cover(endSpan), name, ast.PackageBody{Decls: decls, Stmts: stmts})
		return decl, start.Cover(endSpan), nil
	}

	public := p.parseDeclarativePart(stopAtPrivateOrEnd)
	var private []ast.DeclID
	if p.atKeyword("PRIVATE") {
		p.advance()
		private = p.parseDeclarativePart(stopAtEnd)
	}
	p.expectKeyword("END")
	if p.at(KindIdent) {
		p.parseDottedIdentText()
	}
	endSpan := p.expectSemicolon()
	decl := p.tree.Decls.NewPackageSpec(start.Cover(endSpan), name, ast.PackageSpec{Public: public, Private: private})
	return decl, start.Cover(endSpan), nil
}

// parseSubprogram parses both a library-level and a nested subprogram: a
// spec-only declaration ending in ';', or a body whose declarative part and
// statement sequence follow IS. A body with no separately written spec still
// gets one synthesized here, since sema expects SubprogramBody.Spec to
// always resolve.
func (p *parser) parseSubprogram() (ast.DeclID, source.Span, error) {
	start := p.tok.Span
	name, isFunction, params, ret, err := p.parseSubprogramSpecHeader()
	if err != nil {
		return ast.NoDeclID, start, err
	}

	if p.at(KindSemicolon) {
		endSpan := p.tok.Span
		p.advance()
		decl := p.tree.Decls.NewSubprogramSpec(start.Cover(endSpan), name, ast.SubprogramSpec{
			IsFunction: isFunction, Params: params, ReturnType: ret,
		})
		return decl, start.Cover(endSpan), nil
	}

	p.expectKeyword("IS")
	spec := p.tree.Decls.NewSubprogramSpec(start.Cover(p.prev.Span), name, ast.SubprogramSpec{
		IsFunction: isFunction, Params: params, ReturnType: ret,
	})
	decls := p.parseDeclarativePart(stopAtBeginOrEnd)
	var stmts []ast.StmtID
	var handlers []ast.HandlerID
	if p.atKeyword("BEGIN") {
		p.advance()
		stmts = p.parseStatementSequence(stopAtEndOrException)
		if p.atKeyword("EXCEPTION") {
			handlers = p.parseExceptionHandlers()
		}
	}
	p.expectKeyword("END")
	if p.at(KindIdent) {
		p.parseDottedIdentText()
	}
	endSpan := p.expectSemicolon()
	body := p.tree.Decls.NewSubprogramBody(start.Cover(endSpan), name, ast.SubprogramBody{
		Spec: spec, Decls: decls, Stmts: stmts, Handlers: handlers,
	})
	return body, start.Cover(endSpan), nil
}

func (p *parser) parseSubprogramSpecHeader() (string, bool, []ast.ParamID, ast.SubtypeIndID, error) {
	isFunction := false
	if p.atKeyword("PROCEDURE") {
		p.advance()
	} else {
		p.expectKeyword("FUNCTION")
		isFunction = true
	}
	if !p.at(KindIdent) {
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "expected subprogram name")
		return "", false, nil, ast.NoSubtypeIndID, fmt.Errorf("expected subprogram name")
	}
	name := p.tok.Text
	p.advance()

	var params []ast.ParamID
	var err error
	if p.at(KindLParen) {
		params, err = p.parseFormalPart()
		if err != nil {
			return "", false, nil, ast.NoSubtypeIndID, err
		}
	}
	ret := ast.NoSubtypeIndID
	if isFunction {
		p.expectKeyword("RETURN")
		ret, err = p.parseReturnSubtypeMark()
		if err != nil {
			return "", false, nil, ast.NoSubtypeIndID, err
		}
	}
	return name, isFunction, params, ret, nil
}

func (p *parser) parseFormalPart() ([]ast.ParamID, error) {
	p.advance() // (
	var params []ast.ParamID
	for !p.at(KindRParen) && !p.atEOF() {
		names := p.parseIdentList()
		p.expect(KindColon, "':'")
		mode := ast.ModeIn
		switch {
		case p.atKeyword("IN"):
			p.advance()
			if p.atKeyword("OUT") {
				p.advance()
				mode = ast.ModeInOut
			}
		case p.atKeyword("OUT"):
			p.advance()
			mode = ast.ModeOut
		}
		pstart := p.tok.Span
		typ, err := p.parseSubtypeIndication()
		if err != nil {
			return nil, err
		}
		def := ast.NoExprID
		if p.at(KindColonEq) {
			p.advance()
			def, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		full := pstart.Cover(p.prev.Span)
		for _, n := range names {
			params = append(params, ast.ParamID(p.tree.Decls.Params.Allocate(ast.Param{
				Name: n, Mode: mode, Type: typ, Default: def, Span: full,
			})))
		}
		if p.at(KindSemicolon) {
			p.advance()
			continue
		}
		break
	}
	p.expect(KindRParen, "')'")
	return params, nil
}

func (p *parser) parseExceptionHandlers() []ast.HandlerID {
	p.advance() // EXCEPTION
	var handlers []ast.HandlerID
	for p.atKeyword("WHEN") {
		start := p.tok.Span
		p.advance()
		var excs []string
		if p.atKeyword("OTHERS") {
			excs = append(excs, "others")
			p.advance()
		} else {
			excs = append(excs, p.parseDottedIdentText())
		}
		p.expect(KindArrow, "'=>'")
		body := p.parseStatementSequence(stopAtEndOrWhen)
		span := start.Cover(p.prev.Span)
		handlers = append(handlers, ast.HandlerID(p.tree.Decls.Handlers.Allocate(ast.Handler{
			Exceptions: excs, Stmts: body, Span: span,
		})))
	}
	return handlers
}

// ---- declarative parts --------------------------------------------------

func (p *parser) parseDeclarativePart(stop stopFn) []ast.DeclID {
	var decls []ast.DeclID
	for !p.atEOF() && !stop(p) {
		ds, err := p.parseDeclarativeItem()
		if err != nil {
			p.syncTo(stop)
			continue
		}
		decls = append(decls, ds...)
	}
	return decls
}

func (p *parser) parseDeclarativeItem() ([]ast.DeclID, error) {
	switch {
	case p.atKeyword("PRAGMA"):
		d, err := p.parsePragma()
		if err != nil {
			return nil, err
		}
		return []ast.DeclID{d}, nil
	case p.atKeyword("TYPE"):
		d, err := p.parseTypeDecl()
		if err != nil {
			return nil, err
		}
		return []ast.DeclID{d}, nil
	case p.atKeyword("SUBTYPE"):
		d, err := p.parseSubtypeDecl()
		if err != nil {
			return nil, err
		}
		return []ast.DeclID{d}, nil
	case p.atKeyword("USE"):
		return p.parseUseDecl()
	case p.atKeyword("PROCEDURE"), p.atKeyword("FUNCTION"):
		d, _, err := p.parseSubprogram()
		if err != nil {
			return nil, err
		}
		return []ast.DeclID{d}, nil
	case p.at(KindIdent):
		return p.parseObjectOrNumberDecl()
	default:
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "unexpected token %q in declarative part", tokenText(p.tok))
		return nil, fmt.Errorf("unexpected declarative item")
	}
}

// parsePragma parses any pragma into a PragmaDecl holding its name and its
// first two identifier arguments as CheckName and Entity, the shape of
// pragma SUPPRESS(check_name[, entity]) (LRM 11.7). It does this for every
// pragma, whatever its name; a named association's keyword is skipped and
// its value kept, and any other argument tokens are skipped.
func (p *parser) parsePragma() (ast.DeclID, error) {
	start := p.tok.Span
	p.advance() // PRAGMA
	name := ""
	if p.at(KindIdent) {
		name = strings.ToUpper(p.tok.Text)
		p.advance()
	}
	var args []string
	if p.at(KindLParen) {
		p.advance()
		depth := 1
		for depth > 0 && !p.atEOF() {
			switch {
			case p.at(KindLParen):
				depth++
				p.advance()
			case p.at(KindRParen):
				depth--
				p.advance()
			case p.at(KindComma):
				p.advance()
			case depth == 1 && p.at(KindIdent):
				text := p.tok.Text
				p.advance()
				if p.at(KindArrow) {
					// Named association ("On => Name"): the identifier is
					// the parameter keyword, not the argument value.
					p.advance()
					continue
				}
				args = append(args, text)
			default:
				p.advance()
			}
		}
	}
	p.expectSemicolon()
	span := start.Cover(p.prev.Span)
	pragma := ast.PragmaDecl{Name: name}
	if len(args) > 0 {
		pragma.CheckName = args[0]
	}
	if len(args) > 1 {
		pragma.Entity = args[1]
	}
	return p.tree.Decls.NewPragma(span, pragma), nil
}

func (p *parser) parseObjectOrNumberDecl() ([]ast.DeclID, error) {
	start := p.tok.Span
	names := p.parseIdentList()
	p.expect(KindColon, "':'")
	constant := false
	if p.atKeyword("CONSTANT") {
		constant = true
		p.advance()
	}

	if constant && p.at(KindColonEq) {
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		full := start.Cover(p.expectSemicolon())
		decls := make([]ast.DeclID, 0, len(names))
		for _, n := range names {
			decls = append(decls, p.tree.Decls.NewNumber(full, n, ast.NumberDecl{Value: value}))
		}
		return decls, nil
	}

	typ, err := p.parseSubtypeIndication()
	if err != nil {
		return nil, err
	}
	init := ast.NoExprID
	if p.at(KindColonEq) {
		p.advance()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	full := start.Cover(p.expectSemicolon())
	decls := make([]ast.DeclID, 0, len(names))
	for _, n := range names {
		decls = append(decls, p.tree.Decls.NewObject(full, n, ast.ObjectDecl{Constant: constant, Type: typ, Init: init}))
	}
	return decls, nil
}

func (p *parser) parseTypeDecl() (ast.DeclID, error) {
	start := p.tok.Span
	p.advance() // TYPE
	if !p.at(KindIdent) {
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "expected type name")
		return ast.NoDeclID, fmt.Errorf("expected type name")
	}
	name := p.tok.Text
	p.advance()
	p.expectKeyword("IS")
	def, err := p.parseTypeDefinition(start)
	if err != nil {
		return ast.NoDeclID, err
	}
	endSpan := p.expectSemicolon()
	return p.tree.Decls.NewType(start.Cover(endSpan), name, ast.TypeDecl{Def: def}), nil
}

// parseTypeDefinition covers the subset this front end knows how to build:
// enumeration, signed integer range, and derived types. Records, arrays,
// access, fixed/floating point, and task types are left to direct
// ast.Builder construction in tests until this front end grows into them.
func (p *parser) parseTypeDefinition(start source.Span) (ast.TypeDefID, error) {
	switch {
	case p.at(KindLParen):
		return p.parseEnumerationDef(start)
	case p.atKeyword("RANGE"):
		return p.parseIntegerRangeDef(start)
	case p.atKeyword("NEW"):
		return p.parseDerivedDef(start)
	default:
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "unsupported type definition starting with %q", tokenText(p.tok))
		return ast.NoTypeDefID, fmt.Errorf("unsupported type definition")
	}
}

func (p *parser) parseEnumerationDef(start source.Span) (ast.TypeDefID, error) {
	p.advance() // (
	var lits []ast.Enumerator
	for {
		sp := p.tok.Span
		switch p.tok.Kind {
		case KindIdent:
			lits = append(lits, ast.Enumerator{Name: p.tok.Text, CharLiteral: -1, Span: sp})
			p.advance()
		case KindCharLit:
			lits = append(lits, ast.Enumerator{Name: p.tok.Text, CharLiteral: []rune(p.tok.Text)[0], Span: sp})
			p.advance()
		default:
			p.errorf(diag.SynUnexpectedToken, sp, "expected enumeration literal")
			return ast.NoTypeDefID, fmt.Errorf("expected enumeration literal")
		}
		if p.at(KindComma) {
			p.advance()
			continue
		}
		break
	}
	endSpan := p.expect(KindRParen, "')'")
	return p.tree.TypeDefs.NewEnumeration(start.Cover(endSpan), ast.EnumerationTypeDef{Literals: lits}), nil
}

func (p *parser) parseIntegerRangeDef(start source.Span) (ast.TypeDefID, error) {
	p.advance() // RANGE
	low, err := p.parseExpr()
	if err != nil {
		return ast.NoTypeDefID, err
	}
	p.expect(KindDotDot, "'..'")
	high, err := p.parseExpr()
	if err != nil {
		return ast.NoTypeDefID, err
	}
	return p.tree.TypeDefs.NewIntegerRange(start.Cover(p.spanOf(high)), ast.IntegerRangeTypeDef{Low: low, High: high}), nil
}

func (p *parser) parseDerivedDef(start source.Span) (ast.TypeDefID, error) {
	p.advance() // NEW
	ind, err := p.parseSubtypeIndication()
	if err != nil {
		return ast.NoTypeDefID, err
	}
	return p.tree.TypeDefs.NewDerived(start.Cover(p.prev.Span), ast.DerivedTypeDef{Parent: ind}), nil
}

func (p *parser) parseSubtypeDecl() (ast.DeclID, error) {
	start := p.tok.Span
	p.advance() // SUBTYPE
	if !p.at(KindIdent) {
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "expected subtype name")
		return ast.NoDeclID, fmt.Errorf("expected subtype name")
	}
	name := p.tok.Text
	p.advance()
	p.expectKeyword("IS")
	ind, err := p.parseSubtypeIndication()
	if err != nil {
		return ast.NoDeclID, err
	}
	endSpan := p.expectSemicolon()
	return p.tree.Decls.NewSubtype(start.Cover(endSpan), name, ind), nil
}

func (p *parser) parseUseDecl() ([]ast.DeclID, error) {
	start := p.tok.Span
	p.advance() // USE
	var decls []ast.DeclID
	for {
		name := p.parseDottedIdentText()
		decls = append(decls, p.tree.Decls.NewUse(start.Cover(p.prev.Span), name))
		if p.at(KindComma) {
			p.advance()
			continue
		}
		break
	}
	p.expectSemicolon()
	return decls, nil
}

// ---- statements -----------------------------------------------------

func (p *parser) parseStatementSequence(stop stopFn) []ast.StmtID {
	var stmts []ast.StmtID
	for !p.atEOF() && !stop(p) {
		s, err := p.parseStatement()
		if err != nil {
			p.syncTo(stop)
			continue
		}
		if s.IsValid() {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *parser) parseStatement() (ast.StmtID, error) {
	switch {
	case p.atKeyword("NULL"):
		start := p.tok.Span
		p.advance()
		endSpan := p.expectSemicolon()
		return p.tree.Stmts.NewNull(start.Cover(endSpan)), nil
	case p.atKeyword("RETURN"):
		return p.parseReturnStmt()
	case p.atKeyword("EXIT"):
		return p.parseExitStmt()
	case p.atKeyword("RAISE"):
		return p.parseRaiseStmt()
	case p.atKeyword("IF"):
		return p.parseIfStmt()
	case p.atKeyword("WHILE"):
		return p.parseWhileLoopStmt("")
	case p.atKeyword("LOOP"):
		return p.parsePlainLoopStmt("")
	case p.at(KindIdent) && p.peekNext().Kind == KindColon:
		label := p.tok.Text
		p.advance() // ident
		p.advance() // ':'
		switch {
		case p.atKeyword("WHILE"):
			return p.parseWhileLoopStmt(label)
		case p.atKeyword("LOOP"):
			return p.parsePlainLoopStmt(label)
		default:
			sp := p.tok.Span
			p.errorf(diag.SynUnexpectedToken, sp, "expected WHILE or LOOP after loop label")
			return ast.NoStmtID, fmt.Errorf("expected loop after label")
		}
	case p.at(KindIdent):
		return p.parseAssignOrCallStmt()
	default:
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "unexpected token %q starting a statement", tokenText(p.tok))
		return ast.NoStmtID, fmt.Errorf("unexpected statement start")
	}
}

func (p *parser) parseReturnStmt() (ast.StmtID, error) {
	start := p.tok.Span
	p.advance()
	value := ast.NoExprID
	if !p.at(KindSemicolon) {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return ast.NoStmtID, err
		}
	}
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewReturn(start.Cover(endSpan), value), nil
}

func (p *parser) parseExitStmt() (ast.StmtID, error) {
	start := p.tok.Span
	p.advance()
	label := ""
	if p.at(KindIdent) {
		label = p.tok.Text
		p.advance()
	}
	when := ast.NoExprID
	if p.atKeyword("WHEN") {
		p.advance()
		var err error
		when, err = p.parseExpr()
		if err != nil {
			return ast.NoStmtID, err
		}
	}
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewExit(start.Cover(endSpan), ast.ExitStmt{LoopLabel: label, When: when}), nil
}

func (p *parser) parseRaiseStmt() (ast.StmtID, error) {
	start := p.tok.Span
	p.advance()
	name := ""
	if p.at(KindIdent) {
		name = p.parseDottedIdentText()
	}
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewRaise(start.Cover(endSpan), name), nil
}

func (p *parser) parseIfStmt() (ast.StmtID, error) {
	start := p.tok.Span
	p.advance() // IF
	cond, err := p.parseExpr()
	if err != nil {
		return ast.NoStmtID, err
	}
	p.expectKeyword("THEN")
	thenStmts := p.parseStatementSequence(stopAtElsifElseEnd)

	var elsifs []ast.ElsifArm
	for p.atKeyword("ELSIF") {
		p.advance()
		c, err := p.parseExpr()
		if err != nil {
			return ast.NoStmtID, err
		}
		p.expectKeyword("THEN")
		body := p.parseStatementSequence(stopAtElsifElseEnd)
		elsifs = append(elsifs, ast.ElsifArm{Cond: c, Body: body})
	}

	var elseStmts []ast.StmtID
	if p.atKeyword("ELSE") {
		p.advance()
		elseStmts = p.parseStatementSequence(stopAtEnd)
	}
	p.expectKeyword("END")
	p.expectKeyword("IF")
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewIf(start.Cover(endSpan), ast.IfStmt{
		Cond: cond, Then: thenStmts, ElsifArm: elsifs, Else: elseStmts,
	}), nil
}

func (p *parser) parseWhileLoopStmt(label string) (ast.StmtID, error) {
	start := p.tok.Span
	p.advance() // WHILE
	cond, err := p.parseExpr()
	if err != nil {
		return ast.NoStmtID, err
	}
	p.expectKeyword("LOOP")
	body := p.parseStatementSequence(stopAtEnd)
	p.expectKeyword("END")
	p.expectKeyword("LOOP")
	if p.at(KindIdent) {
		p.parseDottedIdentText()
	}
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewLoop(start.Cover(endSpan), label, ast.StmtLoopWhile, ast.LoopStmt{
		While: cond, Body: body,
	}), nil
}

func (p *parser) parsePlainLoopStmt(label string) (ast.StmtID, error) {
	start := p.tok.Span
	p.advance() // LOOP
	body := p.parseStatementSequence(stopAtEnd)
	p.expectKeyword("END")
	p.expectKeyword("LOOP")
	if p.at(KindIdent) {
		p.parseDottedIdentText()
	}
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewLoop(start.Cover(endSpan), label, ast.StmtLoopPlain, ast.LoopStmt{
		While: ast.NoExprID, Body: body,
	}), nil
}

// parseAssignOrCallStmt parses a name and then decides, from what follows,
// whether it started an assignment or a procedure call statement. A bare
// call with no actuals ("Foo;") is re-wrapped as a zero-argument ExprCall
// since CallStmt always holds one.
func (p *parser) parseAssignOrCallStmt() (ast.StmtID, error) {
	start := p.tok.Span
	target, isCall, err := p.parsePrimaryName()
	if err != nil {
		return ast.NoStmtID, err
	}
	if p.at(KindColonEq) {
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return ast.NoStmtID, err
		}
		endSpan := p.expectSemicolon()
		return p.tree.Stmts.NewAssign(start.Cover(endSpan), target, value), nil
	}

	callExpr := target
	if !isCall {
		node := p.tree.Exprs.Get(target)
		if node == nil || node.Kind != ast.ExprName {
			sp := p.tok.Span
			p.errorf(diag.SynUnexpectedToken, sp, "expected ':=' or a procedure call")
			return ast.NoStmtID, fmt.Errorf("expected statement")
		}
		namePayload := p.tree.Exprs.Names.Get(uint32(node.Payload))
		callExpr = p.tree.Exprs.NewCall(node.Span, namePayload.Name, nil)
	}
	endSpan := p.expectSemicolon()
	return p.tree.Stmts.NewCall(start.Cover(endSpan), callExpr), nil
}

// ---- expressions ------------------------------------------------------
//
// Precedence, loosest to tightest: logical (and/or/xor, and then/or else) ->
// relational (=, /=, <, <=, >, >=) -> simple (unary +/-, binary +/-/&) ->
// term (*, /, mod, rem) -> factor (**, abs, not) -> primary. Membership
// tests (in / not in) are not part of this subset.

func (p *parser) parseExpr() (ast.ExprID, error) { return p.parseLogical() }

func (p *parser) parseLogical() (ast.ExprID, error) {
	left, err := p.parseRelation()
	if err != nil {
		return ast.NoExprID, err
	}
	for {
		switch {
		case p.atKeyword("AND"):
			p.advance()
			orElse := false
			shortCircuit := false
			if p.atKeyword("THEN") {
				p.advance()
				shortCircuit = true
			}
			right, err := p.parseRelation()
			if err != nil {
				return ast.NoExprID, err
			}
			span := p.spanOf(left).Cover(p.spanOf(right))
			if shortCircuit {
				left = p.tree.Exprs.NewShortCircuit(span, orElse, left, right)
			} else {
				left = p.tree.Exprs.NewBinary(span, ast.OpAnd, left, right)
			}
		case p.atKeyword("OR"):
			p.advance()
			shortCircuit := false
			if p.atKeyword("ELSE") {
				p.advance()
				shortCircuit = true
			}
			right, err := p.parseRelation()
			if err != nil {
				return ast.NoExprID, err
			}
			span := p.spanOf(left).Cover(p.spanOf(right))
			if shortCircuit {
				left = p.tree.Exprs.NewShortCircuit(span, true, left, right)
			} else {
				left = p.tree.Exprs.NewBinary(span, ast.OpOr, left, right)
			}
		case p.atKeyword("XOR"):
			p.advance()
			right, err := p.parseRelation()
			if err != nil {
				return ast.NoExprID, err
			}
			left = p.tree.Exprs.NewBinary(p.spanOf(left).Cover(p.spanOf(right)), ast.OpXor, left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) relOp() (ast.BinaryOp, bool) {
	switch p.tok.Kind {
	case KindEq:
		return ast.OpEq, true
	case KindNe:
		return ast.OpNe, true
	case KindLt:
		return ast.OpLt, true
	case KindLe:
		return ast.OpLe, true
	case KindGt:
		return ast.OpGt, true
	case KindGe:
		return ast.OpGe, true
	}
	return 0, false
}

func (p *parser) parseRelation() (ast.ExprID, error) {
	left, err := p.parseSimple()
	if err != nil {
		return ast.NoExprID, err
	}
	op, ok := p.relOp()
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseSimple()
	if err != nil {
		return ast.NoExprID, err
	}
	return p.tree.Exprs.NewBinary(p.spanOf(left).Cover(p.spanOf(right)), op, left, right), nil
}

func (p *parser) parseSimple() (ast.ExprID, error) {
	start := p.tok.Span
	var left ast.ExprID
	var err error
	switch {
	case p.at(KindPlus):
		p.advance()
		left, err = p.parseTerm()
		if err != nil {
			return ast.NoExprID, err
		}
		left = p.tree.Exprs.NewUnary(start.Cover(p.spanOf(left)), ast.OpIdentity, left)
	case p.at(KindMinus):
		p.advance()
		left, err = p.parseTerm()
		if err != nil {
			return ast.NoExprID, err
		}
		left = p.tree.Exprs.NewUnary(start.Cover(p.spanOf(left)), ast.OpNeg, left)
	default:
		left, err = p.parseTerm()
		if err != nil {
			return ast.NoExprID, err
		}
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.at(KindPlus):
			op = ast.OpAdd
		case p.at(KindMinus):
			op = ast.OpSub
		case p.at(KindAmp):
			op = ast.OpConcat
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return ast.NoExprID, err
		}
		left = p.tree.Exprs.NewBinary(p.spanOf(left).Cover(p.spanOf(right)), op, left, right)
	}
}

func (p *parser) parseTerm() (ast.ExprID, error) {
	left, err := p.parseFactor()
	if err != nil {
		return ast.NoExprID, err
	}
	for {
		var op ast.BinaryOp
		switch {
		case p.at(KindStar):
			op = ast.OpMul
		case p.at(KindSlash):
			op = ast.OpDiv
		case p.atKeyword("MOD"):
			op = ast.OpMod
		case p.atKeyword("REM"):
			op = ast.OpRem
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return ast.NoExprID, err
		}
		left = p.tree.Exprs.NewBinary(p.spanOf(left).Cover(p.spanOf(right)), op, left, right)
	}
}

func (p *parser) parseFactor() (ast.ExprID, error) {
	start := p.tok.Span
	switch {
	case p.atKeyword("ABS"):
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return ast.NoExprID, err
		}
		return p.tree.Exprs.NewUnary(start.Cover(p.spanOf(operand)), ast.OpAbs, operand), nil
	case p.atKeyword("NOT"):
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return ast.NoExprID, err
		}
		return p.tree.Exprs.NewUnary(start.Cover(p.spanOf(operand)), ast.OpNot, operand), nil
	}
	left, err := p.parsePrimary()
	if err != nil {
		return ast.NoExprID, err
	}
	if p.at(KindStarStar) {
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return ast.NoExprID, err
		}
		return p.tree.Exprs.NewBinary(p.spanOf(left).Cover(p.spanOf(right)), ast.OpPow, left, right), nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (ast.ExprID, error) {
	start := p.tok.Span
	switch {
	case p.tok.Kind == KindIntLit:
		text := p.tok.Text
		p.advance()
		return p.builder.IntLit(start, text), nil
	case p.tok.Kind == KindRealLit:
		text := p.tok.Text
		p.advance()
		return p.builder.RealLit(start, text), nil
	case p.tok.Kind == KindCharLit:
		r := []rune(p.tok.Text)[0]
		p.advance()
		return p.builder.CharLit(start, r), nil
	case p.tok.Kind == KindStringLit:
		val := p.tok.Text
		p.advance()
		return p.builder.StringLit(start, val), nil
	case p.atKeyword("NULL"):
		p.advance()
		return p.tree.Exprs.NewNull(start), nil
	case p.tok.Kind == KindLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		p.expect(KindRParen, "')'")
		return inner, nil
	case p.tok.Kind == KindIdent:
		expr, _, err := p.parsePrimaryName()
		return expr, err
	}
	p.errorf(diag.SynUnexpectedToken, start, "unexpected token %q in expression", tokenText(p.tok))
	return ast.NoExprID, fmt.Errorf("unexpected token in expression")
}

// parsePrimaryName parses a (possibly selected) name, optionally followed by
// a parenthesized argument list (a call or an index) or an attribute chain
// (Prefix'Attribute). The bool result reports whether it ended in a call, so
// statement parsing can tell a call from a bare name used as an assignment
// target.
func (p *parser) parsePrimaryName() (ast.ExprID, bool, error) {
	start := p.tok.Span
	if !p.at(KindIdent) {
		sp := p.tok.Span
		p.errorf(diag.SynUnexpectedToken, sp, "expected a name, found %q", tokenText(p.tok))
		return ast.NoExprID, false, fmt.Errorf("expected name")
	}
	nameID := p.tree.Names.NewIdent(p.tok.Span, p.tok.Text)
	p.advance()
	for p.at(KindDot) {
		p.advance()
		if !p.at(KindIdent) {
			sp := p.tok.Span
			p.errorf(diag.SynUnexpectedToken, sp, "expected identifier after '.'")
			return ast.NoExprID, false, fmt.Errorf("expected identifier after '.'")
		}
		nameID = p.tree.Names.NewSelected(p.tok.Span, nameID, p.tok.Text)
		p.advance()
	}
	nameSpan := start.Cover(p.prev.Span)

	if p.at(KindLParen) {
		args, err := p.parseArgumentList()
		if err != nil {
			return ast.NoExprID, false, err
		}
		return p.tree.Exprs.NewCall(nameSpan.Cover(p.prev.Span), nameID, args), true, nil
	}

	expr := p.tree.Exprs.NewName(nameSpan, nameID)
	if p.at(KindTick) {
		return p.parseAttributeChain(nameSpan, expr)
	}
	return expr, false, nil
}

func (p *parser) parseArgumentList() ([]ast.Argument, error) {
	p.advance() // (
	var args []ast.Argument
	for !p.at(KindRParen) && !p.atEOF() {
		start := p.tok.Span
		if p.at(KindIdent) && p.peekNext().Kind == KindArrow {
			nameID := p.tree.Names.NewIdent(p.tok.Span, p.tok.Text)
			p.advance() // ident
			p.advance() // =>
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.Argument{Name: nameID, Value: val, Span: start.Cover(p.prev.Span)})
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.Argument{Name: ast.NoNameID, Value: val, Span: start.Cover(p.prev.Span)})
		}
		if p.at(KindComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(KindRParen, "')'")
	return args, nil
}

func (p *parser) parseAttributeChain(start source.Span, prefix ast.ExprID) (ast.ExprID, bool, error) {
	for p.at(KindTick) {
		p.advance()
		if p.tok.Kind != KindIdent && p.tok.Kind != KindKeyword {
			sp := p.tok.Span
			p.errorf(diag.SynUnexpectedToken, sp, "expected attribute designator")
			return ast.NoExprID, false, fmt.Errorf("expected attribute designator")
		}
		designator := p.tok.Text
		p.advance()
		var args []ast.ExprID
		if p.at(KindLParen) {
			p.advance()
			for !p.at(KindRParen) && !p.atEOF() {
				a, err := p.parseExpr()
				if err != nil {
					return ast.NoExprID, false, err
				}
				args = append(args, a)
				if p.at(KindComma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(KindRParen, "')'")
		}
		prefix = p.tree.Exprs.NewAttribute(start.Cover(p.prev.Span), prefix, designator, args)
	}
	return prefix, false, nil
}
