// parser.go — Pratt parser for Korio that produces compact S-expressions.
//
// The parser consumes the token stream produced by lexer.go and builds a
// compact, Lisp-style S-expression AST. The grammar is encoded via binding
// powers (Pratt parsing); statements are dispatched on their leading keyword.
//
// Node reference (S = []any, first element is the string tag):
//
//	("block", stmt1, stmt2, ...)
//
// Literals & identifiers:
//
//	("id",   string)
//	("num",  float64)
//	("str",  string)              // decoded literal
//	("bool", bool)
//	("null")
//
// Operators / expressions:
//
//	("unop",  op, rhs)            // "-" or "!"
//	("binop", op, lhs, rhs)       // "+","-","*","/","%", comparisons, "==","!=","&&","||"
//	("assign", target, value)     // "=" (right-assoc; target is "id" or "idx")
//
// Call / index / collections:
//
//	("call",  callee, arg1, ...)
//	("idx",   target, indexExpr)
//	("array", e1, e2, ...)
//	("map",   ("pair", keyString, valueExpr)*)   // key is a Go string
//
// Functions, declarations, control:
//
//	("fun",    params, bodyBlock)                // anonymous def / lambda
//	("params", ("param", name, typeAnnot)*)      // typeAnnot "" when absent
//	("def",    name, params, bodyBlock)
//	("let",    name, typeAnnot, isFinal, valueExpr)
//	("if",     cond, thenBlock [, elseNode])     // elseNode is a block or an "if"
//	("while",  cond, bodyBlock)
//	("for",    name, iterExpr, bodyBlock)
//	("return", valueExpr)                        // ("null") when written bare
//
// Semicolons are optional statement separators: any number may appear between
// statements and are skipped; they are never required.
package korio

import "fmt"

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

type S = []any

func L(tag string, parts ...any) S { return append([]any{tag}, parts...) }

// Parse tokenizes and parses a complete Korio source string into its AST.
func Parse(src string) (S, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a token stream (EOF-terminated) into a ("block", ...) AST.
func ParseTokens(toks []Token) (S, error) {
	p := &parser{toks: toks}
	return p.program()
}

// ParseError reports malformed input with a human-readable expectation message
// and the offending token's 1-based line and 0-based column.
type ParseError struct {
	Line int
	Col  int
	Msg  string

	// AtEOF marks errors raised at the end of input; the REPL uses it to
	// tell "truncated" from "malformed" and keep reading.
	AtEOF bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a parse error at the end of input,
// meaning more lines could still complete the statement.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.AtEOF
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                             PRIVATE IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	toks []Token
	i    int
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekN(n int) Token {
	idx := p.i + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errAt(p.peek(), msg)
}

func (p *parser) errAt(t Token, msg string) error {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg, AtEOF: t.Type == EOF}
}

// describe renders a token for expectation messages.
func describe(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case STRING:
		return fmt.Sprintf("string %q", t.Literal)
	case NUMBER:
		return fmt.Sprintf("number %v", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Lexeme)
	}
}

func (p *parser) skipSemis() {
	for p.check(SEMI) {
		p.i++
	}
}

// ───────────────────────── precedence / associativity ──────────────────────

func lbp(t TokenType) (int, bool) {
	switch t {
	case STAR, SLASH, PERCENT:
		return 70, true
	case PLUS, MINUS:
		return 60, true
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 50, true
	case EQ, NEQ:
		return 40, true
	case AND:
		return 30, true
	case OR:
		return 20, true
	case ASSIGN:
		return 10, true
	}
	return 0, false
}

func isRightAssoc(tt TokenType) bool { return tt == ASSIGN }

// binopTag normalizes an infix token to its AST operator string. The keyword
// spellings "and"/"or" collapse onto "&&"/"||".
func binopTag(t Token) string {
	switch t.Type {
	case AND:
		return "&&"
	case OR:
		return "||"
	default:
		return t.Lexeme
	}
}

// ───────────────────────────── program / blocks ─────────────────────────────

func (p *parser) program() (S, error) {
	items := L("block")
	p.skipSemis()
	for !p.atEnd() {
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		items = append(items, st)
		p.skipSemis()
	}
	return items, nil
}

// block parses "{" statement* "}".
func (p *parser) block() (S, error) {
	if _, err := p.need(LBRACE, fmt.Sprintf("expected '{', got %s", describe(p.peek()))); err != nil {
		return nil, err
	}
	items := L("block")
	p.skipSemis()
	for !p.check(RBRACE) {
		if p.atEnd() {
			return nil, p.errAt(p.peek(), "expected '}' before end of input")
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		items = append(items, st)
		p.skipSemis()
	}
	p.i++ // consume '}'
	return items, nil
}

// ─────────────────────────────── statements ─────────────────────────────────

func (p *parser) statement() (S, error) {
	switch p.peek().Type {
	case LET:
		p.i++
		return p.varDecl(false)
	case FINAL:
		p.i++
		return p.varDecl(true)
	case DEF:
		// "def name(...)" declares; "def (...)" is an anonymous function
		// expression and falls through to expression parsing.
		if p.peekN(1).Type == ID {
			p.i++
			return p.funDecl()
		}
	case IF:
		p.i++
		return p.ifStmt()
	case WHILE:
		p.i++
		return p.whileStmt()
	case FOR:
		p.i++
		return p.forStmt()
	case RETURN:
		p.i++
		return p.returnStmt()
	case LBRACE:
		// A '{' opens a nested block statement unless one-token lookahead says
		// it is a map literal (empty, or string/identifier key followed by ':').
		if !p.looksLikeMap() {
			return p.block()
		}
	}
	return p.expr(0)
}

// varDecl parses "name [: type] = expr" after 'let'/'final'.
func (p *parser) varDecl(isFinal bool) (S, error) {
	name, err := p.need(ID, fmt.Sprintf("expected a variable name, got %s", describe(p.peek())))
	if err != nil {
		return nil, err
	}
	typ := ""
	if p.match(COLON) {
		tt, err := p.need(ID, fmt.Sprintf("expected a type name after ':', got %s", describe(p.peek())))
		if err != nil {
			return nil, err
		}
		typ = tt.Lexeme
	}
	if _, err := p.need(ASSIGN, fmt.Sprintf("expected '=' in declaration of '%s', got %s", name.Lexeme, describe(p.peek()))); err != nil {
		return nil, err
	}
	val, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	return L("let", name.Lexeme, typ, isFinal, val), nil
}

// funDecl parses "name(params) { body }" after 'def'.
func (p *parser) funDecl() (S, error) {
	name, err := p.need(ID, fmt.Sprintf("expected a function name, got %s", describe(p.peek())))
	if err != nil {
		return nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return L("def", name.Lexeme, params, body), nil
}

// params parses "(" [name [: type] ("," name [: type])*] ")".
func (p *parser) params() (S, error) {
	if _, err := p.need(LPAREN, fmt.Sprintf("expected '(' to open a parameter list, got %s", describe(p.peek()))); err != nil {
		return nil, err
	}
	out := L("params")
	if p.match(RPAREN) {
		return out, nil
	}
	for {
		name, err := p.need(ID, fmt.Sprintf("expected a parameter name, got %s", describe(p.peek())))
		if err != nil {
			return nil, err
		}
		typ := ""
		if p.match(COLON) {
			tt, err := p.need(ID, fmt.Sprintf("expected a type name after ':', got %s", describe(p.peek())))
			if err != nil {
				return nil, err
			}
			typ = tt.Lexeme
		}
		out = append(out, L("param", name.Lexeme, typ))
		if p.match(COMMA) {
			continue
		}
		break
	}
	if _, err := p.need(RPAREN, fmt.Sprintf("expected ')' to close the parameter list, got %s", describe(p.peek()))); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) ifStmt() (S, error) {
	cond, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	if !p.match(ELSE) {
		return L("if", cond, then), nil
	}
	if p.match(IF) {
		alt, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		return L("if", cond, then, alt), nil
	}
	alt, err := p.block()
	if err != nil {
		return nil, err
	}
	return L("if", cond, then, alt), nil
}

func (p *parser) whileStmt() (S, error) {
	cond, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return L("while", cond, body), nil
}

func (p *parser) forStmt() (S, error) {
	name, err := p.need(ID, fmt.Sprintf("expected a loop variable name, got %s", describe(p.peek())))
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN, fmt.Sprintf("expected 'in' after loop variable, got %s", describe(p.peek()))); err != nil {
		return nil, err
	}
	iter, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return L("for", name.Lexeme, iter, body), nil
}

func (p *parser) returnStmt() (S, error) {
	if p.check(RBRACE) || p.check(SEMI) || p.atEnd() {
		return L("return", L("null")), nil
	}
	val, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	return L("return", val), nil
}

// ─────────────────────────────── expressions ────────────────────────────────

func (p *parser) expr(minBP int) (S, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		bp, ok := lbp(op.Type)
		if !ok || bp < minBP {
			return left, nil
		}
		p.i++

		nextBP := bp + 1
		if isRightAssoc(op.Type) {
			nextBP = bp
		}
		right, err := p.expr(nextBP)
		if err != nil {
			return nil, err
		}

		if op.Type == ASSIGN {
			switch left[0].(string) {
			case "id", "idx":
				left = L("assign", left, right)
			default:
				return nil, p.errAt(op, "invalid assignment target: expected a variable or an index expression")
			}
			continue
		}
		left = L("binop", binopTag(op), left, right)
	}
}

func (p *parser) unary() (S, error) {
	switch p.peek().Type {
	case BANG:
		p.i++
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return L("unop", "!", rhs), nil
	case MINUS:
		p.i++
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return L("unop", "-", rhs), nil
	}
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	return p.postfix(e)
}

// postfix parses chainable call and index suffixes, e.g. f(x)[0](y).
func (p *parser) postfix(e S) (S, error) {
	for {
		switch p.peek().Type {
		case LPAREN:
			p.i++
			call := L("call", e)
			if !p.match(RPAREN) {
				for {
					arg, err := p.expr(0)
					if err != nil {
						return nil, err
					}
					call = append(call, arg)
					if p.match(COMMA) {
						continue
					}
					break
				}
				if _, err := p.need(RPAREN, fmt.Sprintf("expected ')' to close the argument list, got %s", describe(p.peek()))); err != nil {
					return nil, err
				}
			}
			e = call
		case LBRACKET:
			p.i++
			idx, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RBRACKET, fmt.Sprintf("expected ']' to close the index, got %s", describe(p.peek()))); err != nil {
				return nil, err
			}
			e = L("idx", e, idx)
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (S, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.i++
		return L("num", t.Literal.(float64)), nil
	case STRING:
		p.i++
		return L("str", t.Literal.(string)), nil
	case BOOLEAN:
		p.i++
		return L("bool", t.Literal.(bool)), nil
	case NULL:
		p.i++
		return L("null"), nil
	case ID:
		p.i++
		return L("id", t.Lexeme), nil
	case LPAREN:
		p.i++
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, fmt.Sprintf("expected ')' to close the group, got %s", describe(p.peek()))); err != nil {
			return nil, err
		}
		return e, nil
	case LBRACKET:
		return p.listLiteral()
	case LBRACE:
		if !p.looksLikeMap() {
			return nil, p.errAt(t, "expected a map literal: '{' in expression position must be empty or start with a key and ':'")
		}
		return p.mapLiteral()
	case DEF:
		p.i++
		params, err := p.params()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return L("fun", params, body), nil
	case LAMBDA:
		return p.lambda()
	}
	return nil, p.errAt(t, fmt.Sprintf("expected an expression, got %s", describe(t)))
}

// lambda parses "lambda (params) -> expr" or "lambda (params) { body }".
func (p *parser) lambda() (S, error) {
	p.i++ // consume 'lambda'
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	if p.match(ARROW) {
		body, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		return L("fun", params, L("block", body)), nil
	}
	if p.check(LBRACE) {
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return L("fun", params, body), nil
	}
	return nil, p.errAt(p.peek(), fmt.Sprintf("expected '->' or '{' after lambda parameters, got %s", describe(p.peek())))
}

func (p *parser) listLiteral() (S, error) {
	p.i++ // consume '['
	out := L("array")
	if p.match(RBRACKET) {
		return out, nil
	}
	for {
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.match(COMMA) {
			continue
		}
		break
	}
	if _, err := p.need(RBRACKET, fmt.Sprintf("expected ']' to close the list, got %s", describe(p.peek()))); err != nil {
		return nil, err
	}
	return out, nil
}

// looksLikeMap implements the one-token lookahead for '{' in expression
// position: a map literal is immediately empty, or opens with a string or
// bare-identifier key followed by ':'.
func (p *parser) looksLikeMap() bool {
	if p.peekN(1).Type == RBRACE {
		return true
	}
	k := p.peekN(1).Type
	return (k == STRING || k == ID) && p.peekN(2).Type == COLON
}

func (p *parser) mapLiteral() (S, error) {
	p.i++ // consume '{'
	out := L("map")
	if p.match(RBRACE) {
		return out, nil
	}
	for {
		kt := p.peek()
		var key string
		switch kt.Type {
		case STRING:
			key = kt.Literal.(string)
		case ID:
			// a bare identifier key is treated as a string
			key = kt.Lexeme
		default:
			return nil, p.errAt(kt, fmt.Sprintf("expected a map key (string or identifier), got %s", describe(kt)))
		}
		p.i++
		if _, err := p.need(COLON, fmt.Sprintf("expected ':' after map key %q, got %s", key, describe(p.peek()))); err != nil {
			return nil, err
		}
		val, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		out = append(out, L("pair", key, val))
		if p.match(COMMA) {
			continue
		}
		break
	}
	if _, err := p.need(RBRACE, fmt.Sprintf("expected '}' to close the map, got %s", describe(p.peek()))); err != nil {
		return nil, err
	}
	return out, nil
}
