package korio

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COLON    // ":"
	COMMA    // ","
	SEMI     // ";"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	BANG  // "!"
	AND   // "&&" or "and"
	OR    // "||" or "or"
	ARROW // "->"

	// Literals & identifiers
	ID
	STRING
	NUMBER
	BOOLEAN
	NULL

	// Keywords
	LET
	FINAL
	DEF
	LAMBDA
	IF
	ELSE
	WHILE
	FOR
	IN
	RETURN
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based column within line
}

// keywords map: lookup takes priority over generic identifier classification.
var keywords = map[string]TokenType{
	"null":   NULL,
	"true":   BOOLEAN,
	"false":  BOOLEAN,
	"and":    AND,
	"or":     OR,
	"let":    LET,
	"final":  FINAL,
	"def":    DEF,
	"lambda": LAMBDA,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"return": RETURN,
}

// Lexer scans a Korio source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

// Tokenize scans source into a token stream in one call.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) rewindToStart() {
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// ----- errors -----

// LexError reports an invalid character or malformed literal with its
// 1-based line and 0-based column.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

// errAtStart points at the first character of the current token rather than
// the scan position, for bad-character reports.
func (l *Lexer) errAtStart(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- scanners -----

// scanString parses a double-quoted string literal with escapes.
func (l *Lexer) scanString() (string, error) {
	// consume the opening quote
	l.advance()

	var out []byte
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return string(out), nil
		}
		if ch == '\\' {
			if l.isAtEnd() {
				return "", l.err("unfinished escape sequence")
			}
			esc, _ := l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				return "", l.err(fmt.Sprintf("invalid escape sequence: \\%c", esc))
			}
			continue
		}
		if ch == '\n' {
			return "", l.err("string was not terminated")
		}
		out = append(out, ch)
	}
	return "", l.err("string was not terminated")
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses a run of digits with at most one internal decimal point.
func (l *Lexer) scanNumber() (float64, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	// a decimal point counts only when followed by a digit
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return 0, l.err("invalid number literal")
	}
	return v, nil
}

// skipWhitespaceAndComments eats whitespace, line comments and block comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		case '/':
			b2, ok := l.peekN(1)
			if !ok {
				return nil
			}
			if b2 == '/' {
				for {
					b, ok := l.peek()
					if !ok || b == '\n' {
						break
					}
					l.advance()
				}
				l.start = l.cur
				continue
			}
			if b2 == '*' {
				l.advance() // '/'
				l.advance() // '*'
				closed := false
				for !l.isAtEnd() {
					b, _ := l.advance()
					if b == '*' {
						if b3, ok := l.peek(); ok && b3 == '/' {
							l.advance()
							closed = true
							break
						}
					}
				}
				if !closed {
					return l.err("block comment was not terminated")
				}
				l.start = l.cur
				continue
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()

	// Single-char tokens & punctuation
	switch ch {
	case '(':
		return l.addToken(LPAREN, "("), nil
	case ')':
		return l.addToken(RPAREN, ")"), nil
	case '[':
		return l.addToken(LBRACKET, "["), nil
	case ']':
		return l.addToken(RBRACKET, "]"), nil
	case '{':
		return l.addToken(LBRACE, "{"), nil
	case '}':
		return l.addToken(RBRACE, "}"), nil
	case ':':
		return l.addToken(COLON, ":"), nil
	case ',':
		return l.addToken(COMMA, ","), nil
	case ';':
		return l.addToken(SEMI, ";"), nil
	case '+':
		return l.addToken(PLUS, "+"), nil
	case '*':
		return l.addToken(STAR, "*"), nil
	case '/':
		return l.addToken(SLASH, "/"), nil
	case '%':
		return l.addToken(PERCENT, "%"), nil
	}

	// Greedy two-char operators before single-char fallbacks.
	switch ch {
	case '-':
		if b, ok := l.peek(); ok && b == '>' {
			l.advance()
			return l.addToken(ARROW, "->"), nil
		}
		return l.addToken(MINUS, "-"), nil
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ, "=="), nil
		}
		return l.addToken(ASSIGN, "="), nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ, "!="), nil
		}
		return l.addToken(BANG, "!"), nil
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(LESS_EQ, "<="), nil
		}
		return l.addToken(LESS, "<"), nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ, ">="), nil
		}
		return l.addToken(GREATER, ">"), nil
	case '&':
		if b, ok := l.peek(); ok && b == '&' {
			l.advance()
			return l.addToken(AND, "&&"), nil
		}
		return Token{}, l.errAtStart("unexpected character: '&' (did you mean '&&'?)")
	case '|':
		if b, ok := l.peek(); ok && b == '|' {
			l.advance()
			return l.addToken(OR, "||"), nil
		}
		return Token{}, l.errAtStart("unexpected character: '|' (did you mean '||'?)")
	}

	// Strings
	if ch == '"' {
		l.rewindToStart()
		text, err := l.scanString()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(STRING, text), nil
	}

	// Numbers
	if isDigit(ch) {
		l.rewindToStart()
		v, err := l.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(NUMBER, v), nil
	}

	// Identifiers / Keywords
	if isAlpha(ch) {
		l.rewindToStart()
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			switch tt {
			case NULL:
				return l.addToken(NULL, nil), nil
			case BOOLEAN:
				return l.addToken(BOOLEAN, lex == "true"), nil
			default:
				return l.addToken(tt, lex), nil
			}
		}
		return l.addToken(ID, lex), nil
	}

	return Token{}, l.errAtStart(fmt.Sprintf("unexpected character: %q", ch))
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
