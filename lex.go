package safecalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal number literal.
	tokenNum
	// tokenIdent is a name, which may or may not name a function.
	tokenIdent
	// tokenStr is a quoted string literal. The text excludes the quotes.
	tokenStr
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a comma separating call arguments.
	tokenSep
	// tokenDot is a period that does not begin a number.
	tokenDot
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenStr:
		return "Str"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	case tokenDot:
		return "Dot"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which begin operator tokens. Some operators
// are two runes long: ** // <= >= == !=.
const Operators = "+-*/%<>=!"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("safecalc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("safecalc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered
// before any non-whitespace characters, the result is an EOF token with a nil
// error. Subsequent times, if the EOF token is not pushed, the result is an
// empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			if err := l.scanNum(false); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '.':
			// A period is a number only if a digit follows it.
			d, err := l.readRune()
			if err != nil && !errors.Is(err, io.EOF) {
				return tok, err
			}
			if err == nil {
				l.unreadRune()
			}
			if err != nil || d < '0' || d > '9' {
				tok.text = "."
				tok.kind = tokenDot
				return tok, nil
			}
			l.buf.WriteByte('.')
			if err := l.scanNum(true); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == '"', r == '\'':
			if err := l.scanStr(r); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenStr
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case strings.ContainsRune(Operators, r):
			if err := l.scanOp(r); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenOp
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans a decimal literal. dot indicates that the caller has already
// written a leading decimal point to the buffer.
func (l *lexer) scanNum(dot bool) error {
	var dig, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if (r == '+' || r == '-') && le {
			// A sign is part of the number only immediately following an
			// exponent marker. Anywhere else it is an operator.
			le = false
			l.buf.WriteRune(r)
			continue
		}
		switch {
		case r == '.':
			l.buf.WriteRune(r)
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
			continue
		case r == 'e', r == 'E':
			l.buf.WriteRune(r)
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
			continue
		case '0' <= r && r <= '9':
			l.buf.WriteRune(r)
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
			continue
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			// 2x is not a product, and 0x10 is not hex.
			l.buf.WriteRune(r)
			return l.error("number")
		}
		l.unreadRune()
		break
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// scanStr scans the remainder of a string literal opened by quote. Strings
// are never evaluable, so escapes only need to be skipped correctly.
func (l *lexer) scanStr(quote rune) error {
	esc := false
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.error("string")
			}
			return err
		}
		switch {
		case esc:
			esc = false
		case r == '\\':
			esc = true
			continue
		case r == quote:
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// scanOp scans an operator whose first rune is r.
func (l *lexer) scanOp(r rune) error {
	l.buf.WriteRune(r)
	s, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if r == '!' {
				return l.error("operator")
			}
			return nil
		}
		return err
	}
	switch {
	case r == '*' && s == '*', r == '/' && s == '/':
		l.buf.WriteRune(s)
	case s == '=' && strings.ContainsRune("<>=!", r):
		l.buf.WriteRune(s)
	default:
		l.unreadRune()
		if r == '!' {
			return l.error("operator")
		}
	}
	return nil
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}
