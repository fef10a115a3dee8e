package expr

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokDot
	tokColon
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
	tokEq
	tokNe
	tokTrue
	tokFalse
	tokIn
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type lexer struct {
	src []rune
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: []rune(src)} }

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n') {
		l.pos++
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '-'
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}
	c := l.peek()
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case c == '.':
		l.pos++
		return token{kind: tokDot}, nil
	case c == ':':
		l.pos++
		return token{kind: tokColon}, nil
	case c == '!':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{kind: tokNe}, nil
		}
		l.pos++
		return token{kind: tokNot}, nil
	case c == '=':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{kind: tokEq}, nil
		}
		return token{}, errors.Errorf("expr: unexpected '=' at position %d", l.pos)
	case c == '&':
		if l.peekAt(1) == '&' {
			l.pos += 2
			return token{kind: tokAnd}, nil
		}
		return token{}, errors.Errorf("expr: unexpected '&' at position %d", l.pos)
	case c == '|':
		if l.peekAt(1) == '|' {
			l.pos += 2
			return token{kind: tokOr}, nil
		}
		return token{}, errors.Errorf("expr: unexpected '|' at position %d", l.pos)
	case c == '"':
		return l.lexString()
	case c >= '0' && c <= '9' || (c == '-' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9'):
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	default:
		return token{}, errors.Errorf("expr: unexpected character %q at position %d", c, l.pos)
	}
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, errors.Errorf("expr: unterminated string starting at position %d", start)
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			return token{kind: tokString, text: sb.String()}, nil
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			sb.WriteRune(l.src[l.pos])
			l.pos++
			continue
		}
		sb.WriteRune(c)
		l.pos++
	}
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.peek() == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9' || l.src[l.pos] == '.') {
		l.pos++
	}
	raw := string(l.src[start:l.pos])
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return token{}, errors.Wrapf(err, "expr: invalid number %q", raw)
	}
	return token{kind: tokNumber, num: n}, nil
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	switch text {
	case "true":
		return token{kind: tokTrue}, nil
	case "false":
		return token{kind: tokFalse}, nil
	case "in":
		return token{kind: tokIn}, nil
	default:
		return token{kind: tokIdent, text: text}, nil
	}
}
