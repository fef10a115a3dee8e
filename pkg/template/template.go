// Package template parses a prompt section's placeholder syntax:
//
//	{{ and }}           literal { and }
//	{ NAME }            reference, defaults min=1 max=1
//	{ NAME ? PARAMS }    reference with parameters
//	{ NAME #{ FILTER } } reference with a filter expression
//
// Parsing produces an ordered token stream of literal text and
// reference occurrences; it does not look anything up in a package —
// that is pkg/selector's job once pkg/render has resolved Target.
package template

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TokenKind distinguishes a literal-text token from a reference
// occurrence.
type TokenKind int

const (
	KindLiteral TokenKind = iota
	KindReference
)

// Token is one element of a parsed template.
type Token struct {
	Kind TokenKind

	// Literal text, set when Kind == KindLiteral.
	Text string

	// Reference occurrence fields, set when Kind == KindReference.
	Name      string
	Filter    string
	Min       int
	Max       int
	Separator string
	Unique    bool
}

// ParseError reports a malformed template, with the byte offset where
// the problem was found.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return errors.Errorf("template parse error at offset %d: %s", e.Offset, e.Message).Error()
}

// Parse tokenizes a template string.
func Parse(src string) ([]Token, error) {
	p := &parser{src: src}
	return p.run()
}

type parser struct {
	src string
	pos int
	out []Token
	buf strings.Builder
}

func (p *parser) run() ([]Token, error) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '{':
			if p.peekIs(p.pos+1, '{') {
				p.buf.WriteByte('{')
				p.pos += 2
				continue
			}
			p.flushLiteral()
			if err := p.parsePlaceholder(); err != nil {
				return nil, err
			}
		case '}':
			if p.peekIs(p.pos+1, '}') {
				p.buf.WriteByte('}')
				p.pos += 2
				continue
			}
			return nil, &ParseError{p.pos, "unmatched '}'"}
		default:
			p.buf.WriteByte(c)
			p.pos++
		}
	}
	p.flushLiteral()
	return p.out, nil
}

func (p *parser) peekIs(i int, c byte) bool {
	return i < len(p.src) && p.src[i] == c
}

func (p *parser) flushLiteral() {
	if p.buf.Len() > 0 {
		p.out = append(p.out, Token{Kind: KindLiteral, Text: p.buf.String()})
		p.buf.Reset()
	}
}

// parsePlaceholder consumes a `{ NAME [?PARAMS] [#{FILTER}] }` starting
// at the opening '{' (p.src[p.pos] == '{').
func (p *parser) parsePlaceholder() error {
	start := p.pos
	p.pos++ // consume '{'

	nameStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '?' && p.src[p.pos] != '#' && p.src[p.pos] != '}' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return &ParseError{start, "unclosed placeholder"}
	}
	name := strings.TrimSpace(p.src[nameStart:p.pos])
	if name == "" {
		return &ParseError{start, "empty reference name"}
	}

	tok := Token{Kind: KindReference, Name: name, Min: 1, Max: 1}

	if p.pos < len(p.src) && p.src[p.pos] == '?' {
		p.pos++
		paramsStart := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '#' && p.src[p.pos] != '}' {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return &ParseError{start, "unclosed placeholder"}
		}
		if err := applyParams(&tok, p.src[paramsStart:p.pos], start); err != nil {
			return err
		}
	}

	if p.pos < len(p.src) && p.src[p.pos] == '#' {
		p.pos++
		if p.pos >= len(p.src) || p.src[p.pos] != '{' {
			return &ParseError{start, "expected '{' after '#' in filter"}
		}
		filterStart := p.pos + 1
		depth := 1
		p.pos++
		for p.pos < len(p.src) && depth > 0 {
			switch p.src[p.pos] {
			case '{':
				depth++
			case '}':
				depth--
			}
			p.pos++
		}
		if depth != 0 {
			return &ParseError{start, "unclosed filter expression"}
		}
		tok.Filter = p.src[filterStart : p.pos-1]
	}

	if p.pos >= len(p.src) || p.src[p.pos] != '}' {
		return &ParseError{start, "unclosed placeholder"}
	}
	p.pos++ // consume closing '}'

	if tok.Min > tok.Max {
		return &ParseError{start, "min > max"}
	}

	p.out = append(p.out, tok)
	return nil
}

// applyParams parses `k=v` pairs joined by '&' or ',' into tok.
func applyParams(tok *Token, raw string, placeholderStart int) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '&' || r == ',' })
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "=") {
			if part == "unique" {
				tok.Unique = true
				continue
			}
			return &ParseError{placeholderStart, "malformed parameter " + strconv.Quote(part)}
		}
		kv := strings.SplitN(part, "=", 2)
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		switch key {
		case "min":
			n, err := strconv.Atoi(val)
			if err != nil {
				return &ParseError{placeholderStart, "malformed min value " + strconv.Quote(val)}
			}
			tok.Min = n
		case "max":
			n, err := strconv.Atoi(val)
			if err != nil {
				return &ParseError{placeholderStart, "malformed max value " + strconv.Quote(val)}
			}
			tok.Max = n
		case "sep":
			tok.Separator = val
		case "unique":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return &ParseError{placeholderStart, "malformed unique value " + strconv.Quote(val)}
			}
			tok.Unique = b
		}
	}
	return nil
}
