package expr

import "github.com/pkg/errors"

// Parse parses a filter expression string into an AST. It never
// evaluates anything — see Node.Eval for that.
func Parse(src string) (Node, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, errors.Errorf("expr: unexpected trailing input")
	}
	return n, nil
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.cur.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	switch p.cur.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, errors.Errorf("expr: expected ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		switch p.cur.text {
		case "tags":
			return p.parseTagsExpr()
		case "ref":
			return p.parseRefExpr()
		default:
			return nil, errors.Errorf("expr: expected 'tags' or 'ref', got %q", p.cur.text)
		}
	default:
		return nil, errors.Errorf("expr: unexpected token in expression")
	}
}

// parseTagsExpr parses `tags . IDENT [ (==|!=) literal ]`, cur
// positioned at the "tags" identifier.
func (p *parser) parseTagsExpr() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokDot {
		return nil, errors.Errorf("expr: expected '.' after 'tags'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokIdent {
		return nil, errors.Errorf("expr: expected tag name after 'tags.'")
	}
	tag := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokEq && p.cur.kind != tokNe {
		return &TagCheck{Tag: tag}, nil
	}
	op := OpEq
	if p.cur.kind == tokNe {
		op = OpNe
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	return &Comparison{Tag: tag, Op: op, Value: lit}, nil
}

// parseRefExpr parses `ref : IDENT ("." IDENT)* [ "in" "tags" "." IDENT ]`,
// cur positioned at the "ref" identifier.
func (p *parser) parseRefExpr() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokColon {
		return nil, errors.Errorf("expr: expected ':' after 'ref'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokIdent {
		return nil, errors.Errorf("expr: expected reference name after 'ref:'")
	}
	refName := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	var fieldPath []string
	for p.cur.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokIdent {
			return nil, errors.Errorf("expr: expected identifier after '.'")
		}
		fieldPath = append(fieldPath, p.cur.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	ref := RefAccess{RefName: refName, FieldPath: fieldPath}

	if p.cur.kind == tokIn {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokIdent || p.cur.text != "tags" {
			return nil, errors.Errorf("expr: expected 'tags' after 'in'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokDot {
			return nil, errors.Errorf("expr: expected '.' after 'tags' in 'in' clause")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokIdent {
			return nil, errors.Errorf("expr: expected tag name after 'tags.' in 'in' clause")
		}
		listTag := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &InList{Ref: ref, ListTag: listTag}, nil
	}

	return &ref, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	switch p.cur.kind {
	case tokString:
		lit := Literal{Kind: LitString, String: p.cur.text}
		return lit, p.advance()
	case tokNumber:
		lit := Literal{Kind: LitNumber, Number: p.cur.num}
		return lit, p.advance()
	case tokTrue:
		lit := Literal{Kind: LitBool, Bool: true}
		return lit, p.advance()
	case tokFalse:
		lit := Literal{Kind: LitBool, Bool: false}
		return lit, p.advance()
	default:
		return Literal{}, errors.Errorf("expr: expected a literal value")
	}
}
