package formula

import (
	"errors"
	"fmt"
)

type node interface {
	eval(vars map[string]float64) (float64, error)
	idents(seen map[string]bool)
}

type numNode float64

func (n numNode) eval(map[string]float64) (float64, error) { return float64(n), nil }
func (numNode) idents(map[string]bool)                      {}

type identNode string

func (n identNode) eval(vars map[string]float64) (float64, error) {
	v, ok := vars[string(n)]
	if !ok {
		return 0, fmt.Errorf("unknown identifier %q", string(n))
	}
	return v, nil
}

func (n identNode) idents(seen map[string]bool) { seen[string(n)] = true }

type negNode struct{ x node }

func (n negNode) eval(vars map[string]float64) (float64, error) {
	v, err := n.x.eval(vars)
	return -v, err
}

func (n negNode) idents(seen map[string]bool) { n.x.idents(seen) }

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(vars map[string]float64) (float64, error) {
	l, err := n.l.eval(vars)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, errors.New("division by zero")
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}

func (n binNode) idents(seen map[string]bool) {
	n.l.idents(seen)
	n.r.idents(seen)
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr(depth int) (node, error) {
	left, err := p.parseTerm(depth)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm(depth)
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) parseTerm(depth int) (node, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary(depth)
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

// unary := ('+' | '-') unary | primary
func (p *parser) parseUnary(depth int) (node, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("expression nested deeper than %d levels", MaxDepth)
	}
	t := p.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-") {
		p.next()
		x, err := p.parseUnary(depth + 1)
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negNode{x: x}, nil
		}
		return x, nil
	}
	return p.parsePrimary(depth)
}

// primary := number | ident | '(' expr ')'
func (p *parser) parsePrimary(depth int) (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numNode(t.num), nil
	case tokIdent:
		return identNode(t.text), nil
	case tokLParen:
		x, err := p.parseExpr(depth + 1)
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, fmt.Errorf("expected \")\" at offset %d, got %s", c.pos, c)
		}
		return x, nil
	default:
		return nil, fmt.Errorf("unexpected %s at offset %d", t, t.pos)
	}
}
