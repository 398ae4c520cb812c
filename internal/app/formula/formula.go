// Package formula evaluates user-entered arithmetic expressions.
//
// Only numeric literals, bound identifiers, the four basic operators and parentheses are
// accepted. Expressions are parsed into a small tree once and evaluated without any
// form of dynamic execution.
package formula

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

const (
	// MaxLength bounds the accepted source length in bytes.
	MaxLength = 1024
	// MaxDepth bounds parenthesis and unary nesting.
	MaxDepth = 64
)

// Expr is a compiled expression.
type Expr struct {
	src  string
	root node
}

// Compile parses src into a reusable expression.
func Compile(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, invalid(src, errors.New("empty expression"))
	}
	if len(src) > MaxLength {
		return nil, invalid(src, fmt.Errorf("expression longer than %d bytes", MaxLength))
	}

	toks, err := tokenize(src)
	if err != nil {
		return nil, invalid(src, err)
	}

	p := &parser{toks: toks}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, invalid(src, err)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, invalid(src, fmt.Errorf("unexpected %s at offset %d", t, t.pos))
	}

	return &Expr{src: src, root: root}, nil
}

// Evaluate compiles and evaluates src in one step.
func Evaluate(src string, vars map[string]float64) (float64, error) {
	e, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(vars)
}

// String returns the source text.
func (e *Expr) String() string { return e.src }

// Eval evaluates the expression with the given identifier bindings.
func (e *Expr) Eval(vars map[string]float64) (float64, error) {
	v, err := e.root.eval(vars)
	if err != nil {
		return 0, invalid(e.src, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(e.src, errors.New("result is not a finite number"))
	}
	return v, nil
}

// Idents returns the distinct identifiers referenced by the expression, sorted.
func (e *Expr) Idents() []string {
	seen := map[string]bool{}
	e.root.idents(seen)
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func invalid(src string, err error) error {
	return &domain.OpError{
		Op:   "formula.eval",
		Kind: domain.KindInvalidFormula,
		Err:  fmt.Errorf("%q: %w: %w", src, domain.ErrInvalidFormula, err),
	}
}
