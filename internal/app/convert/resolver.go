// Package convert resolves numeric values between measurement units.
package convert

import (
	"fmt"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/formula"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

// FormulaVars are the names a relation formula may use for the input value.
var FormulaVars = []string{"value", "x"}

// Resolver converts values using explicit relations first and base-unit factors second.
// It holds no catalog state; callers pass a snapshot on every call.
type Resolver struct {
	onFormulaError func(rel domain.ConversionRelation, err error)
}

// Option configures Resolver.
type Option func(*Resolver)

// WithFormulaErrorHook is called when a relation formula fails and the factor is used instead.
func WithFormulaErrorHook(fn func(rel domain.ConversionRelation, err error)) Option {
	return func(r *Resolver) { r.onFormulaError = fn }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Convert converts value from one unit to another.
func (r *Resolver) Convert(value float64, fromID, toID string, units []domain.Unit, relations []domain.ConversionRelation) (float64, error) {
	res, err := r.Resolve(value, fromID, toID, units, relations)
	if err != nil {
		return 0, err
	}
	return res.Result, nil
}

// Resolve is Convert reporting which rule produced the result.
func (r *Resolver) Resolve(value float64, fromID, toID string, units []domain.Unit, relations []domain.ConversionRelation) (domain.ConversionResult, error) {
	out := domain.ConversionResult{Value: value, FromUnit: fromID, ToUnit: toID}

	if fromID == toID {
		out.Result, out.Via = value, domain.ViaIdentity
		return out, nil
	}

	if rel, ok := domain.FindRelation(relations, fromID, toID); ok {
		v, via, err := r.applyRelation(value, rel)
		if err != nil {
			return domain.ConversionResult{}, err
		}
		out.Result, out.Via = v, via
		return out, nil
	}

	v, err := structural(value, fromID, toID, units)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	out.Result, out.Via = v, domain.ViaBase
	return out, nil
}

func (r *Resolver) applyRelation(value float64, rel domain.ConversionRelation) (float64, string, error) {
	var formulaErr error
	if rel.Formula != "" {
		vars := make(map[string]float64, len(FormulaVars))
		for _, name := range FormulaVars {
			vars[name] = value
		}
		v, err := formula.Evaluate(rel.Formula, vars)
		if err == nil {
			return v, domain.ViaFormula, nil
		}
		formulaErr = err
		if r.onFormulaError != nil {
			r.onFormulaError(rel, err)
		}
	}

	if rel.Factor <= 0 {
		if formulaErr != nil {
			return 0, "", formulaErr
		}
		return 0, "", &domain.OpError{
			Op:   "convert.relation",
			Kind: domain.KindInvalidFormula,
			Err:  fmt.Errorf("relation %s -> %s has neither a usable formula nor a positive factor: %w", rel.FromUnit, rel.ToUnit, domain.ErrInvalidFormula),
		}
	}
	return value * rel.Factor, domain.ViaFactor, nil
}

func structural(value float64, fromID, toID string, units []domain.Unit) (float64, error) {
	from, ok := domain.FindUnit(units, fromID)
	if !ok {
		return 0, unitNotFound(fromID)
	}
	to, ok := domain.FindUnit(units, toID)
	if !ok {
		return 0, unitNotFound(toID)
	}

	if from.Category != to.Category {
		return 0, &domain.OpError{
			Op:   "convert.structural",
			Kind: domain.KindDifferentCategories,
			Err: fmt.Errorf("%q is %s but %q is %s: %w",
				from.ID, from.Category, to.ID, to.Category, domain.ErrDifferentCategories),
		}
	}

	fromFactor, fromOK := from.Factor()
	toFactor, toOK := to.Factor()

	switch {
	case from.IsBaseUnit && !to.IsBaseUnit && to.BaseUnitID == from.ID && toOK:
		return value / toFactor, nil
	case !from.IsBaseUnit && to.IsBaseUnit && from.BaseUnitID == to.ID && fromOK:
		return value * fromFactor, nil
	case !from.IsBaseUnit && !to.IsBaseUnit && from.BaseUnitID != "" && from.BaseUnitID == to.BaseUnitID && fromOK && toOK:
		return value * fromFactor / toFactor, nil
	}

	return 0, &domain.OpError{
		Op:   "convert.structural",
		Kind: domain.KindNoPathFound,
		Err:  fmt.Errorf("from %q to %q: %w", from.ID, to.ID, domain.ErrNoPathFound),
	}
}

func unitNotFound(id string) error {
	return &domain.OpError{
		Op:   "convert.lookup",
		Kind: domain.KindUnitNotFound,
		Err:  fmt.Errorf("unit %q: %w", id, domain.ErrUnitNotFound),
	}
}
