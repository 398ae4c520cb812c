package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultPrecision is the number of decimal places used when a variable does not set one.
const DefaultPrecision = 2

// MaxPrecision bounds the decimal places a variable may request.
const MaxPrecision = 10

// Variable is a randomized quantity referenced by a question template.
type Variable struct {
	Name string
	Min  float64
	Max  float64

	// Step, when set, restricts generated values to Min + k*Step.
	Step *float64

	// Precision is the number of decimal places (optional, defaults to DefaultPrecision).
	Precision *int

	Unit         string
	CurrentValue *float64
}

// EffectivePrecision returns the configured precision or DefaultPrecision.
func (v Variable) EffectivePrecision() int {
	if v.Precision == nil {
		return DefaultPrecision
	}
	return *v.Precision
}

// Validate checks the variable invariants.
func (v Variable) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return errors.New("variable name is required")
	}
	if !(v.Min < v.Max) {
		return fmt.Errorf("variable %q: min (%g) must be lower than max (%g)", v.Name, v.Min, v.Max)
	}
	if v.Step != nil && *v.Step <= 0 {
		return fmt.Errorf("variable %q: step must be > 0", v.Name)
	}
	if v.Precision != nil && (*v.Precision < 0 || *v.Precision > MaxPrecision) {
		return fmt.Errorf("variable %q: precision must be within [0, %d]", v.Name, MaxPrecision)
	}
	p := v.EffectivePrecision()
	if v.Step != nil && !fitsPrecision(*v.Step, p) {
		return fmt.Errorf("variable %q: step %g has more than %d decimal place(s)", v.Name, *v.Step, p)
	}
	if v.CurrentValue != nil {
		if *v.CurrentValue < v.Min || *v.CurrentValue > v.Max {
			return fmt.Errorf("variable %q: current value %g outside [%g, %g]", v.Name, *v.CurrentValue, v.Min, v.Max)
		}
		if !fitsPrecision(*v.CurrentValue, p) {
			return fmt.Errorf("variable %q: current value %g has more than %d decimal place(s)", v.Name, *v.CurrentValue, p)
		}
	}
	return nil
}

// fitsPrecision reports whether x needs at most p decimal places.
func fitsPrecision(x float64, p int) bool {
	scaled := x * math.Pow10(p)
	return math.Abs(scaled-math.Round(scaled)) <= 1e-6*math.Max(1, math.Abs(scaled))
}

// Equation is a LaTeX template that may reference variables through placeholders.
type Equation struct {
	ID        string
	Name      string
	LaTeX     string
	Variables []string
}

// AnswerSpec computes the expected answer from the generated variable values.
type AnswerSpec struct {
	Expression string
	Unit       string
	Precision  *int

	// ConvertTo optionally expresses the answer in another unit of the catalog.
	ConvertTo string
}

// Question is a question template with its variables and equations.
type Question struct {
	ID        string
	Title     string
	Content   string
	Variables []Variable
	Equations []Equation
	Answer    *AnswerSpec
}

// QuestionRef is a lightweight reference to a question file on disk.
type QuestionRef struct {
	ID    string
	Title string
	Path  string
}

// FindEquation returns the equation with the given id.
func FindEquation(equations []Equation, id string) (Equation, bool) {
	for _, e := range equations {
		if e.ID == id {
			return e, true
		}
	}
	return Equation{}, false
}

// VariableNames returns the names of vars in order.
func VariableNames(vars []Variable) []string {
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		out = append(out, v.Name)
	}
	return out
}

// Validate checks structural invariants: unique variable names, valid ranges and
// equations declaring only known variables. Template references are checked by the
// template engine.
func (q Question) Validate() error {
	var errs []error

	names := map[string]bool{}
	for i, v := range q.Variables {
		if err := v.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("variables[%d]: %w", i, err))
		}
		if names[v.Name] {
			errs = append(errs, fmt.Errorf("variables[%d]: duplicate variable %q", i, v.Name))
		}
		names[v.Name] = true
	}

	ids := map[string]bool{}
	for i, e := range q.Equations {
		if strings.TrimSpace(e.ID) == "" {
			errs = append(errs, fmt.Errorf("equations[%d]: id is required", i))
		} else if ids[e.ID] {
			errs = append(errs, fmt.Errorf("equations[%d]: duplicate equation %q", i, e.ID))
		}
		ids[e.ID] = true
		for _, name := range e.Variables {
			if !names[name] {
				errs = append(errs, fmt.Errorf("equations[%d]: variable %q: %w", i, name, ErrUndefinedVariable))
			}
		}
	}

	if q.Answer != nil {
		if strings.TrimSpace(q.Answer.Expression) == "" {
			errs = append(errs, errors.New("answer: expression is required"))
		}
		if p := q.Answer.Precision; p != nil && (*p < 0 || *p > MaxPrecision) {
			errs = append(errs, fmt.Errorf("answer: precision must be within [0, %d]", MaxPrecision))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &OpError{
		Op:   "question.validate",
		Kind: KindInvalidConfig,
		Err:  errors.Join(errs...),
	}
}
