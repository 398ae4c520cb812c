// Package template renders question templates: it draws variable values, substitutes
// placeholders, injects equations and formats units for a target markup.
package template

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

var (
	equationRefRe = regexp.MustCompile(`\[equation:([^\]\s]+)\]`)
	inlineMathRe  = regexp.MustCompile(`\$([^$]+)\$`)
	placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(:[^{}]*)?\}`)
	supRe         = regexp.MustCompile(`\^(-?\d+)`)
	subRe         = regexp.MustCompile(`_(\d+)`)
)

// Engine is stateless between calls; the random source and markup are fixed at construction.
type Engine struct {
	rand   func() float64
	markup Markup
}

// Option configures Engine.
type Option func(*Engine)

// WithRand overrides the random source. fn must return values in [0, 1).
func WithRand(fn func() float64) Option {
	return func(e *Engine) {
		if fn != nil {
			e.rand = fn
		}
	}
}

// WithSeed makes value generation reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		e.rand = r.Float64
	}
}

// WithMarkup selects the rendering surface (HTMLMarkup by default).
func WithMarkup(m Markup) Option {
	return func(e *Engine) { e.markup = m }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rand:   rand.Float64,
		markup: HTMLMarkup,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Markup returns the markup the engine renders with.
func (e *Engine) Markup() Markup { return e.markup }

// GenerateValues draws a CurrentValue for every variable and returns new variables.
// The input slice is never modified.
func (e *Engine) GenerateValues(vars []domain.Variable) []domain.Variable {
	out := make([]domain.Variable, len(vars))
	for i, v := range vars {
		val := e.draw(v)
		v.CurrentValue = &val
		out[i] = v
	}
	return out
}

func (e *Engine) draw(v domain.Variable) float64 {
	p := v.EffectivePrecision()
	if !(v.Min < v.Max) {
		return Round(v.Min, p)
	}

	var val float64
	if v.Step != nil && *v.Step > 0 {
		step := *v.Step
		n := math.Floor((v.Max-v.Min)/step + 1e-9)
		k := math.Floor(e.rand() * (n + 1))
		if k > n {
			k = n
		}
		val = v.Min + k*step
	} else {
		val = v.Min + e.rand()*(v.Max-v.Min)
	}

	val = Round(val, p)
	pow := math.Pow10(p)
	if val > v.Max {
		val = math.Floor(v.Max*pow) / pow
	}
	if val < v.Min {
		val = math.Ceil(v.Min*pow) / pow
	}
	if val < v.Min || val > v.Max {
		val = v.Min
	}
	return val
}

// RenderText substitutes placeholders, injects equations, wraps inline math and converts
// line breaks, in that order. Unresolvable references are left as literal text.
func (e *Engine) RenderText(content string, vars []domain.Variable, equations []domain.Equation) string {
	if content == "" {
		return ""
	}

	out := e.substitute(content, vars)

	out = equationRefRe.ReplaceAllStringFunc(out, func(ref string) string {
		id := equationRefRe.FindStringSubmatch(ref)[1]
		eq, ok := domain.FindEquation(equations, id)
		if !ok {
			return ref
		}
		return e.markup.Equation(eq.ID, e.substitute(eq.LaTeX, vars))
	})

	out = inlineMathRe.ReplaceAllStringFunc(out, func(m string) string {
		return e.markup.InlineMath(m[1 : len(m)-1])
	})

	out = strings.ReplaceAll(out, "\r\n", "\n")
	if e.markup.LineBreak != "\n" {
		out = strings.ReplaceAll(out, "\n", e.markup.LineBreak)
	}
	return out
}

// RenderEquation returns the equation LaTeX with variable placeholders substituted.
func (e *Engine) RenderEquation(eq domain.Equation, vars []domain.Variable) string {
	return e.substitute(eq.LaTeX, vars)
}

// substitute replaces {name}, {name:value} and {name:unit} for variables with a value.
// A single pass prevents substituted text from being substituted again.
func (e *Engine) substitute(s string, vars []domain.Variable) string {
	if !strings.Contains(s, "{") {
		return s
	}

	var pairs []string
	for _, v := range vars {
		if v.CurrentValue == nil || v.Name == "" {
			continue
		}
		value := FormatValue(*v.CurrentValue, v.EffectivePrecision())
		unit := e.FormatUnit(v.Unit)
		full := value
		if unit != "" {
			full += " " + unit
		}
		pairs = append(pairs,
			"{"+v.Name+"}", full,
			"{"+v.Name+":value}", value,
			"{"+v.Name+":unit}", unit,
		)
	}
	if len(pairs) == 0 {
		return s
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// FormatUnit marks exponents (^n) and subscripts (_n) in a unit string.
func (e *Engine) FormatUnit(unit string) string {
	if unit == "" {
		return ""
	}
	out := supRe.ReplaceAllStringFunc(unit, func(m string) string {
		return e.markup.Superscript(m[1:])
	})
	return subRe.ReplaceAllStringFunc(out, func(m string) string {
		return e.markup.Subscript(m[1:])
	})
}

// ValidateReferences reports placeholders naming unknown variables and placeholders
// with an unknown modifier. It never fails.
func ValidateReferences(content string, vars []domain.Variable) domain.ReferenceReport {
	known := make(map[string]bool, len(vars))
	for _, v := range vars {
		known[v.Name] = true
	}

	report := domain.ReferenceReport{}
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		name, modifier := m[1], m[2]
		if modifier != "" && modifier != ":value" && modifier != ":unit" {
			report.Malformed = append(report.Malformed, m[0])
		}
		if !known[name] && !seen[name] {
			report.Undefined = append(report.Undefined, name)
		}
		seen[name] = true
	}
	report.Valid = len(report.Undefined) == 0
	return report
}

// EquationRefs returns the equation ids referenced by content, in order of appearance.
func EquationRefs(content string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range equationRefRe.FindAllStringSubmatch(content, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	return out
}

// Round rounds v half away from zero to precision decimal places.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	pow := math.Pow10(precision)
	return math.Round(v*pow) / pow
}

// FormatValue renders v rounded to precision using the shortest decimal form ("15.3", "12").
func FormatValue(v float64, precision int) string {
	r := Round(v, precision)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
