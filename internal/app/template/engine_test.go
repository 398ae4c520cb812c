package template

import (
	"math"
	"strings"
	"testing"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

// --- helpers ---

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

// sequence returns a random source cycling through vals.
func sequence(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func withValue(v domain.Variable, val float64) domain.Variable {
	v.CurrentValue = &val
	return v
}

// --- GenerateValues ---

func TestGenerateValues_Continuous(t *testing.T) {
	e := NewEngine(WithRand(sequence(0.53)))
	vars := []domain.Variable{{Name: "v", Min: 10, Max: 20, Precision: intp(1)}}

	got := e.GenerateValues(vars)
	if got[0].CurrentValue == nil || *got[0].CurrentValue != 15.3 {
		t.Fatalf("expected 15.3, got %v", got[0].CurrentValue)
	}
	if vars[0].CurrentValue != nil {
		t.Fatalf("input must not be mutated")
	}
}

func TestGenerateValues_Step(t *testing.T) {
	cases := []struct {
		r    float64
		want float64
	}{
		{0, 100},
		{0.5, 300},
		{0.999999, 500},
	}
	for _, c := range cases {
		e := NewEngine(WithRand(sequence(c.r)))
		got := e.GenerateValues([]domain.Variable{{Name: "d", Min: 100, Max: 500, Step: f64(10), Precision: intp(0)}})
		if *got[0].CurrentValue != c.want {
			t.Fatalf("r=%v: expected %v, got %v", c.r, c.want, *got[0].CurrentValue)
		}
	}
}

func TestGenerateValues_DefaultPrecision(t *testing.T) {
	e := NewEngine(WithRand(sequence(1.0 / 3)))
	got := e.GenerateValues([]domain.Variable{{Name: "x", Min: 0, Max: 1}})
	if *got[0].CurrentValue != 0.33 {
		t.Fatalf("expected 0.33, got %v", *got[0].CurrentValue)
	}
}

func TestGenerateValues_DegenerateRange(t *testing.T) {
	e := NewEngine(WithRand(sequence(0.7)))
	got := e.GenerateValues([]domain.Variable{{Name: "x", Min: 5, Max: 5}})
	if *got[0].CurrentValue != 5 {
		t.Fatalf("expected min for empty range, got %v", *got[0].CurrentValue)
	}
}

func TestGenerateValues_StaysInRangeAfterRounding(t *testing.T) {
	e := NewEngine(WithRand(sequence(0.9999)))
	got := e.GenerateValues([]domain.Variable{{Name: "x", Min: 0, Max: 0.999, Precision: intp(2)}})
	if v := *got[0].CurrentValue; v > 0.999 || v != 0.99 {
		t.Fatalf("expected 0.99, got %v", v)
	}
}

func TestGenerateValues_Properties(t *testing.T) {
	vars := []domain.Variable{
		{Name: "a", Min: -5, Max: 5},
		{Name: "b", Min: 0.5, Max: 2.5, Step: f64(0.25), Precision: intp(2)},
		{Name: "c", Min: 1, Max: 1000, Step: f64(7), Precision: intp(0)},
		{Name: "d", Min: 0, Max: 1, Precision: intp(4)},
	}

	for seed := uint64(1); seed <= 200; seed++ {
		e := NewEngine(WithSeed(seed))
		for _, v := range e.GenerateValues(vars) {
			val := *v.CurrentValue
			if val < v.Min || val > v.Max {
				t.Fatalf("seed %d: %s=%v outside [%v, %v]", seed, v.Name, val, v.Min, v.Max)
			}
			if Round(val, v.EffectivePrecision()) != val {
				t.Fatalf("seed %d: %s=%v not rounded to %d places", seed, v.Name, val, v.EffectivePrecision())
			}
			if v.Step != nil {
				k := (val - v.Min) / *v.Step
				if math.Abs(k-math.Round(k)) > 1e-6 {
					t.Fatalf("seed %d: %s=%v is not min + k*step", seed, v.Name, val)
				}
			}
		}
	}
}

func TestGenerateValues_SeedIsDeterministic(t *testing.T) {
	vars := []domain.Variable{{Name: "x", Min: 0, Max: 100}, {Name: "y", Min: 1, Max: 2}}
	a := NewEngine(WithSeed(42)).GenerateValues(vars)
	b := NewEngine(WithSeed(42)).GenerateValues(vars)
	for i := range a {
		if *a[i].CurrentValue != *b[i].CurrentValue {
			t.Fatalf("expected identical values for the same seed")
		}
	}
}

// --- RenderText ---

func TestRenderText_ValueAtPrecision(t *testing.T) {
	e := NewEngine()
	vars := []domain.Variable{withValue(domain.Variable{Name: "v", Min: 10, Max: 20, Precision: intp(1)}, 15.3)}

	got := e.RenderText("Speed is {v} m/s", vars, nil)
	if got != "Speed is 15.3 m/s" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRenderText_PlaceholderForms(t *testing.T) {
	e := NewEngine()
	vars := []domain.Variable{withValue(domain.Variable{Name: "a", Min: 0, Max: 20, Unit: "m/s^2"}, 9.81)}

	got := e.RenderText("{a} | {a:value} | {a:unit} | {a:other} | {b}", vars, nil)
	want := "9.81 m/s<sup>2</sup> | 9.81 | m/s<sup>2</sup> | {a:other} | {b}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderText_VariablesWithoutValueAreLeft(t *testing.T) {
	e := NewEngine()
	got := e.RenderText("x = {x}", []domain.Variable{{Name: "x", Min: 0, Max: 1}}, nil)
	if got != "x = {x}" {
		t.Fatalf("expected untouched placeholder, got %q", got)
	}
}

func TestRenderText_NoDoubleSubstitution(t *testing.T) {
	e := NewEngine()
	vars := []domain.Variable{
		withValue(domain.Variable{Name: "a", Min: 0, Max: 10, Unit: "{b}"}, 1),
		withValue(domain.Variable{Name: "b", Min: 0, Max: 10}, 2),
	}
	got := e.RenderText("{a}", vars, nil)
	if got != "1 {b}" {
		t.Fatalf("substituted text must not be substituted again, got %q", got)
	}
}

func TestRenderText_Equations(t *testing.T) {
	e := NewEngine()
	vars := []domain.Variable{
		withValue(domain.Variable{Name: "d", Min: 0, Max: 500, Precision: intp(0)}, 150),
		withValue(domain.Variable{Name: "t", Min: 1, Max: 20, Precision: intp(0)}, 10),
	}
	eqs := []domain.Equation{{ID: "v", LaTeX: `v = \frac{{d:value}}{{t:value}}`, Variables: []string{"d", "t"}}}

	got := e.RenderText("Use [equation:v] and [equation:missing].", vars, eqs)
	want := `Use <span class="equation" data-equation="v">v = \frac{150}{10}</span> and [equation:missing].`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if r := e.RenderEquation(eqs[0], vars); r != `v = \frac{150}{10}` {
		t.Fatalf("unexpected equation render %q", r)
	}
}

func TestRenderText_InlineMathAndLineBreaks(t *testing.T) {
	e := NewEngine()
	vars := []domain.Variable{withValue(domain.Variable{Name: "x", Min: 0, Max: 10}, 3)}

	got := e.RenderText("Solve $x^2 = {x:value}$\r\nthen\nanswer", vars, nil)
	want := `Solve <span class="math-inline">x^2 = 3</span><br>then<br>answer`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderText_IdempotentWithoutPlaceholders(t *testing.T) {
	e := NewEngine()
	in := "Plain text with (parentheses) and 100% effort."
	if got := e.RenderText(in, nil, nil); got != in {
		t.Fatalf("expected unchanged text, got %q", got)
	}
	if got := e.RenderText("one\ntwo", nil, nil); got != "one<br>two" {
		t.Fatalf("expected only line-break conversion, got %q", got)
	}
	if got := e.RenderText("", nil, nil); got != "" {
		t.Fatalf("expected empty output")
	}
}

func TestRenderText_TextMarkup(t *testing.T) {
	e := NewEngine(WithMarkup(TextMarkup))
	vars := []domain.Variable{withValue(domain.Variable{Name: "g", Min: 0, Max: 20, Unit: "m/s^2"}, 9.8)}
	eqs := []domain.Equation{{ID: "w", LaTeX: "W = m {g:value}"}}

	got := e.RenderText("g = {g}\n[equation:w]", vars, eqs)
	want := "g = 9.8 m/s²\n⟦W = m 9.8⟧"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderText_TextMarkupInlineMath(t *testing.T) {
	e := NewEngine(WithMarkup(TextMarkup))
	vars := []domain.Variable{withValue(domain.Variable{Name: "x", Min: 0, Max: 10}, 3)}

	got := e.RenderText("Solve $x^2 = {x:value}$", vars, nil)
	if got != "Solve ⟨x^2 = 3⟩" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRenderText_EscapesEquationID(t *testing.T) {
	e := NewEngine()
	eqs := []domain.Equation{{ID: `a"b<c`, LaTeX: "E = mc^2"}}

	got := e.RenderText(`[equation:a"b<c]`, nil, eqs)
	want := `<span class="equation" data-equation="a&#34;b&lt;c">E = mc^2</span>`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// --- FormatUnit ---

func TestFormatUnit(t *testing.T) {
	html := NewEngine()
	text := NewEngine(WithMarkup(TextMarkup))

	cases := []struct {
		in, html, text string
	}{
		{"m/s^2", "m/s<sup>2</sup>", "m/s²"},
		{"m^-1", "m<sup>-1</sup>", "m⁻¹"},
		{"H_2O", "H<sub>2</sub>O", "H₂O"},
		{"kg*m^2/s^3", "kg*m<sup>2</sup>/s<sup>3</sup>", "kg*m²/s³"},
		{"m^x", "m^x", "m^x"},
		{"km", "km", "km"},
		{"", "", ""},
	}
	for _, c := range cases {
		if got := html.FormatUnit(c.in); got != c.html {
			t.Errorf("html FormatUnit(%q) = %q, want %q", c.in, got, c.html)
		}
		if got := text.FormatUnit(c.in); got != c.text {
			t.Errorf("text FormatUnit(%q) = %q, want %q", c.in, got, c.text)
		}
	}
}

// --- ValidateReferences ---

func TestValidateReferences(t *testing.T) {
	vars := []domain.Variable{{Name: "v"}, {Name: "t"}}

	ok := ValidateReferences("Speed {v} over {t:value} {t:unit}", vars)
	if !ok.Valid || len(ok.Undefined) != 0 || len(ok.Malformed) != 0 {
		t.Fatalf("expected valid report, got %+v", ok)
	}

	bad := ValidateReferences("{unknownVar} and {unknownVar:value} and {v:colour} and {x}", vars)
	if bad.Valid {
		t.Fatal("expected invalid report")
	}
	if strings.Join(bad.Undefined, ",") != "unknownVar,x" {
		t.Fatalf("unexpected undefined %v", bad.Undefined)
	}
	if len(bad.Malformed) != 1 || bad.Malformed[0] != "{v:colour}" {
		t.Fatalf("unexpected malformed %v", bad.Malformed)
	}
}

func TestValidateReferences_IgnoresNonIdentifiers(t *testing.T) {
	r := ValidateReferences(`$x^{2}$ and { spaced } and {}`, nil)
	if !r.Valid {
		t.Fatalf("expected non-identifier braces to be ignored, got %+v", r)
	}
}

func TestEquationRefs(t *testing.T) {
	got := EquationRefs("[equation:a] [equation:b] [equation:a] [equation: c]")
	if strings.Join(got, ",") != "a,b" {
		t.Fatalf("unexpected refs %v", got)
	}
}

// --- formatting helpers ---

func TestFormatValue(t *testing.T) {
	cases := []struct {
		v    float64
		p    int
		want string
	}{
		{15.3, 1, "15.3"},
		{12, 2, "12"},
		{2.346, 2, "2.35"},
		{-0.001, 2, "0"},
		{1234.5678, 0, "1235"},
		{0.1 + 0.2, 2, "0.3"},
	}
	for _, c := range cases {
		if got := FormatValue(c.v, c.p); got != c.want {
			t.Errorf("FormatValue(%v, %d) = %q, want %q", c.v, c.p, got, c.want)
		}
	}
}

func TestMarkupByName(t *testing.T) {
	if m, err := MarkupByName("TEXT"); err != nil || m.Name != domain.MarkupText {
		t.Fatalf("expected text markup, got %v %v", m.Name, err)
	}
	if m, err := MarkupByName(""); err != nil || m.Name != domain.MarkupHTML {
		t.Fatalf("expected html default")
	}
	if _, err := MarkupByName("pdf"); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}
