package domain

import "time"

// ConversionResult is the outcome of converting a single value.
type ConversionResult struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
	Result   float64 `json:"result"`

	// Via describes which rule produced the result: identity, formula, factor or base.
	Via string `json:"via"`
}

// Conversion rule names reported in ConversionResult.Via.
const (
	ViaIdentity = "identity"
	ViaFormula  = "formula"
	ViaFactor   = "factor"
	ViaBase     = "base"
)

// ReferenceReport lists template references that cannot be resolved.
// It never carries an error: unresolved references are left as literal text on render.
type ReferenceReport struct {
	Valid     bool     `json:"valid"`
	Undefined []string `json:"undefined,omitempty"`
	Malformed []string `json:"malformed,omitempty"`
}

// GeneratedValue is a variable value drawn for one generated question.
type GeneratedValue struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Unit      string  `json:"unit,omitempty"`
}

// RenderedEquation is an equation after variable substitution.
type RenderedEquation struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Rendered string `json:"rendered"`
}

// AnswerResult is the computed answer of a generated question.
type AnswerResult struct {
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
	Formatted  string  `json:"formatted"`
	Unit       string  `json:"unit,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// GeneratedQuestion is one concrete instance of a question template.
type GeneratedQuestion struct {
	ID           string             `json:"id"`
	QuestionID   string             `json:"question_id"`
	Title        string             `json:"title"`
	QuestionPath string             `json:"question_path,omitempty"`
	Markup       string             `json:"markup"`
	Text         string             `json:"text"`
	Values       []GeneratedValue   `json:"values"`
	Equations    []RenderedEquation `json:"equations,omitempty"`
	Answers      []AnswerResult     `json:"answers,omitempty"`
	References   ReferenceReport    `json:"references"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// ValidationIssue is a single problem found while validating a question.
type ValidationIssue struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	// Warning issues do not make the question invalid.
	Warning bool `json:"warning,omitempty"`
}

// ValidationReport aggregates issues for a question file.
type ValidationReport struct {
	QuestionID string            `json:"question_id"`
	Path       string            `json:"path"`
	Issues     []ValidationIssue `json:"issues"`
}

// OK reports whether the report has no blocking issue.
func (r ValidationReport) OK() bool {
	for _, is := range r.Issues {
		if !is.Warning {
			return false
		}
	}
	return true
}

// PickResult reports one JSONPath selection over a generated question artifact.
type PickResult struct {
	Name    string `json:"name"`
	Expr    string `json:"expr"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
