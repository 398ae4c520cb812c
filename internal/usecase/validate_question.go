package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/convert"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/formula"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/template"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

type ValidateQuestion struct {
	questions ports.QuestionLoader
	units     ports.UnitRepository
	resolver  *convert.Resolver
}

type ValidateOption func(*ValidateQuestion)

// WithCatalog enables unit checks against the workspace catalog.
func WithCatalog(u ports.UnitRepository) ValidateOption {
	return func(uc *ValidateQuestion) { uc.units = u }
}

func NewValidateQuestion(ql ports.QuestionLoader, opts ...ValidateOption) *ValidateQuestion {
	uc := &ValidateQuestion{
		questions: ql,
		resolver:  convert.NewResolver(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute validates a question file without rendering it. Problems with the question are
// reported as issues; the error is reserved for load failures.
func (uc *ValidateQuestion) Execute(ctx context.Context, questionPath string) (domain.ValidationReport, error) {
	q, err := uc.questions.LoadQuestion(questionPath)
	if err != nil {
		return domain.ValidationReport{Path: questionPath}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ValidationReport{Path: questionPath}, err
	}

	report := uc.Check(q)
	report.Path = questionPath
	return report, nil
}

// Check runs every question check and collects the issues.
func (uc *ValidateQuestion) Check(q domain.Question) domain.ValidationReport {
	report := domain.ValidationReport{QuestionID: q.ID, Issues: []domain.ValidationIssue{}}
	add := func(kind domain.ErrorKind, warning bool, format string, args ...any) {
		report.Issues = append(report.Issues, domain.ValidationIssue{
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
			Warning: warning,
		})
	}

	for _, err := range structuralErrors(q.Validate()) {
		kind := domain.KindInvalidConfig
		if errors.Is(err, domain.ErrUndefinedVariable) {
			kind = domain.KindUndefinedVariable
		}
		add(kind, false, "%s", err.Error())
	}

	refs := template.ValidateReferences(q.Content, q.Variables)
	for _, name := range refs.Undefined {
		add(domain.KindUndefinedVariable, false, "content: variable %q is not declared", name)
	}
	for _, m := range refs.Malformed {
		add(domain.KindMalformed, true, "content: placeholder %s has an unknown modifier (expected :value or :unit)", m)
	}

	for _, eq := range q.Equations {
		eqRefs := template.ValidateReferences(eq.LaTeX, q.Variables)
		for _, name := range eqRefs.Undefined {
			add(domain.KindUndefinedVariable, false, "equation %q: variable %q is not declared", eq.ID, name)
		}
		for _, m := range eqRefs.Malformed {
			add(domain.KindMalformed, true, "equation %q: placeholder %s has an unknown modifier", eq.ID, m)
		}
	}

	for _, id := range template.EquationRefs(q.Content) {
		if _, ok := domain.FindEquation(q.Equations, id); !ok {
			add(domain.KindNotFound, false, "content: equation %q is not defined", id)
		}
	}

	if q.Answer != nil && q.Answer.Expression != "" {
		uc.checkAnswer(q, add)
	}

	if uc.units != nil {
		uc.checkUnits(q, add)
	}

	return report
}

func (uc *ValidateQuestion) checkAnswer(q domain.Question, add func(domain.ErrorKind, bool, string, ...any)) {
	expr, err := formula.Compile(q.Answer.Expression)
	if err != nil {
		add(domain.KindInvalidFormula, false, "answer: %s", domain.UserMessage(err))
		return
	}

	declared := map[string]bool{}
	for _, v := range q.Variables {
		declared[v.Name] = true
	}
	for _, name := range expr.Idents() {
		if !declared[name] {
			add(domain.KindUndefinedVariable, false, "answer: variable %q is not declared", name)
		}
	}
}

func (uc *ValidateQuestion) checkUnits(q domain.Question, add func(domain.ErrorKind, bool, string, ...any)) {
	cat := uc.units.Catalog()

	for _, v := range q.Variables {
		if v.Unit != "" && !knownUnit(cat.Units, v.Unit) {
			add(domain.KindUnitNotFound, true, "variable %q: unit %q is not in the catalog", v.Name, v.Unit)
		}
	}

	a := q.Answer
	if a == nil || a.ConvertTo == "" || a.ConvertTo == a.Unit {
		return
	}
	if _, err := uc.resolver.Convert(1, a.Unit, a.ConvertTo, cat.Units, cat.Relations); err != nil {
		add(domain.KindOf(err), false, "answer: cannot convert %q to %q: %s", a.Unit, a.ConvertTo, domain.UserMessage(err))
	}
}

func knownUnit(units []domain.Unit, ref string) bool {
	for _, u := range units {
		if u.ID == ref || (u.Symbol != "" && u.Symbol == ref) {
			return true
		}
	}
	return false
}

// structuralErrors flattens the joined errors of Question.Validate.
func structuralErrors(err error) []error {
	if err == nil {
		return nil
	}
	var oe *domain.OpError
	if errors.As(err, &oe) && oe.Err != nil {
		err = oe.Err
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
