package yamlquestion

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/yamlvalidate"
)

// MapQuestion converts the YAML document into a domain question. Only structural problems
// are rejected here; range and reference checks belong to question validation.
func MapQuestion(path string, yq YAMLQuestion) (domain.Question, error) {
	if errs := yamlvalidate.Struct(yq); len(errs) > 0 {
		return domain.Question{}, &domain.OpError{
			Op:   "yamlquestion.map",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("%s: %w", strings.Join(errs, "; "), domain.ErrInvalidConfig),
		}
	}

	q := domain.Question{
		ID:        strings.TrimSpace(yq.ID),
		Title:     strings.TrimSpace(yq.Title),
		Content:   yq.Content,
		Variables: make([]domain.Variable, 0, len(yq.Variables)),
		Equations: make([]domain.Equation, 0, len(yq.Equations)),
	}
	if q.ID == "" {
		q.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if q.Title == "" {
		q.Title = q.ID
	}

	for _, v := range yq.Variables {
		q.Variables = append(q.Variables, domain.Variable{
			Name:         strings.TrimSpace(v.Name),
			Min:          v.Min,
			Max:          v.Max,
			Step:         v.Step,
			Precision:    v.Precision,
			Unit:         strings.TrimSpace(v.Unit),
			CurrentValue: v.Value,
		})
	}

	for _, e := range yq.Equations {
		eq := domain.Equation{
			ID:        strings.TrimSpace(e.ID),
			Name:      e.Name,
			LaTeX:     e.LaTeX,
			Variables: e.Variables,
		}
		if eq.Variables == nil {
			eq.Variables = []string{}
		}
		q.Equations = append(q.Equations, eq)
	}

	if yq.Answer != nil {
		q.Answer = &domain.AnswerSpec{
			Expression: strings.TrimSpace(yq.Answer.Expression),
			Unit:       strings.TrimSpace(yq.Answer.Unit),
			Precision:  yq.Answer.Precision,
			ConvertTo:  strings.TrimSpace(yq.Answer.ConvertTo),
		}
	}

	return q, nil
}
