package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/convert"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/formula"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/template"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/logger"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

type RenderQuestion struct {
	questions ports.QuestionLoader
	units     ports.UnitRepository
	store     ports.RenderStore
	engine    *template.Engine
	resolver  *convert.Resolver
	now       func() time.Time
	newID     func() string
	log       *slog.Logger
}

type RenderOption func(*RenderQuestion)

// WithRenderStore saves every generated question. Without it nothing is persisted.
func WithRenderStore(s ports.RenderStore) RenderOption {
	return func(uc *RenderQuestion) { uc.store = s }
}

// WithUnits enables answers expressed in another unit (answer.convert_to).
func WithUnits(u ports.UnitRepository) RenderOption {
	return func(uc *RenderQuestion) { uc.units = u }
}

func WithEngine(e *template.Engine) RenderOption {
	return func(uc *RenderQuestion) {
		if e != nil {
			uc.engine = e
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) RenderOption {
	return func(uc *RenderQuestion) { uc.now = now }
}

func WithUUID(fn func() string) RenderOption {
	return func(uc *RenderQuestion) { uc.newID = fn }
}

func WithRenderLogger(l *slog.Logger) RenderOption {
	return func(uc *RenderQuestion) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewRenderQuestion(ql ports.QuestionLoader, opts ...RenderOption) *RenderQuestion {
	uc := &RenderQuestion{
		questions: ql,
		engine:    template.NewEngine(),
		resolver:  convert.NewResolver(),
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logger.L(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute loads a question template, draws its variables and renders it. The returned id
// is the store id, empty when no store is configured.
func (uc *RenderQuestion) Execute(ctx context.Context, questionPath string) (domain.GeneratedQuestion, string, error) {
	q, err := uc.questions.LoadQuestion(questionPath)
	if err != nil {
		return domain.GeneratedQuestion{}, "", err
	}
	if err := q.Validate(); err != nil {
		return domain.GeneratedQuestion{}, "", withPath(err, questionPath)
	}
	if err := ctx.Err(); err != nil {
		return domain.GeneratedQuestion{}, "", err
	}

	gq := uc.Render(q)
	gq.QuestionPath = questionPath
	if !gq.References.Valid {
		uc.log.Warn("render.undefined_references", "question", q.ID, "undefined", gq.References.Undefined)
	}

	var id string
	if uc.store != nil {
		id, err = uc.store.SaveQuestion(gq)
		if err != nil {
			return gq, "", err
		}
	}

	uc.log.Info("render.generated", "question", q.ID, "artifact", gq.ID, "saved", id)
	return gq, id, nil
}

// Render produces one generated instance of q. Pinned variable values are kept.
func (uc *RenderQuestion) Render(q domain.Question) domain.GeneratedQuestion {
	drawn := uc.engine.GenerateValues(q.Variables)
	for i, v := range q.Variables {
		if v.CurrentValue != nil {
			drawn[i].CurrentValue = v.CurrentValue
		}
	}

	gq := domain.GeneratedQuestion{
		ID:          uc.newID(),
		QuestionID:  q.ID,
		Title:       q.Title,
		Markup:      uc.engine.Markup().Name,
		Text:        uc.engine.RenderText(q.Content, drawn, q.Equations),
		Values:      make([]domain.GeneratedValue, 0, len(drawn)),
		References:  template.ValidateReferences(q.Content, q.Variables),
		GeneratedAt: uc.now().UTC(),
	}

	for _, v := range drawn {
		gq.Values = append(gq.Values, domain.GeneratedValue{
			Name:      v.Name,
			Value:     *v.CurrentValue,
			Formatted: template.FormatValue(*v.CurrentValue, v.EffectivePrecision()),
			Unit:      v.Unit,
		})
	}

	for _, eq := range q.Equations {
		gq.Equations = append(gq.Equations, domain.RenderedEquation{
			ID:       eq.ID,
			Name:     eq.Name,
			Rendered: uc.engine.RenderEquation(eq, drawn),
		})
	}

	if q.Answer != nil {
		gq.Answers = append(gq.Answers, uc.answer(*q.Answer, drawn))
	}

	return gq
}

func (uc *RenderQuestion) answer(spec domain.AnswerSpec, vars []domain.Variable) domain.AnswerResult {
	res := domain.AnswerResult{Expression: spec.Expression, Unit: spec.Unit}

	bindings := make(map[string]float64, len(vars))
	for _, v := range vars {
		if v.CurrentValue != nil {
			bindings[v.Name] = *v.CurrentValue
		}
	}

	value, err := formula.Evaluate(spec.Expression, bindings)
	if err != nil {
		uc.log.Warn("render.answer_failed", logger.ErrAttrs(err)...)
		res.Error = domain.UserMessage(err)
		return res
	}

	if spec.ConvertTo != "" && spec.ConvertTo != spec.Unit {
		converted, err := uc.convertAnswer(value, spec.Unit, spec.ConvertTo)
		if err != nil {
			uc.log.Warn("render.answer_convert_failed", logger.ErrAttrs(err)...)
			res.Error = domain.UserMessage(err)
		} else {
			value, res.Unit = converted, spec.ConvertTo
		}
	}

	precision := domain.DefaultPrecision
	if spec.Precision != nil {
		precision = *spec.Precision
	}
	res.Value = template.Round(value, precision)
	res.Formatted = template.FormatValue(value, precision)
	return res
}

func (uc *RenderQuestion) convertAnswer(value float64, from, to string) (float64, error) {
	if uc.units == nil {
		return 0, &domain.OpError{
			Op:   "render.answer",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("answer.convert_to %q needs a unit catalog: %w", to, domain.ErrInvalidConfig),
		}
	}
	cat := uc.units.Catalog()
	return uc.resolver.Convert(value, from, to, cat.Units, cat.Relations)
}

func withPath(err error, path string) error {
	if oe, ok := err.(*domain.OpError); ok && oe.Path == "" {
		c := *oe
		c.Path = path
		return &c
	}
	return err
}
