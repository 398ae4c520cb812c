package usecase

import (
	"bytes"
	"log/slog"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/memregistry"
)

type fakeQuestions struct {
	byPath map[string]domain.Question
}

func (f fakeQuestions) LoadQuestion(path string) (domain.Question, error) {
	q, ok := f.byPath[path]
	if !ok {
		return domain.Question{}, &domain.OpError{Op: "fake.load", Kind: domain.KindNotFound, Path: path, Err: domain.ErrNotFound}
	}
	return q, nil
}

func (f fakeQuestions) ListQuestions(string) ([]domain.QuestionRef, error) { return nil, nil }

type fakeStore struct {
	saved []domain.GeneratedQuestion
	err   error
}

func (s *fakeStore) SaveQuestion(q domain.GeneratedQuestion) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, q)
	return "stored-" + q.QuestionID, nil
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sampleRegistry() *memregistry.Registry {
	return memregistry.FromCatalog(domain.Catalog{
		Units: []domain.Unit{
			{ID: "m", Symbol: "m", Category: "Length", IsBaseUnit: true},
			{ID: "km", Symbol: "km", Category: "Length", BaseUnitID: "m", ConversionFactorToBase: f64(1000)},
			{ID: "s", Symbol: "s", Category: "Time", IsBaseUnit: true},
			{ID: "m/s", Symbol: "m/s", Category: "Speed", IsBaseUnit: true},
			{ID: "km/h", Symbol: "km/h", Category: "Speed", BaseUnitID: "m/s", ConversionFactorToBase: f64(1 / 3.6)},
			{ID: "C", Category: "Temperature", IsBaseUnit: true},
			{ID: "F", Category: "Temperature", IsBaseUnit: true},
		},
		Relations: []domain.ConversionRelation{
			{FromUnit: "F", ToUnit: "C", Factor: 0.5555556, Formula: "(value - 32) * 5 / 9"},
			{FromUnit: "C", ToUnit: "F", Factor: 1.8, Formula: "value * 9 / 5 +"},
		},
	})
}

func velocityQuestion() domain.Question {
	return domain.Question{
		ID:      "velocity-1",
		Title:   "Average speed",
		Content: "A car travels {d} in {t}.\nSpeed: [equation:v]",
		Variables: []domain.Variable{
			{Name: "d", Min: 100, Max: 500, Step: f64(10), Precision: intp(0), Unit: "m"},
			{Name: "t", Min: 10, Max: 60, Precision: intp(0), Unit: "s"},
		},
		Equations: []domain.Equation{{ID: "v", Name: "speed", LaTeX: `v = \frac{{d:value}}{{t:value}}`, Variables: []string{"d", "t"}}},
		Answer:    &domain.AnswerSpec{Expression: "d / t", Unit: "m/s", Precision: intp(2), ConvertTo: "km/h"},
	}
}
