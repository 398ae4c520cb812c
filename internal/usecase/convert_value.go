package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/convert"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/logger"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

type ConvertValue struct {
	units    ports.UnitRepository
	resolver *convert.Resolver
	log      *slog.Logger
}

type ConvertOption func(*ConvertValue)

func WithConvertLogger(l *slog.Logger) ConvertOption {
	return func(uc *ConvertValue) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewConvertValue(units ports.UnitRepository, opts ...ConvertOption) *ConvertValue {
	uc := &ConvertValue{
		units: units,
		log:   logger.L(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.resolver = convert.NewResolver(convert.WithFormulaErrorHook(func(rel domain.ConversionRelation, err error) {
		uc.log.Warn("convert.formula_fallback",
			append([]any{"from", rel.FromUnit, "to", rel.ToUnit, "formula", rel.Formula}, logger.ErrAttrs(err)...)...)
	}))
	return uc
}

// Execute converts value using a snapshot of the registry taken at call time.
func (uc *ConvertValue) Execute(ctx context.Context, value float64, from, to string) (domain.ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConversionResult{}, err
	}

	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	cat := uc.units.Catalog()

	res, err := uc.resolver.Resolve(value, from, to, cat.Units, cat.Relations)
	if err != nil {
		uc.log.Debug("convert.failed", append([]any{"from", from, "to", to, "value", value}, logger.ErrAttrs(err)...)...)
		return domain.ConversionResult{}, err
	}

	uc.log.Debug("convert.ok", "from", from, "to", to, "value", value, "result", res.Result, "via", res.Via)
	return res, nil
}
