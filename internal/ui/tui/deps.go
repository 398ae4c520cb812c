package tui

import (
	"context"
	"log/slog"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

// Converter converts one value between two units of the loaded catalog.
type Converter interface {
	Execute(ctx context.Context, value float64, from, to string) (domain.ConversionResult, error)
}

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	// Units and Convert are set when the caller already loaded a workspace.
	// Otherwise the TUI looks for one from StartDir.
	Units         ports.UnitRepository
	Convert       Converter
	WorkspaceRoot string
	StartDir      string

	Logger *slog.Logger
	Debug  bool
}
