package tui

import (
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type unitsLoadedMsg struct {
	root    string
	units   ports.UnitRepository
	convert Converter
	err     error
}

type convertedMsg struct {
	res domain.ConversionResult
	err error
}
