package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/memregistry"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/workspacefinder"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/yamlcatalog"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/usecase"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd := deps.StartDir
		if wd == "" {
			var err error
			wd, err = os.Getwd()
			if err != nil {
				return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
			}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadUnits(root string, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return unitsLoadedMsg{root: root, err: err}
		}

		loader := yamlcatalog.NewLoader(
			yamlcatalog.WithUnitsDir(cfg.Paths.UnitsDir),
		)

		cat, err := loader.LoadAll(root)
		if err != nil {
			return unitsLoadedMsg{root: root, err: err}
		}

		reg := memregistry.FromCatalog(cat)
		return unitsLoadedMsg{
			root:    root,
			units:   reg,
			convert: usecase.NewConvertValue(reg, usecase.WithConvertLogger(log)),
		}
	}
}

func cmdConvert(conv Converter, value float64, from, to string) tea.Cmd {
	return func() tea.Msg {
		if conv == nil {
			return convertedMsg{err: errors.New("converter is nil")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := conv.Execute(ctx, value, from, to)
		return convertedMsg{res: res, err: err}
	}
}
