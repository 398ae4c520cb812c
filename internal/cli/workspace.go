package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/memregistry"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/renderstore"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/workspacefinder"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/yamlcatalog"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/yamlquestion"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	catalogs  *yamlcatalog.Loader
	questions *yamlquestion.Loader

	registry *memregistry.Registry
	store    *renderstore.JSONStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	catLoader := yamlcatalog.NewLoader(
		yamlcatalog.WithUnitsDir(cfg.Paths.UnitsDir),
	)

	cat, err := catLoader.LoadAll(root)
	if err != nil {
		return nil, err
	}

	qLoader := yamlquestion.NewLoader(
		yamlquestion.WithQuestionsDir(cfg.Paths.QuestionsDir),
	)

	store := renderstore.NewJSONStore(root, cfg, renderstore.WithIndex(true))

	return &workspaceCtx{
		root:      root,
		cfg:       cfg,
		catalogs:  catLoader,
		questions: qLoader,
		registry:  memregistry.FromCatalog(cat),
		store:     store,
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `edugestor init`): %w", wd, err)
	}
	return root, nil
}

func resolveQuestionPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("question is required (id, file name or path)")
	}

	// Paths are relative to the workspace root, not the working directory.
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	questionsDir := filepath.Join(ws.root, ws.cfg.Paths.QuestionsDir)

	if hasYAMLExt(in) {
		p := filepath.Join(questionsDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	p, err := ws.questions.ResolvePath(ws.root, in)
	if err != nil {
		return "", fmt.Errorf("question %q not found in %q: %w", in, questionsDir, err)
	}
	return p, nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
