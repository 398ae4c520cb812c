package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the file marking a workspace root.
const ConfigFile = "edugestor.yaml"

// LoadConfig loads edugestor.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if m := strings.ToLower(strings.TrimSpace(y.Edugestor.Render.Markup)); m != "" {
		if m != domain.MarkupHTML && m != domain.MarkupText {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("render.markup %q (expected html|text): %w", y.Edugestor.Render.Markup, domain.ErrInvalidConfig),
			}
		}
		cfg.Render.Markup = m
	}
	if y.Edugestor.Render.Seed != nil {
		cfg.Render.Seed = *y.Edugestor.Render.Seed
	}
	if y.Edugestor.Paths.UnitsDir != "" {
		cfg.Paths.UnitsDir = y.Edugestor.Paths.UnitsDir
	}
	if y.Edugestor.Paths.QuestionsDir != "" {
		cfg.Paths.QuestionsDir = y.Edugestor.Paths.QuestionsDir
	}
	if y.Edugestor.Paths.RendersDir != "" {
		cfg.Paths.RendersDir = y.Edugestor.Paths.RendersDir
	}

	return cfg, nil
}

type yamlConfig struct {
	Edugestor struct {
		Render struct {
			Markup string  `yaml:"markup"`
			Seed   *uint64 `yaml:"seed"`
		} `yaml:"render"`

		Paths struct {
			UnitsDir     string `yaml:"units_dir"`
			QuestionsDir string `yaml:"questions_dir"`
			RendersDir   string `yaml:"renders_dir"`
		} `yaml:"paths"`
	} `yaml:"edugestor"`
}
