package domain

// Config represents the edugestor configuration loaded from edugestor.yaml.
type Config struct {
	Render RenderConfig
	Paths  PathsConfig
}

type RenderConfig struct {
	// Markup selects the rendering surface: "html" or "text".
	Markup string

	// Seed makes value generation reproducible. Zero means a random seed per run.
	Seed uint64
}

type PathsConfig struct {
	UnitsDir     string
	QuestionsDir string
	RendersDir   string
}

// Markup names accepted in RenderConfig.Markup.
const (
	MarkupHTML = "html"
	MarkupText = "text"
)

// DefaultConfig provides sane defaults if edugestor.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			Markup: MarkupHTML,
		},
		Paths: PathsConfig{
			UnitsDir:     "units",
			QuestionsDir: "questions",
			RendersDir:   "renders",
		},
	}
}

// WorkspaceSpec describes where a workspace is created.
type WorkspaceSpec struct {
	Root string
}
