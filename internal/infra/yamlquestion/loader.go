package yamlquestion

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	questionsDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{questionsDir: "questions"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithQuestionsDir(dir string) Option {
	return func(l *Loader) { l.questionsDir = dir }
}

var _ ports.QuestionLoader = (*Loader)(nil)

func (l *Loader) LoadQuestion(path string) (domain.Question, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Question{}, &domain.OpError{
			Op:   "yamlquestion.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLQuestion
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Question{}, &domain.OpError{
			Op:   "yamlquestion.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapQuestion(path, dto)
}

func (l *Loader) ListQuestions(root string) ([]domain.QuestionRef, error) {
	dir := filepath.Join(root, l.questionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlquestion.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.QuestionRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		ref := domain.QuestionRef{ID: stem, Title: stem, Path: p}
		if h, err := readHeader(p); err == nil {
			if strings.TrimSpace(h.ID) != "" {
				ref.ID = strings.TrimSpace(h.ID)
			}
			if strings.TrimSpace(h.Title) != "" {
				ref.Title = strings.TrimSpace(h.Title)
			}
		}
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

// ResolvePath accepts a question path or an id/file stem inside the questions dir.
func (l *Loader) ResolvePath(root, nameOrPath string) (string, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath, nil
	}

	dir := filepath.Join(root, l.questionsDir)
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(dir, nameOrPath+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	if refs, err := l.ListQuestions(root); err == nil {
		for _, r := range refs {
			if r.ID == nameOrPath {
				return r.Path, nil
			}
		}
	}

	return "", &domain.OpError{
		Op:   "yamlquestion.resolve",
		Kind: domain.KindNotFound,
		Path: nameOrPath,
		Err:  domain.ErrNotFound,
	}
}

func readHeader(path string) (YAMLQuestion, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return YAMLQuestion{}, err
	}
	var v struct {
		ID    string `yaml:"id"`
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return YAMLQuestion{}, err
	}
	return YAMLQuestion{ID: v.ID, Title: v.Title}, nil
}
