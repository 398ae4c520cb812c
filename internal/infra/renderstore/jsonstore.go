package renderstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

const defaultRendersDir = "renders"

type JSONStore struct {
	rootDir        string
	rendersDirName string
	writeIndex     bool
	now            func() time.Time
	newID          func() string
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: renders/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithUUID overrides the artifact id generator.
func WithUUID(fn func() string) Option {
	return func(s *JSONStore) { s.newID = fn }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	rendersDir := cfg.Paths.RendersDir
	if strings.TrimSpace(rendersDir) == "" {
		rendersDir = defaultRendersDir
	}

	s := &JSONStore{
		rootDir:        root,
		rendersDirName: rendersDir,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.RenderStore = (*JSONStore)(nil)

// SaveQuestion writes q as renders/<timestamp>_<slug>.json and returns the file stem.
func (s *JSONStore) SaveQuestion(q domain.GeneratedQuestion) (string, error) {
	dir := filepath.Join(s.rootDir, s.rendersDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "renderstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	toSave := q
	if toSave.GeneratedAt.IsZero() {
		toSave.GeneratedAt = s.now()
	}
	toSave.GeneratedAt = toSave.GeneratedAt.UTC()
	if strings.TrimSpace(toSave.ID) == "" {
		toSave.ID = s.newID()
	}

	slugPart := q.QuestionID
	if strings.TrimSpace(slugPart) == "" {
		slugPart = strings.TrimSuffix(filepath.Base(q.QuestionPath), filepath.Ext(q.QuestionPath))
	}
	slug := slugify(slugPart)
	if slug == "" {
		slug = "question"
	}

	stem := fmt.Sprintf("%s_%s", toSave.GeneratedAt.Format("20060102T150405Z"), slug)
	if _, err := os.Stat(filepath.Join(dir, stem+".json")); err == nil {
		stem += "_" + shortID(toSave.ID)
	}
	filename := stem + ".json"
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "renderstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "renderstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "renderstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, stem, filename, toSave)
	}

	return stem, nil
}

// Load reads a stored render by id (file stem) or path.
func (s *JSONStore) Load(idOrPath string) (domain.GeneratedQuestion, []byte, error) {
	path := idOrPath
	if !strings.HasSuffix(path, ".json") {
		path = filepath.Join(s.rootDir, s.rendersDirName, idOrPath+".json")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.GeneratedQuestion{}, nil, &domain.OpError{
			Op:   "renderstore.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var q domain.GeneratedQuestion
	if err := json.Unmarshal(b, &q); err != nil {
		return domain.GeneratedQuestion{}, nil, &domain.OpError{
			Op:   "renderstore.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return q, b, nil
}

func (s *JSONStore) appendIndex(dir, id, filename string, q domain.GeneratedQuestion) error {
	type idx struct {
		ID          string    `json:"id"`
		ArtifactID  string    `json:"artifact_id"`
		File        string    `json:"file"`
		Question    string    `json:"question"`
		Markup      string    `json:"markup"`
		GeneratedAt time.Time `json:"generated_at"`
	}
	line, err := json.Marshal(idx{
		ID:          id,
		ArtifactID:  q.ID,
		File:        filename,
		Question:    q.QuestionID,
		Markup:      q.Markup,
		GeneratedAt: q.GeneratedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
