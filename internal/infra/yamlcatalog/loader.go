package yamlcatalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/yamlvalidate"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	unitsDir string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{unitsDir: "units"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithUnitsDir(dir string) Option {
	return func(l *Loader) { l.unitsDir = dir }
}

var _ ports.CatalogLoader = (*Loader)(nil)

func (l *Loader) LoadCatalog(path string) (domain.Catalog, error) {
	yc, err := readCatalog(path)
	if err != nil {
		return domain.Catalog{}, err
	}

	if errs := yamlvalidate.Struct(yc); len(errs) > 0 {
		return domain.Catalog{}, invalid(path, strings.Join(errs, "; "))
	}

	cat := mapCatalog(path, yc)
	if err := validateCatalog(cat, path); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}

func (l *Loader) ListCatalogs(root string) ([]domain.CatalogRef, error) {
	dir := filepath.Join(root, l.unitsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlcatalog.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.CatalogRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		p := filepath.Join(dir, name)
		n, _ := readCatalogName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(name, filepath.Ext(name))
		}

		refs = append(refs, domain.CatalogRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// LoadAll merges every catalog under the units dir. Files are validated one by one and
// the merged snapshot is validated again so cross-file references and duplicates surface.
func (l *Loader) LoadAll(root string) (domain.Catalog, error) {
	refs, err := l.ListCatalogs(root)
	if err != nil {
		return domain.Catalog{}, err
	}

	var out domain.Catalog
	for _, ref := range refs {
		yc, err := readCatalog(ref.Path)
		if err != nil {
			return domain.Catalog{}, err
		}
		if errs := yamlvalidate.Struct(yc); len(errs) > 0 {
			return domain.Catalog{}, invalid(ref.Path, strings.Join(errs, "; "))
		}
		out = out.Merge(mapCatalog(ref.Path, yc))
	}

	if err := validateCatalog(out, filepath.Join(root, l.unitsDir)); err != nil {
		return domain.Catalog{}, err
	}
	return out, nil
}

func readCatalog(path string) (yamlCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return yamlCatalog{}, &domain.OpError{
			Op:   "yamlcatalog.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yc yamlCatalog
	if err := yaml.Unmarshal(b, &yc); err != nil {
		return yamlCatalog{}, &domain.OpError{
			Op:   "yamlcatalog.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return yc, nil
}

func readCatalogName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlCatalog struct {
	Name      string         `yaml:"name"`
	Units     []yamlUnit     `yaml:"units" validate:"dive"`
	Relations []yamlRelation `yaml:"relations" validate:"dive"`
}

type yamlUnit struct {
	ID          string `yaml:"id" validate:"notblank"`
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	Category    string `yaml:"category" validate:"notblank"`
	Description string `yaml:"description"`

	Base         bool     `yaml:"base"`
	BaseUnit     string   `yaml:"base_unit"`
	FactorToBase *float64 `yaml:"factor_to_base" validate:"omitempty,gt=0"`
}

type yamlRelation struct {
	From        string  `yaml:"from" validate:"notblank"`
	To          string  `yaml:"to" validate:"notblank,nefield=From"`
	Factor      float64 `yaml:"factor" validate:"gt=0"`
	Formula     string  `yaml:"formula"`
	Description string  `yaml:"description"`
}

func mapCatalog(path string, yc yamlCatalog) domain.Catalog {
	name := strings.TrimSpace(yc.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cat := domain.Catalog{
		Name:      name,
		Units:     make([]domain.Unit, 0, len(yc.Units)),
		Relations: make([]domain.ConversionRelation, 0, len(yc.Relations)),
	}

	for _, u := range yc.Units {
		unit := domain.Unit{
			ID:          strings.TrimSpace(u.ID),
			Name:        u.Name,
			Symbol:      u.Symbol,
			Category:    strings.TrimSpace(u.Category),
			Description: u.Description,
			IsBaseUnit:  u.Base,
			BaseUnitID:  strings.TrimSpace(u.BaseUnit),
		}
		if u.FactorToBase != nil {
			f := *u.FactorToBase
			unit.ConversionFactorToBase = &f
		}
		if unit.Symbol == "" {
			unit.Symbol = unit.ID
		}
		cat.Units = append(cat.Units, unit)
	}

	for _, r := range yc.Relations {
		cat.Relations = append(cat.Relations, domain.ConversionRelation{
			FromUnit:    strings.TrimSpace(r.From),
			ToUnit:      strings.TrimSpace(r.To),
			Factor:      r.Factor,
			Formula:     strings.TrimSpace(r.Formula),
			Description: r.Description,
		})
	}

	return cat
}

func validateCatalog(cat domain.Catalog, path string) error {
	err := cat.Validate()
	if err == nil {
		return nil
	}
	var oe *domain.OpError
	if errors.As(err, &oe) {
		err = oe.Err
	}
	return &domain.OpError{
		Op:   "yamlcatalog.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  err,
	}
}

func invalid(path, msg string) error {
	return &domain.OpError{
		Op:   "yamlcatalog.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrInvalidConfig),
	}
}
