// Package memregistry is a session-owned, in-memory unit registry.
package memregistry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ports"
)

type Registry struct {
	mu        sync.RWMutex
	units     []domain.Unit
	relations []domain.ConversionRelation
	newID     func() string
}

type Option func(*Registry)

// WithIDGenerator overrides the id assigned to units saved without one.
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromCatalog seeds a registry with a copy of cat.
func FromCatalog(cat domain.Catalog, opts ...Option) *Registry {
	r := New(opts...)
	r.units = cloneUnits(cat.Units)
	r.relations = append([]domain.ConversionRelation(nil), cat.Relations...)
	return r
}

var _ ports.UnitRepository = (*Registry)(nil)

// SaveUnit inserts or replaces a unit by id. Units without an id get a generated one.
// Replacing a unit that derived units point at must keep it a base unit of their category.
func (r *Registry) SaveUnit(u domain.Unit) (domain.Unit, error) {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		u.ID = r.newID()
	}
	if err := domain.ValidateUnit(u); err != nil {
		return domain.Unit{}, invalid("memregistry.save_unit", err)
	}
	u = cloneUnit(u)

	r.mu.Lock()
	defer r.mu.Unlock()

	if u.IsDerived() {
		base, ok := domain.FindUnit(r.units, u.BaseUnitID)
		switch {
		case !ok:
			return domain.Unit{}, &domain.OpError{
				Op:   "memregistry.save_unit",
				Kind: domain.KindUnitNotFound,
				Err:  fmt.Errorf("base unit %q: %w", u.BaseUnitID, domain.ErrUnitNotFound),
			}
		case !base.IsBaseUnit:
			return domain.Unit{}, invalid("memregistry.save_unit", fmt.Errorf("unit %q is not a base unit", base.ID))
		case base.Category != u.Category:
			return domain.Unit{}, invalid("memregistry.save_unit",
				fmt.Errorf("base unit %q is in category %q, not %q", base.ID, base.Category, u.Category))
		}
	}

	for _, d := range r.units {
		if d.BaseUnitID != u.ID || d.ID == u.ID {
			continue
		}
		if !u.IsBaseUnit || d.Category != u.Category {
			return domain.Unit{}, &domain.OpError{
				Op:   "memregistry.save_unit",
				Kind: domain.KindUnitInUse,
				Err:  fmt.Errorf("unit %q is the base of %q (%s): %w", u.ID, d.ID, d.Category, domain.ErrUnitInUse),
			}
		}
	}

	for i := range r.units {
		if r.units[i].ID == u.ID {
			r.units[i] = u
			return cloneUnit(u), nil
		}
	}
	r.units = append(r.units, u)
	return cloneUnit(u), nil
}

// DeleteUnit removes a unit. It fails while a relation or a derived unit still references it.
func (r *Registry) DeleteUnit(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, u := range r.units {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("memregistry.delete_unit", id)
	}

	if refs := domain.ReferencingRelations(r.relations, id); len(refs) > 0 {
		return &domain.OpError{
			Op:   "memregistry.delete_unit",
			Kind: domain.KindUnitInUse,
			Err:  fmt.Errorf("unit %q has %d relation(s): %w", id, len(refs), domain.ErrUnitInUse),
		}
	}
	for _, u := range r.units {
		if u.BaseUnitID == id {
			return &domain.OpError{
				Op:   "memregistry.delete_unit",
				Kind: domain.KindUnitInUse,
				Err:  fmt.Errorf("unit %q is the base of %q: %w", id, u.ID, domain.ErrUnitInUse),
			}
		}
	}

	r.units = append(r.units[:idx:idx], r.units[idx+1:]...)
	return nil
}

// SaveRelation inserts a relation or replaces the one for the same ordered pair.
func (r *Registry) SaveRelation(rel domain.ConversionRelation) error {
	if err := domain.ValidateRelation(rel); err != nil {
		return invalid("memregistry.save_relation", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, end := range []string{rel.FromUnit, rel.ToUnit} {
		if _, ok := domain.FindUnit(r.units, end); !ok {
			return notFound("memregistry.save_relation", end)
		}
	}

	for i := range r.relations {
		if r.relations[i].FromUnit == rel.FromUnit && r.relations[i].ToUnit == rel.ToUnit {
			r.relations[i] = rel
			return nil
		}
	}
	r.relations = append(r.relations, rel)
	return nil
}

func (r *Registry) DeleteRelation(from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rel := range r.relations {
		if rel.FromUnit == from && rel.ToUnit == to {
			r.relations = append(r.relations[:i:i], r.relations[i+1:]...)
			return nil
		}
	}
	return &domain.OpError{
		Op:   "memregistry.delete_relation",
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("relation %s -> %s: %w", from, to, domain.ErrNotFound),
	}
}

// Catalog returns a deep copy of the current units and relations.
func (r *Registry) Catalog() domain.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.Catalog{
		Units:     cloneUnits(r.units),
		Relations: append([]domain.ConversionRelation(nil), r.relations...),
	}
}

func cloneUnit(u domain.Unit) domain.Unit {
	if u.ConversionFactorToBase != nil {
		f := *u.ConversionFactorToBase
		u.ConversionFactorToBase = &f
	}
	return u
}

func cloneUnits(in []domain.Unit) []domain.Unit {
	if in == nil {
		return nil
	}
	out := make([]domain.Unit, len(in))
	for i, u := range in {
		out[i] = cloneUnit(u)
	}
	return out
}

func invalid(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err),
	}
}

func notFound(op, id string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindUnitNotFound,
		Err:  fmt.Errorf("unit %q: %w", id, domain.ErrUnitNotFound),
	}
}
