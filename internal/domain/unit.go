package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a measurement unit. A unit is either the base unit of its category or
// a derived unit expressed through a multiplicative factor to that base.
type Unit struct {
	ID          string
	Name        string
	Symbol      string
	Category    string
	Description string

	IsBaseUnit bool

	// BaseUnitID and ConversionFactorToBase are set for derived units only.
	// 1 <this unit> = ConversionFactorToBase <base unit>.
	BaseUnitID             string
	ConversionFactorToBase *float64
}

// Factor returns the conversion factor to the base unit and whether it is usable.
func (u Unit) Factor() (float64, bool) {
	if u.ConversionFactorToBase == nil || *u.ConversionFactorToBase <= 0 {
		return 0, false
	}
	return *u.ConversionFactorToBase, true
}

// IsDerived reports whether u is defined relative to a base unit.
func (u Unit) IsDerived() bool {
	return !u.IsBaseUnit && u.BaseUnitID != "" && u.ConversionFactorToBase != nil
}

// ConversionRelation is an explicit rule converting FromUnit into ToUnit.
// When Formula is set it takes precedence over Factor; Factor remains the fallback.
type ConversionRelation struct {
	FromUnit    string
	ToUnit      string
	Factor      float64
	Formula     string
	Description string
}

// Catalog is a snapshot of units and relations handed to the conversion engine.
type Catalog struct {
	Name      string
	Units     []Unit
	Relations []ConversionRelation
}

// CatalogRef is a lightweight reference to a catalog file on disk.
type CatalogRef struct {
	Name string
	Path string
}

// FindUnit returns the unit with the given id.
func FindUnit(units []Unit, id string) (Unit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// FindRelation returns the first relation matching the ordered pair.
func FindRelation(relations []ConversionRelation, from, to string) (ConversionRelation, bool) {
	for _, r := range relations {
		if r.FromUnit == from && r.ToUnit == to {
			return r, true
		}
	}
	return ConversionRelation{}, false
}

// ReferencingRelations returns the relations that use unitID as an endpoint.
func ReferencingRelations(relations []ConversionRelation, unitID string) []ConversionRelation {
	var out []ConversionRelation
	for _, r := range relations {
		if r.FromUnit == unitID || r.ToUnit == unitID {
			out = append(out, r)
		}
	}
	return out
}

// Merge appends other into c. Later duplicates are kept; Validate reports them.
func (c Catalog) Merge(other Catalog) Catalog {
	out := Catalog{
		Name:      c.Name,
		Units:     make([]Unit, 0, len(c.Units)+len(other.Units)),
		Relations: make([]ConversionRelation, 0, len(c.Relations)+len(other.Relations)),
	}
	if out.Name == "" {
		out.Name = other.Name
	}
	out.Units = append(append(out.Units, c.Units...), other.Units...)
	out.Relations = append(append(out.Relations, c.Relations...), other.Relations...)
	return out
}

// Categories returns the distinct categories in declaration order.
func (c Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range c.Units {
		if seen[u.Category] {
			continue
		}
		seen[u.Category] = true
		out = append(out, u.Category)
	}
	return out
}

// Validate checks every unit and relation invariant and reports all violations at once.
func (c Catalog) Validate() error {
	var errs []error

	byID := make(map[string]Unit, len(c.Units))
	for i, u := range c.Units {
		if err := ValidateUnit(u); err != nil {
			errs = append(errs, fmt.Errorf("units[%d]: %w", i, err))
		}
		if _, dup := byID[u.ID]; dup {
			errs = append(errs, fmt.Errorf("units[%d]: duplicate unit id %q", i, u.ID))
			continue
		}
		byID[u.ID] = u
	}

	for i, u := range c.Units {
		if !u.IsDerived() {
			continue
		}
		base, ok := byID[u.BaseUnitID]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("units[%d]: base unit %q: %w", i, u.BaseUnitID, ErrUnitNotFound))
		case base.Category != u.Category:
			errs = append(errs, fmt.Errorf("units[%d]: base unit %q is in category %q, not %q", i, base.ID, base.Category, u.Category))
		case !base.IsBaseUnit:
			errs = append(errs, fmt.Errorf("units[%d]: unit %q is not a base unit", i, base.ID))
		}
	}

	pairs := map[[2]string]bool{}
	for i, r := range c.Relations {
		if err := ValidateRelation(r); err != nil {
			errs = append(errs, fmt.Errorf("relations[%d]: %w", i, err))
		}
		for _, end := range []string{r.FromUnit, r.ToUnit} {
			if _, ok := byID[end]; !ok && end != "" {
				errs = append(errs, fmt.Errorf("relations[%d]: unit %q: %w", i, end, ErrUnitNotFound))
			}
		}
		key := [2]string{r.FromUnit, r.ToUnit}
		if pairs[key] {
			errs = append(errs, fmt.Errorf("relations[%d]: duplicate relation %s -> %s", i, r.FromUnit, r.ToUnit))
		}
		pairs[key] = true
	}

	if len(errs) == 0 {
		return nil
	}
	return &OpError{
		Op:   "catalog.validate",
		Kind: KindInvalidConfig,
		Err:  errors.Join(errs...),
	}
}

// ValidateUnit checks the invariants of a single unit in isolation.
func ValidateUnit(u Unit) error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("unit id is required")
	}
	if strings.TrimSpace(u.Category) == "" {
		return fmt.Errorf("unit %q: category is required", u.ID)
	}
	hasBase := u.BaseUnitID != ""
	hasFactor := u.ConversionFactorToBase != nil
	switch {
	case u.IsBaseUnit && (hasBase || hasFactor):
		return fmt.Errorf("unit %q: a base unit cannot declare base_unit or factor_to_base", u.ID)
	case !u.IsBaseUnit && (!hasBase || !hasFactor):
		return fmt.Errorf("unit %q: a derived unit needs both base_unit and factor_to_base", u.ID)
	}
	if hasFactor && *u.ConversionFactorToBase <= 0 {
		return fmt.Errorf("unit %q: factor_to_base must be > 0", u.ID)
	}
	if u.BaseUnitID == u.ID && hasBase {
		return fmt.Errorf("unit %q: cannot be its own base", u.ID)
	}
	return nil
}

// ValidateRelation checks the invariants of a single relation in isolation.
func ValidateRelation(r ConversionRelation) error {
	if r.FromUnit == "" || r.ToUnit == "" {
		return errors.New("relation endpoints are required")
	}
	if r.FromUnit == r.ToUnit {
		return fmt.Errorf("relation %s -> %s: endpoints must differ", r.FromUnit, r.ToUnit)
	}
	if r.Factor <= 0 {
		return fmt.Errorf("relation %s -> %s: factor must be > 0", r.FromUnit, r.ToUnit)
	}
	return nil
}
