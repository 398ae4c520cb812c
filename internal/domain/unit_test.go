package domain

import (
	"errors"
	"strings"
	"testing"
)

func f64(v float64) *float64 { return &v }

func lengthCatalog() Catalog {
	return Catalog{
		Name: "length",
		Units: []Unit{
			{ID: "m", Name: "metre", Symbol: "m", Category: "Length", IsBaseUnit: true},
			{ID: "cm", Name: "centimetre", Symbol: "cm", Category: "Length", BaseUnitID: "m", ConversionFactorToBase: f64(0.01)},
			{ID: "km", Name: "kilometre", Symbol: "km", Category: "Length", BaseUnitID: "m", ConversionFactorToBase: f64(1000)},
		},
		Relations: []ConversionRelation{
			{FromUnit: "km", ToUnit: "m", Factor: 1000},
		},
	}
}

func TestCatalogValidate_OK(t *testing.T) {
	if err := lengthCatalog().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCatalogValidate_ReportsAllViolations(t *testing.T) {
	c := lengthCatalog()
	c.Units = append(c.Units,
		Unit{ID: "s", Category: "Time", IsBaseUnit: true, ConversionFactorToBase: f64(1)},
		Unit{ID: "in", Category: "Length", BaseUnitID: "ft", ConversionFactorToBase: f64(0.0254)},
		Unit{ID: "m", Category: "Length", IsBaseUnit: true},
	)
	c.Relations = append(c.Relations,
		ConversionRelation{FromUnit: "cm", ToUnit: "cm", Factor: 1},
		ConversionRelation{FromUnit: "km", ToUnit: "m", Factor: 1000},
		ConversionRelation{FromUnit: "m", ToUnit: "yd", Factor: 1.09},
		ConversionRelation{FromUnit: "m", ToUnit: "cm", Factor: 0},
	)

	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !IsKind(err, KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{
		"base unit cannot declare",
		`base unit "ft"`,
		`duplicate unit id "m"`,
		"endpoints must differ",
		"duplicate relation km -> m",
		`unit "yd"`,
		"factor must be > 0",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %v", want, msg)
		}
	}
	if !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("expected ErrUnitNotFound in chain")
	}
}

func TestCatalogValidate_BaseInOtherCategory(t *testing.T) {
	c := Catalog{Units: []Unit{
		{ID: "s", Category: "Time", IsBaseUnit: true},
		{ID: "cm", Category: "Length", BaseUnitID: "s", ConversionFactorToBase: f64(0.01)},
	}}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), `is in category "Time"`) {
		t.Fatalf("expected category mismatch, got %v", err)
	}
}

func TestCatalogValidate_BaseMustBeBase(t *testing.T) {
	c := Catalog{Units: []Unit{
		{ID: "m", Category: "Length", IsBaseUnit: true},
		{ID: "cm", Category: "Length", BaseUnitID: "m", ConversionFactorToBase: f64(0.01)},
		{ID: "mm", Category: "Length", BaseUnitID: "cm", ConversionFactorToBase: f64(0.1)},
	}}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), `unit "cm" is not a base unit`) {
		t.Fatalf("expected non-base error, got %v", err)
	}
}

func TestValidateUnit(t *testing.T) {
	cases := []struct {
		name string
		unit Unit
		ok   bool
	}{
		{"base", Unit{ID: "m", Category: "Length", IsBaseUnit: true}, true},
		{"derived", Unit{ID: "cm", Category: "Length", BaseUnitID: "m", ConversionFactorToBase: f64(0.01)}, true},
		{"missing id", Unit{Category: "Length", IsBaseUnit: true}, false},
		{"missing category", Unit{ID: "m", IsBaseUnit: true}, false},
		{"derived without factor", Unit{ID: "cm", Category: "Length", BaseUnitID: "m"}, false},
		{"derived without base", Unit{ID: "cm", Category: "Length", ConversionFactorToBase: f64(0.01)}, false},
		{"negative factor", Unit{ID: "cm", Category: "Length", BaseUnitID: "m", ConversionFactorToBase: f64(-1)}, false},
		{"own base", Unit{ID: "cm", Category: "Length", BaseUnitID: "cm", ConversionFactorToBase: f64(1)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateUnit(c.unit)
			if (err == nil) != c.ok {
				t.Fatalf("ValidateUnit ok=%v, err=%v", c.ok, err)
			}
		})
	}
}

func TestFindHelpers(t *testing.T) {
	c := lengthCatalog()

	if u, ok := FindUnit(c.Units, "cm"); !ok || u.Name != "centimetre" {
		t.Fatalf("expected cm, got %+v ok=%v", u, ok)
	}
	if _, ok := FindUnit(c.Units, "yd"); ok {
		t.Fatal("expected yd to be missing")
	}
	if r, ok := FindRelation(c.Relations, "km", "m"); !ok || r.Factor != 1000 {
		t.Fatalf("expected km->m relation")
	}
	if _, ok := FindRelation(c.Relations, "m", "km"); ok {
		t.Fatal("relations are ordered pairs")
	}
	if refs := ReferencingRelations(c.Relations, "m"); len(refs) != 1 {
		t.Fatalf("expected one referencing relation, got %d", len(refs))
	}
}

func TestUnitFactor(t *testing.T) {
	if _, ok := (Unit{ID: "m", IsBaseUnit: true}).Factor(); ok {
		t.Fatal("base unit has no factor")
	}
	if f, ok := (Unit{ConversionFactorToBase: f64(0.01)}).Factor(); !ok || f != 0.01 {
		t.Fatalf("expected 0.01, got %v", f)
	}
	if _, ok := (Unit{ConversionFactorToBase: f64(0)}).Factor(); ok {
		t.Fatal("zero factor is unusable")
	}
}

func TestCatalogMergeAndCategories(t *testing.T) {
	time := Catalog{Name: "time", Units: []Unit{{ID: "s", Category: "Time", IsBaseUnit: true}}}
	merged := lengthCatalog().Merge(time)

	if merged.Name != "length" {
		t.Fatalf("expected first name kept, got %q", merged.Name)
	}
	if len(merged.Units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(merged.Units))
	}
	cats := merged.Categories()
	if len(cats) != 2 || cats[0] != "Length" || cats[1] != "Time" {
		t.Fatalf("unexpected categories %v", cats)
	}
}
