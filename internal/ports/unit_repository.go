package ports

import "github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"

// UnitRepository is a mutable unit registry. Catalog returns a snapshot safe to hand
// to the resolver while the registry keeps changing.
type UnitRepository interface {
	SaveUnit(u domain.Unit) (domain.Unit, error)
	DeleteUnit(id string) error
	SaveRelation(r domain.ConversionRelation) error
	DeleteRelation(from, to string) error
	Catalog() domain.Catalog
}
