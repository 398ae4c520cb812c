package ports

import "github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"

// CatalogLoader loads unit catalogs from a source (e.g., filesystem).
type CatalogLoader interface {
	LoadCatalog(path string) (domain.Catalog, error)
	ListCatalogs(root string) ([]domain.CatalogRef, error)

	// LoadAll merges every catalog under root into a single snapshot.
	LoadAll(root string) (domain.Catalog, error)
}
