package ports

import "github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
