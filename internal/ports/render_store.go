package ports

import "github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"

// RenderStore persists generated questions so a render can be reproduced or shared.
type RenderStore interface {
	SaveQuestion(q domain.GeneratedQuestion) (id string, err error)
}
