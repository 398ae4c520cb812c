package ports

import "github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"

// QuestionLoader loads question templates from a source (e.g., filesystem).
type QuestionLoader interface {
	LoadQuestion(path string) (domain.Question, error)
	ListQuestions(root string) ([]domain.QuestionRef, error)
}
