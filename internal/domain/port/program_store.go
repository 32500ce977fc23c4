package port

import "vision-inspect/internal/domain/entity"

// ProgramStore интерфейс хранилища программ инспекции.
type ProgramStore interface {
	// Load возвращает программу по имени.
	Load(name string) (*entity.Program, error)
}
