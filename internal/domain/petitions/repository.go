package petitions

import (
	"context"

	"adopta-api/internal/domain/animals"
)

type Repository interface {
	// Create falla con ErrDuplicate si ya existe una para (user, animal).
	Create(ctx context.Context, p Petition) error
	GetByID(ctx context.Context, id string) (Petition, error)

	// DeletePending borra solo si sigue PENDING; si no, ErrAlreadyProcessed.
	DeletePending(ctx context.Context, id string) error

	List(ctx context.Context, q ListQuery) ([]Petition, error)

	// BeginStatusChange abre la transacción que cubre petición + animal.
	BeginStatusChange(ctx context.Context) (StatusTx, error)
}

// StatusTx bloquea las filas leídas hasta Commit/Rollback.
// Rollback después de Commit es no-op.
type StatusTx interface {
	GetPetition(ctx context.Context, id string) (Petition, error)
	GetAnimal(ctx context.Context, id string) (animals.Animal, error)
	UpdatePetition(ctx context.Context, p Petition) error
	UpdateAnimalStatus(ctx context.Context, animalID string, status animals.Status) error
	Commit() error
	Rollback() error
}
