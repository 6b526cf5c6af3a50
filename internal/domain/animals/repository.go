package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)

	// Update persiste los campos editables; nunca toca Status.
	Update(ctx context.Context, a Animal) error

	// UpdateStatus es compare-and-set: falla con ErrStatusChanged si el
	// status actual no es from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Animal, error)
}
