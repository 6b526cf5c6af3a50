package decisions

import "context"

type Repository interface {
	// Upsert reemplaza la decisión previa del par (user, animal) si existe;
	// devuelve la fila efectivamente guardada.
	Upsert(ctx context.Context, d Decision) (Decision, error)

	DeleteByKind(ctx context.Context, userID string, kind Kind) (int, error)
	ListByUser(ctx context.Context, userID string) ([]Decision, error)
	ListAnimalIDs(ctx context.Context, userID string) ([]string, error)
}
