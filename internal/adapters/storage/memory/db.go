package memory

import (
	"sync"

	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/decisions"
	"adopta-api/internal/domain/petitions"
)

// DB es el estado in-memory compartido por todos los repos.
// Un único mutex permite que la transacción de status cubra
// petición + animal a la vez.
type DB struct {
	mu        sync.RWMutex
	animals   map[string]animals.Animal
	decisions map[string]decisions.Decision
	petitions map[string]petitions.Petition
}

func NewDB() *DB {
	return &DB{
		animals:   make(map[string]animals.Animal),
		decisions: make(map[string]decisions.Decision),
		petitions: make(map[string]petitions.Petition),
	}
}
