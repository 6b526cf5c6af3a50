package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"adopta-api/internal/domain/animals"
)

type animalRepo struct {
	db *DB
}

func NewAnimalRepo(db *DB) animals.Repository {
	return &animalRepo{db: db}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.db.animals[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.db.animals[a.ID] = a
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	a, ok := r.db.animals[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, ok := r.db.animals[a.ID]
	if !ok {
		return animals.ErrNotFound
	}
	// El status solo cambia vía UpdateStatus / transacción de peticiones.
	a.Status = current.Status
	a.OwnerID = current.OwnerID
	a.CreatedAt = current.CreatedAt
	r.db.animals[a.ID] = a
	return nil
}

func (r *animalRepo) UpdateStatus(ctx context.Context, id string, from, to animals.Status) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	a, ok := r.db.animals[id]
	if !ok {
		return animals.ErrNotFound
	}
	if a.Status != from {
		return animals.ErrStatusChanged
	}
	a.Status = to
	r.db.animals[id] = a
	return nil
}

// Delete replica el ON DELETE CASCADE de Postgres.
func (r *animalRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.animals[id]; !ok {
		return animals.ErrNotFound
	}
	delete(r.db.animals, id)

	for pid, p := range r.db.petitions {
		if p.AnimalID == id {
			delete(r.db.petitions, pid)
		}
	}
	for did, d := range r.db.decisions {
		if d.AnimalID == id {
			delete(r.db.decisions, did)
		}
	}
	return nil
}

func (r *animalRepo) List(ctx context.Context, f animals.ListFilter) ([]animals.Animal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	excluded := make(map[string]struct{}, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	out := make([]animals.Animal, 0)
	for _, a := range r.db.animals {
		if !matchAnimal(a, f, excluded) {
			continue
		}
		out = append(out, a)
	}

	// Más nuevos primero; ID como desempate para orden estable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func matchAnimal(a animals.Animal, f animals.ListFilter, excluded map[string]struct{}) bool {
	if f.OwnerID != "" && a.OwnerID != f.OwnerID {
		return false
	}
	if f.OwnerProvince != "" && a.OwnerProvince != f.OwnerProvince {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
		return false
	}
	if _, skip := excluded[a.ID]; skip {
		return false
	}
	if f.Species != "" && a.Species != f.Species {
		return false
	}
	if f.Size != "" && a.Size != f.Size {
		return false
	}
	if f.Gender != "" && a.Gender != f.Gender {
		return false
	}
	return true
}

func containsStatus(in []animals.Status, s animals.Status) bool {
	for _, v := range in {
		if v == s {
			return true
		}
	}
	return false
}
