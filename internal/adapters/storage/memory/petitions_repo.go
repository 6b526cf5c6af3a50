package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/petitions"
)

type petitionRepo struct {
	db *DB
}

func NewPetitionRepo(db *DB) petitions.Repository {
	return &petitionRepo{db: db}
}

func (r *petitionRepo) Create(ctx context.Context, p petitions.Petition) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("petition id required")
	}
	if _, ok := r.db.animals[p.AnimalID]; !ok {
		return animals.ErrNotFound
	}
	for _, existing := range r.db.petitions {
		if existing.UserID == p.UserID && existing.AnimalID == p.AnimalID {
			return petitions.ErrDuplicate
		}
	}
	p.Animal = petitions.AnimalSummary{}
	r.db.petitions[p.ID] = p
	return nil
}

func (r *petitionRepo) GetByID(ctx context.Context, id string) (petitions.Petition, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.petitions[id]
	if !ok {
		return petitions.Petition{}, petitions.ErrNotFound
	}
	return withSummary(p, r.db.animals), nil
}

func (r *petitionRepo) DeletePending(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.petitions[id]
	if !ok {
		return petitions.ErrNotFound
	}
	if p.Status != petitions.StatusPending {
		return petitions.ErrAlreadyProcessed
	}
	delete(r.db.petitions, id)
	return nil
}

func (r *petitionRepo) List(ctx context.Context, q petitions.ListQuery) ([]petitions.Petition, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]petitions.Petition, 0)
	for _, p := range r.db.petitions {
		p = withSummary(p, r.db.animals)

		if q.UserID != "" && p.UserID != q.UserID {
			continue
		}
		if q.CompanyID != "" && p.Animal.OwnerID != q.CompanyID {
			continue
		}
		if q.AnimalID != "" && p.AnimalID != q.AnimalID {
			continue
		}
		if len(q.Statuses) > 0 && !containsPetitionStatus(q.Statuses, p.Status) {
			continue
		}
		out = append(out, p)
	}

	sortPetitions(out, q.Order)
	return out, nil
}

func (r *petitionRepo) BeginStatusChange(ctx context.Context) (petitions.StatusTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	return &statusTx{
		db:        r.db,
		petitions: make(map[string]petitions.Petition),
		animals:   make(map[string]animals.Animal),
	}, nil
}

// statusTx mantiene el lock del DB y acumula escrituras hasta Commit.
type statusTx struct {
	db        *DB
	petitions map[string]petitions.Petition
	animals   map[string]animals.Animal
	done      bool
}

func (t *statusTx) GetPetition(ctx context.Context, id string) (petitions.Petition, error) {
	if p, ok := t.petitions[id]; ok {
		return p, nil
	}
	p, ok := t.db.petitions[id]
	if !ok {
		return petitions.Petition{}, petitions.ErrNotFound
	}
	return p, nil
}

func (t *statusTx) GetAnimal(ctx context.Context, id string) (animals.Animal, error) {
	if a, ok := t.animals[id]; ok {
		return a, nil
	}
	a, ok := t.db.animals[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (t *statusTx) UpdatePetition(ctx context.Context, p petitions.Petition) error {
	if _, err := t.GetPetition(ctx, p.ID); err != nil {
		return err
	}
	p.Animal = petitions.AnimalSummary{}
	t.petitions[p.ID] = p
	return nil
}

func (t *statusTx) UpdateAnimalStatus(ctx context.Context, animalID string, status animals.Status) error {
	a, err := t.GetAnimal(ctx, animalID)
	if err != nil {
		return err
	}
	a.Status = status
	t.animals[animalID] = a
	return nil
}

func (t *statusTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	for id, p := range t.petitions {
		t.db.petitions[id] = p
	}
	for id, a := range t.animals {
		t.db.animals[id] = a
	}
	t.done = true
	t.db.mu.Unlock()
	return nil
}

func (t *statusTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.mu.Unlock()
	return nil
}

func withSummary(p petitions.Petition, byID map[string]animals.Animal) petitions.Petition {
	if a, ok := byID[p.AnimalID]; ok {
		p.Animal = petitions.AnimalSummary{Name: a.Name, BirthDate: a.BirthDate, OwnerID: a.OwnerID}
	}
	return p
}

func sortPetitions(items []petitions.Petition, o petitions.Order) {
	sort.SliceStable(items, func(i, j int) bool {
		c := comparePetitions(items[i], items[j], o.Field)
		if c == 0 {
			// Desempate determinístico por fecha y luego ID.
			c = compareTime(items[i], items[j])
			if c == 0 {
				c = strings.Compare(items[i].ID, items[j].ID)
			}
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	})
}

func comparePetitions(a, b petitions.Petition, field petitions.OrderField) int {
	switch field {
	case petitions.OrderAnimalName:
		return strings.Compare(strings.ToLower(a.Animal.Name), strings.ToLower(b.Animal.Name))
	case petitions.OrderAnimalBirthDate:
		return a.Animal.BirthDate.Compare(b.Animal.BirthDate)
	default:
		return compareTime(a, b)
	}
}

func compareTime(a, b petitions.Petition) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func containsPetitionStatus(in []petitions.Status, s petitions.Status) bool {
	for _, v := range in {
		if v == s {
			return true
		}
	}
	return false
}
