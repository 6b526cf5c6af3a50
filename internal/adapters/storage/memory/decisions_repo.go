package memory

import (
	"context"
	"sort"

	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/decisions"
)

type decisionRepo struct {
	db *DB
}

func NewDecisionRepo(db *DB) decisions.Repository {
	return &decisionRepo{db: db}
}

func (r *decisionRepo) Upsert(ctx context.Context, d decisions.Decision) (decisions.Decision, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.animals[d.AnimalID]; !ok {
		return decisions.Decision{}, animals.ErrNotFound
	}

	for id, existing := range r.db.decisions {
		if existing.UserID == d.UserID && existing.AnimalID == d.AnimalID {
			existing.Kind = d.Kind
			existing.DecidedAt = d.DecidedAt
			r.db.decisions[id] = existing
			return existing, nil
		}
	}

	r.db.decisions[d.ID] = d
	return d, nil
}

func (r *decisionRepo) DeleteByKind(ctx context.Context, userID string, kind decisions.Kind) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := 0
	for id, d := range r.db.decisions {
		if d.UserID == userID && d.Kind == kind {
			delete(r.db.decisions, id)
			n++
		}
	}
	return n, nil
}

func (r *decisionRepo) ListByUser(ctx context.Context, userID string) ([]decisions.Decision, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]decisions.Decision, 0)
	for _, d := range r.db.decisions {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DecidedAt.After(out[j].DecidedAt)
	})
	return out, nil
}

func (r *decisionRepo) ListAnimalIDs(ctx context.Context, userID string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]string, 0)
	for _, d := range r.db.decisions {
		if d.UserID == userID {
			out = append(out, d.AnimalID)
		}
	}
	sort.Strings(out)
	return out, nil
}
