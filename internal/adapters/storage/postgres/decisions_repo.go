package postgres

import (
	"context"
	"database/sql"

	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/decisions"
)

type DecisionsRepo struct {
	db *sql.DB
}

func NewDecisionsRepo(db *sql.DB) *DecisionsRepo {
	return &DecisionsRepo{db: db}
}

func (r *DecisionsRepo) Upsert(ctx context.Context, d decisions.Decision) (decisions.Decision, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO decisions (id, user_id, animal_id, kind, decided_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, animal_id) DO UPDATE
		SET kind = EXCLUDED.kind, decided_at = EXCLUDED.decided_at
		RETURNING id, user_id, animal_id, kind, decided_at
	`, d.ID, d.UserID, d.AnimalID, string(d.Kind), d.DecidedAt)

	out, err := scanDecision(row)
	if err != nil {
		return decisions.Decision{}, mapWriteErr(err, nil, animals.ErrNotFound)
	}
	return out, nil
}

func (r *DecisionsRepo) DeleteByKind(ctx context.Context, userID string, kind decisions.Kind) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM decisions WHERE user_id = $1 AND kind = $2
	`, userID, string(kind))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *DecisionsRepo) ListByUser(ctx context.Context, userID string) ([]decisions.Decision, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, animal_id, kind, decided_at
		FROM decisions
		WHERE user_id = $1
		ORDER BY decided_at DESC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]decisions.Decision, 0)
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DecisionsRepo) ListAnimalIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT animal_id FROM decisions WHERE user_id = $1 ORDER BY animal_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanDecision(s scanner) (decisions.Decision, error) {
	var (
		d    decisions.Decision
		kind string
	)
	if err := s.Scan(&d.ID, &d.UserID, &d.AnimalID, &kind, &d.DecidedAt); err != nil {
		return decisions.Decision{}, err
	}
	d.Kind = decisions.Kind(kind)
	return d, nil
}
