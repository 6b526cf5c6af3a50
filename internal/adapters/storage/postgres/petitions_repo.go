package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/petitions"
)

const petitionSelect = `
	SELECT p.id, p.animal_id, p.user_id, p.status, p.read, p.created_at, p.updated_at,
	       a.name, a.birth_date, a.owner_id
	FROM petitions p
	JOIN animals a ON a.id = p.animal_id`

var petitionOrderColumns = map[petitions.OrderField]string{
	petitions.OrderCreatedAt:       "p.created_at",
	petitions.OrderAnimalName:      "lower(a.name)",
	petitions.OrderAnimalBirthDate: "a.birth_date",
}

type PetitionsRepo struct {
	db *sql.DB
}

func NewPetitionsRepo(db *sql.DB) *PetitionsRepo {
	return &PetitionsRepo{db: db}
}

func (r *PetitionsRepo) Create(ctx context.Context, p petitions.Petition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO petitions (id, animal_id, user_id, status, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.AnimalID, p.UserID, string(p.Status), p.Read, p.CreatedAt, p.UpdatedAt)
	return mapWriteErr(err, petitions.ErrDuplicate, animals.ErrNotFound)
}

func (r *PetitionsRepo) GetByID(ctx context.Context, id string) (petitions.Petition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return petitions.Petition{}, petitions.ErrNotFound
	}
	return scanPetition(r.db.QueryRowContext(ctx, petitionSelect+` WHERE p.id = $1`, id))
}

func (r *PetitionsRepo) DeletePending(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM petitions WHERE id = $1 AND status = $2
	`, id, string(petitions.StatusPending))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}
	// 0 filas: no existe o ya fue procesada.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return petitions.ErrAlreadyProcessed
}

func (r *PetitionsRepo) List(ctx context.Context, q petitions.ListQuery) ([]petitions.Petition, error) {
	sb := strings.Builder{}
	sb.WriteString(petitionSelect + ` WHERE 1=1`)

	args := make([]any, 0, 4)
	argN := 1
	add := func(cond string, v any) {
		sb.WriteString(fmt.Sprintf(cond, argN))
		args = append(args, v)
		argN++
	}

	if q.UserID != "" {
		add(" AND p.user_id = $%d", q.UserID)
	}
	if q.CompanyID != "" {
		add(" AND a.owner_id = $%d", q.CompanyID)
	}
	if q.AnimalID != "" {
		add(" AND p.animal_id = $%d", q.AnimalID)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		add(" AND p.status = ANY($%d)", statuses)
	}

	col, ok := petitionOrderColumns[q.Order.Field]
	if !ok {
		col = petitionOrderColumns[petitions.OrderCreatedAt]
	}
	dir := "ASC"
	if q.Order.Desc {
		dir = "DESC"
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s, p.created_at %s, p.id %s", col, dir, dir, dir))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]petitions.Petition, 0)
	for rows.Next() {
		p, err := scanPetition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetitionsRepo) BeginStatusChange(ctx context.Context) (petitions.StatusTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &statusTx{tx: tx}, nil
}

// statusTx bloquea con FOR UPDATE las filas que lee.
type statusTx struct {
	tx *sql.Tx
}

func (t *statusTx) GetPetition(ctx context.Context, id string) (petitions.Petition, error) {
	return scanPetition(t.tx.QueryRowContext(ctx, petitionSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id))
}

func (t *statusTx) GetAnimal(ctx context.Context, id string) (animals.Animal, error) {
	return scanAnimal(t.tx.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1 FOR UPDATE`, id))
}

func (t *statusTx) UpdatePetition(ctx context.Context, p petitions.Petition) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE petitions SET status = $2, read = $3, updated_at = $4 WHERE id = $1
	`, p.ID, string(p.Status), p.Read, p.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return petitions.ErrNotFound
	}
	return nil
}

func (t *statusTx) UpdateAnimalStatus(ctx context.Context, animalID string, status animals.Status) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE animals SET status = $2, updated_at = now() WHERE id = $1
	`, animalID, string(status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (t *statusTx) Commit() error {
	return t.tx.Commit()
}

func (t *statusTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func scanPetition(s scanner) (petitions.Petition, error) {
	var (
		p      petitions.Petition
		status string
	)
	if err := s.Scan(
		&p.ID, &p.AnimalID, &p.UserID, &status, &p.Read, &p.CreatedAt, &p.UpdatedAt,
		&p.Animal.Name, &p.Animal.BirthDate, &p.Animal.OwnerID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return petitions.Petition{}, petitions.ErrNotFound
		}
		return petitions.Petition{}, err
	}
	p.Status = petitions.Status(status)
	return p, nil
}
