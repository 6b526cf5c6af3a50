package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"adopta-api/internal/domain/animals"
)

const animalColumns = `
	id, owner_id, owner_province,
	name, species, gender, birth_date, size, breed,
	temperament, history,
	child_friendly, pet_compatibility, space_suitability,
	sterilized, has_health_issues, health_notes,
	image1, image2, image3, image4,
	status, created_at, updated_at`

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`,
		a.ID, a.OwnerID, a.OwnerProvince,
		a.Name, string(a.Species), string(a.Gender), a.BirthDate, string(a.Size), a.Breed,
		a.Temperament, a.History,
		string(a.ChildFriendly), string(a.PetCompatibility), string(a.SpaceSuitability),
		a.Sterilized, a.HasHealthIssues, a.HealthNotes,
		a.Images[0], a.Images[1], a.Images[2], a.Images[3],
		string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	return mapWriteErr(err, nil, nil)
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	return scanAnimal(row)
}

// Update no toca status: ese campo solo cambia vía UpdateStatus o la
// transacción de peticiones.
func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			owner_province = $2,
			name = $3,
			species = $4,
			gender = $5,
			birth_date = $6,
			size = $7,
			breed = $8,
			temperament = $9,
			history = $10,
			child_friendly = $11,
			pet_compatibility = $12,
			space_suitability = $13,
			sterilized = $14,
			has_health_issues = $15,
			health_notes = $16,
			image1 = $17,
			image2 = $18,
			image3 = $19,
			image4 = $20,
			updated_at = $21
		WHERE id = $1
	`,
		a.ID, a.OwnerProvince,
		a.Name, string(a.Species), string(a.Gender), a.BirthDate, string(a.Size), a.Breed,
		a.Temperament, a.History,
		string(a.ChildFriendly), string(a.PetCompatibility), string(a.SpaceSuitability),
		a.Sterilized, a.HasHealthIssues, a.HealthNotes,
		a.Images[0], a.Images[1], a.Images[2], a.Images[3],
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) UpdateStatus(ctx context.Context, id string, from, to animals.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return animals.ErrStatusChanged
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) List(ctx context.Context, f animals.ListFilter) ([]animals.Animal, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + animalColumns + ` FROM animals WHERE 1=1`)

	args := make([]any, 0, 8)
	argN := 1
	add := func(cond string, v any) {
		sb.WriteString(fmt.Sprintf(cond, argN))
		args = append(args, v)
		argN++
	}

	if f.OwnerID != "" {
		add(" AND owner_id = $%d", f.OwnerID)
	}
	if f.OwnerProvince != "" {
		add(" AND owner_province = $%d", f.OwnerProvince)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		add(" AND status = ANY($%d)", statuses)
	}
	if len(f.ExcludeIDs) > 0 {
		add(" AND NOT (id = ANY($%d))", f.ExcludeIDs)
	}
	if f.Species != "" {
		add(" AND species = $%d", string(f.Species))
	}
	if f.Size != "" {
		add(" AND size = $%d", string(f.Size))
	}
	if f.Gender != "" {
		add(" AND gender = $%d", string(f.Gender))
	}

	sb.WriteString(" ORDER BY created_at DESC, id ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnimal(s scanner) (animals.Animal, error) {
	var (
		a                                   animals.Animal
		species, gender, size, status       string
		childFriendly, petCompat, spaceSuit string
	)

	if err := s.Scan(
		&a.ID, &a.OwnerID, &a.OwnerProvince,
		&a.Name, &species, &gender, &a.BirthDate, &size, &a.Breed,
		&a.Temperament, &a.History,
		&childFriendly, &petCompat, &spaceSuit,
		&a.Sterilized, &a.HasHealthIssues, &a.HealthNotes,
		&a.Images[0], &a.Images[1], &a.Images[2], &a.Images[3],
		&status, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}

	a.Species = animals.Species(species)
	a.Gender = animals.Gender(gender)
	a.Size = animals.Size(size)
	a.ChildFriendly = animals.ChildFriendly(childFriendly)
	a.PetCompatibility = animals.PetCompatibility(petCompat)
	a.SpaceSuitability = animals.SpaceSuitability(spaceSuit)
	a.Status = animals.Status(status)
	return a, nil
}
