package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sisnompeg_admin/internal/domain/structure"
)

type PostgresStructureRepository struct {
	db *sql.DB
}

func NewPostgresStructureRepository(db *sql.DB) *PostgresStructureRepository {
	return &PostgresStructureRepository{db: db}
}

const structureColumns = `id_struktur, pegawai, jabatan, tmt, created_at`

func scanAssignment(row rowScanner) (*structure.Assignment, error) {
	a := &structure.Assignment{}
	if err := row.Scan(&a.ID, &a.Pegawai, &a.Jabatan, &a.TMT, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresStructureRepository) Create(ctx context.Context, a *structure.Assignment) error {
	query := `INSERT INTO struktur (id_struktur, pegawai, jabatan, tmt)
               VALUES ($1, $2, $3, $4)
               RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, a.ID, a.Pegawai, a.Jabatan, a.TMT).Scan(&a.CreatedAt); err != nil {
		return classify("error creating structure assignment", err)
	}
	return nil
}

func (r *PostgresStructureRepository) GetByID(ctx context.Context, id string) (*structure.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, `SELECT `+structureColumns+` FROM struktur WHERE id_struktur = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("error getting structure assignment by ID", err)
	}
	return a, nil
}

func (r *PostgresStructureRepository) ListAll(ctx context.Context) ([]*structure.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+structureColumns+` FROM struktur ORDER BY created_at, id_struktur`)
	if err != nil {
		return nil, fmt.Errorf("error listing structure assignments: %w", err)
	}
	defer rows.Close()

	out := make([]*structure.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning structure assignment: %w", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating structure assignments: %w", err)
	}
	return out, nil
}

func (r *PostgresStructureRepository) Update(ctx context.Context, a *structure.Assignment) error {
	query := `UPDATE struktur SET pegawai = $2, jabatan = $3, tmt = $4
               WHERE id_struktur = $1
               RETURNING ` + structureColumns
	updated, err := scanAssignment(r.db.QueryRowContext(ctx, query, a.ID, a.Pegawai, a.Jabatan, a.TMT))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return classify("error updating structure assignment", err)
	}
	*a = *updated
	return nil
}

func (r *PostgresStructureRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM struktur WHERE id_struktur = $1`, id)
	if err != nil {
		return classify("error deleting structure assignment", err)
	}
	return requireAffected(res, "error deleting structure assignment")
}

func (r *PostgresStructureRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "struktur")
}
