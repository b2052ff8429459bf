package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sisnompeg_admin/internal/domain/education"
)

type PostgresEducationRepository struct {
	db *sql.DB
}

func NewPostgresEducationRepository(db *sql.DB) *PostgresEducationRepository {
	return &PostgresEducationRepository{db: db}
}

const educationColumns = `id_pendidikan, pegawai, jenjang, COALESCE(jurusan, ''), COALESCE(institusi, ''), tahun_lulus, created_at`

func scanEducation(row rowScanner) (*education.Education, error) {
	e := &education.Education{}
	var year sql.NullInt64
	if err := row.Scan(&e.ID, &e.Pegawai, &e.Jenjang, &e.Jurusan, &e.Institusi, &year, &e.CreatedAt); err != nil {
		return nil, err
	}
	if year.Valid {
		v := int(year.Int64)
		e.TahunLulus = &v
	}
	return e, nil
}

func (r *PostgresEducationRepository) Create(ctx context.Context, e *education.Education) error {
	query := `INSERT INTO pendidikan (id_pendidikan, pegawai, jenjang, jurusan, institusi, tahun_lulus)
               VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.Pegawai, e.Jenjang, e.Jurusan, e.Institusi,
		nullableInt(e.TahunLulus)).Scan(&e.CreatedAt)
	if err != nil {
		return classify("error creating education", err)
	}
	return nil
}

func (r *PostgresEducationRepository) GetByID(ctx context.Context, id string) (*education.Education, error) {
	e, err := scanEducation(r.db.QueryRowContext(ctx, `SELECT `+educationColumns+` FROM pendidikan WHERE id_pendidikan = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("error getting education by ID", err)
	}
	return e, nil
}

func (r *PostgresEducationRepository) ListAll(ctx context.Context) ([]*education.Education, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+educationColumns+` FROM pendidikan ORDER BY created_at, id_pendidikan`)
	if err != nil {
		return nil, fmt.Errorf("error listing education: %w", err)
	}
	defer rows.Close()

	out := make([]*education.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning education: %w", err)
		}
		out = append(out, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating education: %w", err)
	}
	return out, nil
}

func (r *PostgresEducationRepository) Update(ctx context.Context, e *education.Education) error {
	query := `UPDATE pendidikan
               SET pegawai = $2, jenjang = $3, jurusan = NULLIF($4, ''), institusi = NULLIF($5, ''), tahun_lulus = $6
               WHERE id_pendidikan = $1
               RETURNING ` + educationColumns
	updated, err := scanEducation(r.db.QueryRowContext(ctx, query, e.ID, e.Pegawai, e.Jenjang, e.Jurusan,
		e.Institusi, nullableInt(e.TahunLulus)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return classify("error updating education", err)
	}
	*e = *updated
	return nil
}

func (r *PostgresEducationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pendidikan WHERE id_pendidikan = $1`, id)
	if err != nil {
		return classify("error deleting education", err)
	}
	return requireAffected(res, "error deleting education")
}

func (r *PostgresEducationRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "pendidikan")
}
