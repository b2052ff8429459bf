package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sisnompeg_admin/internal/domain/leveling"
)

type PostgresLevelingRepository struct {
	db *sql.DB
}

func NewPostgresLevelingRepository(db *sql.DB) *PostgresLevelingRepository {
	return &PostgresLevelingRepository{db: db}
}

const levelingColumns = `id_penjenjangan, pegawai, nama_penjenjangan, tahun_pelaksanaan, COALESCE(penyelenggara, ''), created_at`

func scanLeveling(row rowScanner) (*leveling.Leveling, error) {
	l := &leveling.Leveling{}
	var year sql.NullInt64
	if err := row.Scan(&l.ID, &l.Pegawai, &l.NamaPenjenjangan, &year, &l.Penyelenggara, &l.CreatedAt); err != nil {
		return nil, err
	}
	if year.Valid {
		v := int(year.Int64)
		l.TahunPelaksanaan = &v
	}
	return l, nil
}

func (r *PostgresLevelingRepository) Create(ctx context.Context, l *leveling.Leveling) error {
	query := `INSERT INTO penjenjangan (id_penjenjangan, pegawai, nama_penjenjangan, tahun_pelaksanaan, penyelenggara)
               VALUES ($1, $2, $3, $4, NULLIF($5, ''))
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, l.ID, l.Pegawai, l.NamaPenjenjangan,
		nullableInt(l.TahunPelaksanaan), l.Penyelenggara).Scan(&l.CreatedAt)
	if err != nil {
		return classify("error creating leveling", err)
	}
	return nil
}

func (r *PostgresLevelingRepository) GetByID(ctx context.Context, id string) (*leveling.Leveling, error) {
	l, err := scanLeveling(r.db.QueryRowContext(ctx, `SELECT `+levelingColumns+` FROM penjenjangan WHERE id_penjenjangan = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("error getting leveling by ID", err)
	}
	return l, nil
}

func (r *PostgresLevelingRepository) ListAll(ctx context.Context) ([]*leveling.Leveling, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+levelingColumns+` FROM penjenjangan ORDER BY created_at, id_penjenjangan`)
	if err != nil {
		return nil, fmt.Errorf("error listing leveling: %w", err)
	}
	defer rows.Close()

	out := make([]*leveling.Leveling, 0)
	for rows.Next() {
		l, err := scanLeveling(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning leveling: %w", err)
		}
		out = append(out, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leveling: %w", err)
	}
	return out, nil
}

func (r *PostgresLevelingRepository) Update(ctx context.Context, l *leveling.Leveling) error {
	query := `UPDATE penjenjangan
               SET pegawai = $2, nama_penjenjangan = $3, tahun_pelaksanaan = $4, penyelenggara = NULLIF($5, '')
               WHERE id_penjenjangan = $1
               RETURNING ` + levelingColumns
	updated, err := scanLeveling(r.db.QueryRowContext(ctx, query, l.ID, l.Pegawai, l.NamaPenjenjangan,
		nullableInt(l.TahunPelaksanaan), l.Penyelenggara))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return classify("error updating leveling", err)
	}
	*l = *updated
	return nil
}

func (r *PostgresLevelingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM penjenjangan WHERE id_penjenjangan = $1`, id)
	if err != nil {
		return classify("error deleting leveling", err)
	}
	return requireAffected(res, "error deleting leveling")
}
