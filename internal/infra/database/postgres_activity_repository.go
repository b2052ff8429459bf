package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"sisnompeg_admin/internal/domain/activity"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) Append(ctx context.Context, e *activity.Entry) error {
	query := `INSERT INTO aktivitas (tipe, aksi, deskripsi, nip_pegawai)
               VALUES ($1, $2, $3, NULLIF($4, ''))
               RETURNING id, waktu`
	err := r.db.QueryRowContext(ctx, query, e.Tipe, e.Aksi, e.Deskripsi, e.NIPPegawai).Scan(&e.ID, &e.Waktu)
	if err != nil {
		return fmt.Errorf("error appending activity: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) ListNewestFirst(ctx context.Context) ([]*activity.Entry, error) {
	query := `SELECT id, tipe, aksi, COALESCE(deskripsi, ''), waktu, COALESCE(nip_pegawai, '')
               FROM aktivitas ORDER BY waktu DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing activities: %w", err)
	}
	defer rows.Close()

	entries := make([]*activity.Entry, 0)
	for rows.Next() {
		e := &activity.Entry{}
		if err := rows.Scan(&e.ID, &e.Tipe, &e.Aksi, &e.Deskripsi, &e.Waktu, &e.NIPPegawai); err != nil {
			return nil, fmt.Errorf("error scanning activity: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}
	return entries, nil
}

func (r *PostgresActivityRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM aktivitas WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return fmt.Errorf("error deleting activities: %w", err)
	}
	return nil
}
