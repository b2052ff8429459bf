package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sisnompeg_admin/internal/domain/careernote"
)

type PostgresCareerNoteRepository struct {
	db *sql.DB
}

func NewPostgresCareerNoteRepository(db *sql.DB) *PostgresCareerNoteRepository {
	return &PostgresCareerNoteRepository{db: db}
}

const careerNoteColumns = `id_catatan, nip, pangkat_sekarang, COALESCE(potensi_pangkat_baru, ''), tanggal_layak,
       COALESCE(status, ''), COALESCE(catatan, ''), created_at`

func scanCareerNote(row rowScanner) (*careernote.Note, error) {
	n := &careernote.Note{}
	err := row.Scan(&n.ID, &n.NIP, &n.PangkatSekarang, &n.PotensiPangkatBaru, &n.TanggalLayak,
		&n.Status, &n.Catatan, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *PostgresCareerNoteRepository) Create(ctx context.Context, n *careernote.Note) error {
	query := `INSERT INTO catatan_karir (id_catatan, nip, pangkat_sekarang, potensi_pangkat_baru, tanggal_layak, status, catatan)
               VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''))
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, n.ID, n.NIP, n.PangkatSekarang, n.PotensiPangkatBaru,
		n.TanggalLayak, n.Status, n.Catatan).Scan(&n.CreatedAt)
	if err != nil {
		return classify("error creating career note", err)
	}
	return nil
}

func (r *PostgresCareerNoteRepository) GetByID(ctx context.Context, id string) (*careernote.Note, error) {
	n, err := scanCareerNote(r.db.QueryRowContext(ctx, `SELECT `+careerNoteColumns+` FROM catatan_karir WHERE id_catatan = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify("error getting career note by ID", err)
	}
	return n, nil
}

func (r *PostgresCareerNoteRepository) ListAll(ctx context.Context) ([]*careernote.Note, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+careerNoteColumns+` FROM catatan_karir ORDER BY created_at, id_catatan`)
	if err != nil {
		return nil, fmt.Errorf("error listing career notes: %w", err)
	}
	defer rows.Close()

	out := make([]*careernote.Note, 0)
	for rows.Next() {
		n, err := scanCareerNote(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning career note: %w", err)
		}
		out = append(out, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating career notes: %w", err)
	}
	return out, nil
}

func (r *PostgresCareerNoteRepository) Update(ctx context.Context, n *careernote.Note) error {
	query := `UPDATE catatan_karir
               SET nip = $2, pangkat_sekarang = $3, potensi_pangkat_baru = NULLIF($4, ''), tanggal_layak = $5,
                   status = NULLIF($6, ''), catatan = NULLIF($7, '')
               WHERE id_catatan = $1
               RETURNING ` + careerNoteColumns
	updated, err := scanCareerNote(r.db.QueryRowContext(ctx, query, n.ID, n.NIP, n.PangkatSekarang,
		n.PotensiPangkatBaru, n.TanggalLayak, n.Status, n.Catatan))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return classify("error updating career note", err)
	}
	*n = *updated
	return nil
}

func (r *PostgresCareerNoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catatan_karir WHERE id_catatan = $1`, id)
	if err != nil {
		return classify("error deleting career note", err)
	}
	return requireAffected(res, "error deleting career note")
}
