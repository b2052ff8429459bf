// internal/infra/database/postgres_employee_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/employee"
)

type PostgresEmployeeRepository struct {
	db *sql.DB
}

func NewPostgresEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{db: db}
}

const employeeColumns = `nip, nama, COALESCE(tempat_tanggal_lahir, ''), COALESCE(pendidikan_terakhir, ''),
       COALESCE(pangkat_golongan, ''), tmt, kgb_berikutnya, kgb_terakhir, kgb_notified, kgb_diproses_pada,
       COALESCE(jenis_kelamin, ''), COALESCE(agama, ''), COALESCE(status_kepegawaian, ''),
       gaji_pokok, jumlah_anak, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
	e := &employee.Employee{}
	var (
		processedAt sql.NullTime
		salary      sql.NullFloat64
		children    sql.NullInt64
	)
	err := row.Scan(&e.NIP, &e.Nama, &e.TempatTanggalLahir, &e.PendidikanTerakhir,
		&e.PangkatGolongan, &e.TMT, &e.KGBBerikutnya, &e.KGBTerakhir, &e.KGBNotified, &processedAt,
		&e.JenisKelamin, &e.Agama, &e.StatusKepegawaian,
		&salary, &children, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if processedAt.Valid {
		t := processedAt.Time
		e.KGBDiprosesPada = &t
	}
	if salary.Valid {
		v := salary.Float64
		e.GajiPokok = &v
	}
	if children.Valid {
		v := int(children.Int64)
		e.JumlahAnak = &v
	}
	return e, nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func (r *PostgresEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	query := `INSERT INTO pegawai (nip, nama, tempat_tanggal_lahir, pendidikan_terakhir, pangkat_golongan,
                   tmt, kgb_berikutnya, kgb_terakhir, kgb_notified, jenis_kelamin, agama, status_kepegawaian,
                   gaji_pokok, jumlah_anak)
               VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, FALSE,
                   NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12, $13)
               RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, e.NIP, e.Nama, e.TempatTanggalLahir, e.PendidikanTerakhir,
		e.PangkatGolongan, e.TMT, e.KGBBerikutnya, e.KGBTerakhir, e.JenisKelamin, e.Agama,
		e.StatusKepegawaian, nullableFloat(e.GajiPokok), nullableInt(e.JumlahAnak)).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return classify("error creating employee", err)
	}
	e.KGBNotified = false
	return nil
}

func (r *PostgresEmployeeRepository) GetByNIP(ctx context.Context, nip string) (*employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM pegawai WHERE nip = $1`
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, nip))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting employee by NIP: %w", err)
	}
	return e, nil
}

func (r *PostgresEmployeeRepository) list(ctx context.Context, what, query string, args ...any) ([]*employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", what, err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", what, err)
		}
		employees = append(employees, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}
	return employees, nil
}

func (r *PostgresEmployeeRepository) ListAll(ctx context.Context) ([]*employee.Employee, error) {
	return r.list(ctx, "employees", `SELECT `+employeeColumns+` FROM pegawai ORDER BY nama, nip`)
}

func (r *PostgresEmployeeRepository) ListWithDueDate(ctx context.Context) ([]*employee.Employee, error) {
	return r.list(ctx, "employees with due date",
		`SELECT `+employeeColumns+` FROM pegawai WHERE kgb_berikutnya IS NOT NULL ORDER BY kgb_berikutnya ASC, nip`)
}

func (r *PostgresEmployeeRepository) ListDueForAdvancement(ctx context.Context, today calendar.Date) ([]*employee.Employee, error) {
	return r.list(ctx, "employees due for advancement",
		`SELECT `+employeeColumns+` FROM pegawai
          WHERE kgb_berikutnya <= $1::date AND kgb_notified = FALSE
          ORDER BY kgb_berikutnya ASC, nip`, today)
}

func (r *PostgresEmployeeRepository) Update(ctx context.Context, nip string, e *employee.Employee, edits employee.Edits) error {
	query := `UPDATE pegawai
               SET nip = $1, nama = $2, tempat_tanggal_lahir = NULLIF($3, ''), pendidikan_terakhir = NULLIF($4, ''),
                   pangkat_golongan = NULLIF($5, ''), tmt = $6,
                   kgb_terakhir = CASE WHEN $16::boolean THEN $7::date ELSE kgb_terakhir END,
                   jenis_kelamin = NULLIF($8, ''), agama = NULLIF($9, ''), status_kepegawaian = NULLIF($10, ''),
                   gaji_pokok = $11, jumlah_anak = $12,
                   kgb_berikutnya = CASE WHEN $13::boolean THEN $14::date ELSE kgb_berikutnya END,
                   kgb_notified = CASE WHEN $13::boolean THEN FALSE ELSE kgb_notified END,
                   updated_at = NOW()
               WHERE nip = $15
               RETURNING ` + employeeColumns

	updated, err := scanEmployee(r.db.QueryRowContext(ctx, query, e.NIP, e.Nama, e.TempatTanggalLahir,
		e.PendidikanTerakhir, e.PangkatGolongan, e.TMT, e.KGBTerakhir, e.JenisKelamin, e.Agama,
		e.StatusKepegawaian, nullableFloat(e.GajiPokok), nullableInt(e.JumlahAnak),
		edits.DueDate, e.KGBBerikutnya, nip, edits.LastStep))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return classify("error updating employee", err)
	}
	*e = *updated
	return nil
}

func (r *PostgresEmployeeRepository) Delete(ctx context.Context, nip string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pegawai WHERE nip = $1`, nip)
	if err != nil {
		return classify("error deleting employee", err)
	}
	return requireAffected(res, "error deleting employee")
}

func (r *PostgresEmployeeRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "pegawai")
}

func (r *PostgresEmployeeRepository) LookupNames(ctx context.Context, nips []string) (map[string]string, error) {
	names := make(map[string]string, len(nips))
	if len(nips) == 0 {
		return names, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT nip, nama FROM pegawai WHERE nip = ANY($1)`, pq.Array(nips))
	if err != nil {
		return nil, fmt.Errorf("error looking up employee names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nip, nama string
		if err := rows.Scan(&nip, &nama); err != nil {
			return nil, fmt.Errorf("error scanning employee name: %w", err)
		}
		names[nip] = nama
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee names: %w", err)
	}
	return names, nil
}

func (r *PostgresEmployeeRepository) CountByGender(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT LOWER(TRIM(jenis_kelamin)), COUNT(*)
               FROM pegawai WHERE jenis_kelamin IS NOT NULL GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("error counting employees by gender: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gender string
		var n int
		if err := rows.Scan(&gender, &n); err != nil {
			return nil, fmt.Errorf("error scanning gender count: %w", err)
		}
		counts[gender] = n
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gender counts: %w", err)
	}
	return counts, nil
}

func (r *PostgresEmployeeRepository) RearmAdvanced(ctx context.Context, today calendar.Date, startOfToday time.Time) (int64, error) {
	query := `UPDATE pegawai
               SET kgb_notified = FALSE, updated_at = NOW()
               WHERE kgb_notified = TRUE
                 AND kgb_berikutnya <= $1::date
                 AND (kgb_diproses_pada IS NULL OR kgb_diproses_pada < $2)`
	res, err := r.db.ExecContext(ctx, query, today, startOfToday)
	if err != nil {
		return 0, fmt.Errorf("error re-arming advanced employees: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error re-arming advanced employees: %w", err)
	}
	return n, nil
}

func (r *PostgresEmployeeRepository) AdvanceSalaryStep(ctx context.Context, adv employee.Advancement) error {
	query := `UPDATE pegawai
               SET kgb_terakhir = $2, kgb_berikutnya = $3, kgb_notified = TRUE, kgb_diproses_pada = $4, updated_at = NOW()
               WHERE nip = $1 AND kgb_berikutnya = $5::date AND kgb_notified = FALSE`
	res, err := r.db.ExecContext(ctx, query, adv.NIP, adv.OldDue, adv.NewDue, adv.ProcessedAt, adv.OldDue)
	if err != nil {
		return fmt.Errorf("error advancing salary step: %w", err)
	}
	return requireConditional(res, "error advancing salary step")
}

func (r *PostgresEmployeeRepository) RevertSalaryStep(ctx context.Context, adv employee.Advancement) error {
	query := `UPDATE pegawai
               SET kgb_terakhir = $2, kgb_berikutnya = $3, kgb_notified = FALSE, kgb_diproses_pada = NULL, updated_at = NOW()
               WHERE nip = $1 AND kgb_berikutnya = $4::date AND kgb_notified = TRUE`
	res, err := r.db.ExecContext(ctx, query, adv.NIP, adv.PreviousLastStep, adv.OldDue, adv.NewDue)
	if err != nil {
		return fmt.Errorf("error reverting salary step: %w", err)
	}
	return requireConditional(res, "error reverting salary step")
}

// requireAffected maps zero affected rows to ErrNotFound.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// requireConditional maps zero affected rows to ErrStaleWrite.
func requireConditional(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrStaleWrite
	}
	return nil
}

// count returns the exact number of rows in table. table is never user input.
func count(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}
