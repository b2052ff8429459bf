// Package memstore is an in-memory implementation of every repository
// interface. It follows the same conditional-write and error contracts as the
// Postgres repositories and is used by service and handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/careernote"
	"sisnompeg_admin/internal/domain/education"
	"sisnompeg_admin/internal/domain/employee"
	"sisnompeg_admin/internal/domain/leveling"
	"sisnompeg_admin/internal/domain/structure"
	idb "sisnompeg_admin/internal/infra/database"
)

// Store holds all tables behind one mutex.
type Store struct {
	mu sync.Mutex

	employees   map[string]*employee.Employee
	educations  map[string]*education.Education
	levelings   map[string]*leveling.Leveling
	structures  map[string]*structure.Assignment
	careerNotes map[string]*careernote.Note
	activities  []*activity.Entry
	nextID      int64

	faults map[string]error
	now    func() time.Time
}

func New() *Store {
	return &Store{
		employees:   make(map[string]*employee.Employee),
		educations:  make(map[string]*education.Education),
		levelings:   make(map[string]*leveling.Leveling),
		structures:  make(map[string]*structure.Assignment),
		careerNotes: make(map[string]*careernote.Note),
		faults:      make(map[string]error),
		now:         time.Now,
	}
}

// SetClock replaces the clock used for created_at and activity timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn makes every call of op (e.g. "employee.Update") return err until
// cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// fault must be called with s.mu held.
func (s *Store) fault(op string) error {
	return s.faults[op]
}

func (s *Store) Employees() *EmployeeRepo     { return &EmployeeRepo{s} }
func (s *Store) Educations() *EducationRepo   { return &EducationRepo{s} }
func (s *Store) Levelings() *LevelingRepo     { return &LevelingRepo{s} }
func (s *Store) Structures() *StructureRepo   { return &StructureRepo{s} }
func (s *Store) CareerNotes() *CareerNoteRepo { return &CareerNoteRepo{s} }
func (s *Store) Activities() *ActivityRepo    { return &ActivityRepo{s} }

// Employee returns a copy of the stored employee, or nil.
func (s *Store) Employee(nip string) *employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.employees[nip]; ok {
		return copyEmployee(e)
	}
	return nil
}

// ActivityLog returns a copy of all activity entries in insertion order.
func (s *Store) ActivityLog() []activity.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]activity.Entry, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, *a)
	}
	return out
}

// --- employees ---

type EmployeeRepo struct{ s *Store }

var _ employee.Repository = (*EmployeeRepo)(nil)

func copyEmployee(e *employee.Employee) *employee.Employee {
	c := *e
	if e.KGBDiprosesPada != nil {
		t := *e.KGBDiprosesPada
		c.KGBDiprosesPada = &t
	}
	if e.GajiPokok != nil {
		v := *e.GajiPokok
		c.GajiPokok = &v
	}
	if e.JumlahAnak != nil {
		v := *e.JumlahAnak
		c.JumlahAnak = &v
	}
	return &c
}

func (r *EmployeeRepo) Create(ctx context.Context, e *employee.Employee) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.Create"); err != nil {
		return err
	}
	if _, exists := s.employees[e.NIP]; exists {
		return idb.ErrDuplicateKey
	}
	now := s.now()
	e.KGBNotified = false
	e.KGBDiprosesPada = nil
	e.CreatedAt, e.UpdatedAt = now, now
	s.employees[e.NIP] = copyEmployee(e)
	return nil
}

func (r *EmployeeRepo) GetByNIP(ctx context.Context, nip string) (*employee.Employee, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.GetByNIP"); err != nil {
		return nil, err
	}
	e, ok := s.employees[nip]
	if !ok {
		return nil, idb.ErrNotFound
	}
	return copyEmployee(e), nil
}

func (r *EmployeeRepo) sorted(filter func(*employee.Employee) bool, less func(a, b *employee.Employee) bool) []*employee.Employee {
	out := make([]*employee.Employee, 0)
	for _, e := range r.s.employees {
		if filter == nil || filter(e) {
			out = append(out, copyEmployee(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byName(a, b *employee.Employee) bool {
	if a.Nama != b.Nama {
		return a.Nama < b.Nama
	}
	return a.NIP < b.NIP
}

func byDue(a, b *employee.Employee) bool {
	if c := a.KGBBerikutnya.Compare(b.KGBBerikutnya); c != 0 {
		return c < 0
	}
	return a.NIP < b.NIP
}

func (r *EmployeeRepo) ListAll(ctx context.Context) ([]*employee.Employee, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.ListAll"); err != nil {
		return nil, err
	}
	return r.sorted(nil, byName), nil
}

func (r *EmployeeRepo) ListWithDueDate(ctx context.Context) ([]*employee.Employee, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.ListWithDueDate"); err != nil {
		return nil, err
	}
	return r.sorted(func(e *employee.Employee) bool { return !e.KGBBerikutnya.IsZero() }, byDue), nil
}

func (r *EmployeeRepo) ListDueForAdvancement(ctx context.Context, today calendar.Date) ([]*employee.Employee, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.ListDueForAdvancement"); err != nil {
		return nil, err
	}
	return r.sorted(func(e *employee.Employee) bool { return e.IsDue(today) }, byDue), nil
}

func (r *EmployeeRepo) Update(ctx context.Context, nip string, e *employee.Employee, edits employee.Edits) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.Update"); err != nil {
		return err
	}
	cur, ok := s.employees[nip]
	if !ok {
		return idb.ErrNotFound
	}
	if e.NIP != nip {
		if _, taken := s.employees[e.NIP]; taken {
			return idb.ErrDuplicateKey
		}
	}

	next := copyEmployee(e)
	next.KGBNotified = cur.KGBNotified
	next.KGBDiprosesPada = cur.KGBDiprosesPada
	next.KGBBerikutnya = cur.KGBBerikutnya
	if !edits.LastStep {
		next.KGBTerakhir = cur.KGBTerakhir
	}
	if edits.DueDate {
		next.KGBBerikutnya = e.KGBBerikutnya
		next.KGBNotified = false
	}
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()

	delete(s.employees, nip)
	s.employees[next.NIP] = next
	*e = *copyEmployee(next)
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, nip string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.Delete"); err != nil {
		return err
	}
	if _, ok := s.employees[nip]; !ok {
		return idb.ErrNotFound
	}
	delete(s.employees, nip)
	return nil
}

func (r *EmployeeRepo) Count(ctx context.Context) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.Count"); err != nil {
		return 0, err
	}
	return len(s.employees), nil
}

func (r *EmployeeRepo) LookupNames(ctx context.Context, nips []string) (map[string]string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.LookupNames"); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(nips))
	for _, nip := range nips {
		if e, ok := s.employees[nip]; ok {
			names[nip] = e.Nama
		}
	}
	return names, nil
}

func (r *EmployeeRepo) CountByGender(ctx context.Context) (map[string]int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.CountByGender"); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range s.employees {
		if g := strings.ToLower(strings.TrimSpace(e.JenisKelamin)); g != "" {
			counts[g]++
		}
	}
	return counts, nil
}

func (r *EmployeeRepo) RearmAdvanced(ctx context.Context, today calendar.Date, startOfToday time.Time) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.RearmAdvanced"); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range s.employees {
		if !e.KGBNotified || e.KGBBerikutnya.IsZero() || e.KGBBerikutnya.After(today) {
			continue
		}
		if e.KGBDiprosesPada != nil && !e.KGBDiprosesPada.Before(startOfToday) {
			continue
		}
		e.KGBNotified = false
		e.UpdatedAt = s.now()
		n++
	}
	return n, nil
}

func (r *EmployeeRepo) AdvanceSalaryStep(ctx context.Context, adv employee.Advancement) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.AdvanceSalaryStep"); err != nil {
		return err
	}
	e, ok := s.employees[adv.NIP]
	if !ok || e.KGBNotified || !e.KGBBerikutnya.Equal(adv.OldDue) {
		return idb.ErrStaleWrite
	}
	processed := adv.ProcessedAt
	e.KGBTerakhir = adv.OldDue
	e.KGBBerikutnya = adv.NewDue
	e.KGBNotified = true
	e.KGBDiprosesPada = &processed
	e.UpdatedAt = s.now()
	return nil
}

func (r *EmployeeRepo) RevertSalaryStep(ctx context.Context, adv employee.Advancement) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("employee.RevertSalaryStep"); err != nil {
		return err
	}
	e, ok := s.employees[adv.NIP]
	if !ok || !e.KGBNotified || !e.KGBBerikutnya.Equal(adv.NewDue) {
		return idb.ErrStaleWrite
	}
	e.KGBTerakhir = adv.PreviousLastStep
	e.KGBBerikutnya = adv.OldDue
	e.KGBNotified = false
	e.KGBDiprosesPada = nil
	e.UpdatedAt = s.now()
	return nil
}
