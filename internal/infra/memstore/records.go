package memstore

import (
	"context"
	"sort"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/careernote"
	"sisnompeg_admin/internal/domain/education"
	"sisnompeg_admin/internal/domain/leveling"
	"sisnompeg_admin/internal/domain/structure"
	idb "sisnompeg_admin/internal/infra/database"
)

// Record tables reference pegawai like foreign keys do: an unknown employee
// key is rejected with ErrInvalidInput.

func (s *Store) requireEmployee(nip string) error {
	if _, ok := s.employees[nip]; !ok {
		return idb.ErrInvalidInput
	}
	return nil
}

// --- pendidikan ---

type EducationRepo struct{ s *Store }

var _ education.Repository = (*EducationRepo)(nil)

func (r *EducationRepo) Create(ctx context.Context, e *education.Education) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("education.Create"); err != nil {
		return err
	}
	if _, exists := s.educations[e.ID]; exists {
		return idb.ErrDuplicateKey
	}
	if err := s.requireEmployee(e.Pegawai); err != nil {
		return err
	}
	e.CreatedAt = s.now()
	c := *e
	s.educations[e.ID] = &c
	return nil
}

func (r *EducationRepo) GetByID(ctx context.Context, id string) (*education.Education, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("education.GetByID"); err != nil {
		return nil, err
	}
	e, ok := s.educations[id]
	if !ok {
		return nil, idb.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (r *EducationRepo) ListAll(ctx context.Context) ([]*education.Education, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("education.ListAll"); err != nil {
		return nil, err
	}
	out := make([]*education.Education, 0, len(s.educations))
	for _, e := range s.educations {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *EducationRepo) Update(ctx context.Context, e *education.Education) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("education.Update"); err != nil {
		return err
	}
	cur, ok := s.educations[e.ID]
	if !ok {
		return idb.ErrNotFound
	}
	if err := s.requireEmployee(e.Pegawai); err != nil {
		return err
	}
	e.CreatedAt = cur.CreatedAt
	c := *e
	s.educations[e.ID] = &c
	return nil
}

func (r *EducationRepo) Delete(ctx context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("education.Delete"); err != nil {
		return err
	}
	if _, ok := s.educations[id]; !ok {
		return idb.ErrNotFound
	}
	delete(s.educations, id)
	return nil
}

func (r *EducationRepo) Count(ctx context.Context) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("education.Count"); err != nil {
		return 0, err
	}
	return len(s.educations), nil
}

// --- penjenjangan ---

type LevelingRepo struct{ s *Store }

var _ leveling.Repository = (*LevelingRepo)(nil)

func (r *LevelingRepo) Create(ctx context.Context, l *leveling.Leveling) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("leveling.Create"); err != nil {
		return err
	}
	if _, exists := s.levelings[l.ID]; exists {
		return idb.ErrDuplicateKey
	}
	if err := s.requireEmployee(l.Pegawai); err != nil {
		return err
	}
	l.CreatedAt = s.now()
	c := *l
	s.levelings[l.ID] = &c
	return nil
}

func (r *LevelingRepo) GetByID(ctx context.Context, id string) (*leveling.Leveling, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("leveling.GetByID"); err != nil {
		return nil, err
	}
	l, ok := s.levelings[id]
	if !ok {
		return nil, idb.ErrNotFound
	}
	c := *l
	return &c, nil
}

func (r *LevelingRepo) ListAll(ctx context.Context) ([]*leveling.Leveling, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("leveling.ListAll"); err != nil {
		return nil, err
	}
	out := make([]*leveling.Leveling, 0, len(s.levelings))
	for _, l := range s.levelings {
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LevelingRepo) Update(ctx context.Context, l *leveling.Leveling) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("leveling.Update"); err != nil {
		return err
	}
	cur, ok := s.levelings[l.ID]
	if !ok {
		return idb.ErrNotFound
	}
	if err := s.requireEmployee(l.Pegawai); err != nil {
		return err
	}
	l.CreatedAt = cur.CreatedAt
	c := *l
	s.levelings[l.ID] = &c
	return nil
}

func (r *LevelingRepo) Delete(ctx context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("leveling.Delete"); err != nil {
		return err
	}
	if _, ok := s.levelings[id]; !ok {
		return idb.ErrNotFound
	}
	delete(s.levelings, id)
	return nil
}

// --- struktur ---

type StructureRepo struct{ s *Store }

var _ structure.Repository = (*StructureRepo)(nil)

func (r *StructureRepo) Create(ctx context.Context, a *structure.Assignment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("structure.Create"); err != nil {
		return err
	}
	if _, exists := s.structures[a.ID]; exists {
		return idb.ErrDuplicateKey
	}
	if err := s.requireEmployee(a.Pegawai); err != nil {
		return err
	}
	a.CreatedAt = s.now()
	c := *a
	s.structures[a.ID] = &c
	return nil
}

func (r *StructureRepo) GetByID(ctx context.Context, id string) (*structure.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("structure.GetByID"); err != nil {
		return nil, err
	}
	a, ok := s.structures[id]
	if !ok {
		return nil, idb.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r *StructureRepo) ListAll(ctx context.Context) ([]*structure.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("structure.ListAll"); err != nil {
		return nil, err
	}
	out := make([]*structure.Assignment, 0, len(s.structures))
	for _, a := range s.structures {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StructureRepo) Update(ctx context.Context, a *structure.Assignment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("structure.Update"); err != nil {
		return err
	}
	cur, ok := s.structures[a.ID]
	if !ok {
		return idb.ErrNotFound
	}
	if err := s.requireEmployee(a.Pegawai); err != nil {
		return err
	}
	a.CreatedAt = cur.CreatedAt
	c := *a
	s.structures[a.ID] = &c
	return nil
}

func (r *StructureRepo) Delete(ctx context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("structure.Delete"); err != nil {
		return err
	}
	if _, ok := s.structures[id]; !ok {
		return idb.ErrNotFound
	}
	delete(s.structures, id)
	return nil
}

func (r *StructureRepo) Count(ctx context.Context) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("structure.Count"); err != nil {
		return 0, err
	}
	return len(s.structures), nil
}

// --- catatan_karir ---

type CareerNoteRepo struct{ s *Store }

var _ careernote.Repository = (*CareerNoteRepo)(nil)

func (r *CareerNoteRepo) Create(ctx context.Context, n *careernote.Note) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("careernote.Create"); err != nil {
		return err
	}
	if _, exists := s.careerNotes[n.ID]; exists {
		return idb.ErrDuplicateKey
	}
	if err := s.requireEmployee(n.NIP); err != nil {
		return err
	}
	n.CreatedAt = s.now()
	c := *n
	s.careerNotes[n.ID] = &c
	return nil
}

func (r *CareerNoteRepo) GetByID(ctx context.Context, id string) (*careernote.Note, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("careernote.GetByID"); err != nil {
		return nil, err
	}
	n, ok := s.careerNotes[id]
	if !ok {
		return nil, idb.ErrNotFound
	}
	c := *n
	return &c, nil
}

func (r *CareerNoteRepo) ListAll(ctx context.Context) ([]*careernote.Note, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("careernote.ListAll"); err != nil {
		return nil, err
	}
	out := make([]*careernote.Note, 0, len(s.careerNotes))
	for _, n := range s.careerNotes {
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CareerNoteRepo) Update(ctx context.Context, n *careernote.Note) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("careernote.Update"); err != nil {
		return err
	}
	cur, ok := s.careerNotes[n.ID]
	if !ok {
		return idb.ErrNotFound
	}
	if err := s.requireEmployee(n.NIP); err != nil {
		return err
	}
	n.CreatedAt = cur.CreatedAt
	c := *n
	s.careerNotes[n.ID] = &c
	return nil
}

func (r *CareerNoteRepo) Delete(ctx context.Context, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("careernote.Delete"); err != nil {
		return err
	}
	if _, ok := s.careerNotes[id]; !ok {
		return idb.ErrNotFound
	}
	delete(s.careerNotes, id)
	return nil
}

// --- aktivitas ---

type ActivityRepo struct{ s *Store }

var _ activity.Repository = (*ActivityRepo)(nil)

func (r *ActivityRepo) Append(ctx context.Context, e *activity.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("activity.Append"); err != nil {
		return err
	}
	s.nextID++
	e.ID = s.nextID
	e.Waktu = s.now()
	c := *e
	s.activities = append(s.activities, &c)
	return nil
}

func (r *ActivityRepo) ListNewestFirst(ctx context.Context) ([]*activity.Entry, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("activity.ListNewestFirst"); err != nil {
		return nil, err
	}
	out := make([]*activity.Entry, 0, len(s.activities))
	for _, e := range s.activities {
		c := *e
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Waktu.Equal(out[j].Waktu) {
			return out[i].Waktu.After(out[j].Waktu)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *ActivityRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("activity.DeleteByIDs"); err != nil {
		return err
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.activities[:0]
	for _, e := range s.activities {
		if _, ok := drop[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	s.activities = kept
	return nil
}
