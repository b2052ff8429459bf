package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/structure"
)

type StructureInput struct {
	ID      string        `json:"ID_Struktur" binding:"omitempty,uuid"`
	Pegawai string        `json:"Pegawai" binding:"required"`
	Jabatan string        `json:"Jabatan" binding:"required"`
	TMT     calendar.Date `json:"TMT"`
}

type StructurePatch struct {
	Pegawai *string        `json:"Pegawai" binding:"omitempty,min=1"`
	Jabatan *string        `json:"Jabatan" binding:"omitempty,min=1"`
	TMT     *calendar.Date `json:"TMT"`
}

const msgStructureNotFound = "Data struktur tidak ditemukan"

type StructureService struct {
	repo       structure.Repository
	names      *NameResolver
	activities *ActivityService
	log        *logrus.Entry
}

func NewStructureService(r structure.Repository, names *NameResolver, as *ActivityService, log *logrus.Entry) *StructureService {
	return &StructureService{repo: r, names: names, activities: as, log: log}
}

func (s *StructureService) Create(ctx context.Context, in StructureInput) (*structure.Assignment, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	a := &structure.Assignment{
		ID:      newOrGivenID(in.ID),
		Pegawai: in.Pegawai,
		Jabatan: in.Jabatan,
		TMT:     in.TMT,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fromRepo(err, msgStructureNotFound, "ID struktur sudah digunakan", "Gagal menambahkan data struktur")
	}

	nama := s.names.Resolve(ctx, a.Pegawai)
	s.activities.Record(ctx, activity.TypeStructure, "Tambah",
		fmt.Sprintf("Menambahkan struktur baru untuk %s", nama), a.Pegawai)
	return a, nil
}

func (s *StructureService) FindAll(ctx context.Context) ([]structure.View, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data struktur")
	}
	nips := make([]string, 0, len(list))
	for _, a := range list {
		nips = append(nips, a.Pegawai)
	}
	names := s.names.ResolveMany(ctx, nips)

	out := make([]structure.View, 0, len(list))
	for _, a := range list {
		out = append(out, structure.View{Assignment: *a, NamaPegawai: nameOr(names, a.Pegawai)})
	}
	return out, nil
}

func (s *StructureService) FindOne(ctx context.Context, id string) (*structure.View, error) {
	if id == "" {
		return nil, WrapValidation(nil, "ID struktur wajib diisi")
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgStructureNotFound, "", "Gagal mengambil data struktur")
	}
	return &structure.View{Assignment: *a, NamaPegawai: s.names.Resolve(ctx, a.Pegawai)}, nil
}

func (s *StructureService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, WrapUpstream(err, "Gagal mengambil total struktur")
	}
	return n, nil
}

func (s *StructureService) Update(ctx context.Context, id string, patch StructurePatch) (*structure.Assignment, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgStructureNotFound, "", "Gagal memperbarui data struktur")
	}
	applyString(&a.Pegawai, patch.Pegawai)
	applyString(&a.Jabatan, patch.Jabatan)
	if patch.TMT != nil {
		a.TMT = *patch.TMT
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fromRepo(err, msgStructureNotFound, "", "Gagal memperbarui data struktur")
	}

	nama := s.names.Resolve(ctx, a.Pegawai)
	s.activities.Record(ctx, activity.TypeStructure, "Edit",
		fmt.Sprintf("Memperbarui data struktur untuk %s", nama), a.Pegawai)
	return a, nil
}

func (s *StructureService) Remove(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, msgStructureNotFound, "", "Gagal menghapus data struktur")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, msgStructureNotFound, "", "Gagal menghapus data struktur")
	}

	nama := s.names.Resolve(ctx, existing.Pegawai)
	s.activities.Record(ctx, activity.TypeStructure, "Hapus",
		fmt.Sprintf("Menghapus data struktur untuk %s", nama), existing.Pegawai)
	return nil
}
