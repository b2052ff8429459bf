package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/leveling"
)

type LevelingInput struct {
	ID               string `json:"ID_Penjenjangan" binding:"omitempty,uuid"`
	Pegawai          string `json:"Pegawai" binding:"required"`
	NamaPenjenjangan string `json:"Nama_Penjenjangan" binding:"required"`
	TahunPelaksanaan *int   `json:"Tahun_Pelaksanaan" binding:"omitempty,gte=1900,lte=2100"`
	Penyelenggara    string `json:"Penyelenggara"`
}

type LevelingPatch struct {
	Pegawai          *string `json:"Pegawai" binding:"omitempty,min=1"`
	NamaPenjenjangan *string `json:"Nama_Penjenjangan" binding:"omitempty,min=1"`
	TahunPelaksanaan *int    `json:"Tahun_Pelaksanaan" binding:"omitempty,gte=1900,lte=2100"`
	Penyelenggara    *string `json:"Penyelenggara"`
}

const msgLevelingNotFound = "Data penjenjangan tidak ditemukan"

type LevelingService struct {
	repo       leveling.Repository
	names      *NameResolver
	activities *ActivityService
	log        *logrus.Entry
}

func NewLevelingService(r leveling.Repository, names *NameResolver, as *ActivityService, log *logrus.Entry) *LevelingService {
	return &LevelingService{repo: r, names: names, activities: as, log: log}
}

func (s *LevelingService) Create(ctx context.Context, in LevelingInput) (*leveling.Leveling, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	l := &leveling.Leveling{
		ID:               newOrGivenID(in.ID),
		Pegawai:          in.Pegawai,
		NamaPenjenjangan: in.NamaPenjenjangan,
		TahunPelaksanaan: in.TahunPelaksanaan,
		Penyelenggara:    in.Penyelenggara,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fromRepo(err, msgLevelingNotFound, "ID penjenjangan sudah digunakan", "Gagal menambahkan data penjenjangan")
	}

	nama := s.names.Resolve(ctx, l.Pegawai)
	s.activities.Record(ctx, activity.TypeLeveling, "Menambahkan data penjenjangan",
		fmt.Sprintf("Menambahkan data penjenjangan untuk pegawai %s", nama), l.Pegawai)
	return l, nil
}

func (s *LevelingService) FindAll(ctx context.Context) ([]leveling.View, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data penjenjangan")
	}
	nips := make([]string, 0, len(list))
	for _, l := range list {
		nips = append(nips, l.Pegawai)
	}
	names := s.names.ResolveMany(ctx, nips)

	out := make([]leveling.View, 0, len(list))
	for _, l := range list {
		out = append(out, leveling.View{Leveling: *l, NamaPegawai: nameOr(names, l.Pegawai)})
	}
	return out, nil
}

func (s *LevelingService) FindOne(ctx context.Context, id string) (*leveling.View, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgLevelingNotFound, "", "Gagal mengambil data penjenjangan")
	}
	return &leveling.View{Leveling: *l, NamaPegawai: s.names.Resolve(ctx, l.Pegawai)}, nil
}

func (s *LevelingService) Update(ctx context.Context, id string, patch LevelingPatch) (*leveling.Leveling, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgLevelingNotFound, "", "Gagal memperbarui data penjenjangan")
	}
	applyString(&l.Pegawai, patch.Pegawai)
	applyString(&l.NamaPenjenjangan, patch.NamaPenjenjangan)
	applyString(&l.Penyelenggara, patch.Penyelenggara)
	if patch.TahunPelaksanaan != nil {
		l.TahunPelaksanaan = patch.TahunPelaksanaan
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fromRepo(err, msgLevelingNotFound, "", "Gagal memperbarui data penjenjangan")
	}

	nama := s.names.Resolve(ctx, l.Pegawai)
	s.activities.Record(ctx, activity.TypeLeveling, "Memperbarui data penjenjangan",
		fmt.Sprintf("Memperbarui data penjenjangan milik pegawai %s", nama), l.Pegawai)
	return l, nil
}

func (s *LevelingService) Remove(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, msgLevelingNotFound, "", "Gagal menghapus data penjenjangan")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, msgLevelingNotFound, "", "Gagal menghapus data penjenjangan")
	}

	nama := s.names.Resolve(ctx, existing.Pegawai)
	s.activities.Record(ctx, activity.TypeLeveling, "Menghapus data penjenjangan",
		fmt.Sprintf("Menghapus data penjenjangan milik pegawai %s", nama), existing.Pegawai)
	return nil
}
