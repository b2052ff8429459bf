package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/education"
)

type EducationInput struct {
	ID         string `json:"ID_Pendidikan" binding:"omitempty,uuid"`
	Pegawai    string `json:"Pegawai" binding:"required"`
	Jenjang    string `json:"Jenjang" binding:"required"`
	Jurusan    string `json:"Jurusan"`
	Institusi  string `json:"Institusi"`
	TahunLulus *int   `json:"Tahun_Lulus" binding:"omitempty,gte=1900,lte=2100"`
}

type EducationPatch struct {
	Pegawai    *string `json:"Pegawai" binding:"omitempty,min=1"`
	Jenjang    *string `json:"Jenjang" binding:"omitempty,min=1"`
	Jurusan    *string `json:"Jurusan"`
	Institusi  *string `json:"Institusi"`
	TahunLulus *int    `json:"Tahun_Lulus" binding:"omitempty,gte=1900,lte=2100"`
}

const msgEducationNotFound = "Data pendidikan tidak ditemukan"

type EducationService struct {
	repo       education.Repository
	names      *NameResolver
	activities *ActivityService
	log        *logrus.Entry
}

func NewEducationService(r education.Repository, names *NameResolver, as *ActivityService, log *logrus.Entry) *EducationService {
	return &EducationService{repo: r, names: names, activities: as, log: log}
}

func (s *EducationService) Create(ctx context.Context, in EducationInput) (*education.Education, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	e := &education.Education{
		ID:         newOrGivenID(in.ID),
		Pegawai:    in.Pegawai,
		Jenjang:    in.Jenjang,
		Jurusan:    in.Jurusan,
		Institusi:  in.Institusi,
		TahunLulus: in.TahunLulus,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fromRepo(err, msgEducationNotFound, "ID pendidikan sudah digunakan", "Gagal menambahkan pendidikan")
	}

	nama := s.names.Resolve(ctx, e.Pegawai)
	s.activities.Record(ctx, activity.TypeEducation, "Menambahkan pendidikan",
		fmt.Sprintf("Menambahkan data pendidikan untuk pegawai %s", nama), e.Pegawai)
	return e, nil
}

func (s *EducationService) FindAll(ctx context.Context) ([]education.View, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data pendidikan")
	}
	nips := make([]string, 0, len(list))
	for _, e := range list {
		nips = append(nips, e.Pegawai)
	}
	names := s.names.ResolveMany(ctx, nips)

	out := make([]education.View, 0, len(list))
	for _, e := range list {
		out = append(out, education.View{Education: *e, NamaPegawai: nameOr(names, e.Pegawai)})
	}
	return out, nil
}

func (s *EducationService) FindOne(ctx context.Context, id string) (*education.View, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgEducationNotFound, "", "Gagal mengambil data pendidikan")
	}
	return &education.View{Education: *e, NamaPegawai: s.names.Resolve(ctx, e.Pegawai)}, nil
}

func (s *EducationService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, WrapUpstream(err, "Gagal mengambil total pendidikan")
	}
	return n, nil
}

func (s *EducationService) Update(ctx context.Context, id string, patch EducationPatch) (*education.Education, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgEducationNotFound, "", "Gagal memperbarui pendidikan")
	}
	applyString(&e.Pegawai, patch.Pegawai)
	applyString(&e.Jenjang, patch.Jenjang)
	applyString(&e.Jurusan, patch.Jurusan)
	applyString(&e.Institusi, patch.Institusi)
	if patch.TahunLulus != nil {
		e.TahunLulus = patch.TahunLulus
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fromRepo(err, msgEducationNotFound, "", "Gagal memperbarui pendidikan")
	}

	nama := s.names.Resolve(ctx, e.Pegawai)
	s.activities.Record(ctx, activity.TypeEducation, "Memperbarui pendidikan",
		fmt.Sprintf("Memperbarui data pendidikan untuk pegawai %s", nama), e.Pegawai)
	return e, nil
}

func (s *EducationService) Remove(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, msgEducationNotFound, "", "Gagal menghapus data pendidikan")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, msgEducationNotFound, "", "Gagal menghapus data pendidikan")
	}

	nama := s.names.Resolve(ctx, existing.Pegawai)
	s.activities.Record(ctx, activity.TypeEducation, "Menghapus pendidikan",
		fmt.Sprintf("Menghapus data pendidikan milik pegawai %s", nama), existing.Pegawai)
	return nil
}

// nameOr looks nip up in a ResolveMany result.
func nameOr(names map[string]string, nip string) string {
	if n, ok := names[nip]; ok {
		return n
	}
	if nip == "" {
		return unknownEmployee
	}
	return nip
}
