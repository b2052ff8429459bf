package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/careernote"
	"sisnompeg_admin/internal/domain/employee"
)

type CareerNoteInput struct {
	ID                 string        `json:"id_catatan" binding:"omitempty,uuid"`
	NIP                string        `json:"NIP" binding:"required,number,len=18"`
	PangkatSekarang    string        `json:"Pangkat_Sekarang" binding:"required"`
	PotensiPangkatBaru string        `json:"Potensi_Pangkat_Baru"` // defaults to the next rank
	TanggalLayak       calendar.Date `json:"Tanggal_Layak"`
	Status             string        `json:"Status"`
	Catatan            string        `json:"Catatan"`
}

type CareerNotePatch struct {
	NIP                *string        `json:"NIP" binding:"omitempty,number,len=18"`
	PangkatSekarang    *string        `json:"Pangkat_Sekarang" binding:"omitempty,min=1"`
	PotensiPangkatBaru *string        `json:"Potensi_Pangkat_Baru"`
	TanggalLayak       *calendar.Date `json:"Tanggal_Layak"`
	Status             *string        `json:"Status"`
	Catatan            *string        `json:"Catatan"`
}

const msgCareerNoteNotFound = "Data catatan karir tidak ditemukan"

type CareerNoteService struct {
	repo       careernote.Repository
	names      *NameResolver
	activities *ActivityService
	log        *logrus.Entry
}

func NewCareerNoteService(r careernote.Repository, names *NameResolver, as *ActivityService, log *logrus.Entry) *CareerNoteService {
	return &CareerNoteService{repo: r, names: names, activities: as, log: log}
}

func (s *CareerNoteService) Create(ctx context.Context, in CareerNoteInput) (*careernote.Note, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	n := &careernote.Note{
		ID:                 newOrGivenID(in.ID),
		NIP:                in.NIP,
		PangkatSekarang:    in.PangkatSekarang,
		PotensiPangkatBaru: in.PotensiPangkatBaru,
		TanggalLayak:       in.TanggalLayak,
		Status:             in.Status,
		Catatan:            in.Catatan,
	}
	if n.PotensiPangkatBaru == "" {
		n.PotensiPangkatBaru = employee.NextRank(n.PangkatSekarang)
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fromRepo(err, msgCareerNoteNotFound, "ID catatan karir sudah digunakan", "Gagal menambahkan catatan karir")
	}

	nama := s.names.Resolve(ctx, n.NIP)
	s.activities.Record(ctx, activity.TypeCareerNote, "Menambahkan data catatan karir",
		fmt.Sprintf("Menambahkan catatan karir untuk pegawai %s", nama), n.NIP)
	return n, nil
}

func (s *CareerNoteService) FindAll(ctx context.Context) ([]careernote.View, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data catatan karir")
	}
	nips := make([]string, 0, len(list))
	for _, n := range list {
		nips = append(nips, n.NIP)
	}
	names := s.names.ResolveMany(ctx, nips)

	out := make([]careernote.View, 0, len(list))
	for _, n := range list {
		out = append(out, careernote.View{Note: *n, NamaPegawai: nameOr(names, n.NIP)})
	}
	return out, nil
}

func (s *CareerNoteService) FindOne(ctx context.Context, id string) (*careernote.View, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgCareerNoteNotFound, "", "Gagal mengambil data catatan karir")
	}
	return &careernote.View{Note: *n, NamaPegawai: s.names.Resolve(ctx, n.NIP)}, nil
}

func (s *CareerNoteService) Update(ctx context.Context, id string, patch CareerNotePatch) (*careernote.Note, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, msgCareerNoteNotFound, "", "Gagal memperbarui catatan karir")
	}
	applyString(&n.NIP, patch.NIP)
	applyString(&n.PangkatSekarang, patch.PangkatSekarang)
	applyString(&n.PotensiPangkatBaru, patch.PotensiPangkatBaru)
	applyString(&n.Status, patch.Status)
	applyString(&n.Catatan, patch.Catatan)
	if patch.TanggalLayak != nil {
		n.TanggalLayak = *patch.TanggalLayak
	}
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fromRepo(err, msgCareerNoteNotFound, "", "Gagal memperbarui catatan karir")
	}

	nama := s.names.Resolve(ctx, n.NIP)
	s.activities.Record(ctx, activity.TypeCareerNote, "Memperbarui data catatan karir",
		fmt.Sprintf("Memperbarui catatan karir untuk pegawai %s", nama), n.NIP)
	return n, nil
}

func (s *CareerNoteService) Remove(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, msgCareerNoteNotFound, "", "Gagal menghapus data catatan karir")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, msgCareerNoteNotFound, "", "Gagal menghapus data catatan karir")
	}

	nama := s.names.Resolve(ctx, existing.NIP)
	s.activities.Record(ctx, activity.TypeCareerNote, "Menghapus data catatan karir",
		fmt.Sprintf("Menghapus catatan karir milik pegawai %s", nama), existing.NIP)
	return nil
}
