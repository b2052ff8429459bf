package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/employee"
)

// EmployeeInput is the payload for creating an employee.
type EmployeeInput struct {
	NIP                string        `json:"NIP" binding:"required,number,len=18"`
	Nama               string        `json:"Nama" binding:"required"`
	TempatTanggalLahir string        `json:"Tempat_Tanggal_Lahir"`
	PendidikanTerakhir string        `json:"Pendidikan_Terakhir"`
	PangkatGolongan    string        `json:"Pangkat_Golongan"`
	TMT                calendar.Date `json:"TMT"`
	KGBBerikutnya      calendar.Date `json:"KGB_Berikutnya"`
	KGBTerakhir        calendar.Date `json:"KGB_Terakhir"`
	JenisKelamin       string        `json:"Jenis_Kelamin"`
	Agama              string        `json:"Agama"`
	StatusKepegawaian  string        `json:"Status_Kepegawaian"`
	GajiPokok          *float64      `json:"Gaji_Pokok" binding:"omitempty,gte=0"`
	JumlahAnak         *int          `json:"Jumlah_Anak" binding:"omitempty,gte=0"`
}

// EmployeePatch is a partial update; nil fields are left unchanged.
type EmployeePatch struct {
	NIP                *string        `json:"NIP" binding:"omitempty,number,len=18"`
	Nama               *string        `json:"Nama" binding:"omitempty,min=1"`
	TempatTanggalLahir *string        `json:"Tempat_Tanggal_Lahir"`
	PendidikanTerakhir *string        `json:"Pendidikan_Terakhir"`
	PangkatGolongan    *string        `json:"Pangkat_Golongan"`
	TMT                *calendar.Date `json:"TMT"`
	KGBBerikutnya      *calendar.Date `json:"KGB_Berikutnya"`
	KGBTerakhir        *calendar.Date `json:"KGB_Terakhir"`
	JenisKelamin       *string        `json:"Jenis_Kelamin"`
	Agama              *string        `json:"Agama"`
	StatusKepegawaian  *string        `json:"Status_Kepegawaian"`
	GajiPokok          *float64       `json:"Gaji_Pokok" binding:"omitempty,gte=0"`
	JumlahAnak         *int           `json:"Jumlah_Anak" binding:"omitempty,gte=0"`
}

const (
	msgEmployeeNotFound = "Pegawai tidak ditemukan"
	msgNIPTaken         = "NIP sudah terdaftar"
)

type EmployeeService struct {
	repo       employee.Repository
	activities *ActivityService
	log        *logrus.Entry
}

func NewEmployeeService(er employee.Repository, as *ActivityService, log *logrus.Entry) *EmployeeService {
	return &EmployeeService{repo: er, activities: as, log: log}
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*employee.Employee, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	e := &employee.Employee{
		NIP:                in.NIP,
		Nama:               in.Nama,
		TempatTanggalLahir: in.TempatTanggalLahir,
		PendidikanTerakhir: in.PendidikanTerakhir,
		PangkatGolongan:    in.PangkatGolongan,
		TMT:                in.TMT,
		KGBBerikutnya:      in.KGBBerikutnya,
		KGBTerakhir:        in.KGBTerakhir,
		JenisKelamin:       in.JenisKelamin,
		Agama:              in.Agama,
		StatusKepegawaian:  in.StatusKepegawaian,
		GajiPokok:          in.GajiPokok,
		JumlahAnak:         in.JumlahAnak,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fromRepo(err, msgEmployeeNotFound, msgNIPTaken, "Gagal menambahkan pegawai")
	}

	s.log.WithField("nip", e.NIP).Info("Employee created")
	s.activities.Record(ctx, activity.TypeEmployee, "Menambahkan pegawai",
		fmt.Sprintf("Menambahkan pegawai %s", e.Nama), e.NIP)
	return e, nil
}

func (s *EmployeeService) FindAll(ctx context.Context) ([]*employee.Employee, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data pegawai")
	}
	return list, nil
}

func (s *EmployeeService) FindOne(ctx context.Context, nip string) (*employee.Employee, error) {
	e, err := s.repo.GetByNIP(ctx, nip)
	if err != nil {
		return nil, fromRepo(err, msgEmployeeNotFound, "", "Gagal mengambil data pegawai")
	}
	return e, nil
}

func (s *EmployeeService) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, WrapUpstream(err, "Gagal mengambil total pegawai")
	}
	return n, nil
}

// Update applies patch to the employee keyed by nip. A patch that carries the
// due date clears the notified flag, even when the date is unchanged. The
// salary-step columns are only written when the patch carries them.
func (s *EmployeeService) Update(ctx context.Context, nip string, patch EmployeePatch) (*employee.Employee, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}
	cur, err := s.repo.GetByNIP(ctx, nip)
	if err != nil {
		return nil, fromRepo(err, msgEmployeeNotFound, "", "Gagal memperbarui pegawai")
	}

	next := *cur
	applyString(&next.NIP, patch.NIP)
	applyString(&next.Nama, patch.Nama)
	applyString(&next.TempatTanggalLahir, patch.TempatTanggalLahir)
	applyString(&next.PendidikanTerakhir, patch.PendidikanTerakhir)
	applyString(&next.PangkatGolongan, patch.PangkatGolongan)
	applyString(&next.JenisKelamin, patch.JenisKelamin)
	applyString(&next.Agama, patch.Agama)
	applyString(&next.StatusKepegawaian, patch.StatusKepegawaian)
	if patch.TMT != nil {
		next.TMT = *patch.TMT
	}
	edits := employee.Edits{
		LastStep: patch.KGBTerakhir != nil,
		DueDate:  patch.KGBBerikutnya != nil,
	}
	if edits.LastStep {
		next.KGBTerakhir = *patch.KGBTerakhir
	}
	if patch.GajiPokok != nil {
		next.GajiPokok = patch.GajiPokok
	}
	if patch.JumlahAnak != nil {
		next.JumlahAnak = patch.JumlahAnak
	}
	if edits.DueDate {
		next.KGBBerikutnya = *patch.KGBBerikutnya
	}

	if err := s.repo.Update(ctx, nip, &next, edits); err != nil {
		return nil, fromRepo(err, msgEmployeeNotFound, msgNIPTaken, "Gagal memperbarui pegawai")
	}

	s.log.WithFields(logrus.Fields{"nip": nip, "new_nip": next.NIP, "due_date_edited": edits.DueDate}).Info("Employee updated")
	s.activities.Record(ctx, activity.TypeEmployee, "Memperbarui data pegawai",
		fmt.Sprintf("Memperbarui data pegawai %s", next.Nama), next.NIP)
	return &next, nil
}

func (s *EmployeeService) Remove(ctx context.Context, nip string) error {
	existing, err := s.repo.GetByNIP(ctx, nip)
	if err != nil {
		return fromRepo(err, msgEmployeeNotFound, "", "Gagal menghapus pegawai")
	}
	if err := s.repo.Delete(ctx, nip); err != nil {
		return fromRepo(err, msgEmployeeNotFound, "", "Gagal menghapus pegawai")
	}

	s.log.WithField("nip", nip).Info("Employee deleted")
	s.activities.Record(ctx, activity.TypeEmployee, "Menghapus data pegawai",
		fmt.Sprintf("Menghapus data pegawai %s", existing.Nama), "")
	return nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
