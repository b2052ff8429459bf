package careernote

import (
	"time"

	"sisnompeg_admin/internal/domain/calendar"
)

// Note is a career-track note about an employee's next promotion
// ('catatan_karir').
type Note struct {
	ID                 string        `json:"id_catatan"`
	NIP                string        `json:"NIP"`
	PangkatSekarang    string        `json:"Pangkat_Sekarang"`
	PotensiPangkatBaru string        `json:"Potensi_Pangkat_Baru"`
	TanggalLayak       calendar.Date `json:"Tanggal_Layak"`
	Status             string        `json:"Status"`
	Catatan            string        `json:"Catatan"`
	CreatedAt          time.Time     `json:"Created_At"`
}

type View struct {
	Note
	NamaPegawai string `json:"Nama_Pegawai"`
}
