package employee

import (
	"strings"
	"time"

	"sisnompeg_admin/internal/domain/calendar"
)

// Gender labels as stored in jenis_kelamin (compared case-insensitively).
const (
	GenderMale   = "laki-laki"
	GenderFemale = "perempuan"
)

// Employee represents a civil servant record in the 'pegawai' table.
// JSON keys keep the column names the admin frontend already uses.
type Employee struct {
	NIP                string        `json:"NIP"`
	Nama               string        `json:"Nama"`
	TempatTanggalLahir string        `json:"Tempat_Tanggal_Lahir"`
	PendidikanTerakhir string        `json:"Pendidikan_Terakhir"`
	PangkatGolongan    string        `json:"Pangkat_Golongan"`
	TMT                calendar.Date `json:"TMT"`            // current rank effective date
	KGBBerikutnya      calendar.Date `json:"KGB_Berikutnya"` // next salary-step due date
	KGBTerakhir        calendar.Date `json:"KGB_Terakhir"`   // set by the KGB pass
	KGBNotified        bool          `json:"KGB_Notified"`
	KGBDiprosesPada    *time.Time    `json:"KGB_Diproses_Pada"`
	JenisKelamin       string        `json:"Jenis_Kelamin"`
	Agama              string        `json:"Agama"`
	StatusKepegawaian  string        `json:"Status_Kepegawaian"`
	GajiPokok          *float64      `json:"Gaji_Pokok"`
	JumlahAnak         *int          `json:"Jumlah_Anak"`
	CreatedAt          time.Time     `json:"Created_At"`
	UpdatedAt          time.Time     `json:"Updated_At"`
}

// NormalizedGender returns GenderMale, GenderFemale or "".
func (e *Employee) NormalizedGender() string {
	g := strings.ToLower(strings.TrimSpace(e.JenisKelamin))
	if g == GenderMale || g == GenderFemale {
		return g
	}
	return ""
}

// Advancement describes one salary-step move of a single employee. The old
// values are kept so the move can be applied and reverted conditionally.
type Advancement struct {
	NIP              string
	PreviousLastStep calendar.Date // kgb_terakhir before the move
	OldDue           calendar.Date
	NewDue           calendar.Date
	ProcessedAt      time.Time
}
