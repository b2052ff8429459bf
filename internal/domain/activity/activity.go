package activity

import "time"

// Kinds of activity entries.
const (
	TypeEmployee   = "Pegawai"
	TypeEducation  = "Pendidikan"
	TypeLeveling   = "Penjenjangan"
	TypeStructure  = "Struktur Organisasi"
	TypeCareerNote = "Catatan Karir"
	TypeKGB        = "KGB"
)

// RecentLimit is the number of entries kept by the recent-activity reader.
const RecentLimit = 3

// Entry is one row of the 'aktivitas' log.
type Entry struct {
	ID         int64
	Tipe       string
	Aksi       string
	Deskripsi  string
	Waktu      time.Time
	NIPPegawai string // optional; replaced by the employee name when read back
}

// Recent is the presentation form returned to the dashboard.
type Recent struct {
	Jenis      string    `json:"jenis"`
	Aksi       string    `json:"aksi"`
	Waktu      time.Time `json:"waktu"`
	Keterangan string    `json:"keterangan"`
}
