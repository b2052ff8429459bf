package leveling

import "time"

// Leveling is a training or leveling program attended by an employee
// ('penjenjangan').
type Leveling struct {
	ID               string    `json:"ID_Penjenjangan"`
	Pegawai          string    `json:"Pegawai"`
	NamaPenjenjangan string    `json:"Nama_Penjenjangan"`
	TahunPelaksanaan *int      `json:"Tahun_Pelaksanaan"`
	Penyelenggara    string    `json:"Penyelenggara"`
	CreatedAt        time.Time `json:"Created_At"`
}

type View struct {
	Leveling
	NamaPegawai string `json:"Nama_Pegawai"`
}
