package education

import "time"

// Education is one row of an employee's education history ('pendidikan').
type Education struct {
	ID         string    `json:"ID_Pendidikan"`
	Pegawai    string    `json:"Pegawai"` // employee NIP
	Jenjang    string    `json:"Jenjang"`
	Jurusan    string    `json:"Jurusan"`
	Institusi  string    `json:"Institusi"`
	TahunLulus *int      `json:"Tahun_Lulus"`
	CreatedAt  time.Time `json:"Created_At"`
}

// View is an Education row enriched with the employee name.
type View struct {
	Education
	NamaPegawai string `json:"Nama_Pegawai"`
}
