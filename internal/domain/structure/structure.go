package structure

import (
	"time"

	"sisnompeg_admin/internal/domain/calendar"
)

// Assignment places an employee in a position of the organizational
// structure ('struktur').
type Assignment struct {
	ID        string        `json:"ID_Struktur"`
	Pegawai   string        `json:"Pegawai"`
	Jabatan   string        `json:"Jabatan"`
	TMT       calendar.Date `json:"TMT"` // start of the assignment
	CreatedAt time.Time     `json:"Created_At"`
}

type View struct {
	Assignment
	NamaPegawai string `json:"Nama_Pegawai"`
}
