package app

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
)

// ActivityService writes and reads the activity log.
type ActivityService struct {
	repo  activity.Repository
	names *NameResolver
	log   *logrus.Entry
}

func NewActivityService(ar activity.Repository, names *NameResolver, log *logrus.Entry) *ActivityService {
	return &ActivityService{repo: ar, names: names, log: log}
}

// Record appends an entry. A failed write is logged and otherwise ignored so
// the mutation that triggered it still succeeds.
func (s *ActivityService) Record(ctx context.Context, tipe, aksi, deskripsi, nip string) {
	entry := &activity.Entry{Tipe: tipe, Aksi: aksi, Deskripsi: deskripsi, NIPPegawai: nip}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"tipe": tipe, "aksi": aksi}).Error("Failed to record activity")
	}
}

// Recent returns the newest entries (at most activity.RecentLimit) and
// deletes every older one. Not atomic against concurrent writers: an entry
// appended between the read and the delete survives until the next call.
func (s *ActivityService) Recent(ctx context.Context) ([]activity.Recent, error) {
	all, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil aktivitas terbaru")
	}

	keep := all
	if len(all) > activity.RecentLimit {
		keep = all[:activity.RecentLimit]
		stale := make([]int64, 0, len(all)-activity.RecentLimit)
		for _, e := range all[activity.RecentLimit:] {
			stale = append(stale, e.ID)
		}
		if err := s.repo.DeleteByIDs(ctx, stale); err != nil {
			return nil, WrapUpstream(err, "Gagal menghapus aktivitas lama")
		}
		s.log.WithField("deleted", len(stale)).Debug("Pruned activity log")
	}

	nips := make([]string, 0, len(keep))
	for _, e := range keep {
		if e.NIPPegawai != "" {
			nips = append(nips, e.NIPPegawai)
		}
	}
	names := s.names.ResolveMany(ctx, nips)

	out := make([]activity.Recent, 0, len(keep))
	for _, e := range keep {
		desc := e.Deskripsi
		if e.NIPPegawai != "" {
			desc = strings.Replace(desc, e.NIPPegawai, names[e.NIPPegawai], 1)
		}
		out = append(out, activity.Recent{Jenis: e.Tipe, Aksi: e.Aksi, Waktu: e.Waktu, Keterangan: desc})
	}
	return out, nil
}
