package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sisnompeg_admin/internal/domain/employee"
)

// upcomingOnDashboard is how many due dates the dashboard shows.
const upcomingOnDashboard = 2

type GenderCount struct {
	LakiLaki  int `json:"lakiLaki"`
	Perempuan int `json:"perempuan"`
}

type DashboardStats struct {
	GenderCount GenderCount          `json:"genderCount"`
	UpcomingKGB []*employee.Employee `json:"upcomingKGB"`
}

// DashboardService serves the dashboard statistics. It only reads; the
// advancement pass is triggered elsewhere.
type DashboardService struct {
	employees employee.Repository
}

func NewDashboardService(er employee.Repository) *DashboardService {
	return &DashboardService{employees: er}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		genders  map[string]int
		upcoming []*employee.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genders, err = s.employees.CountByGender(gctx)
		return err
	})
	g.Go(func() error {
		list, err := s.employees.ListWithDueDate(gctx)
		if err != nil {
			return err
		}
		if len(list) > upcomingOnDashboard {
			list = list[:upcomingOnDashboard]
		}
		upcoming = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data pegawai untuk dashboard")
	}

	return &DashboardStats{
		GenderCount: GenderCount{
			LakiLaki:  genders[employee.GenderMale],
			Perempuan: genders[employee.GenderFemale],
		},
		UpcomingKGB: upcoming,
	}, nil
}
