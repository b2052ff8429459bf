// internal/app/kgb_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/employee"
	"sisnompeg_admin/internal/domain/notify"
	idb "sisnompeg_admin/internal/infra/database"
	"sisnompeg_admin/internal/infra/metrics"
)

// Failure stages reported by an advancement pass.
const (
	StageUpdate       = "update"
	StageNotification = "notification"
)

// AdvancementFailure describes one record the pass could not advance.
type AdvancementFailure struct {
	NIP     string `json:"nip"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// AdvancementResult summarizes one pass.
type AdvancementResult struct {
	Advanced int                  `json:"jumlah_diproses"`
	Failures []AdvancementFailure `json:"gagal"`
}

// DueItem is one employee with a salary-step due date, annotated relative to
// today.
type DueItem struct {
	NIP           string             `json:"NIP"`
	Nama          string             `json:"Nama"`
	KGBBerikutnya calendar.Date      `json:"KGB_Berikutnya"`
	SisaHari      int                `json:"sisa_hari"`
	Status        employee.DueBucket `json:"status"`
}

// DueNotifications is the due-date view shown to the administrator.
type DueNotifications struct {
	Message    string    `json:"message"`
	TotalNotif int       `json:"total_notif"`
	Data       []DueItem `json:"data"`
}

// Eligibility is the result of a rank eligibility check.
type Eligibility struct {
	NIP                string                     `json:"NIP"`
	PangkatSekarang    string                     `json:"Pangkat_Sekarang"`
	PotensiPangkatBaru string                     `json:"Potensi_Pangkat_Baru"`
	TanggalLayak       calendar.Date              `json:"Tanggal_Layak"`
	Status             employee.EligibilityStatus `json:"Status"`
}

// KGBService runs salary-step advancement and the date views derived from it.
type KGBService struct {
	employees  employee.Repository
	notifier   notify.Notifier
	activities *ActivityService
	log        *logrus.Entry
	loc        *time.Location
	now        func() time.Time
}

func NewKGBService(er employee.Repository, n notify.Notifier, as *ActivityService, loc *time.Location, log *logrus.Entry) *KGBService {
	if loc == nil {
		loc = time.UTC
	}
	return &KGBService{
		employees:  er,
		notifier:   n,
		activities: as,
		log:        log,
		loc:        loc,
		now:        time.Now,
	}
}

// SetClock replaces the wall clock. Used by tests.
func (s *KGBService) SetClock(now func() time.Time) { s.now = now }

func (s *KGBService) today() (calendar.Date, time.Time) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return calendar.Of(now), start
}

// ProcessDueAdvancements advances every due employee by one salary step and
// notifies the administrator once per advanced record.
//
// Each record is claimed with a conditional write, so concurrent passes never
// notify twice for the same due date. A record whose notification fails is
// reverted and reported; the pass continues with the remaining records. Only
// a failure to read the due set aborts the pass.
func (s *KGBService) ProcessDueAdvancements(ctx context.Context) (*AdvancementResult, error) {
	now := s.now()
	today, startOfToday := s.today()
	log := s.log.WithField("today", today.String())

	rearmed, err := s.employees.RearmAdvanced(ctx, today, startOfToday)
	if err != nil {
		log.WithError(err).Error("Failed to re-arm advanced employees")
		return nil, WrapUpstream(err, "Gagal mengambil data KGB")
	}

	due, err := s.employees.ListDueForAdvancement(ctx, today)
	if err != nil {
		log.WithError(err).Error("Failed to list employees due for KGB")
		return nil, WrapUpstream(err, "Gagal mengambil data KGB")
	}
	log.WithFields(logrus.Fields{"due": len(due), "rearmed": rearmed}).Info("Starting KGB pass")

	result := &AdvancementResult{Failures: make([]AdvancementFailure, 0)}
	skipped := 0
	for _, e := range due {
		adv := employee.Advancement{
			NIP:              e.NIP,
			PreviousLastStep: e.KGBTerakhir,
			OldDue:           e.KGBBerikutnya,
			NewDue:           employee.NextSalaryStepDate(e.KGBBerikutnya),
			ProcessedAt:      now,
		}
		recLog := log.WithFields(logrus.Fields{"nip": e.NIP, "old_due": adv.OldDue.String(), "new_due": adv.NewDue.String()})

		if err := s.employees.AdvanceSalaryStep(ctx, adv); err != nil {
			if errors.Is(err, idb.ErrStaleWrite) {
				recLog.Debug("Record already advanced by another pass, skipping")
				skipped++
				metrics.KGBSkipped.Inc()
				continue
			}
			recLog.WithError(err).Error("Failed to advance salary step")
			result.Failures = append(result.Failures, s.fail(e.NIP, StageUpdate, err))
			continue
		}

		if err := s.notifier.Notify(ctx, advancementMessage(e, adv)); err != nil {
			recLog.WithError(err).Error("Failed to notify administrator, reverting advancement")
			s.revert(ctx, adv, recLog)
			result.Failures = append(result.Failures, s.fail(e.NIP, StageNotification, err))
			continue
		}

		result.Advanced++
		metrics.KGBAdvanced.Inc()
		recLog.Info("Salary step advanced")
		// Delivered, so record it even if the caller has gone away.
		s.activities.Record(context.WithoutCancel(ctx), activity.TypeKGB, "Memproses KGB",
			fmt.Sprintf("KGB pegawai %s dimajukan dari %s ke %s", e.NIP, adv.OldDue, adv.NewDue), e.NIP)
	}

	metrics.KGBLastPass.SetToCurrentTime()
	log.WithFields(logrus.Fields{
		"advanced": result.Advanced,
		"failed":   len(result.Failures),
		"skipped":  skipped,
	}).Info("KGB pass finished")
	return result, nil
}

func (s *KGBService) fail(nip, stage string, err error) AdvancementFailure {
	metrics.KGBFailures.WithLabelValues(stage).Inc()
	return AdvancementFailure{NIP: nip, Stage: stage, Message: err.Error()}
}

// revert undoes adv even if the caller's context is already cancelled, so a
// record is never left marked as notified without a delivered message.
func (s *KGBService) revert(ctx context.Context, adv employee.Advancement, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	err := s.employees.RevertSalaryStep(ctx, adv)
	switch {
	case err == nil:
		log.Info("Advancement reverted")
	case errors.Is(err, idb.ErrStaleWrite):
		log.Warn("Record changed since advancement, revert skipped")
	default:
		metrics.KGBFailures.WithLabelValues("revert").Inc()
		log.WithError(err).Error("Failed to revert advancement")
	}
}

func advancementMessage(e *employee.Employee, adv employee.Advancement) notify.Message {
	return notify.Message{
		Subject: fmt.Sprintf("Kenaikan Gaji Berkala: %s (%s)", e.Nama, e.NIP),
		Body: fmt.Sprintf("Kenaikan gaji berkala pegawai berikut telah jatuh tempo dan diproses.\n\n"+
			"Nama: %s\nNIP: %s\nPangkat/Golongan: %s\nKGB jatuh tempo: %s\nKGB berikutnya: %s\n",
			e.Nama, e.NIP, orDash(e.PangkatGolongan), adv.OldDue, adv.NewDue),
	}
}

func orDash(s string) string {
	if s == "" {
		return unknownEmployee
	}
	return s
}

// CheckEligibility evaluates the four-year rank cycle for one employee.
func (s *KGBService) CheckEligibility(ctx context.Context, nip string) (*Eligibility, error) {
	e, err := s.employees.GetByNIP(ctx, nip)
	if err != nil {
		return nil, fromRepo(err, msgEmployeeNotFound, "", "Gagal mengambil data pegawai")
	}
	if e.TMT.IsZero() {
		return nil, WrapValidation(nil, "TMT pegawai belum diisi")
	}
	today, _ := s.today()
	eligibleOn := employee.RankEligibleDate(e.TMT)
	return &Eligibility{
		NIP:                e.NIP,
		PangkatSekarang:    e.PangkatGolongan,
		PotensiPangkatBaru: employee.NextRank(e.PangkatGolongan),
		TanggalLayak:       eligibleOn,
		Status:             employee.EligibilityOn(eligibleOn, today),
	}, nil
}

// UpcomingDue loads every employee with a due date, soonest first, and
// returns a sequence that annotates them against today. The sequence can be
// ranged over more than once.
func (s *KGBService) UpcomingDue(ctx context.Context) (iter.Seq[DueItem], error) {
	list, err := s.employees.ListWithDueDate(ctx)
	if err != nil {
		return nil, WrapUpstream(err, "Gagal mengambil data KGB")
	}
	today, _ := s.today()
	return func(yield func(DueItem) bool) {
		for _, e := range list {
			days := today.DaysUntil(e.KGBBerikutnya)
			item := DueItem{
				NIP:           e.NIP,
				Nama:          e.Nama,
				KGBBerikutnya: e.KGBBerikutnya,
				SisaHari:      days,
				Status:        employee.ClassifyDue(days),
			}
			if !yield(item) {
				return
			}
		}
	}, nil
}

// DueNotifications returns the due dates that need attention (all buckets
// except "aman").
func (s *KGBService) DueNotifications(ctx context.Context) (*DueNotifications, error) {
	seq, err := s.UpcomingDue(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]DueItem, 0)
	for item := range seq {
		if item.Status != employee.BucketSafe {
			data = append(data, item)
		}
	}
	return &DueNotifications{Message: "Notifikasi KGB ditemukan", TotalNotif: len(data), Data: data}, nil
}
