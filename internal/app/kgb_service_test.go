package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sisnompeg_admin/internal/domain/activity"
	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/employee"
	"sisnompeg_admin/internal/domain/notify"
)

// 10 June 2025, 10:00 WIB.
var june10 = time.Date(2025, time.June, 10, 10, 0, 0, 0, wib)

func d(y int, m time.Month, day int) calendar.Date { return calendar.New(y, m, day) }

func TestProcessAdvancesOnlyDueRecords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))
	env.addEmployee(t, nip(2), "Budi", d(2025, time.July, 1))
	env.addEmployee(t, nip(3), "Citra", d(2025, time.June, 10))
	env.addEmployee(t, nip(4), "Dewi", calendar.Date{})

	res, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Advanced)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 2, env.notifier.count())

	andi := env.store.Employee(nip(1))
	assert.Equal(t, d(2027, time.June, 1), andi.KGBBerikutnya)
	assert.Equal(t, d(2025, time.June, 1), andi.KGBTerakhir)
	assert.True(t, andi.KGBNotified)
	require.NotNil(t, andi.KGBDiprosesPada)

	budi := env.store.Employee(nip(2))
	assert.Equal(t, d(2025, time.July, 1), budi.KGBBerikutnya)
	assert.False(t, budi.KGBNotified)
	assert.True(t, budi.KGBTerakhir.IsZero())

	assert.Equal(t, d(2027, time.June, 10), env.store.Employee(nip(3)).KGBBerikutnya)
	assert.True(t, env.store.Employee(nip(4)).KGBBerikutnya.IsZero())

	kgbEntries := 0
	for _, e := range env.store.ActivityLog() {
		if e.Tipe == activity.TypeKGB {
			kgbEntries++
			assert.Equal(t, "Memproses KGB", e.Aksi)
			assert.Contains(t, e.Deskripsi, e.NIPPegawai)
		}
	}
	assert.Equal(t, 2, kgbEntries)
}

func TestProcessUsesConfiguredTimeZone(t *testing.T) {
	// 9 June 18:00 UTC is already 10 June in WIB.
	env := newTestEnv(t, time.Date(2025, time.June, 9, 18, 0, 0, 0, time.UTC))
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 10))

	res, err := env.kgb.ProcessDueAdvancements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Advanced)
}

func TestProcessIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))

	first, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	second, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Advanced)
	assert.Equal(t, 0, second.Advanced)
	assert.Equal(t, 1, env.notifier.count())
	assert.Equal(t, d(2027, time.June, 1), env.store.Employee(nip(1)).KGBBerikutnya)
}

func TestConcurrentPassesNotifyOncePerRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	const records = 12
	for i := 1; i <= records; i++ {
		env.addEmployee(t, nip(i), "Pegawai", d(2025, time.May, i))
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.kgb.ProcessDueAdvancements(ctx)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			total += res.Advanced
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, records, total)
	assert.Equal(t, records, env.notifier.count())
	for i := 1; i <= records; i++ {
		assert.Equal(t, d(2027, time.May, i), env.store.Employee(nip(i)).KGBBerikutnya)
	}
}

func TestNotificationFailureRevertsAndContinues(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))
	env.addEmployee(t, nip(2), "Budi", d(2025, time.June, 2))

	prev := d(2023, time.June, 2)
	_, err := env.employees.Update(ctx, nip(2), EmployeePatch{KGBTerakhir: &prev})
	require.NoError(t, err)

	env.notifier.setFailFor(nip(2))
	res, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Advanced)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, nip(2), res.Failures[0].NIP)
	assert.Equal(t, StageNotification, res.Failures[0].Stage)
	assert.Contains(t, res.Failures[0].Message, "451")

	budi := env.store.Employee(nip(2))
	assert.False(t, budi.KGBNotified, "undelivered advancement must not look delivered")
	assert.Equal(t, d(2025, time.June, 2), budi.KGBBerikutnya)
	assert.Equal(t, prev, budi.KGBTerakhir)
	assert.Nil(t, budi.KGBDiprosesPada)

	env.notifier.setFailFor()
	res, err = env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Advanced)
	assert.Equal(t, d(2027, time.June, 2), env.store.Employee(nip(2)).KGBBerikutnya)
	assert.Equal(t, 2, env.notifier.count())
}

func TestUpdateFailureIsCollected(t *testing.T) {
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))
	env.addEmployee(t, nip(2), "Budi", d(2025, time.June, 2))
	env.store.FailOn("employee.AdvanceSalaryStep", errors.New("connection reset"))

	res, err := env.kgb.ProcessDueAdvancements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Advanced)
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.Equal(t, StageUpdate, f.Stage)
	}
	assert.Zero(t, env.notifier.count())
}

func TestReadFailureAbortsPass(t *testing.T) {
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))
	env.store.FailOn("employee.ListDueForAdvancement", errors.New("timeout"))

	_, err := env.kgb.ProcessDueAdvancements(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Zero(t, env.notifier.count())
	assert.False(t, env.store.Employee(nip(1)).KGBNotified)
}

func TestNextCycleIsRearmed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))

	_, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)

	env.clock.Set(time.Date(2027, time.June, 2, 9, 0, 0, 0, wib))
	res, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Advanced)

	andi := env.store.Employee(nip(1))
	assert.Equal(t, d(2029, time.June, 1), andi.KGBBerikutnya)
	assert.Equal(t, d(2027, time.June, 1), andi.KGBTerakhir)
	assert.Equal(t, 2, env.notifier.count())
}

func TestManualDueEditClearsNotified(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))
	_, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	require.True(t, env.store.Employee(nip(1)).KGBNotified)

	// Patches without the due date leave the flag alone.
	nama := "Andi S."
	_, err = env.employees.Update(ctx, nip(1), EmployeePatch{Nama: &nama})
	require.NoError(t, err)
	assert.True(t, env.store.Employee(nip(1)).KGBNotified)

	// Resubmitting the stored value still counts as an edit.
	same := d(2027, time.June, 1)
	_, err = env.employees.Update(ctx, nip(1), EmployeePatch{KGBBerikutnya: &same})
	require.NoError(t, err)
	assert.False(t, env.store.Employee(nip(1)).KGBNotified)

	corrected := d(2025, time.June, 5)
	updated, err := env.employees.Update(ctx, nip(1), EmployeePatch{KGBBerikutnya: &corrected})
	require.NoError(t, err)
	assert.False(t, updated.KGBNotified)
	assert.Equal(t, corrected, updated.KGBBerikutnya)

	res, err := env.kgb.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Advanced)
	assert.Equal(t, d(2027, time.June, 5), env.store.Employee(nip(1)).KGBBerikutnya)
}

func TestCheckEligibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2024, time.March, 31, 12, 0, 0, 0, wib))
	_, err := env.employees.Create(ctx, EmployeeInput{
		NIP: nip(1), Nama: "Andi", PangkatGolongan: "III.d", TMT: d(2020, time.April, 1),
	})
	require.NoError(t, err)

	got, err := env.kgb.CheckEligibility(ctx, nip(1))
	require.NoError(t, err)
	assert.Equal(t, d(2024, time.April, 1), got.TanggalLayak)
	assert.Equal(t, employee.NotEligible, got.Status)
	assert.Equal(t, "III.d", got.PangkatSekarang)
	assert.Equal(t, "IV.a", got.PotensiPangkatBaru)

	env.clock.Set(time.Date(2024, time.April, 1, 0, 30, 0, 0, wib))
	got, err = env.kgb.CheckEligibility(ctx, nip(1))
	require.NoError(t, err)
	assert.Equal(t, employee.Eligible, got.Status)

	_, err = env.kgb.CheckEligibility(ctx, nip(9))
	assert.True(t, IsNotFound(err))

	env.addEmployee(t, nip(2), "Budi", calendar.Date{})
	_, err = env.kgb.CheckEligibility(ctx, nip(2))
	assert.True(t, IsValidation(err))
}

func TestCheckEligibilityIsReadOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	_, err := env.employees.Create(ctx, EmployeeInput{NIP: nip(1), Nama: "Andi", TMT: d(2010, time.January, 1), KGBBerikutnya: d(2025, time.January, 1)})
	require.NoError(t, err)
	before := len(env.store.ActivityLog())

	_, err = env.kgb.CheckEligibility(ctx, nip(1))
	require.NoError(t, err)
	assert.Len(t, env.store.ActivityLog(), before)
	assert.False(t, env.store.Employee(nip(1)).KGBNotified)
}

func TestUpcomingDueBucketsAndRestart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Lewat", d(2025, time.June, 9))
	env.addEmployee(t, nip(2), "HariIni", d(2025, time.June, 10))
	env.addEmployee(t, nip(3), "Segera", d(2025, time.July, 10))
	env.addEmployee(t, nip(4), "Aman", d(2025, time.July, 11))
	env.addEmployee(t, nip(5), "Kosong", calendar.Date{})

	seq, err := env.kgb.UpcomingDue(ctx)
	require.NoError(t, err)

	var first []DueItem
	for item := range seq {
		first = append(first, item)
	}
	require.Len(t, first, 4)
	assert.Equal(t, []employee.DueBucket{employee.BucketOverdue, employee.BucketToday, employee.BucketSoon, employee.BucketSafe},
		[]employee.DueBucket{first[0].Status, first[1].Status, first[2].Status, first[3].Status})
	assert.Equal(t, []int{-1, 0, 30, 31}, []int{first[0].SisaHari, first[1].SisaHari, first[2].SisaHari, first[3].SisaHari})

	var second []DueItem
	for item := range seq {
		second = append(second, item)
	}
	assert.Equal(t, first, second)

	// Early stop is honoured.
	n := 0
	for range seq {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestDueNotificationsExcludeSafe(t *testing.T) {
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Lewat", d(2025, time.June, 9))
	env.addEmployee(t, nip(2), "Aman", d(2026, time.January, 1))

	got, err := env.kgb.DueNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalNotif)
	require.Len(t, got.Data, 1)
	assert.Equal(t, nip(1), got.Data[0].NIP)
	assert.Equal(t, "Notifikasi KGB ditemukan", got.Message)
}

// cancellingNotifier delivers and then cancels the pass context, like a
// client that disconnects right after the email goes out.
type cancellingNotifier struct {
	recordingNotifier
	cancel context.CancelFunc
}

func (n *cancellingNotifier) Notify(ctx context.Context, msg notify.Message) error {
	err := n.recordingNotifier.Notify(ctx, msg)
	n.cancel()
	return err
}

func TestAdvancementActivitySurvivesCancelledCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env := newTestEnv(t, june10)
	env.addEmployee(t, nip(1), "Andi", d(2025, time.June, 1))

	notifier := &cancellingNotifier{cancel: cancel}
	svc := NewKGBService(env.store.Employees(), notifier, env.activities, wib, quietLog())
	svc.SetClock(env.clock.Now)

	res, err := svc.ProcessDueAdvancements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Advanced)
	assert.Equal(t, 1, notifier.count())

	var kgbEntries int
	for _, e := range env.store.ActivityLog() {
		if e.Tipe == activity.TypeKGB {
			kgbEntries++
		}
	}
	assert.Equal(t, 1, kgbEntries)
}
