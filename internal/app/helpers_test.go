package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"sisnompeg_admin/internal/domain/calendar"
	"sisnompeg_admin/internal/domain/employee"
	"sisnompeg_admin/internal/domain/notify"
	"sisnompeg_admin/internal/infra/memstore"
)

var wib = time.FixedZone("WIB", 7*3600)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// recordingNotifier keeps every delivered message and fails for subjects
// containing any of the keys in failFor.
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []notify.Message
	failFor []string
}

func (n *recordingNotifier) Notify(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, key := range n.failFor {
		if strings.Contains(msg.Subject, key) {
			return errors.New("smtp: 451 temporary failure")
		}
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) setFailFor(keys ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failFor = keys
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type testEnv struct {
	store      *memstore.Store
	notifier   *recordingNotifier
	names      *NameResolver
	activities *ActivityService
	employees  *EmployeeService
	kgb        *KGBService
	clock      *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// tick advances the clock by one second per call so activity entries get
// distinct timestamps.
func (c *testClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	log := quietLog()
	store := memstore.New()
	clock := &testClock{now: now}
	store.SetClock(clock.tick)

	notifier := &recordingNotifier{}
	names := NewNameResolver(store.Employees(), log)
	activities := NewActivityService(store.Activities(), names, log)
	kgb := NewKGBService(store.Employees(), notifier, activities, wib, log)
	kgb.SetClock(clock.Now)

	return &testEnv{
		store:      store,
		notifier:   notifier,
		names:      names,
		activities: activities,
		employees:  NewEmployeeService(store.Employees(), activities, log),
		kgb:        kgb,
		clock:      clock,
	}
}

func (env *testEnv) addEmployee(t *testing.T, nip, nama string, due calendar.Date) *employee.Employee {
	t.Helper()
	e, err := env.employees.Create(context.Background(), EmployeeInput{
		NIP:             nip,
		Nama:            nama,
		PangkatGolongan: "III.a",
		KGBBerikutnya:   due,
	})
	require.NoError(t, err)
	return e
}

// nip builds an 18-digit key ending in n.
func nip(n int) string {
	return fmt.Sprintf("199001012015031%03d", n)
}
