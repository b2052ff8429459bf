package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sisnompeg_admin/internal/app"
)

type fakeRunner struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (f *fakeRunner) ProcessDueAdvancements(ctx context.Context) (*app.AdvancementResult, error) {
	f.calls.Add(1)
	_, ok := ctx.Deadline()
	f.deadline.Store(ok)
	if f.err != nil {
		return nil, f.err
	}
	return &app.AdvancementResult{Advanced: 1}, nil
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewKGBScheduler(&fakeRunner{}, quietLog(), "not a cron spec", time.UTC)
	assert.Error(t, s.Start())
}

func TestRunPassUsesBoundedContext(t *testing.T) {
	r := &fakeRunner{}
	s := NewKGBScheduler(r, quietLog(), "0 7 * * *", time.UTC)
	s.runPass()
	assert.EqualValues(t, 1, r.calls.Load())
	assert.True(t, r.deadline.Load())

	r.err = errors.New("db down")
	assert.NotPanics(t, s.runPass)
}

func TestSchedulerRunsJob(t *testing.T) {
	r := &fakeRunner{}
	s := NewKGBScheduler(r, quietLog(), "@every 1s", time.UTC)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
