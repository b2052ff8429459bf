package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"sisnompeg_admin/internal/app"
)

// PassTimeout bounds one scheduled advancement pass.
const PassTimeout = 5 * time.Minute

// AdvancementRunner is the part of the KGB service the scheduler drives.
type AdvancementRunner interface {
	ProcessDueAdvancements(ctx context.Context) (*app.AdvancementResult, error)
}

type KGBScheduler struct {
	cronEngine *cron.Cron
	runner     AdvancementRunner
	logger     *logrus.Entry
	cronSpec   string
}

func NewKGBScheduler(
	runner AdvancementRunner,
	logger *logrus.Entry,
	cronSpec string, // e.g. "0 7 * * *" (07:00 daily)
	loc *time.Location,
) *KGBScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &KGBScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:   runner,
		logger:   logger,
		cronSpec: cronSpec,
	}
}

// Start registers the job and starts the cron engine. An invalid spec is
// returned instead of starting.
func (s *KGBScheduler) Start() error {
	s.logger.WithField("spec", s.cronSpec).Info("Starting KGB scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.runPass); err != nil {
		s.logger.WithError(err).Error("Could not add KGB cron job")
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("KGB scheduler started")
	return nil
}

func (s *KGBScheduler) runPass() {
	s.logger.Info("Cron job triggered for KGB advancement pass")
	ctx, cancel := context.WithTimeout(context.Background(), PassTimeout)
	defer cancel()

	res, err := s.runner.ProcessDueAdvancements(ctx)
	if err != nil {
		s.logger.WithError(err).Error("KGB advancement pass failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"advanced": res.Advanced,
		"failed":   len(res.Failures),
	}).Info("KGB advancement pass completed")
}

// Stop stops scheduling new runs and waits for a running pass to finish.
func (s *KGBScheduler) Stop() {
	s.logger.Info("Stopping KGB scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("KGB scheduler gracefully stopped")
}
