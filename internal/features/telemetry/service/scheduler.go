package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// reportTimeout bounds a single scheduled report.
const reportTimeout = time.Minute

// Scheduler runs the Reporter on a standard 5-field cron schedule
// (minute hour day-of-month month day-of-week), e.g. "0 9 * * 1-5".
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	logger   *zap.Logger
}

// NewScheduler registers reporter on schedule.
// An empty schedule returns a nil Scheduler, which is safe to Start and Stop.
func NewScheduler(schedule string, reporter *Reporter, logger *zap.Logger) (*Scheduler, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		logger.Info("Unmapped status report disabled (UNMAPPED_REPORT_SCHEDULE not set)")
		return nil, nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		if err := reporter.Run(ctx); err != nil {
			logger.Error("Unmapped status report failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}

	return &Scheduler{cron: c, schedule: schedule, logger: logger}, nil
}

// Start begins running scheduled reports in the background.
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("Unmapped status report scheduled",
		zap.String("cron", s.schedule),
		zap.Time("next", s.cron.Entries()[0].Next),
	)
}

// Stop halts the scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}
