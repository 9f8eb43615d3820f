// Package scheduler runs the recurring payment-due report.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/report"
)

// Sink receives scheduled report output. The bot's outgoing channel
// implements it; tests use a buffer.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	cron    *cron.Cron
	reports *report.Builder
	sink    Sink
	log     zerolog.Logger
	loc     *time.Location
	now     func() time.Time
	ctx     context.Context
}

// New creates a Scheduler.
func New(ctx context.Context, reports *report.Builder, sink Sink, loc *time.Location, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		reports: reports,
		sink:    sink,
		log:     log,
		loc:     loc,
		now:     time.Now,
		ctx:     ctx,
	}
}

// Register adds the monthly report task.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunReportNow executes the report task immediately, for the /pagos
// command.
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) reportTask() {
	now := s.now().In(s.loc)
	month := billing.Month{Year: now.Year(), Month: now.Month()}

	dues, err := s.reports.PaymentsDue(s.ctx, month)
	if err != nil {
		s.log.Error().Err(err).Msg("payment-due report failed")
		return
	}
	if err := s.sink.Send(s.ctx, report.Format(month, dues)); err != nil {
		s.log.Error().Err(err).Msg("send report")
	}
}
