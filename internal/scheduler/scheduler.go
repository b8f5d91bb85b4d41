package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/config"
	"github.com/mamadbah2/farmcost/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// CostReporter renders the periodic cost summary.
type CostReporter interface {
	CostSummary(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (string, error)
}

// Notifier delivers text to a WhatsApp recipient.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler sends the cost report on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	location  *time.Location
	days      int
	ownerID   string
	recipient string
	reporter  CostReporter
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler validates the schedule and timezone from cfg.
func NewScheduler(cfg config.Config, reporter CostReporter, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Reporting.Timezone, err)
	}

	if _, err := cron.ParseStandard(cfg.Reporting.CronSchedule); err != nil {
		return nil, fmt.Errorf("parse cron schedule %q: %w", cfg.Reporting.CronSchedule, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.Reporting.CronSchedule,
		location:  loc,
		days:      cfg.Reporting.PeriodDays,
		ownerID:   cfg.Farm.OwnerID,
		recipient: cfg.WhatsApp.ManagerNumber,
		reporter:  reporter,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendCostReport); err != nil {
		return fmt.Errorf("schedule cost report: %w", err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendCostReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.deliver(ctx); err != nil {
		s.logger.Error("scheduled cost report failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled cost report sent", zap.String("to", s.recipient))
}

func (s *Scheduler) deliver(ctx context.Context) error {
	period := models.LastDays(s.now().In(s.location), s.days)

	summary, err := s.reporter.CostSummary(ctx, s.ownerID, period, "")
	if err != nil {
		return fmt.Errorf("generate cost summary: %w", err)
	}

	req := models.OutboundMessageRequest{
		To:      s.recipient,
		Message: summary,
	}
	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send cost summary: %w", err)
	}
	return nil
}
