package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/service/allocation"
	"github.com/mamadbah2/farmcost/internal/service/grouping"
)

const dateLayout = "2006-01-02"

// ErrInvalidPeriod is returned when a report period cannot be parsed or ends before it starts.
var ErrInvalidPeriod = errors.New("invalid report period")

// Source fetches the farm records a report is computed from.
type Source interface {
	ListBatches(ctx context.Context, ownerID string) ([]models.InventoryBatch, error)
	ListEligiblePlots(ctx context.Context, ownerID string) ([]models.Plot, error)
	ListTransactions(ctx context.Context, ownerID string, period models.DateRange) ([]models.FinancialTransaction, error)
	SumOutgoingMovementValue(ctx context.Context, ownerID string, period models.DateRange) (decimal.Decimal, error)
}

// SnapshotStore keeps generated cost reports.
type SnapshotStore interface {
	SaveCostReport(ctx context.Context, report models.CostReport) error
}

// Service fetches farm snapshots and runs the grouping and allocation engines over them.
type Service struct {
	source    Source
	snapshots SnapshotStore
	grouper   *grouping.Engine
	allocator *allocation.Engine
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires a reporting service. snapshots may be nil.
func NewService(source Source, snapshots SnapshotStore, grouper *grouping.Engine, allocator *allocation.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:    source,
		snapshots: snapshots,
		grouper:   grouper,
		allocator: allocator,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// PlotCosts builds the per-plot cost report for ownerID over period.
func (s *Service) PlotCosts(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (*models.CostReport, error) {
	if !period.Start.IsZero() && !period.End.IsZero() && period.End.Before(period.Start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidPeriod, period.End.Format(dateLayout), period.Start.Format(dateLayout))
	}

	var (
		plots      []models.Plot
		txs        []models.FinancialTransaction
		stockTotal decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if plots, err = s.source.ListEligiblePlots(gctx, ownerID); err != nil {
			return fmt.Errorf("list plots: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if txs, err = s.source.ListTransactions(gctx, ownerID, period); err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stockTotal, err = s.source.SumOutgoingMovementValue(gctx, ownerID, period); err != nil {
			return fmt.Errorf("sum stock movements: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := s.allocator.Allocate(allocation.Request{
		Transactions:       txs,
		Plots:              plots,
		StockMovementTotal: stockTotal,
		Period:             period,
		Filter:             filter,
	})
	report.ID = s.newID()
	report.OwnerID = ownerID
	report.GeneratedAt = s.now().UTC()

	s.logger.Info("cost report generated",
		zap.String("report_id", report.ID),
		zap.Int("plots", len(report.Plots)),
		zap.Int("transactions", len(txs)),
		zap.String("grand_total", report.GrandTotal.StringFixed(2)),
		zap.Int("unclassified", report.Diagnostics.UnclassifiedCount),
		zap.Int("parse_errors", report.Diagnostics.ParseErrorCount),
	)

	if s.snapshots != nil {
		if err := s.snapshots.SaveCostReport(ctx, report); err != nil {
			s.logger.Warn("failed to persist cost report", zap.String("report_id", report.ID), zap.Error(err))
		}
	}

	return &report, nil
}

// ProductGroups groups the owner's inventory batches into logical products.
func (s *Service) ProductGroups(ctx context.Context, ownerID string) ([]models.ProductGroup, error) {
	batches, err := s.source.ListBatches(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	groups := s.grouper.Group(batches)
	s.logger.Debug("inventory grouped", zap.Int("batches", len(batches)), zap.Int("groups", len(groups)))
	return groups, nil
}

// ParsePeriod reads YYYY-MM-DD bounds in loc. Empty bounds default to the
// fallbackDays days ending today.
func ParsePeriod(startRaw, endRaw string, now time.Time, fallbackDays int, loc *time.Location) (models.DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	period := models.LastDays(now.In(loc), fallbackDays)

	if startRaw != "" {
		start, err := time.ParseInLocation(dateLayout, startRaw, loc)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("%w: start %q", ErrInvalidPeriod, startRaw)
		}
		period.Start = start
	}
	if endRaw != "" {
		end, err := time.ParseInLocation(dateLayout, endRaw, loc)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("%w: end %q", ErrInvalidPeriod, endRaw)
		}
		period.End = end.Add(24*time.Hour - time.Second)
	}
	if period.End.Before(period.Start) {
		return models.DateRange{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidPeriod, period.End.Format(dateLayout), period.Start.Format(dateLayout))
	}
	return period, nil
}
