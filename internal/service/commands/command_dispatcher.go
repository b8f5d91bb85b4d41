package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const maxPeriodDays = 366

// HelpText lists the commands understood by the dispatcher.
const HelpText = "Commands:\n" +
	"/costs [bucket] [days] - cost per plot (buckets: inputs, operational, logistics, administrative, other)\n" +
	"/stock - products in stock with average price\n" +
	"/help - this message"

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	CostSummary(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (string, error)
	StockSummary(ctx context.Context, ownerID string) (string, error)
}

// Dispatcher answers parsed chat commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Options scope the reports a dispatcher produces.
type Options struct {
	OwnerID     string
	DefaultDays int
	Location    *time.Location
}

// Service implements the Dispatcher interface.
type Service struct {
	reporting ReportingAdapter
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(reporting ReportingAdapter, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = 7
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		reporting: reporting,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCommand runs the report the command asks for and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandCosts:
		filter, days, err := parseCostArgs(cmd.Args, s.opts.DefaultDays)
		if err != nil {
			return "", err
		}
		period := models.LastDays(s.now().In(s.opts.Location), days)
		return s.reporting.CostSummary(ctx, s.opts.OwnerID, period, filter)
	case models.CommandStock:
		return s.reporting.StockSummary(ctx, s.opts.OwnerID)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// parseCostArgs accepts an optional bucket and an optional day count in any order.
func parseCostArgs(args []string, defaultDays int) (models.CostBucket, int, error) {
	var filter models.CostBucket
	days := defaultDays

	if len(args) > 2 {
		return "", 0, ErrInvalidArguments
	}

	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n <= 0 || n > maxPeriodDays {
				return "", 0, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidArguments, maxPeriodDays)
			}
			days = n
			continue
		}

		bucket, err := models.ParseBucket(arg)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		filter = bucket
	}

	return filter, days, nil
}
