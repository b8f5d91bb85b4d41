// Package app assembles the reporting stack from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/config"
	"github.com/mamadbah2/farmcost/internal/repository/mongodb"
	"github.com/mamadbah2/farmcost/internal/repository/sheets"
	"github.com/mamadbah2/farmcost/internal/service/allocation"
	"github.com/mamadbah2/farmcost/internal/service/classifier"
	"github.com/mamadbah2/farmcost/internal/service/grouping"
	"github.com/mamadbah2/farmcost/internal/service/reporting"
)

// Store is a data source that can also keep report snapshots.
type Store interface {
	reporting.Source
	reporting.SnapshotStore
}

// NewStore opens the data source selected by DATA_SOURCE. The returned close
// function releases its connections.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, func(context.Context) error, error) {
	switch cfg.Farm.DataSource {
	case config.SourceSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			return nil, nil, err
		}
		return sheets.NewStore(repo, logger.Named("repo.sheets")), func(context.Context) error { return nil }, nil
	case config.SourceMongo:
		store, err := mongodb.NewStore(ctx, cfg.MongoDB, logger.Named("repo.mongodb"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported data source %q", cfg.Farm.DataSource)
	}
}

// LoadRules reads the classification table from path, or returns the built-in table when path is empty.
func LoadRules(path string) (classifier.Rules, error) {
	if path == "" {
		return classifier.DefaultRules(), nil
	}
	return classifier.LoadRules(path)
}

// NewReportingService wires the engines around store.
func NewReportingService(store Store, rules classifier.Rules, logger *zap.Logger) (*reporting.Service, error) {
	c, err := classifier.New(rules)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	return reporting.NewService(
		store,
		store,
		grouping.NewEngine(grouping.GreedyClusterer{}, logger.Named("engine.grouping")),
		allocation.NewEngine(c, logger.Named("engine.allocation")),
		logger.Named("svc.reporting"),
	), nil
}
