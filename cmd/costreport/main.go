package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/app"
	"github.com/mamadbah2/farmcost/internal/config"
	"github.com/mamadbah2/farmcost/internal/runtime/terminal"
	"github.com/mamadbah2/farmcost/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("FARMCOST_ENV_FILE"))
	if err != nil {
		return err
	}

	// Logs go to stderr so the report on stdout stays clean.
	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := app.NewStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn("failed to close data source", zap.Error(err))
		}
	}()

	rules, err := app.LoadRules(cfg.Reporting.RulesPath)
	if err != nil {
		return err
	}

	svc, err := app.NewReportingService(store, rules, log)
	if err != nil {
		return err
	}

	cli, err := terminal.NewCLI(terminal.Options{
		Service:     svc,
		Output:      os.Stdout,
		OwnerID:     cfg.Farm.OwnerID,
		DefaultDays: cfg.Reporting.PeriodDays,
		Location:    loc,
	})
	if err != nil {
		return err
	}

	return cli.Execute(os.Args[1:])
}
