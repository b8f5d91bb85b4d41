package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/app"
	"github.com/mamadbah2/farmcost/internal/config"
	"github.com/mamadbah2/farmcost/internal/scheduler"
	"github.com/mamadbah2/farmcost/internal/server/handlers"
	"github.com/mamadbah2/farmcost/internal/server/router"
	commandsvc "github.com/mamadbah2/farmcost/internal/service/commands"
	whatsappsvc "github.com/mamadbah2/farmcost/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/farmcost/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmcost/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := app.NewStore(initCtx, cfg, baseLogger)
	cancelInit()
	if err != nil {
		baseLogger.Fatal("failed to init data source", zap.String("source", cfg.Farm.DataSource), zap.Error(err))
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			baseLogger.Error("failed to close data source", zap.Error(err))
		}
	}()

	rules, err := app.LoadRules(cfg.Reporting.RulesPath)
	if err != nil {
		baseLogger.Fatal("failed to load classifier rules", zap.Error(err))
	}

	reportingSvc, err := app.NewReportingService(store, rules, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init reporting service", zap.Error(err))
	}

	reportHandler := handlers.NewReportHandler(reportingSvc, handlers.ReportOptions{
		DefaultOwnerID: cfg.Farm.OwnerID,
		DefaultDays:    cfg.Reporting.PeriodDays,
		Location:       loc,
	}, baseLogger.Named("handlers.reports"))

	// WhatsApp is optional: without credentials only the JSON API is served.
	var whatsappHandler *handlers.WhatsAppHandler
	if err := cfg.ValidateMessaging(); err != nil {
		baseLogger.Warn("whatsapp disabled", zap.Error(err))
	} else {
		dispatcher := commandsvc.NewService(reportingSvc, commandsvc.Options{
			OwnerID:     cfg.Farm.OwnerID,
			DefaultDays: cfg.Reporting.PeriodDays,
			Location:    loc,
		}, baseLogger.Named("svc.commands"))

		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, dispatcher, baseLogger.Named("svc.whatsapp"))
		whatsappHandler = handlers.NewWhatsAppHandler(messagingSvc, reportingSvc, handlers.ReportOptions{
			DefaultOwnerID: cfg.Farm.OwnerID,
			DefaultDays:    cfg.Reporting.PeriodDays,
			Location:       loc,
		}, baseLogger.Named("handlers.whatsapp"))

		sched, err := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	engine := router.New(reportHandler, whatsappHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("source", cfg.Farm.DataSource))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
