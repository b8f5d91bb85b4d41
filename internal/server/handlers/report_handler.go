package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/service/reporting"
)

// ReportService is the reporting surface exposed over HTTP.
type ReportService interface {
	PlotCosts(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (*models.CostReport, error)
	ProductGroups(ctx context.Context, ownerID string) ([]models.ProductGroup, error)
}

// ReportOptions hold request defaults.
type ReportOptions struct {
	DefaultOwnerID string
	DefaultDays    int
	Location       *time.Location
}

// ReportHandler serves the cost and product reports as JSON.
type ReportHandler struct {
	svc    ReportService
	opts   ReportOptions
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the report HTTP handler.
func NewReportHandler(svc ReportService, opts ReportOptions, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ReportHandler{svc: svc, opts: opts, logger: logger, now: time.Now}
}

// PlotCosts handles GET /api/v1/reports/costs?start=&end=&bucket=&owner=.
func (h *ReportHandler) PlotCosts(c *gin.Context) {
	period, err := reporting.ParsePeriod(c.Query("start"), c.Query("end"), h.now(), h.opts.DefaultDays, h.opts.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter, err := models.ParseBucket(c.Query("bucket"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.PlotCosts(c.Request.Context(), h.owner(c), period, filter)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to build cost report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to build cost report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ProductGroups handles GET /api/v1/reports/products?owner=.
func (h *ReportHandler) ProductGroups(c *gin.Context) {
	groups, err := h.svc.ProductGroups(c.Request.Context(), h.owner(c))
	if err != nil {
		h.logger.Error("failed to group products", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to group products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": groups})
}

func (h *ReportHandler) owner(c *gin.Context) string {
	if owner := c.Query("owner"); owner != "" {
		return owner
	}
	return h.opts.DefaultOwnerID
}
