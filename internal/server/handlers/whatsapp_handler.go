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
	service "github.com/mamadbah2/farmcost/internal/service/whatsapp"
)

// CostSummarizer renders the cost report as chat text.
type CostSummarizer interface {
	CostSummary(ctx context.Context, ownerID string, period models.DateRange, filter models.CostBucket) (string, error)
}

// WhatsAppHandler serves the Meta webhook and on-demand cost summary pushes.
type WhatsAppHandler struct {
	messaging service.MessagingService
	reports   CostSummarizer
	opts      ReportOptions
	logger    *zap.Logger
	now       func() time.Time
}

// NewWhatsAppHandler constructs the WhatsApp HTTP handler.
func NewWhatsAppHandler(messaging service.MessagingService, reports CostSummarizer, opts ReportOptions, logger *zap.Logger) *WhatsAppHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &WhatsAppHandler{messaging: messaging, reports: reports, opts: opts, logger: logger, now: time.Now}
}

// Verify answers Meta's subscription challenge.
func (h *WhatsAppHandler) Verify(c *gin.Context) {
	challenge, err := h.messaging.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive answers the chat commands in a callback and reports how many
// messages it carried. Delivery status callbacks carry none.
func (h *WhatsAppHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	count := payload.MessageCount()
	if count > 0 {
		// Meta redelivers on any non-2xx answer, which would run the reports twice.
		if err := h.messaging.HandleWebhook(c.Request.Context(), payload); err != nil {
			h.logger.Error("failed answering commands", zap.Int("messages", count), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"messages": count})
}

// costPushRequest is the body of POST /api/v1/notifications/costs. Every field is optional.
type costPushRequest struct {
	To     string `json:"to"`
	Owner  string `json:"owner"`
	Bucket string `json:"bucket"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Days   int    `json:"days" binding:"omitempty,min=1,max=366"`
}

// PushCostSummary builds the cost summary for the requested period and sends it
// over WhatsApp right away. An empty recipient means the farm manager.
func (h *WhatsAppHandler) PushCostSummary(c *gin.Context) {
	var req costPushRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	days := h.opts.DefaultDays
	if req.Days > 0 {
		days = req.Days
	}
	period, err := reporting.ParsePeriod(req.Start, req.End, h.now(), days, h.opts.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := models.ParseBucket(req.Bucket)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := req.Owner
	if owner == "" {
		owner = h.opts.DefaultOwnerID
	}

	ctx := c.Request.Context()
	summary, err := h.reports.CostSummary(ctx, owner, period, filter)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to build cost summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to build cost summary"})
		return
	}

	if err := h.messaging.SendOutbound(ctx, models.OutboundMessageRequest{To: req.To, Message: summary}); err != nil {
		h.logger.Error("failed to push cost summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send cost summary"})
		return
	}

	h.logger.Info("cost summary pushed", zap.String("owner", owner), zap.String("bucket", string(filter)))
	c.JSON(http.StatusAccepted, gin.H{
		"status": "sent",
		"bucket": string(filter),
		"start":  period.Start.Format("2006-01-02"),
		"end":    period.End.Format("2006-01-02"),
	})
}
