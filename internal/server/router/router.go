package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmcost/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. A nil
// whatsapp handler leaves the webhook and notification routes out.
func New(reports *handlers.ReportHandler, whatsapp *handlers.WhatsAppHandler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1/reports")
	api.GET("/costs", reports.PlotCosts)
	api.GET("/products", reports.ProductGroups)

	if whatsapp != nil {
		r.GET("/webhook", whatsapp.Verify)
		r.POST("/webhook", whatsapp.Receive)
		r.POST("/api/v1/notifications/costs", whatsapp.PushCostSummary)
	}

	logger.Info("router initialized", zap.Bool("whatsapp", whatsapp != nil))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
