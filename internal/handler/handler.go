package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/nakelabs/kasa-alert-connect/docs"
	"github.com/nakelabs/kasa-alert-connect/internal/dto"
	"github.com/nakelabs/kasa-alert-connect/internal/service"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultMaxUploadBytes = 5 << 20
	healthCheckTimeout    = 2 * time.Second
)

// Services bundles the business services the HTTP layer calls
type Services struct {
	Auth       service.AuthServicer
	Registry   service.RegistryServicer
	Dispatcher service.DispatcherServicer
	Ledger     service.LedgerServicer
	Stats      service.StatsServicer
}

// HealthChecker is a dependency checked by /health
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RealtimeServer upgrades a request to an agency-scoped socket
type RealtimeServer interface {
	Serve(w http.ResponseWriter, r *http.Request, agencyID string) error
}

// Options carries the transport settings of the API
type Options struct {
	RequestTimeout time.Duration
	MaxUploadBytes int64
	GatewayToken   string
	Realtime       RealtimeServer
	HealthChecks   map[string]HealthChecker
}

type Handler struct {
	services Services
	opts     Options
	router   *gin.Engine
	log      *zap.Logger
}

func NewHandler(services Services, opts Options, log *zap.Logger) *Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.MaxMultipartMemory = opts.MaxUploadBytes

	h := &Handler{
		services: services,
		opts:     opts,
		router:   router,
		log:      log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if h.opts.Realtime != nil {
		h.router.GET("/ws", h.serveRealtime)
	}

	api := h.router.Group("/", h.withTimeout())

	auth := api.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/logout", h.requireAgency(), h.logout)
	auth.GET("/me", h.requireAgency(), h.me)

	alerts := api.Group("/alerts", h.requireAgency())
	alerts.POST("", h.sendAlert)
	alerts.GET("", h.listAlerts)
	alerts.GET("/recipient-count", h.recipientCount)
	alerts.GET("/logs", h.listLogs)
	alerts.GET("/logs/:id/events", h.logHistory)

	users := api.Group("/users", h.requireAgency())
	users.GET("", h.listRecipients)
	users.POST("", h.addRecipient)
	users.POST("/upload", h.uploadRecipients)
	users.GET("/template", h.recipientTemplate)
	users.DELETE("/:id", h.removeRecipient)

	api.GET("/dashboard/stats", h.requireAgency(), h.dashboardStats)

	webhooks := api.Group("/webhooks", h.requireGateway())
	webhooks.POST("/delivery-receipts", h.deliveryReceipt)
	webhooks.POST("/replies", h.reply)
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check that the service and its stores are reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if len(h.opts.HealthChecks) == 0 {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.opts.HealthChecks))}
	for name, checker := range h.opts.HealthChecks {
		if err := checker.Ping(ctx); err != nil {
			h.log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse{Success: true, Data: data})
}

func okPage(c *gin.Context, data interface{}, pagination *dto.Pagination) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Data: data, Pagination: pagination})
}
