package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotation-wall/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotation-wall/internal/platform/telemetry"
)

// ImagesRoute is where stored images are served from.
const ImagesRoute = "/assets/quotations"

// RouterConfig contains everything SetupRouter wires together.
type RouterConfig struct {
	Logger  *slog.Logger
	AppName string

	// CORSEnabled turns on the CORS middleware. AllowedOrigins empty or
	// containing "*" allows every origin.
	CORSEnabled    bool
	AllowedOrigins []string

	// Timeout bounds the quotation endpoints. Zero disables it.
	Timeout time.Duration

	// ImagesDir is served read-only under ImagesRoute.
	ImagesDir string

	HealthHandler    *handlers.HealthHandler
	QuotationHandler *handlers.QuotationHandler
}

// SetupRouter configures middleware and routes on the engine.
// Middleware runs in this order:
//  1. Recovery
//  2. Request ID and correlation ID
//  3. OpenTelemetry tracing and request metrics
//  4. Request logging, skipping probes and static images
//  5. CORS
//
// Probes live under /-/ and are never subject to the request timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppName)...)
	engine.Use(middleware.Logging(ImagesRoute + "/"))

	if cfg.CORSEnabled {
		engine.Use(middleware.CORS(cfg.AllowedOrigins))
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	engine.GET("/", handlers.UploadPage)

	if cfg.ImagesDir != "" {
		engine.Static(ImagesRoute, cfg.ImagesDir)
	}

	if cfg.QuotationHandler != nil {
		api := engine.Group("")
		api.Use(middleware.Timeout(cfg.Timeout))
		cfg.QuotationHandler.RegisterRoutes(api)
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("routes registered", slog.Int("count", len(engine.Routes())))
	}
}
