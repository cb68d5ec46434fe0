package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/vendorsaathi/vendor-admin/internal/api/handler"
	"github.com/vendorsaathi/vendor-admin/internal/api/middleware"
	"github.com/vendorsaathi/vendor-admin/internal/core/domain"
	"github.com/vendorsaathi/vendor-admin/internal/core/ports"

	_ "github.com/vendorsaathi/vendor-admin/docs"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth     ports.AuthService
	Tokens   ports.TokenVerifier
	Vendors  ports.VendorService
	Licenses ports.LicenseService
	// Probes are pinged by GET /health/ready, keyed by dependency name.
	Probes map[string]handler.Pinger
	Log    zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	promMiddleware, err := echoprometheus.MiddlewareConfig{
		Namespace:  "vendor_admin",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("prometheus middleware: %w", err)
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(promMiddleware)

	// --- Dependencies ---
	guard := middleware.NewGuard(deps.Tokens, deps.Log)
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler()
	vendorHandler := handler.NewVendorHandler(deps.Vendors)
	licenseHandler := handler.NewLicenseHandler(deps.Licenses)
	healthHandler := handler.NewHealthHandler(deps.Probes, deps.Log)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Any authenticated identity ---
	e.GET("/users", userHandler.Me, guard.Require())

	// --- Admin routes ---
	admin := e.Group("/admin", guard.Require(domain.RoleAdmin))
	admin.GET("/vendors", vendorHandler.List)
	admin.POST("/license-requests/:id/approve", licenseHandler.Approve)

	// --- Vendor routes ---
	vendor := e.Group("/vendor", guard.Require(), middleware.RBAC(domain.RoleVendor))
	vendor.POST("/license-requests", licenseHandler.Request)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
