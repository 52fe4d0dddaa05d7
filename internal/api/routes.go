package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"odoodesk/internal/auth"
	"odoodesk/internal/config"
	"odoodesk/internal/logging"
	"odoodesk/internal/metrics"
	"odoodesk/internal/templates"
)

// NewServer builds the echo instance with middleware, renderer and routes.
func NewServer(cfg *config.Config, log *logrus.Logger) (*echo.Echo, error) {
	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Logger.SetOutput(log.WriterLevel(logrus.DebugLevel))

	// Client addresses key the rate limiter, so forwarded headers are only
	// honoured from proxies on private networks when explicitly enabled.
	if cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	// Middleware. Metrics sits outside the request logger so the logger
	// still sees handler and middleware errors before they are rendered.
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(metrics.Middleware())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.TLS,
		CookieSameSite: http.SameSiteStrictMode,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics" || strings.HasPrefix(p, "/static/")
		},
	}))

	limiter := auth.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	stop := make(chan struct{})
	limiter.StartCleanup(5*time.Minute, stop)
	e.Server.RegisterOnShutdown(func() { close(stop) })

	h := &Handlers{
		auth: auth.NewService(cfg.HTTPTimeout, log),
		log:  log,
		defaults: auth.Credentials{
			URL:      cfg.OdooURL,
			DB:       cfg.OdooDB,
			Login:    cfg.OdooLogin,
			Password: cfg.OdooPassword,
		},
		partnerName: cfg.PartnerName,
	}
	RegisterRoutes(e, h, limiter)
	return e, nil
}

// RegisterRoutes sets up all routes
func RegisterRoutes(e *echo.Echo, h *Handlers, limiter *auth.RateLimiter) {
	// Public
	e.GET("/health", healthCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/", h.indexHandler)

	// Every action below authenticates against the remote server
	actions := e.Group("", limiter.Middleware())
	actions.POST("/connect", h.connectHandler)
	actions.POST("/orders", h.createOrderHandler)
	actions.GET("/order", h.orderHandler)
	actions.POST("/order", h.orderHandler)
}
