package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/autochef0332/autochef/docs"
	"github.com/autochef0332/autochef/internal/api/handler"
	"github.com/autochef0332/autochef/internal/api/middleware"
	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

// Deps carries everything the router needs. Services are built by the caller.
type Deps struct {
	Auth        ports.AuthService
	Sessions    ports.SessionService
	Restaurants ports.RestaurantService
	Sections    ports.SectionService
	Items       ports.ItemService
	Media       ports.MediaService
	Menus       ports.MenuService

	Health      []handler.Dependency
	JWTSecret   string
	CORSOrigins []string
	Logger      zerolog.Logger

	// MetricsRegistry defaults to the Prometheus default registry.
	MetricsRegistry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.MetricsRegistry != nil {
		registerer, gatherer = deps.MetricsRegistry, deps.MetricsRegistry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(deps.CORSOrigins)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "autochef",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	restaurantHandler := handler.NewRestaurantHandler(deps.Restaurants)
	sectionHandler := handler.NewSectionHandler(deps.Sections)
	itemHandler := handler.NewItemHandler(deps.Items)
	mediaHandler := handler.NewMediaHandler(deps.Media)
	integrationHandler := handler.NewIntegrationHandler(deps.Menus)

	auth := middleware.Auth(deps.JWTSecret)
	setup := middleware.RequireSurface(deps.Sessions, domain.SurfaceSetup)
	operational := middleware.RequireSurface(deps.Sessions, domain.SurfaceOperational)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Session (anonymous callers allowed) ---
	e.GET("/v1/session", sessionHandler.Get, middleware.OptionalAuth(deps.JWTSecret))

	// --- Onboarding ---
	e.POST("/v1/restaurant", restaurantHandler.Create, auth, setup)

	// --- Operational surface ---
	v1 := e.Group("/v1", auth, operational)

	v1.GET("/restaurant", restaurantHandler.Get)
	v1.PATCH("/restaurant", restaurantHandler.Update)
	v1.POST("/restaurant/secret-key/reset", restaurantHandler.ResetSecretKey)
	v1.GET("/restaurant/secret-key/qr", restaurantHandler.SecretKeyQR)

	v1.GET("/sections", sectionHandler.List)
	v1.POST("/sections", sectionHandler.Create)
	v1.PUT("/sections/order", sectionHandler.Reorder)
	v1.PATCH("/sections/:sectionID", sectionHandler.Update)
	v1.DELETE("/sections/:sectionID", sectionHandler.Delete)
	v1.POST("/sections/:sectionID/move", sectionHandler.Move)

	v1.GET("/items", itemHandler.ListAll)
	v1.GET("/sections/:sectionID/items", itemHandler.List)
	v1.POST("/sections/:sectionID/items", itemHandler.Create)
	v1.PUT("/sections/:sectionID/items/order", itemHandler.Reorder)
	v1.PATCH("/sections/:sectionID/items/:itemID", itemHandler.Update)
	v1.DELETE("/sections/:sectionID/items/:itemID", itemHandler.Delete)
	v1.PATCH("/sections/:sectionID/items/:itemID/availability", itemHandler.SetAvailability)
	v1.POST("/sections/:sectionID/items/:itemID/move", itemHandler.Move)

	v1.POST("/media/images", mediaHandler.Upload)
	v1.DELETE("/media/images", mediaHandler.Delete)

	// --- Integrations (restaurant secret key) ---
	e.GET("/integrations/v1/menu", integrationHandler.Menu, middleware.RestaurantKey())

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func corsConfig(origins []string) echomiddleware.CORSConfig {
	cfg := echomiddleware.DefaultCORSConfig
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{
		echo.HeaderOrigin,
		echo.HeaderContentType,
		echo.HeaderAccept,
		echo.HeaderAuthorization,
		middleware.HeaderRestaurantKey,
	}
	return cfg
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
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
