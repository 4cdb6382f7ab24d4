// Package httpapi wires the HTTP transport (Gin) to application
// services, middleware, and route handlers. It centralizes the
// cross-cutting concerns: tracing, correlation ids, logging, panic
// recovery, metrics, compression, rate limiting, CORS and security
// headers.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: panics become JSON 500s, after the logger
//  5. Body size limiter
//  6. Metrics, gzip
//  7. Rate limiter
//  8. CORS and security headers
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/coffeebridge/go-market-backend/docs"
	"github.com/coffeebridge/go-market-backend/internal/config"
	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/http/handlers"
	"github.com/coffeebridge/go-market-backend/internal/http/middleware"
	"github.com/coffeebridge/go-market-backend/internal/repo"
	"github.com/coffeebridge/go-market-backend/internal/services"
	"github.com/coffeebridge/go-market-backend/internal/store"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine, building the service stack over the provided document store.
func RegisterRoutes(r *gin.Engine, s store.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests.
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs.
	r.Use(middleware.RequestID())

	// 3) Structured access logging.
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id).
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB).
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and response compression.
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Token-bucket rate limiter per client IP.
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	r.Use(rl.Handler())

	// 8) Permissive CORS: the API is consumed from arbitrary origins.
	// Preflight answers 200 with an empty body.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:             []string{"X-Request-ID", "Content-Length"},
		AllowCredentials:          false,
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}))

	// Security headers.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Fallbacks.
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		if allow := allowedMethods(cfg.APIBasePath, c.Request.URL.Path); allow != "" {
			c.Header("Allow", allow)
		}
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: services ← repositories ← store.
	farmerRepo := repo.New[domain.Farmer, *domain.Farmer](s, repo.Descriptor{
		Collection:   domain.CollectionFarmers,
		SearchFields: domain.FarmerSearchFields,
	})
	roasterRepo := repo.New[domain.Roaster, *domain.Roaster](s, repo.Descriptor{
		Collection:   domain.CollectionRoasters,
		SearchFields: domain.RoasterSearchFields,
	})
	h := handlers.New(
		services.NewFarmerService(farmerRepo),
		services.NewRoasterService(roasterRepo),
		s,
	)

	// Liveness + store reachability.
	r.GET("/health", h.Health)

	// Swagger UI (off by default).
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
	}

	// Public API.
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/farmers", h.ListFarmers)
		api.POST("/farmers", h.CreateFarmer)
		api.GET("/farmers/:id", h.GetFarmer)
		api.PUT("/farmers/:id", h.UpdateFarmer)
		api.DELETE("/farmers/:id", h.DeleteFarmer)

		api.GET("/roasters", h.ListRoasters)
		api.POST("/roasters", h.CreateRoaster)
		api.GET("/roasters/:id", h.GetRoaster)
		api.PUT("/roasters/:id", h.UpdateRoaster)
		api.DELETE("/roasters/:id", h.DeleteRoaster)

		api.POST("/payments/intent", h.CreatePaymentIntent)
	}
}

// limitBody caps the request body for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// allowedMethods reports the Allow header value for a 405 on the given
// path. The API surface is uniform, so the shape of the path decides:
// collection paths take GET/POST, item paths GET/PUT/DELETE.
func allowedMethods(base, path string) string {
	rel := strings.TrimPrefix(path, base)
	rel = strings.Trim(rel, "/")
	parts := strings.Split(rel, "/")

	switch {
	case len(parts) == 1 && (parts[0] == "farmers" || parts[0] == "roasters"):
		return "GET, POST, OPTIONS"
	case len(parts) == 2 && (parts[0] == "farmers" || parts[0] == "roasters"):
		return "GET, PUT, DELETE, OPTIONS"
	case len(parts) == 2 && parts[0] == "payments" && parts[1] == "intent":
		return "POST, OPTIONS"
	default:
		return ""
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as
// root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
