package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/qdm12/ipappend/internal/gateway"
	"github.com/qdm12/ipappend/internal/models"
)

type handlers struct {
	// Objects
	gateway   Gateway
	logger    Logger
	buildInfo models.BuildInformation
	// Settings
	providerName  string
	gatewayAPIKey string
	// Mockable functions
	timeNow func() time.Time
}

func newHandler(settings Settings) http.Handler {
	handlers := &handlers{
		gateway:       settings.Gateway,
		logger:        settings.Logger,
		buildInfo:     settings.BuildInfo,
		providerName:  settings.ProviderName,
		gatewayAPIKey: settings.GatewayAPIKey,
		timeNow:       settings.TimeNow,
	}

	router := chi.NewRouter()

	router.Use(
		middleware.CleanPath,
		middleware.RealIP,
		requestID,
		handlers.logRequests,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: settings.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", apiKeyHeader, requestIDHeader},
			ExposedHeaders: []string{ignoredIPCountHeader, requestIDHeader},
		}),
	)

	if settings.Metrics != nil {
		router.Use(settings.Metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", settings.Metrics.Handler())
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, gateway.ErrorResponse{Error: "route not found: " + r.URL.Path})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, gateway.ErrorResponse{
			Error: "method " + r.Method + " is not allowed for " + r.URL.Path,
		})
	})

	router.Get("/health", handlers.health)

	router.Group(func(router chi.Router) {
		router.Use(handlers.authenticate)
		router.Post("/api/reverse-ip-append", handlers.lookup)
		router.Post("/api/reverse-ip-append/batch", handlers.lookupBatch)
		router.Post("/api/proxy", handlers.proxy)
		router.Get("/api/visitor", handlers.visitor)
		if settings.TestEndpointAuth {
			router.Post("/api/test", handlers.test)
		}
	})

	if !settings.TestEndpointAuth {
		router.Post("/api/test", handlers.test)
	}

	return router
}
