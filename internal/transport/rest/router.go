package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mindscreen/internal/config"
	"mindscreen/internal/service"
	"mindscreen/internal/transport/rest/handler"
	"mindscreen/internal/transport/rest/middleware"
	"mindscreen/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	AssessmentService *service.AssessmentService
	WSHub             *ws.Hub
	CORS              config.CORSConfig
	Logger            *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, logger)
	healthHandler := handler.NewHealthHandler(c.AssessmentService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, originMatcher(c.CORS.AllowedOrigins), logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))
	r.Use(middleware.RequestLogger(logger))

	r.HandleFunc("/", healthHandler.Root).Methods("GET")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/predict", assessmentHandler.Predict).Methods("POST", "OPTIONS")
	v1.HandleFunc("/history/{userId}", assessmentHandler.History).Methods("GET", "OPTIONS")
	v1.HandleFunc("/history/{userId}/latest", assessmentHandler.Latest).Methods("GET", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/alerts", wsHandler.AlertsWS).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/assessments", assessmentHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/stats", assessmentHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	allowedMethods := cfg.AllowedMethods
	if allowedMethods == "" {
		allowedMethods = "GET, POST, OPTIONS"
	}
	allowedHeaders := cfg.AllowedHeaders
	if allowedHeaders == "" {
		allowedHeaders = "Content-Type, Authorization"
	}
	match := originMatcher(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" && match(origin) {
				if allowedOrigins == "*" {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originMatcher parses a comma-separated origin list; "*" or an empty list
// matches everything.
func originMatcher(list string) func(string) bool {
	allowed := map[string]bool{}
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}
	return func(origin string) bool {
		return len(allowed) == 0 || allowed["*"] || allowed[origin]
	}
}
