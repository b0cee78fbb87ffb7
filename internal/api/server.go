package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/lednode/lednode/internal/effects"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/loop"
	"github.com/lednode/lednode/internal/updater"
	"github.com/lednode/lednode/internal/version"
)

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Loop              *loop.Loop
	Effects           *effects.Registry
	UpdateService     updater.Service
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// Server is the Huma v2 API surface over the core loop.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	loop       *loop.Loop
	options    *Options
	logger     *slog.Logger
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := defaultCORSConfig()
	addPreflightHandler(mux, corsConfig)

	config := huma.DefaultConfig("LedNode API", version.String())
	config.Info.Description = "Addressable LED strip controller API"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}

	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api:     api,
		mux:     mux,
		loop:    opts.Loop,
		options: opts,
		logger:  logging.GetLogger("api"),
	}

	// CORS first, then request logging, then auth
	api.UseMiddleware(corsMiddleware(corsConfig))
	api.UseMiddleware(requestLogging)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	// Prometheus scrapes bypass auth; mount before the API routes
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	return server
}

// basicAuthMiddleware creates middleware for HTTP basic authentication
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Operations without security requirements skip auth
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		authHeader := ctx.Header("Authorization")
		const prefix = "Basic "
		if !strings.HasPrefix(authHeader, prefix) {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="LedNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Authentication required")
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
		if err != nil {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="LedNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format", err)
			return
		}

		parts := strings.SplitN(string(decoded), ":", 2)
		if len(parts) != 2 || parts[0] != username || parts[1] != password {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="LedNode API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start serves the API on the specified address and blocks until shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting LedNode API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	return s.httpServer.ListenAndServe()
}

// Stop shuts down the server without waiting for open connections.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// HealthData reports service liveness.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Human readable status"`
}

// HealthResponse wraps HealthData for Huma.
type HealthResponse struct {
	Body HealthData
}

// VersionResponse carries build metadata.
type VersionResponse struct {
	Body version.Info
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	// Health check endpoint - no auth required
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(_ context.Context, _ *struct{}) (*HealthResponse, error) {
		return &HealthResponse{
			Body: HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	// Version endpoint - no auth required
	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(_ context.Context, _ *struct{}) (*VersionResponse, error) {
		return &VersionResponse{Body: version.Get()}, nil
	})

	s.registerColorRoutes()
	s.registerPaletteRoutes()
	s.registerSystemRoutes()
	s.registerUpdateRoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
