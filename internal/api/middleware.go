package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lednode/lednode/internal/logging"
)

// corsConfig holds CORS settings. The API is an internal device surface;
// the defaults are permissive so control panels on other hosts can reach it.
type corsConfig struct {
	allowOrigin  string
	allowMethods []string
	allowHeaders []string
	maxAge       int
}

func defaultCORSConfig() corsConfig {
	return corsConfig{
		allowOrigin:  "*",
		allowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		allowHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin"},
		maxAge:       86400,
	}
}

// corsMiddleware sets CORS headers on every API response and short-circuits
// preflight requests.
func corsMiddleware(cfg corsConfig) func(huma.Context, func(huma.Context)) {
	allowMethods := strings.Join(cfg.allowMethods, ", ")
	allowHeaders := strings.Join(cfg.allowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.maxAge)

	return func(ctx huma.Context, next func(huma.Context)) {
		ctx.SetHeader("Access-Control-Allow-Origin", cfg.allowOrigin)
		ctx.SetHeader("Access-Control-Allow-Methods", allowMethods)
		ctx.SetHeader("Access-Control-Allow-Headers", allowHeaders)
		ctx.SetHeader("Access-Control-Max-Age", maxAge)

		if ctx.Method() == http.MethodOptions {
			ctx.SetStatus(http.StatusNoContent)
			return
		}

		next(ctx)
	}
}

// addPreflightHandler answers OPTIONS requests at the mux level. Huma
// middleware does not see OPTIONS for unregistered method/path pairs.
func addPreflightHandler(mux *http.ServeMux, cfg corsConfig) {
	allowMethods := strings.Join(cfg.allowMethods, ", ")
	allowHeaders := strings.Join(cfg.allowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.maxAge)

	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", cfg.allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Max-Age", maxAge)
		w.WriteHeader(http.StatusNoContent)
	})
}

// requestLogging logs API requests, picking the level from the response
// status.
func requestLogging(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	method := ctx.Method()
	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", ctx.URL().Path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}

	next(ctx)

	status := ctx.Status()
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	message := "HTTP request completed"
	switch {
	case method == http.MethodOptions:
		logger.LogAttrs(ctx.Context(), slog.LevelDebug, message, attrs...)
	case status >= 500:
		logger.LogAttrs(ctx.Context(), slog.LevelError, message, attrs...)
	case status >= 400:
		logger.LogAttrs(ctx.Context(), slog.LevelWarn, message, attrs...)
	default:
		logger.LogAttrs(ctx.Context(), slog.LevelInfo, message, attrs...)
	}
}
