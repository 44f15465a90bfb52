// Package server wires the RPC services, the workbook download and the
// static pages into one HTTP handler.
package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/auth"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/export"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/metrics"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/middleware"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Deps holds everything NewRouter mounts.
type Deps struct {
	Checkout   *service.CheckoutService
	Inventory  *service.InventoryService
	Auth       *service.AuthService
	JWTManager *auth.JWTManager
	Exports    *export.Builder

	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer // nil disables /metrics

	StaticPath string
	Logger     *slog.Logger
}

// NewRouter returns the root handler.
//
// Routes:
//
//	POST /ferramentas.v1.CheckoutService/*   public form and dashboard
//	POST /ferramentas.v1.AuthService/*       admin login
//	POST /ferramentas.v1.InventoryService/*  admin panel (Bearer JWT)
//	GET  /export.xlsx                        workbook download (Bearer JWT)
//	GET  /metrics, /healthz
//	GET  /*                                  static files
func NewRouter(deps *Deps) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(middleware.HTTPLogging(logger))
	r.Use(corsMiddleware)

	logging := middleware.LoggingInterceptor(logger)

	checkoutPath, checkoutHandler := service.NewCheckoutServiceHandler(deps.Checkout,
		connect.WithInterceptors(logging))
	r.Handle(checkoutPath+"*", checkoutHandler)

	authPath, authHandler := service.NewAuthServiceHandler(deps.Auth,
		connect.WithInterceptors(logging))
	r.Handle(authPath+"*", authHandler)

	// RequireAuth runs first so the logging interceptor sees the username.
	inventoryPath, inventoryHandler := service.NewInventoryServiceHandler(deps.Inventory,
		connect.WithInterceptors(middleware.RequireAuth(deps.JWTManager), logging))
	r.Handle(inventoryPath+"*", inventoryHandler)

	r.With(middleware.RequireBearer(deps.JWTManager)).
		Get("/export.xlsx", exportHandler(deps.Exports, recorder, logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	staticDir, err := filepath.Abs(deps.StaticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	logger.Info("Serving static files", "path", staticDir)
	r.Get("/*", staticHandler(staticDir))

	return r, nil
}

func exportHandler(builder *export.Builder, recorder metrics.Recorder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wb, err := builder.Build(r.Context())
		if err != nil {
			logger.Error("Failed to build workbook", "error", err)
			http.Error(w, "failed to read data for export", http.StatusInternalServerError)
			return
		}

		// Rendered in memory; nothing is sent until it succeeds.
		var buf bytes.Buffer
		if err := wb.WriteXLSX(&buf); err != nil {
			logger.Error("Failed to render workbook", "error", err)
			http.Error(w, "failed to render workbook", http.StatusInternalServerError)
			return
		}

		name := export.FileName(time.Now())
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		if _, err := buf.WriteTo(w); err != nil {
			logger.Warn("Export download interrupted", "file", name, "error", err)
			return
		}

		recorder.RecordExport()
		logger.Info("Workbook exported", "file", name, "admin", middleware.GetUsername(r.Context()))
	}
}

// staticHandler serves files from dir. Unknown paths get index.html.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Unknown RPC services must not fall through to the form page.
		if strings.HasPrefix(r.URL.Path, "/ferramentas.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
