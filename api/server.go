/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zap logger: Structured request logging
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/employees/*   Employee management, raises, projections
  /api/payroll/*     Cross-employee projection, posting, audit runs
  /api/ledger/*      Financial ledger, legacy import
  /api/plots/*       Plots
  /api/cycles/*      Crop cycles and cycle costing
  /api/reports/*     Cost report, dashboard summary
  /api/reset         Database reset (dev only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Post("/{id}/raise", h.ApplyRaise)
			r.Post("/{id}/corrections", h.CorrectEmployee)
			r.Get("/{id}/payroll", h.GetEmployeePayroll)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/events", h.ListPayrollEvents)
			r.Post("/post", h.PostPayrollEvent)
			r.Get("/runs", h.ListPayrollRuns)
		})

		// Ledger routes
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Post("/import-legacy", h.ImportLegacy)
			r.Get("/{id}", h.GetEntry)
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Plot routes
		r.Route("/plots", func(r chi.Router) {
			r.Get("/", h.ListPlots)
			r.Post("/", h.CreatePlot)
			r.Get("/{id}", h.GetPlot)
			r.Put("/{id}", h.UpdatePlot)
			r.Delete("/{id}", h.DeletePlot)
		})

		// Crop cycle routes
		r.Route("/cycles", func(r chi.Router) {
			r.Get("/", h.ListCycles)
			r.Post("/", h.CreateCycle)
			r.Get("/{id}", h.GetCycle)
			r.Put("/{id}", h.UpdateCycle)
			r.Delete("/{id}", h.DeleteCycle)
			r.Get("/{id}/cost", h.GetCycleCost)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/costs", h.GetCostReport)
			r.Get("/summary", h.GetSummary)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	return r
}

// requestLogger logs each request through zap instead of chi's stdlib
// logger middleware.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
