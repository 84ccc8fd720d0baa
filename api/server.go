/*
server.go - HTTP router configuration

PURPOSE:
  Wires the API routes onto a chi router with the standard middleware
  stack (request id, logging, panic recovery, CORS).

ROUTE GROUPS:
  /api/employees  - profiles, deductions, adjustments, payslips, timesheets
  /api/timesheets - entry recording
  /api/awards     - award configuration
  /api/holidays   - public holiday calendar
  /api/rates      - statutory rate overrides
  /api/payroll    - run execution, previews, run history
  /api/scenarios  - demo data loading
  /health         - liveness probe

SEE ALSO:
  - handlers.go: The handler implementations
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the API router for the given handler.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Delete("/{id}", h.DeactivateEmployee)
			r.Post("/{id}/deductions", h.AddDeduction)
			r.Post("/{id}/adjustments", h.AddAdjustment)
			r.Get("/{id}/timesheets", h.ListEntries)
			r.Get("/{id}/payslips", h.ListPayslips)
			r.Get("/{id}/payslips/{start}/{end}", h.GetPayslip)
		})

		r.Post("/timesheets", h.CreateEntry)

		r.Route("/awards", func(r chi.Router) {
			r.Get("/", h.ListAwards)
			r.Post("/", h.CreateAward)
			r.Get("/{id}", h.GetAward)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/defaults", h.AddDefaultHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Post("/rates", h.CreateStatutoryRate)

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", h.RunPayroll)
			r.Post("/preview", h.PreviewPayroll)
			r.Get("/runs", h.ListRuns)
			r.Get("/runs/{id}", h.GetRun)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
