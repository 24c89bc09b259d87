package http

import (
	"log/slog"
	"os"

	"github.com/gidihr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/gidihr/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, salaryHandler SalaryHandler, taxConfigHandler TaxConfigHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/runs", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateRun)
					r.Get("/", payrollHandler.ListRuns)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetRun)
						r.Delete("/", payrollHandler.DeleteRun)
						r.Post("/process", payrollHandler.ProcessRun)
						r.Post("/approve", payrollHandler.ApproveRun)
						r.Post("/mark-paid", payrollHandler.MarkRunPaid)
						r.Post("/cancel", payrollHandler.CancelRun)
						r.Get("/pension-schedule", payrollHandler.PensionSchedule)
					})
				})

				r.Post("/tax-preview", payrollHandler.TaxPreview)
				r.Get("/reports/p9a/{year}/{employeeId}", payrollHandler.AnnualTaxReport)
			})

			r.Route("/tax-config/band-sets", func(r chi.Router) {
				r.Post("/", taxConfigHandler.CreateBandSet)
				r.Get("/", taxConfigHandler.ListBandSets)
				r.Post("/default", taxConfigHandler.SeedDefault)
			})

			r.Route("/salary/structures", func(r chi.Router) {
				r.Post("/", salaryHandler.CreateStructure)
				r.Get("/", salaryHandler.ListStructures)
				r.Get("/{id}", salaryHandler.GetStructure)
			})

			r.Route("/employees/{id}", func(r chi.Router) {
				r.Post("/salary-assignments", salaryHandler.AssignSalary)
				r.Get("/salary-assignments", salaryHandler.ListAssignments)
				r.Get("/compensation", salaryHandler.GetCompensation)
				r.Get("/payroll-history", payrollHandler.EmployeeHistory)
			})
		})
	})
	return r
}
