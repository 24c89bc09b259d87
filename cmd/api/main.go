package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gidihr/payroll-backend-go/internal/config"
	appHTTP "github.com/gidihr/payroll-backend-go/internal/handler/http"
	"github.com/gidihr/payroll-backend-go/internal/pkg/database"
	"github.com/gidihr/payroll-backend-go/internal/pkg/jwt"
	"github.com/gidihr/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/gidihr/payroll-backend-go/internal/service/payroll"
	salaryService "github.com/gidihr/payroll-backend-go/internal/service/salary"
	taxConfigService "github.com/gidihr/payroll-backend-go/internal/service/taxconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-backend"),
		slog.String("env", cfg.App.Env),
	)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	taxBandRepo := postgresql.NewTaxBandRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	salarySvc := salaryService.NewSalaryService(salaryRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, taxBandRepo, salarySvc, logger)
	taxConfigSvc := taxConfigService.NewTaxConfigService(taxBandRepo, logger)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	salaryHandler := appHTTP.NewSalaryHandler(salarySvc)
	taxConfigHandler := appHTTP.NewTaxConfigHandler(taxConfigSvc)

	router := appHTTP.NewRouter(JWTService, payrollHandler, salaryHandler, taxConfigHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
