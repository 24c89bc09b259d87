package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/employee"
	"github.com/gidihr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, company_id, employee_code, full_name, email,
	hire_date, termination_date, employment_type, status,
	bank_name, bank_account_number, bank_account_name,
	tin, rsa_number, pfa_name, nhf_number,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.Email,
		&e.HireDate, &e.TerminationDate, &e.EmploymentType, &e.Status,
		&e.BankName, &e.BankAccountNumber, &e.BankAccountName,
		&e.TIN, &e.RSANumber, &e.PFAName, &e.NHFNumber,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string, asOf time.Time) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	// Hired on or before asOf and not terminated before it; mid-period
	// joiners are included.
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1
		  AND hire_date <= $2
		  AND (termination_date IS NULL OR termination_date >= $2)
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, nil
}
