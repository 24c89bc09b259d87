package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/gidihr/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepository{db: db}
}

// ========== STRUCTURES ==========

func (r *salaryRepository) CreateStructure(ctx context.Context, structure salary.SalaryStructure) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	allowances, err := encodeAmountMap(structure.OtherAllowances)
	if err != nil {
		return salary.SalaryStructure{}, err
	}

	query := `
		INSERT INTO salary_structures (
			id, company_id, name, basic, housing, transport, meal, utility,
			other_allowances, paye_applicable, pension_applicable, nhf_applicable
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	s := structure
	err = q.QueryRow(ctx, query,
		uuid.NewString(), structure.CompanyID, structure.Name,
		structure.Basic, structure.Housing, structure.Transport, structure.Meal, structure.Utility,
		allowances, structure.PAYEApplicable, structure.PensionApplicable, structure.NHFApplicable,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "uk_salary_structure_name") {
			return salary.SalaryStructure{}, salary.ErrStructureNameExists
		}
		return salary.SalaryStructure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	return s, nil
}

func (r *salaryRepository) GetStructureByID(ctx context.Context, id string, companyID string) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, basic, housing, transport, meal, utility,
			   other_allowances, paye_applicable, pension_applicable, nhf_applicable,
			   created_at, updated_at
		FROM salary_structures
		WHERE id = $1 AND company_id = $2
	`

	s, err := scanStructure(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return salary.SalaryStructure{}, salary.ErrStructureNotFound
		}
		return salary.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	return s, nil
}

func (r *salaryRepository) ListStructures(ctx context.Context, companyID string) ([]salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, basic, housing, transport, meal, utility,
			   other_allowances, paye_applicable, pension_applicable, nhf_applicable,
			   created_at, updated_at
		FROM salary_structures
		WHERE company_id = $1
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	var structures []salary.SalaryStructure
	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}

	return structures, nil
}

func scanStructure(row pgx.Row) (salary.SalaryStructure, error) {
	var s salary.SalaryStructure
	var allowances []byte
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name,
		&s.Basic, &s.Housing, &s.Transport, &s.Meal, &s.Utility,
		&allowances, &s.PAYEApplicable, &s.PensionApplicable, &s.NHFApplicable,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return salary.SalaryStructure{}, err
	}
	if s.OtherAllowances, err = decodeAmountMap(allowances); err != nil {
		return salary.SalaryStructure{}, err
	}
	return s, nil
}

// ========== ASSIGNMENTS ==========

const assignmentColumns = `
	id, company_id, employee_id, structure_id, effective_from, effective_to,
	basic_override, housing_override, transport_override, meal_override, utility_override,
	other_allowances, other_deductions, created_at, updated_at
`

func (r *salaryRepository) ReplaceCurrentAssignment(ctx context.Context, assignment salary.EmployeeSalaryAssignment) (salary.EmployeeSalaryAssignment, error) {
	allowances, err := encodeAmountMap(assignment.OtherAllowances)
	if err != nil {
		return salary.EmployeeSalaryAssignment{}, err
	}
	deductions, err := encodeAmountMap(assignment.OtherDeductions)
	if err != nil {
		return salary.EmployeeSalaryAssignment{}, err
	}

	var created salary.EmployeeSalaryAssignment
	err = WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		// Close the open interval, if any, at the new record's start.
		closeQuery := `
			UPDATE employee_salary_assignments
			SET effective_to = $1, updated_at = NOW()
			WHERE employee_id = $2 AND company_id = $3 AND effective_to IS NULL
		`
		if _, err := tx.Exec(ctx, closeQuery, assignment.EffectiveFrom, assignment.EmployeeID, assignment.CompanyID); err != nil {
			return fmt.Errorf("failed to close current assignment: %w", err)
		}

		insertQuery := `
			INSERT INTO employee_salary_assignments (
				id, company_id, employee_id, structure_id, effective_from,
				basic_override, housing_override, transport_override, meal_override, utility_override,
				other_allowances, other_deductions
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING ` + assignmentColumns + `
		`
		row := tx.QueryRow(ctx, insertQuery,
			uuid.NewString(), assignment.CompanyID, assignment.EmployeeID, assignment.StructureID, assignment.EffectiveFrom,
			assignment.BasicOverride, assignment.HousingOverride, assignment.TransportOverride,
			assignment.MealOverride, assignment.UtilityOverride,
			allowances, deductions,
		)
		created, err = scanAssignment(row)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return salary.EmployeeSalaryAssignment{}, err
	}

	return created, nil
}

func (r *salaryRepository) AssignmentsCovering(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]salary.EmployeeSalaryAssignment, error) {
	q := GetQuerier(ctx, r.db)

	// Half-open interval check: [effective_from, effective_to).
	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_salary_assignments
		WHERE employee_id = $1 AND company_id = $2
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to > $3)
		ORDER BY effective_from
	`

	return r.queryAssignments(ctx, q, query, employeeID, companyID, asOf)
}

func (r *salaryRepository) ListAssignments(ctx context.Context, employeeID string, companyID string) ([]salary.EmployeeSalaryAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM employee_salary_assignments
		WHERE employee_id = $1 AND company_id = $2
		ORDER BY effective_from DESC
	`

	return r.queryAssignments(ctx, q, query, employeeID, companyID)
}

func (r *salaryRepository) queryAssignments(ctx context.Context, q database.Querier, query string, args ...any) ([]salary.EmployeeSalaryAssignment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []salary.EmployeeSalaryAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

func scanAssignment(row pgx.Row) (salary.EmployeeSalaryAssignment, error) {
	var a salary.EmployeeSalaryAssignment
	var allowances, deductions []byte
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.StructureID, &a.EffectiveFrom, &a.EffectiveTo,
		&a.BasicOverride, &a.HousingOverride, &a.TransportOverride, &a.MealOverride, &a.UtilityOverride,
		&allowances, &deductions, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return salary.EmployeeSalaryAssignment{}, err
	}
	if a.OtherAllowances, err = decodeAmountMap(allowances); err != nil {
		return salary.EmployeeSalaryAssignment{}, err
	}
	if a.OtherDeductions, err = decodeAmountMap(deductions); err != nil {
		return salary.EmployeeSalaryAssignment{}, err
	}
	return a, nil
}
