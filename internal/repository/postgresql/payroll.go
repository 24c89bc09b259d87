package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/payroll"
	"github.com/gidihr/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

const runColumns = `
	id, company_id, name, period_start, period_end, status, version,
	total_employees, total_gross, total_deductions, total_net, total_employer_contributions,
	total_paye, total_pension_employee, total_pension_employer, total_nhf,
	processed_by, processed_at, approved_by, approved_at, paid_by, paid_at,
	notes, created_at, updated_at
`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(
		&run.ID, &run.CompanyID, &run.Name, &run.PeriodStart, &run.PeriodEnd, &run.Status, &run.Version,
		&run.TotalEmployees, &run.TotalGross, &run.TotalDeductions, &run.TotalNet, &run.TotalEmployerContributions,
		&run.TotalPAYE, &run.TotalPensionEmployee, &run.TotalPensionEmployer, &run.TotalNHF,
		&run.ProcessedBy, &run.ProcessedAt, &run.ApprovedBy, &run.ApprovedAt, &run.PaidBy, &run.PaidAt,
		&run.Notes, &run.CreatedAt, &run.UpdatedAt,
	)
	return run, err
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, company_id, name, period_start, period_end, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + runColumns + `
	`

	created, err := scanRun(q.QueryRow(ctx, query,
		uuid.NewString(), run.CompanyID, run.Name, run.PeriodStart, run.PeriodEnd, run.Status, run.Notes,
	))
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`

	run, err := scanRun(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, companyID string) ([]payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE company_id = $1
		ORDER BY period_start DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (r *payrollRepository) HasOverlappingRun(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_runs
			WHERE company_id = $1
			  AND status != 'cancelled'
			  AND period_start <= $3
			  AND period_end >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, periodStart, periodEnd).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping runs: %w", err)
	}

	return exists, nil
}

// updateRunQuery applies optimistic concurrency: the row must still carry the
// version the caller read. Zero rows matched means a concurrent writer won.
const updateRunQuery = `
	UPDATE payroll_runs SET
		status = $4, version = version + 1,
		total_employees = $5, total_gross = $6, total_deductions = $7, total_net = $8,
		total_employer_contributions = $9, total_paye = $10,
		total_pension_employee = $11, total_pension_employer = $12, total_nhf = $13,
		processed_by = $14, processed_at = $15,
		approved_by = $16, approved_at = $17,
		paid_by = $18, paid_at = $19,
		notes = $20, updated_at = NOW()
	WHERE id = $1 AND company_id = $2 AND version = $3
	RETURNING ` + runColumns

func updateRunArgs(run payroll.PayrollRun) []any {
	return []any{
		run.ID, run.CompanyID, run.Version,
		run.Status,
		run.TotalEmployees, run.TotalGross, run.TotalDeductions, run.TotalNet,
		run.TotalEmployerContributions, run.TotalPAYE,
		run.TotalPensionEmployee, run.TotalPensionEmployer, run.TotalNHF,
		run.ProcessedBy, run.ProcessedAt,
		run.ApprovedBy, run.ApprovedAt,
		run.PaidBy, run.PaidAt,
		run.Notes,
	}
}

func (r *payrollRepository) UpdateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanRun(q.QueryRow(ctx, updateRunQuery, updateRunArgs(run)...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunConflict
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to update payroll run: %w", err)
	}

	return updated, nil
}

func (r *payrollRepository) CancelRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	var cancelled payroll.PayrollRun
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		// Version-guarded update first: a conflicting writer aborts the
		// transaction before any item is touched.
		var err error
		cancelled, err = scanRun(tx.QueryRow(ctx, updateRunQuery, updateRunArgs(run)...))
		if err != nil {
			if err == pgx.ErrNoRows {
				return payroll.ErrRunConflict
			}
			return fmt.Errorf("failed to cancel payroll run: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM payroll_items WHERE payroll_run_id = $1`, run.ID); err != nil {
			return fmt.Errorf("failed to delete payroll items: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	return cancelled, nil
}

func (r *payrollRepository) DeleteRun(ctx context.Context, id string, companyID string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM payroll_items WHERE payroll_run_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete payroll items: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM payroll_runs WHERE id = $1 AND company_id = $2`, id, companyID)
		if err != nil {
			return fmt.Errorf("failed to delete payroll run: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return payroll.ErrRunNotFound
		}
		return nil
	})
}

// ========== ITEMS ==========

const itemColumns = `
	i.id, i.payroll_run_id, i.employee_id,
	i.basic, i.housing, i.transport, i.meal, i.utility, i.other_allowances, i.gross_pay,
	i.paye_tax, i.pension_employee, i.pension_employer, i.nhf_deduction,
	i.other_deductions, i.other_deductions_total, i.total_deductions, i.net_pay,
	i.bank_name, i.account_number, i.account_name,
	i.status, i.failure_reason, i.created_at, i.updated_at
`

func (r *payrollRepository) UpsertItem(ctx context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	allowances, err := encodeAmountMap(item.OtherAllowances)
	if err != nil {
		return payroll.PayrollItem{}, err
	}
	deductions, err := encodeAmountMap(item.OtherDeductions)
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	// Keyed on (run, employee): reprocessing overwrites the prior
	// computation instead of appending a duplicate.
	query := `
		INSERT INTO payroll_items (
			id, payroll_run_id, employee_id,
			basic, housing, transport, meal, utility, other_allowances, gross_pay,
			paye_tax, pension_employee, pension_employer, nhf_deduction,
			other_deductions, other_deductions_total, total_deductions, net_pay,
			bank_name, account_number, account_name, status, failure_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (payroll_run_id, employee_id) DO UPDATE SET
			basic = EXCLUDED.basic, housing = EXCLUDED.housing, transport = EXCLUDED.transport,
			meal = EXCLUDED.meal, utility = EXCLUDED.utility,
			other_allowances = EXCLUDED.other_allowances, gross_pay = EXCLUDED.gross_pay,
			paye_tax = EXCLUDED.paye_tax, pension_employee = EXCLUDED.pension_employee,
			pension_employer = EXCLUDED.pension_employer, nhf_deduction = EXCLUDED.nhf_deduction,
			other_deductions = EXCLUDED.other_deductions,
			other_deductions_total = EXCLUDED.other_deductions_total,
			total_deductions = EXCLUDED.total_deductions, net_pay = EXCLUDED.net_pay,
			bank_name = EXCLUDED.bank_name, account_number = EXCLUDED.account_number,
			account_name = EXCLUDED.account_name,
			status = EXCLUDED.status, failure_reason = EXCLUDED.failure_reason,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	persisted := item
	err = q.QueryRow(ctx, query,
		uuid.NewString(), item.PayrollRunID, item.EmployeeID,
		item.Basic, item.Housing, item.Transport, item.Meal, item.Utility, allowances, item.GrossPay,
		item.PAYETax, item.PensionEmployee, item.PensionEmployer, item.NHFDeduction,
		deductions, item.OtherDeductionsTotal, item.TotalDeductions, item.NetPay,
		item.BankName, item.AccountNumber, item.AccountName, item.Status, item.FailureReason,
	).Scan(&persisted.ID, &persisted.CreatedAt, &persisted.UpdatedAt)
	if err != nil {
		return payroll.PayrollItem{}, fmt.Errorf("failed to upsert payroll item: %w", err)
	}

	return persisted, nil
}

func (r *payrollRepository) GetItemsByRunID(ctx context.Context, runID string, companyID string) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `, e.full_name, e.employee_code
		FROM payroll_items i
		JOIN payroll_runs r ON r.id = i.payroll_run_id
		LEFT JOIN employees e ON e.id = i.employee_id
		WHERE i.payroll_run_id = $1 AND r.company_id = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, runID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollItem
	for rows.Next() {
		var item payroll.PayrollItem
		var allowances, deductions []byte
		if err := rows.Scan(
			&item.ID, &item.PayrollRunID, &item.EmployeeID,
			&item.Basic, &item.Housing, &item.Transport, &item.Meal, &item.Utility, &allowances, &item.GrossPay,
			&item.PAYETax, &item.PensionEmployee, &item.PensionEmployer, &item.NHFDeduction,
			&deductions, &item.OtherDeductionsTotal, &item.TotalDeductions, &item.NetPay,
			&item.BankName, &item.AccountNumber, &item.AccountName,
			&item.Status, &item.FailureReason, &item.CreatedAt, &item.UpdatedAt,
			&item.EmployeeName, &item.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		if item.OtherAllowances, err = decodeAmountMap(allowances); err != nil {
			return nil, err
		}
		if item.OtherDeductions, err = decodeAmountMap(deductions); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *payrollRepository) GetItemsByEmployee(ctx context.Context, employeeID string, companyID string) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `, r.name, r.status, r.period_start, r.period_end
		FROM payroll_items i
		JOIN payroll_runs r ON r.id = i.payroll_run_id
		WHERE i.employee_id = $1 AND r.company_id = $2
		ORDER BY r.period_start DESC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee payroll history: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollItem
	for rows.Next() {
		var item payroll.PayrollItem
		var allowances, deductions []byte
		if err := rows.Scan(
			&item.ID, &item.PayrollRunID, &item.EmployeeID,
			&item.Basic, &item.Housing, &item.Transport, &item.Meal, &item.Utility, &allowances, &item.GrossPay,
			&item.PAYETax, &item.PensionEmployee, &item.PensionEmployer, &item.NHFDeduction,
			&deductions, &item.OtherDeductionsTotal, &item.TotalDeductions, &item.NetPay,
			&item.BankName, &item.AccountNumber, &item.AccountName,
			&item.Status, &item.FailureReason, &item.CreatedAt, &item.UpdatedAt,
			&item.RunName, &item.RunStatus, &item.PeriodStart, &item.PeriodEnd,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		if item.OtherAllowances, err = decodeAmountMap(allowances); err != nil {
			return nil, err
		}
		if item.OtherDeductions, err = decodeAmountMap(deductions); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *payrollRepository) DeleteItemsNotIn(ctx context.Context, runID string, companyID string, employeeIDs []string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM payroll_items i
		USING payroll_runs r
		WHERE i.payroll_run_id = r.id AND r.id = $1 AND r.company_id = $2
		  AND i.employee_id != ALL($3)
	`

	if _, err := q.Exec(ctx, query, runID, companyID, employeeIDs); err != nil {
		return fmt.Errorf("failed to prune payroll items: %w", err)
	}

	return nil
}
