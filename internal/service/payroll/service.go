package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/employee"
	"github.com/gidihr/payroll-backend-go/internal/domain/payroll"
	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/service/taxengine"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// processConcurrency bounds the per-employee computation fan-out during a run.
const processConcurrency = 8

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	taxRepo      taxconfig.TaxBandRepository
	salarySvc    salary.SalaryService
	logger       *slog.Logger
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	taxRepo taxconfig.TaxBandRepository,
	salarySvc salary.SalaryService,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		taxRepo:      taxRepo,
		salarySvc:    salarySvc,
		logger:       logger,
	}
}

// ========== RUN LIFECYCLE ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, companyID string, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	periodStart, _ := time.Parse("2006-01-02", req.PeriodStart)
	periodEnd, _ := time.Parse("2006-01-02", req.PeriodEnd)

	overlaps, err := s.payrollRepo.HasOverlappingRun(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if overlaps {
		return payroll.RunResponse{}, payroll.ErrOverlappingPeriod
	}

	run := payroll.PayrollRun{
		CompanyID:   companyID,
		Name:        req.Name,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      payroll.RunStatusDraft,
		Notes:       req.Notes,
	}

	created, err := s.payrollRepo.CreateRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.ToRunResponse(created), nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string, companyID string) (payroll.RunWithItemsResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	items, err := s.payrollRepo.GetItemsByRunID(ctx, id, companyID)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	return toRunWithItems(run, items), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, companyID string) ([]payroll.RunResponse, error) {
	runs, err := s.payrollRepo.ListRuns(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		result = append(result, payroll.ToRunResponse(run))
	}

	return result, nil
}

// ProcessRun recomputes every eligible employee's payslip for the run's
// period and folds the run totals from the resulting item set. The whole
// operation is idempotent: items are keyed by (run, employee) and replaced in
// place, and totals are derived from scratch each time.
func (s *PayrollServiceImpl) ProcessRun(ctx context.Context, id string, companyID string, actorID string) (payroll.RunWithItemsResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}
	if !run.Status.CanProcess() {
		return payroll.RunWithItemsResponse{}, fmt.Errorf("process from %s: %w", run.Status, payroll.ErrInvalidTransition)
	}

	bandSet, err := s.taxRepo.SetForDate(ctx, companyID, run.PeriodEnd)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID, run.PeriodEnd)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	eligible := make([]employee.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.EligibleFor(run.PeriodEnd) {
			eligible = append(eligible, emp)
		}
	}

	// Claim the run as processing before fanning out, so a concurrent
	// process/cancel against the same version loses cleanly.
	now := time.Now()
	run.Status = payroll.RunStatusProcessing
	run.ProcessedBy = &actorID
	run.ProcessedAt = &now
	run, err = s.payrollRepo.UpdateRun(ctx, run)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	items, failures := s.computeItems(ctx, run, eligible, bandSet)

	for _, item := range items {
		if _, err := s.payrollRepo.UpsertItem(ctx, item); err != nil {
			return payroll.RunWithItemsResponse{}, fmt.Errorf("persist item for employee %s: %w", item.EmployeeID, err)
		}
	}

	// Prune payslips left over from a prior computation whose employees are
	// no longer eligible, then fold totals from the persisted item set:
	// aggregates must always reconcile with the items on disk.
	eligibleIDs := make([]string, 0, len(eligible))
	for _, emp := range eligible {
		eligibleIDs = append(eligibleIDs, emp.ID)
	}
	if err := s.payrollRepo.DeleteItemsNotIn(ctx, run.ID, companyID, eligibleIDs); err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	items, err = s.payrollRepo.GetItemsByRunID(ctx, run.ID, companyID)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	run = foldTotals(run, items)
	if len(failures) == 0 {
		run.Status = payroll.RunStatusPendingApproval
	}

	run, err = s.payrollRepo.UpdateRun(ctx, run)
	if err != nil {
		return payroll.RunWithItemsResponse{}, err
	}

	resp := toRunWithItems(run, items)
	if len(failures) > 0 {
		s.logger.WarnContext(ctx, "payroll run processed with failures",
			slog.String("run_id", run.ID),
			slog.Int("computed", run.TotalEmployees),
			slog.Int("failed", len(failures)),
		)
		return resp, &payroll.PartialFailureError{RunID: run.ID, Failures: failures}
	}

	s.logger.InfoContext(ctx, "payroll run processed",
		slog.String("run_id", run.ID),
		slog.Int("employees", run.TotalEmployees),
	)
	return resp, nil
}

func (s *PayrollServiceImpl) ApproveRun(ctx context.Context, id string, companyID string, actorID string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !run.Status.CanApprove() {
		return payroll.RunResponse{}, fmt.Errorf("approve from %s: %w", run.Status, payroll.ErrInvalidTransition)
	}

	items, err := s.payrollRepo.GetItemsByRunID(ctx, id, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	for _, item := range items {
		if item.Status == payroll.ItemStatusFailed {
			return payroll.RunResponse{}, payroll.ErrRunHasFailedItems
		}
	}

	now := time.Now()
	run.Status = payroll.RunStatusApproved
	run.ApprovedBy = &actorID
	run.ApprovedAt = &now

	updated, err := s.payrollRepo.UpdateRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.ToRunResponse(updated), nil
}

func (s *PayrollServiceImpl) MarkRunPaid(ctx context.Context, id string, companyID string, actorID string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !run.Status.CanMarkPaid() {
		return payroll.RunResponse{}, fmt.Errorf("mark paid from %s: %w", run.Status, payroll.ErrInvalidTransition)
	}

	now := time.Now()
	run.Status = payroll.RunStatusPaid
	run.PaidBy = &actorID
	run.PaidAt = &now

	updated, err := s.payrollRepo.UpdateRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.ToRunResponse(updated), nil
}

func (s *PayrollServiceImpl) CancelRun(ctx context.Context, id string, companyID string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !run.Status.CanCancel() {
		return payroll.RunResponse{}, fmt.Errorf("cancel from %s: %w", run.Status, payroll.ErrInvalidTransition)
	}

	// Cancellation discards any computed items and zeroes the aggregates;
	// a cancelled run is a tombstone, not a payable artifact. The repo
	// applies both atomically, so a version conflict leaves items intact.
	run = foldTotals(run, nil)
	run.Status = payroll.RunStatusCancelled

	updated, err := s.payrollRepo.CancelRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.ToRunResponse(updated), nil
}

func (s *PayrollServiceImpl) DeleteRun(ctx context.Context, id string, companyID string) error {
	run, err := s.payrollRepo.GetRunByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if !run.Status.CanDelete() {
		return payroll.ErrRunNotDeletable
	}

	return s.payrollRepo.DeleteRun(ctx, id, companyID)
}

// ========== REPORTING ==========

// PensionSchedule produces per-PFA remittance schedules for a processed run,
// grouping employee and employer contributions by the employees' pension fund
// administrators.
func (s *PayrollServiceImpl) PensionSchedule(ctx context.Context, runID string, companyID string) ([]payroll.PensionScheduleResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return nil, err
	}

	items, err := s.payrollRepo.GetItemsByRunID(ctx, runID, companyID)
	if err != nil {
		return nil, err
	}

	period := fmt.Sprintf("%s - %s", run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02"))

	byPFA := make(map[string][]payroll.PensionScheduleEntry)
	for _, item := range items {
		if item.Status != payroll.ItemStatusComputed {
			continue
		}
		if item.PensionEmployee.IsZero() && item.PensionEmployer.IsZero() {
			continue
		}

		emp, err := s.employeeRepo.GetByID(ctx, item.EmployeeID, companyID)
		if err != nil {
			return nil, err
		}

		pfa := "UNASSIGNED"
		if emp.PFAName != nil && *emp.PFAName != "" {
			pfa = *emp.PFAName
		}

		byPFA[pfa] = append(byPFA[pfa], payroll.PensionScheduleEntry{
			EmployeeName:         emp.FullName,
			RSANumber:            emp.RSANumber,
			EmployeeContribution: item.PensionEmployee,
			EmployerContribution: item.PensionEmployer,
			Total:                item.PensionEmployee.Add(item.PensionEmployer),
		})
	}

	pfas := make([]string, 0, len(byPFA))
	for pfa := range byPFA {
		pfas = append(pfas, pfa)
	}
	sort.Strings(pfas)

	schedules := make([]payroll.PensionScheduleResponse, 0, len(pfas))
	for _, pfa := range pfas {
		entries := byPFA[pfa]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].EmployeeName < entries[j].EmployeeName
		})

		totalEmployee := decimal.Zero
		totalEmployer := decimal.Zero
		for _, e := range entries {
			totalEmployee = totalEmployee.Add(e.EmployeeContribution)
			totalEmployer = totalEmployer.Add(e.EmployerContribution)
		}

		schedules = append(schedules, payroll.PensionScheduleResponse{
			Period:        period,
			PFAName:       pfa,
			Entries:       entries,
			TotalEmployee: totalEmployee,
			TotalEmployer: totalEmployer,
			GrandTotal:    totalEmployee.Add(totalEmployer),
		})
	}

	return schedules, nil
}

// TaxPreview computes statutory deductions for a hypothetical monthly gross
// under the company's current band set, with nothing persisted.
func (s *PayrollServiceImpl) TaxPreview(ctx context.Context, companyID string, req payroll.TaxPreviewRequest) (payroll.TaxPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TaxPreviewResponse{}, err
	}

	bandSet, err := s.taxRepo.SetForDate(ctx, companyID, time.Now())
	if err != nil {
		return payroll.TaxPreviewResponse{}, err
	}

	comp := taxengine.Preview(req.MonthlyGross, bandSet)

	breakdown := make([]payroll.TaxBandBreakdown, 0, len(comp.Assessment.BandBreakdown))
	for _, b := range comp.Assessment.BandBreakdown {
		breakdown = append(breakdown, payroll.TaxBandBreakdown{
			Width:   b.Width,
			Rate:    b.Rate,
			Taxable: b.Taxable,
			Tax:     b.Tax,
		})
	}

	return payroll.TaxPreviewResponse{
		GrossMonthly:     req.MonthlyGross,
		GrossAnnual:      comp.Assessment.GrossAnnual,
		CRA:              comp.Assessment.CRA,
		TaxableAnnual:    comp.Assessment.TaxableAnnual,
		PAYEMonthly:      comp.PAYETax,
		PAYEAnnual:       comp.Assessment.AnnualTax,
		PensionEmployee:  comp.PensionEmployee,
		PensionEmployer:  comp.PensionEmployer,
		NHF:              comp.NHFDeduction,
		TotalDeductions:  comp.TotalDeductions,
		NetMonthly:       comp.NetPay,
		EffectiveTaxRate: comp.Assessment.EffectiveRate,
		BandBreakdown:    breakdown,
	}, nil
}

func (s *PayrollServiceImpl) EmployeePayrollHistory(ctx context.Context, employeeID string, companyID string) ([]payroll.PayrollHistoryEntry, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID, companyID); err != nil {
		return nil, err
	}

	items, err := s.payrollRepo.GetItemsByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	entries := make([]payroll.PayrollHistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, payroll.ToHistoryEntry(item))
	}

	return entries, nil
}

// AnnualTaxReport aggregates the employee's payslips from paid runs whose
// period ends in the given year into the P9A annual PAYE return. Only paid
// runs count: tax is "deducted" once the payroll is disbursed, not while a
// run is still in flight.
func (s *PayrollServiceImpl) AnnualTaxReport(ctx context.Context, employeeID string, companyID string, year int) (payroll.AnnualTaxReportResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return payroll.AnnualTaxReportResponse{}, err
	}

	items, err := s.payrollRepo.GetItemsByEmployee(ctx, employeeID, companyID)
	if err != nil {
		return payroll.AnnualTaxReportResponse{}, err
	}

	report := payroll.AnnualTaxReportResponse{
		Year:              year,
		EmployeeID:        employeeID,
		EmployeeName:      emp.FullName,
		TIN:               emp.TIN,
		MonthlyEarnings:   []payroll.MonthlyEarning{},
		AnnualGross:       decimal.Zero,
		AnnualTaxDeducted: decimal.Zero,
		AnnualPension:     decimal.Zero,
	}

	byMonth := make(map[int]payroll.MonthlyEarning)
	for _, item := range items {
		if item.Status != payroll.ItemStatusComputed {
			continue
		}
		if item.RunStatus == nil || *item.RunStatus != payroll.RunStatusPaid {
			continue
		}
		if item.PeriodEnd == nil || item.PeriodEnd.Year() != year {
			continue
		}

		month := int(item.PeriodEnd.Month())
		line := byMonth[month]
		line.Month = month
		line.Gross = line.Gross.Add(item.GrossPay)
		line.TaxDeducted = line.TaxDeducted.Add(item.PAYETax)
		byMonth[month] = line

		report.AnnualGross = report.AnnualGross.Add(item.GrossPay)
		report.AnnualTaxDeducted = report.AnnualTaxDeducted.Add(item.PAYETax)
		report.AnnualPension = report.AnnualPension.Add(item.PensionEmployee)
	}

	months := make([]int, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Ints(months)
	for _, month := range months {
		report.MonthlyEarnings = append(report.MonthlyEarnings, byMonth[month])
	}

	return report, nil
}

// ========== COMPUTATION ==========

// computeItems resolves and computes a payslip for every eligible employee in
// parallel. Failures are captured per employee, never aborting the batch: the
// failed item is recorded with its reason so the run's audit trail stays
// complete.
func (s *PayrollServiceImpl) computeItems(ctx context.Context, run payroll.PayrollRun, eligible []employee.Employee, bandSet taxconfig.TaxBandSet) ([]payroll.PayrollItem, []payroll.EmployeeFailure) {
	var mu sync.Mutex
	items := make([]payroll.PayrollItem, len(eligible))
	var failures []payroll.EmployeeFailure

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(processConcurrency)

	for i, emp := range eligible {
		g.Go(func() error {
			item, err := s.computeItem(gctx, run, emp, bandSet)
			if err != nil {
				reason := err.Error()
				item = payroll.PayrollItem{
					PayrollRunID:  run.ID,
					EmployeeID:    emp.ID,
					Status:        payroll.ItemStatusFailed,
					FailureReason: &reason,
				}
				mu.Lock()
				failures = append(failures, payroll.EmployeeFailure{EmployeeID: emp.ID, Reason: reason})
				mu.Unlock()
			}
			items[i] = item
			return nil
		})
	}
	// Workers never return errors; the group only bounds concurrency.
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].EmployeeID < failures[j].EmployeeID
	})

	return items, failures
}

func (s *PayrollServiceImpl) computeItem(ctx context.Context, run payroll.PayrollRun, emp employee.Employee, bandSet taxconfig.TaxBandSet) (payroll.PayrollItem, error) {
	snap, err := s.salarySvc.Resolve(ctx, emp.ID, run.CompanyID, run.PeriodEnd)
	if err != nil {
		if errors.Is(err, salary.ErrNoCurrentAssignment) || errors.Is(err, salary.ErrAmbiguousAssignment) {
			return payroll.PayrollItem{}, err
		}
		return payroll.PayrollItem{}, fmt.Errorf("resolve compensation: %w", err)
	}

	comp := taxengine.Compute(snap, bandSet)

	return payroll.PayrollItem{
		PayrollRunID: run.ID,
		EmployeeID:   emp.ID,

		Basic:           snap.Basic,
		Housing:         snap.Housing,
		Transport:       snap.Transport,
		Meal:            snap.Meal,
		Utility:         snap.Utility,
		OtherAllowances: snap.OtherAllowances,
		GrossPay:        comp.GrossPay,

		PAYETax:         comp.PAYETax,
		PensionEmployee: comp.PensionEmployee,
		PensionEmployer: comp.PensionEmployer,
		NHFDeduction:    comp.NHFDeduction,

		OtherDeductions:      snap.OtherDeductions,
		OtherDeductionsTotal: comp.OtherDeductionsTotal,

		TotalDeductions: comp.TotalDeductions,
		NetPay:          comp.NetPay,

		BankName:      emp.BankName,
		AccountNumber: emp.BankAccountNumber,
		AccountName:   emp.BankAccountName,

		Status: payroll.ItemStatusComputed,
	}, nil
}

// foldTotals rebuilds the run's aggregates from the full item set. Failed
// items are excluded; totals always equal the exact sum of computed items.
func foldTotals(run payroll.PayrollRun, items []payroll.PayrollItem) payroll.PayrollRun {
	run.TotalEmployees = 0
	run.TotalGross = decimal.Zero
	run.TotalDeductions = decimal.Zero
	run.TotalNet = decimal.Zero
	run.TotalEmployerContributions = decimal.Zero
	run.TotalPAYE = decimal.Zero
	run.TotalPensionEmployee = decimal.Zero
	run.TotalPensionEmployer = decimal.Zero
	run.TotalNHF = decimal.Zero

	for _, item := range items {
		if item.Status != payroll.ItemStatusComputed {
			continue
		}
		run.TotalEmployees++
		run.TotalGross = run.TotalGross.Add(item.GrossPay)
		run.TotalDeductions = run.TotalDeductions.Add(item.TotalDeductions)
		run.TotalNet = run.TotalNet.Add(item.NetPay)
		run.TotalEmployerContributions = run.TotalEmployerContributions.Add(item.PensionEmployer)
		run.TotalPAYE = run.TotalPAYE.Add(item.PAYETax)
		run.TotalPensionEmployee = run.TotalPensionEmployee.Add(item.PensionEmployee)
		run.TotalPensionEmployer = run.TotalPensionEmployer.Add(item.PensionEmployer)
		run.TotalNHF = run.TotalNHF.Add(item.NHFDeduction)
	}

	return run
}

func toRunWithItems(run payroll.PayrollRun, items []payroll.PayrollItem) payroll.RunWithItemsResponse {
	itemResponses := make([]payroll.ItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, payroll.ToItemResponse(item))
	}
	return payroll.RunWithItemsResponse{
		Run:   payroll.ToRunResponse(run),
		Items: itemResponses,
	}
}
