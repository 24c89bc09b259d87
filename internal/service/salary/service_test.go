package salary

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/employee"
	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== FAKES ==========

type fakeSalaryRepo struct {
	structures  map[string]salary.SalaryStructure
	assignments []salary.EmployeeSalaryAssignment
	nextID      int
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{structures: make(map[string]salary.SalaryStructure)}
}

func (r *fakeSalaryRepo) id() string {
	r.nextID++
	return fmt.Sprintf("id-%d", r.nextID)
}

func (r *fakeSalaryRepo) CreateStructure(_ context.Context, s salary.SalaryStructure) (salary.SalaryStructure, error) {
	for _, existing := range r.structures {
		if existing.CompanyID == s.CompanyID && existing.Name == s.Name {
			return salary.SalaryStructure{}, salary.ErrStructureNameExists
		}
	}
	s.ID = r.id()
	r.structures[s.ID] = s
	return s, nil
}

func (r *fakeSalaryRepo) GetStructureByID(_ context.Context, id string, companyID string) (salary.SalaryStructure, error) {
	s, ok := r.structures[id]
	if !ok || s.CompanyID != companyID {
		return salary.SalaryStructure{}, salary.ErrStructureNotFound
	}
	return s, nil
}

func (r *fakeSalaryRepo) ListStructures(_ context.Context, companyID string) ([]salary.SalaryStructure, error) {
	var out []salary.SalaryStructure
	for _, s := range r.structures {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSalaryRepo) ReplaceCurrentAssignment(_ context.Context, a salary.EmployeeSalaryAssignment) (salary.EmployeeSalaryAssignment, error) {
	for i := range r.assignments {
		prior := &r.assignments[i]
		if prior.EmployeeID == a.EmployeeID && prior.CompanyID == a.CompanyID && prior.EffectiveTo == nil {
			closeAt := a.EffectiveFrom
			prior.EffectiveTo = &closeAt
		}
	}
	a.ID = r.id()
	r.assignments = append(r.assignments, a)
	return a, nil
}

func (r *fakeSalaryRepo) AssignmentsCovering(_ context.Context, employeeID string, companyID string, asOf time.Time) ([]salary.EmployeeSalaryAssignment, error) {
	var out []salary.EmployeeSalaryAssignment
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID && a.CompanyID == companyID && a.Covers(asOf) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeSalaryRepo) ListAssignments(_ context.Context, employeeID string, companyID string) ([]salary.EmployeeSalaryAssignment, error) {
	var out []salary.EmployeeSalaryAssignment
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID && a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string, _ time.Time) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ========== HELPERS ==========

const testCompany = "company-1"

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	dec := d(v)
	return &dec
}

func date(v string) time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return t
}

func setup(t *testing.T) (salary.SalaryService, *fakeSalaryRepo, *fakeEmployeeRepo) {
	t.Helper()
	salaryRepo := newFakeSalaryRepo()
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", CompanyID: testCompany, FullName: "Adaeze Okafor", HireDate: date("2023-01-09")},
	}}
	return NewSalaryService(salaryRepo, employeeRepo), salaryRepo, employeeRepo
}

func seedStructure(t *testing.T, svc salary.SalaryService) salary.StructureResponse {
	t.Helper()
	created, err := svc.CreateStructure(context.Background(), testCompany, salary.CreateStructureRequest{
		Name:      "Senior Engineer",
		Basic:     d("300000"),
		Housing:   d("125000"),
		Transport: d("75000"),
	})
	require.NoError(t, err)
	return created
}

// ========== STRUCTURE TESTS ==========

func TestCreateStructure(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)

	created := seedStructure(t, svc)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Senior Engineer", created.Name)
	assert.True(t, created.PAYEApplicable, "applicability flags default to true")
	assert.True(t, created.PensionApplicable)
	assert.True(t, created.NHFApplicable)
}

func TestCreateStructure_ValidationFails(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)

	_, err := svc.CreateStructure(context.Background(), testCompany, salary.CreateStructureRequest{
		Name:  "",
		Basic: d("-1"),
	})
	require.Error(t, err)
}

func TestCreateStructure_ApplicabilityOverride(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)

	no := false
	created, err := svc.CreateStructure(context.Background(), testCompany, salary.CreateStructureRequest{
		Name:              "Intern",
		Basic:             d("80000"),
		PensionApplicable: &no,
		NHFApplicable:     &no,
	})
	require.NoError(t, err)

	assert.True(t, created.PAYEApplicable)
	assert.False(t, created.PensionApplicable)
	assert.False(t, created.NHFApplicable)
}

func TestGetStructure_WrongCompany(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)
	created := seedStructure(t, svc)

	_, err := svc.GetStructure(context.Background(), created.ID, "company-other")
	assert.ErrorIs(t, err, salary.ErrStructureNotFound)
}

// ========== ASSIGNMENT TESTS ==========

func TestAssign_ClosesPriorInterval(t *testing.T) {
	t.Parallel()
	svc, repo, _ := setup(t)
	structure := seedStructure(t, svc)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-01-01",
	})
	require.NoError(t, err)

	second, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-06-01",
		BasicOverride: dp("350000"),
	})
	require.NoError(t, err)
	assert.Nil(t, second.EffectiveTo)

	// The first interval is now [2024-01-01, 2024-06-01).
	require.Len(t, repo.assignments, 2)
	first := repo.assignments[0]
	require.NotNil(t, first.EffectiveTo)
	assert.Equal(t, date("2024-06-01"), *first.EffectiveTo)

	// Exactly one assignment covers any instant.
	covering, err := repo.AssignmentsCovering(context.Background(), "emp-1", testCompany, date("2024-03-15"))
	require.NoError(t, err)
	assert.Len(t, covering, 1)
	covering, err = repo.AssignmentsCovering(context.Background(), "emp-1", testCompany, date("2024-07-01"))
	require.NoError(t, err)
	assert.Len(t, covering, 1)
}

func TestAssign_UnknownEmployee(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)
	structure := seedStructure(t, svc)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-missing",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-01-01",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAssign_UnknownStructure(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   "structure-missing",
		EffectiveFrom: "2024-01-01",
	})
	assert.ErrorIs(t, err, salary.ErrStructureNotFound)
}

// ========== RESOLUTION TESTS ==========

func TestResolve_StructureDefaults(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)
	structure := seedStructure(t, svc)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-01-01",
	})
	require.NoError(t, err)

	snap, err := svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-03-31"))
	require.NoError(t, err)

	assert.True(t, d("300000").Equal(snap.Basic))
	assert.True(t, d("125000").Equal(snap.Housing))
	assert.True(t, d("75000").Equal(snap.Transport))
	assert.True(t, snap.PAYEApplicable)
}

func TestResolve_OverridesWinPerComponent(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)
	structure := seedStructure(t, svc)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-01-01",
		BasicOverride: dp("350000"),
		OtherDeductions: map[string]decimal.Decimal{
			"LOAN": d("15000"),
		},
	})
	require.NoError(t, err)

	snap, err := svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-03-31"))
	require.NoError(t, err)

	// Overridden component takes the assignment value; the rest fall back.
	assert.True(t, d("350000").Equal(snap.Basic))
	assert.True(t, d("125000").Equal(snap.Housing))
	assert.True(t, d("75000").Equal(snap.Transport))
	require.Contains(t, snap.OtherDeductions, "LOAN")
	assert.True(t, d("15000").Equal(snap.OtherDeductions["LOAN"]))
}

func TestResolve_PicksIntervalCoveringDate(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)
	structure := seedStructure(t, svc)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-01-01",
	})
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-06-01",
		BasicOverride: dp("400000"),
	})
	require.NoError(t, err)

	before, err := svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-05-31"))
	require.NoError(t, err)
	assert.True(t, d("300000").Equal(before.Basic))

	// The boundary date belongs to the new interval (half-open).
	after, err := svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-06-01"))
	require.NoError(t, err)
	assert.True(t, d("400000").Equal(after.Basic))
}

func TestResolve_NoCoveringAssignment(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)
	structure := seedStructure(t, svc)

	_, err := svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   structure.ID,
		EffectiveFrom: "2024-06-01",
	})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-03-31"))
	assert.ErrorIs(t, err, salary.ErrNoCurrentAssignment)
}

func TestResolve_AmbiguousAssignment(t *testing.T) {
	t.Parallel()
	svc, repo, _ := setup(t)
	structure := seedStructure(t, svc)

	// Inject overlapping intervals directly, bypassing the service's
	// close-prior logic, to simulate corrupted data.
	repo.assignments = append(repo.assignments,
		salary.EmployeeSalaryAssignment{ID: "a-1", CompanyID: testCompany, EmployeeID: "emp-1", StructureID: structure.ID, EffectiveFrom: date("2024-01-01")},
		salary.EmployeeSalaryAssignment{ID: "a-2", CompanyID: testCompany, EmployeeID: "emp-1", StructureID: structure.ID, EffectiveFrom: date("2024-02-01")},
	)

	_, err := svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-03-31"))
	assert.ErrorIs(t, err, salary.ErrAmbiguousAssignment)
}

func TestResolve_AssignmentAllowancesReplaceStructure(t *testing.T) {
	t.Parallel()
	svc, _, _ := setup(t)

	created, err := svc.CreateStructure(context.Background(), testCompany, salary.CreateStructureRequest{
		Name:  "With Allowances",
		Basic: d("200000"),
		OtherAllowances: map[string]decimal.Decimal{
			"13TH_MONTH": d("50000"),
			"WARDROBE":   d("10000"),
		},
	})
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), testCompany, salary.AssignSalaryRequest{
		EmployeeID:    "emp-1",
		StructureID:   created.ID,
		EffectiveFrom: "2024-01-01",
		OtherAllowances: map[string]decimal.Decimal{
			"CALL_DUTY": d("25000"),
		},
	})
	require.NoError(t, err)

	snap, err := svc.Resolve(context.Background(), "emp-1", testCompany, date("2024-03-31"))
	require.NoError(t, err)

	// Non-nil assignment map replaces the structure's map entirely.
	assert.Len(t, snap.OtherAllowances, 1)
	require.Contains(t, snap.OtherAllowances, "CALL_DUTY")
}
