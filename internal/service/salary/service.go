package salary

import (
	"context"
	"fmt"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/employee"
	"github.com/gidihr/payroll-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

type SalaryServiceImpl struct {
	salaryRepo   salary.SalaryRepository
	employeeRepo employee.EmployeeRepository
}

func NewSalaryService(
	salaryRepo salary.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
) salary.SalaryService {
	return &SalaryServiceImpl{
		salaryRepo:   salaryRepo,
		employeeRepo: employeeRepo,
	}
}

// ========== STRUCTURES ==========

func (s *SalaryServiceImpl) CreateStructure(ctx context.Context, companyID string, req salary.CreateStructureRequest) (salary.StructureResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.StructureResponse{}, err
	}

	boolOrDefault := func(v *bool, def bool) bool {
		if v != nil {
			return *v
		}
		return def
	}

	structure := salary.SalaryStructure{
		CompanyID:         companyID,
		Name:              req.Name,
		Basic:             req.Basic,
		Housing:           req.Housing,
		Transport:         req.Transport,
		Meal:              req.Meal,
		Utility:           req.Utility,
		OtherAllowances:   req.OtherAllowances,
		PAYEApplicable:    boolOrDefault(req.PAYEApplicable, true),
		PensionApplicable: boolOrDefault(req.PensionApplicable, true),
		NHFApplicable:     boolOrDefault(req.NHFApplicable, true),
	}

	created, err := s.salaryRepo.CreateStructure(ctx, structure)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	return mapToStructureResponse(created), nil
}

func (s *SalaryServiceImpl) GetStructure(ctx context.Context, id string, companyID string) (salary.StructureResponse, error) {
	structure, err := s.salaryRepo.GetStructureByID(ctx, id, companyID)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	return mapToStructureResponse(structure), nil
}

func (s *SalaryServiceImpl) ListStructures(ctx context.Context, companyID string) ([]salary.StructureResponse, error) {
	structures, err := s.salaryRepo.ListStructures(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]salary.StructureResponse, 0, len(structures))
	for _, structure := range structures {
		result = append(result, mapToStructureResponse(structure))
	}

	return result, nil
}

// ========== ASSIGNMENTS ==========

func (s *SalaryServiceImpl) Assign(ctx context.Context, companyID string, req salary.AssignSalaryRequest) (salary.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.AssignmentResponse{}, err
	}

	// Both must exist before an interval is opened
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return salary.AssignmentResponse{}, err
	}
	structure, err := s.salaryRepo.GetStructureByID(ctx, req.StructureID, companyID)
	if err != nil {
		return salary.AssignmentResponse{}, err
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)

	assignment := salary.EmployeeSalaryAssignment{
		CompanyID:         companyID,
		EmployeeID:        req.EmployeeID,
		StructureID:       req.StructureID,
		EffectiveFrom:     effectiveFrom,
		BasicOverride:     req.BasicOverride,
		HousingOverride:   req.HousingOverride,
		TransportOverride: req.TransportOverride,
		MealOverride:      req.MealOverride,
		UtilityOverride:   req.UtilityOverride,
		OtherAllowances:   req.OtherAllowances,
		OtherDeductions:   req.OtherDeductions,
	}

	// Closes the prior current interval at effectiveFrom and inserts the new
	// record atomically, preserving the at-most-one-current invariant.
	created, err := s.salaryRepo.ReplaceCurrentAssignment(ctx, assignment)
	if err != nil {
		return salary.AssignmentResponse{}, err
	}

	resp := mapToAssignmentResponse(created)
	resp.StructureName = structure.Name
	return resp, nil
}

func (s *SalaryServiceImpl) ListAssignments(ctx context.Context, employeeID string, companyID string) ([]salary.AssignmentResponse, error) {
	assignments, err := s.salaryRepo.ListAssignments(ctx, employeeID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]salary.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, mapToAssignmentResponse(a))
	}

	return result, nil
}

// ========== RESOLUTION ==========

func (s *SalaryServiceImpl) Resolve(ctx context.Context, employeeID string, companyID string, asOf time.Time) (salary.CompensationSnapshot, error) {
	assignments, err := s.salaryRepo.AssignmentsCovering(ctx, employeeID, companyID, asOf)
	if err != nil {
		return salary.CompensationSnapshot{}, err
	}

	switch len(assignments) {
	case 0:
		return salary.CompensationSnapshot{}, fmt.Errorf("employee %s as of %s: %w", employeeID, asOf.Format("2006-01-02"), salary.ErrNoCurrentAssignment)
	case 1:
		// the invariant holds
	default:
		return salary.CompensationSnapshot{}, fmt.Errorf("employee %s as of %s: %w", employeeID, asOf.Format("2006-01-02"), salary.ErrAmbiguousAssignment)
	}
	assignment := assignments[0]

	structure, err := s.salaryRepo.GetStructureByID(ctx, assignment.StructureID, companyID)
	if err != nil {
		return salary.CompensationSnapshot{}, err
	}

	override := func(component decimal.Decimal, o *decimal.Decimal) decimal.Decimal {
		if o != nil {
			return *o
		}
		return component
	}

	otherAllowances := structure.OtherAllowances
	if assignment.OtherAllowances != nil {
		otherAllowances = assignment.OtherAllowances
	}

	return salary.CompensationSnapshot{
		EmployeeID:        employeeID,
		Basic:             override(structure.Basic, assignment.BasicOverride),
		Housing:           override(structure.Housing, assignment.HousingOverride),
		Transport:         override(structure.Transport, assignment.TransportOverride),
		Meal:              override(structure.Meal, assignment.MealOverride),
		Utility:           override(structure.Utility, assignment.UtilityOverride),
		OtherAllowances:   otherAllowances,
		OtherDeductions:   assignment.OtherDeductions,
		PAYEApplicable:    structure.PAYEApplicable,
		PensionApplicable: structure.PensionApplicable,
		NHFApplicable:     structure.NHFApplicable,
	}, nil
}

// ========== HELPERS ==========

func mapToStructureResponse(s salary.SalaryStructure) salary.StructureResponse {
	return salary.StructureResponse{
		ID:                s.ID,
		CompanyID:         s.CompanyID,
		Name:              s.Name,
		Basic:             s.Basic,
		Housing:           s.Housing,
		Transport:         s.Transport,
		Meal:              s.Meal,
		Utility:           s.Utility,
		OtherAllowances:   s.OtherAllowances,
		PAYEApplicable:    s.PAYEApplicable,
		PensionApplicable: s.PensionApplicable,
		NHFApplicable:     s.NHFApplicable,
	}
}

func mapToAssignmentResponse(a salary.EmployeeSalaryAssignment) salary.AssignmentResponse {
	var effectiveTo *string
	if a.EffectiveTo != nil {
		str := a.EffectiveTo.Format("2006-01-02")
		effectiveTo = &str
	}

	return salary.AssignmentResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		StructureID:       a.StructureID,
		EffectiveFrom:     a.EffectiveFrom.Format("2006-01-02"),
		EffectiveTo:       effectiveTo,
		BasicOverride:     a.BasicOverride,
		HousingOverride:   a.HousingOverride,
		TransportOverride: a.TransportOverride,
		MealOverride:      a.MealOverride,
		UtilityOverride:   a.UtilityOverride,
		OtherAllowances:   a.OtherAllowances,
		OtherDeductions:   a.OtherDeductions,
	}
}
