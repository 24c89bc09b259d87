package taxconfig

import (
	"context"
	"log/slog"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/fixtures"
)

type TaxConfigServiceImpl struct {
	taxRepo taxconfig.TaxBandRepository
	logger  *slog.Logger
}

func NewTaxConfigService(taxRepo taxconfig.TaxBandRepository, logger *slog.Logger) taxconfig.TaxConfigService {
	return &TaxConfigServiceImpl{taxRepo: taxRepo, logger: logger}
}

func (s *TaxConfigServiceImpl) CreateBandSet(ctx context.Context, companyID string, req taxconfig.CreateBandSetRequest) (taxconfig.BandSetResponse, error) {
	if err := req.Validate(); err != nil {
		return taxconfig.BandSetResponse{}, err
	}

	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)

	bands := make([]taxconfig.TaxBand, 0, len(req.Bands))
	for _, b := range req.Bands {
		bands = append(bands, taxconfig.TaxBand{Width: b.Width, Rate: b.Rate})
	}

	set := taxconfig.TaxBandSet{
		CompanyID:           companyID,
		EffectiveFrom:       effectiveFrom,
		Bands:               bands,
		PensionEmployeeRate: req.PensionEmployeeRate,
		PensionEmployerRate: req.PensionEmployerRate,
		NHFRate:             req.NHFRate,
		CRAFixed:            req.CRAFixed,
		CRAGrossPct:         req.CRAGrossPct,
		CRAMinPct:           req.CRAMinPct,
	}
	if err := set.Validate(); err != nil {
		return taxconfig.BandSetResponse{}, err
	}

	created, err := s.taxRepo.CreateSet(ctx, set)
	if err != nil {
		return taxconfig.BandSetResponse{}, err
	}

	s.logger.InfoContext(ctx, "tax band set created",
		slog.String("company_id", companyID),
		slog.String("effective_from", req.EffectiveFrom),
	)
	return taxconfig.ToBandSetResponse(created), nil
}

func (s *TaxConfigServiceImpl) ListBandSets(ctx context.Context, companyID string) ([]taxconfig.BandSetResponse, error) {
	sets, err := s.taxRepo.ListSets(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]taxconfig.BandSetResponse, 0, len(sets))
	for _, set := range sets {
		result = append(result, taxconfig.ToBandSetResponse(set))
	}
	return result, nil
}

// SeedDefault installs the FIRS default configuration. It refuses to seed a
// company that already has any band set: corrections are new sets created
// through CreateBandSet, never a reseed.
func (s *TaxConfigServiceImpl) SeedDefault(ctx context.Context, companyID string, req taxconfig.SeedDefaultRequest) (taxconfig.BandSetResponse, error) {
	if err := req.Validate(); err != nil {
		return taxconfig.BandSetResponse{}, err
	}

	existing, err := s.taxRepo.ListSets(ctx, companyID)
	if err != nil {
		return taxconfig.BandSetResponse{}, err
	}
	if len(existing) > 0 {
		return taxconfig.BandSetResponse{}, taxconfig.ErrAlreadyConfigured
	}

	effectiveFrom := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if req.EffectiveFrom != "" {
		effectiveFrom, _ = time.Parse("2006-01-02", req.EffectiveFrom)
	}

	created, err := s.taxRepo.CreateSet(ctx, fixtures.DefaultTaxBandSet(companyID, effectiveFrom))
	if err != nil {
		return taxconfig.BandSetResponse{}, err
	}

	s.logger.InfoContext(ctx, "default tax configuration seeded",
		slog.String("company_id", companyID),
		slog.String("effective_from", effectiveFrom.Format("2006-01-02")),
	)
	return taxconfig.ToBandSetResponse(created), nil
}
