package taxconfig

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompany = "company-1"

type fakeTaxRepo struct {
	sets   []taxconfig.TaxBandSet
	nextID int
}

func (r *fakeTaxRepo) SetForDate(_ context.Context, companyID string, asOf time.Time) (taxconfig.TaxBandSet, error) {
	var best *taxconfig.TaxBandSet
	for i, set := range r.sets {
		if set.CompanyID != companyID || set.EffectiveFrom.After(asOf) {
			continue
		}
		if best == nil || set.EffectiveFrom.After(best.EffectiveFrom) {
			best = &r.sets[i]
		}
	}
	if best == nil {
		return taxconfig.TaxBandSet{}, taxconfig.ErrNoBandSetForDate
	}
	return *best, nil
}

func (r *fakeTaxRepo) CreateSet(_ context.Context, set taxconfig.TaxBandSet) (taxconfig.TaxBandSet, error) {
	if err := set.Validate(); err != nil {
		return taxconfig.TaxBandSet{}, err
	}
	r.nextID++
	set.ID = fmt.Sprintf("set-%d", r.nextID)
	r.sets = append(r.sets, set)
	return set, nil
}

func (r *fakeTaxRepo) ListSets(_ context.Context, companyID string) ([]taxconfig.TaxBandSet, error) {
	var out []taxconfig.TaxBandSet
	for _, set := range r.sets {
		if set.CompanyID == companyID {
			out = append(out, set)
		}
	}
	return out, nil
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dPtr(v string) *decimal.Decimal {
	dec := d(v)
	return &dec
}

func setup() (taxconfig.TaxConfigService, *fakeTaxRepo) {
	repo := &fakeTaxRepo{}
	return NewTaxConfigService(repo, slog.New(slog.DiscardHandler)), repo
}

func validRequest() taxconfig.CreateBandSetRequest {
	return taxconfig.CreateBandSetRequest{
		EffectiveFrom: "2025-01-01",
		Bands: []taxconfig.BandInput{
			{Width: dPtr("800000"), Rate: d("0")},
			{Width: dPtr("2200000"), Rate: d("0.15")},
			{Width: nil, Rate: d("0.25")},
		},
		PensionEmployeeRate: d("0.08"),
		PensionEmployerRate: d("0.10"),
		NHFRate:             d("0.025"),
		CRAFixed:            d("200000"),
		CRAGrossPct:         d("0.20"),
		CRAMinPct:           d("0.01"),
	}
}

func TestCreateBandSet(t *testing.T) {
	t.Parallel()
	svc, repo := setup()

	resp, err := svc.CreateBandSet(context.Background(), testCompany, validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "2025-01-01", resp.EffectiveFrom)
	require.Len(t, resp.Bands, 3)
	assert.Nil(t, resp.Bands[2].Width)
	require.Len(t, repo.sets, 1)

	// The new set is selectable for dates it covers.
	set, err := repo.SetForDate(context.Background(), testCompany, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, resp.ID, set.ID)
}

func TestCreateBandSet_InvalidDate(t *testing.T) {
	t.Parallel()
	svc, _ := setup()

	req := validRequest()
	req.EffectiveFrom = "01/01/2025"

	_, err := svc.CreateBandSet(context.Background(), testCompany, req)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "effective_from")
}

func TestCreateBandSet_RejectsBoundedLastBand(t *testing.T) {
	t.Parallel()
	svc, repo := setup()

	req := validRequest()
	req.Bands[len(req.Bands)-1].Width = dPtr("1000000")

	_, err := svc.CreateBandSet(context.Background(), testCompany, req)
	assert.ErrorIs(t, err, taxconfig.ErrLastBandBounded)
	assert.Empty(t, repo.sets)
}

func TestCreateBandSet_RejectsRateOutOfRange(t *testing.T) {
	t.Parallel()
	svc, _ := setup()

	req := validRequest()
	req.NHFRate = d("1.5")

	_, err := svc.CreateBandSet(context.Background(), testCompany, req)
	assert.ErrorIs(t, err, taxconfig.ErrRateOutOfRange)
}

func TestListBandSets(t *testing.T) {
	t.Parallel()
	svc, _ := setup()

	_, err := svc.CreateBandSet(context.Background(), testCompany, validRequest())
	require.NoError(t, err)

	later := validRequest()
	later.EffectiveFrom = "2026-01-01"
	_, err = svc.CreateBandSet(context.Background(), testCompany, later)
	require.NoError(t, err)

	sets, err := svc.ListBandSets(context.Background(), testCompany)
	require.NoError(t, err)
	assert.Len(t, sets, 2)

	other, err := svc.ListBandSets(context.Background(), "company-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSeedDefault(t *testing.T) {
	t.Parallel()
	svc, repo := setup()

	resp, err := svc.SeedDefault(context.Background(), testCompany, taxconfig.SeedDefaultRequest{
		EffectiveFrom: "2024-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", resp.EffectiveFrom)
	require.Len(t, resp.Bands, 6)
	assert.True(t, d("0.07").Equal(resp.Bands[0].Rate))
	assert.Nil(t, resp.Bands[5].Width)
	assert.True(t, d("0.08").Equal(resp.PensionEmployeeRate))
	assert.True(t, d("0.025").Equal(resp.NHFRate))
	require.Len(t, repo.sets, 1)
}

func TestSeedDefault_RefusesSecondSeed(t *testing.T) {
	t.Parallel()
	svc, _ := setup()

	_, err := svc.SeedDefault(context.Background(), testCompany, taxconfig.SeedDefaultRequest{EffectiveFrom: "2024-01-01"})
	require.NoError(t, err)

	_, err = svc.SeedDefault(context.Background(), testCompany, taxconfig.SeedDefaultRequest{EffectiveFrom: "2025-01-01"})
	assert.ErrorIs(t, err, taxconfig.ErrAlreadyConfigured)
}
