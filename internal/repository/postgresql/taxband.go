package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type taxBandRepository struct {
	db *database.DB
}

func NewTaxBandRepository(db *database.DB) taxconfig.TaxBandRepository {
	return &taxBandRepository{db: db}
}

const taxBandSetColumns = `
	id, company_id, effective_from, bands,
	pension_employee_rate, pension_employer_rate, nhf_rate,
	cra_fixed, cra_gross_pct, cra_min_pct,
	created_at, updated_at
`

func (r *taxBandRepository) SetForDate(ctx context.Context, companyID string, asOf time.Time) (taxconfig.TaxBandSet, error) {
	q := GetQuerier(ctx, r.db)

	// Latest effective_from not after asOf: band sets are versioned by date
	// and never mutated, so historical runs stay reproducible.
	query := `
		SELECT ` + taxBandSetColumns + `
		FROM tax_band_sets
		WHERE company_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC
		LIMIT 1
	`

	set, err := scanTaxBandSet(q.QueryRow(ctx, query, companyID, asOf))
	if err != nil {
		if err == pgx.ErrNoRows {
			return taxconfig.TaxBandSet{}, taxconfig.ErrNoBandSetForDate
		}
		return taxconfig.TaxBandSet{}, fmt.Errorf("failed to get tax band set: %w", err)
	}

	if err := set.Validate(); err != nil {
		return taxconfig.TaxBandSet{}, fmt.Errorf("stored tax band set %s: %w", set.ID, err)
	}

	return set, nil
}

func (r *taxBandRepository) CreateSet(ctx context.Context, set taxconfig.TaxBandSet) (taxconfig.TaxBandSet, error) {
	if err := set.Validate(); err != nil {
		return taxconfig.TaxBandSet{}, err
	}

	q := GetQuerier(ctx, r.db)

	bands, err := json.Marshal(set.Bands)
	if err != nil {
		return taxconfig.TaxBandSet{}, fmt.Errorf("encode tax bands: %w", err)
	}

	query := `
		INSERT INTO tax_band_sets (
			id, company_id, effective_from, bands,
			pension_employee_rate, pension_employer_rate, nhf_rate,
			cra_fixed, cra_gross_pct, cra_min_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	created := set
	err = q.QueryRow(ctx, query,
		uuid.NewString(), set.CompanyID, set.EffectiveFrom, bands,
		set.PensionEmployeeRate, set.PensionEmployerRate, set.NHFRate,
		set.CRAFixed, set.CRAGrossPct, set.CRAMinPct,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return taxconfig.TaxBandSet{}, fmt.Errorf("failed to create tax band set: %w", err)
	}

	return created, nil
}

func (r *taxBandRepository) ListSets(ctx context.Context, companyID string) ([]taxconfig.TaxBandSet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + taxBandSetColumns + `
		FROM tax_band_sets
		WHERE company_id = $1
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax band sets: %w", err)
	}
	defer rows.Close()

	var sets []taxconfig.TaxBandSet
	for rows.Next() {
		set, err := scanTaxBandSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax band set: %w", err)
		}
		sets = append(sets, set)
	}

	return sets, nil
}

func scanTaxBandSet(row pgx.Row) (taxconfig.TaxBandSet, error) {
	var set taxconfig.TaxBandSet
	var bands []byte
	err := row.Scan(
		&set.ID, &set.CompanyID, &set.EffectiveFrom, &bands,
		&set.PensionEmployeeRate, &set.PensionEmployerRate, &set.NHFRate,
		&set.CRAFixed, &set.CRAGrossPct, &set.CRAMinPct,
		&set.CreatedAt, &set.UpdatedAt,
	)
	if err != nil {
		return taxconfig.TaxBandSet{}, err
	}
	if err := json.Unmarshal(bands, &set.Bands); err != nil {
		return taxconfig.TaxBandSet{}, fmt.Errorf("decode tax bands: %w", err)
	}
	return set, nil
}
