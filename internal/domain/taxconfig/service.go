package taxconfig

import "context"

// TaxConfigService manages a company's versioned statutory configuration.
// Band sets are append-only: a correction is a new set with a later
// effective_from, never an edit, so historical runs stay reproducible.
type TaxConfigService interface {
	CreateBandSet(ctx context.Context, companyID string, req CreateBandSetRequest) (BandSetResponse, error)
	ListBandSets(ctx context.Context, companyID string) ([]BandSetResponse, error)
	// SeedDefault installs the FIRS default PAYE configuration for a company
	// that has none yet.
	SeedDefault(ctx context.Context, companyID string, req SeedDefaultRequest) (BandSetResponse, error)
}
