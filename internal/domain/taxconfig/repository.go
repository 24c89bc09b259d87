package taxconfig

import (
	"context"
	"time"
)

// TaxBandRepository defines data access for statutory tax configuration.
// All methods include companyID to prevent cross-company data access.
type TaxBandRepository interface {
	// SetForDate returns the band set whose effective_from is the latest one
	// not after asOf. Returns ErrNoBandSetForDate when no set covers the date.
	SetForDate(ctx context.Context, companyID string, asOf time.Time) (TaxBandSet, error)
	CreateSet(ctx context.Context, set TaxBandSet) (TaxBandSet, error)
	ListSets(ctx context.Context, companyID string) ([]TaxBandSet, error)
}
