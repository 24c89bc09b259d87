package taxconfig

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dp(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func validSet() TaxBandSet {
	return TaxBandSet{
		Bands: []TaxBand{
			{Width: dp("300000"), Rate: decimal.RequireFromString("0.07")},
			{Width: dp("300000"), Rate: decimal.RequireFromString("0.11")},
			{Width: nil, Rate: decimal.RequireFromString("0.24")},
		},
		PensionEmployeeRate: decimal.RequireFromString("0.08"),
		PensionEmployerRate: decimal.RequireFromString("0.10"),
		NHFRate:             decimal.RequireFromString("0.025"),
		CRAFixed:            decimal.RequireFromString("200000"),
		CRAGrossPct:         decimal.RequireFromString("0.20"),
		CRAMinPct:           decimal.RequireFromString("0.01"),
	}
}

func TestTaxBandSetValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*TaxBandSet)
		wantErr error
	}{
		{
			name:   "valid set",
			mutate: func(s *TaxBandSet) {},
		},
		{
			name:    "no bands",
			mutate:  func(s *TaxBandSet) { s.Bands = nil },
			wantErr: ErrEmptyBandSet,
		},
		{
			name: "last band has a width",
			mutate: func(s *TaxBandSet) {
				s.Bands[2].Width = dp("500000")
			},
			wantErr: ErrLastBandBounded,
		},
		{
			name: "interior band unbounded",
			mutate: func(s *TaxBandSet) {
				s.Bands[1].Width = nil
			},
			wantErr: ErrNonPositiveBandWidth,
		},
		{
			name: "zero width band",
			mutate: func(s *TaxBandSet) {
				s.Bands[0].Width = dp("0")
			},
			wantErr: ErrNonPositiveBandWidth,
		},
		{
			name: "negative width band",
			mutate: func(s *TaxBandSet) {
				s.Bands[0].Width = dp("-100")
			},
			wantErr: ErrNonPositiveBandWidth,
		},
		{
			name: "band rate above one",
			mutate: func(s *TaxBandSet) {
				s.Bands[1].Rate = decimal.RequireFromString("1.5")
			},
			wantErr: ErrRateOutOfRange,
		},
		{
			name: "negative band rate",
			mutate: func(s *TaxBandSet) {
				s.Bands[0].Rate = decimal.RequireFromString("-0.07")
			},
			wantErr: ErrRateOutOfRange,
		},
		{
			name: "pension rate above one",
			mutate: func(s *TaxBandSet) {
				s.PensionEmployeeRate = decimal.RequireFromString("8")
			},
			wantErr: ErrRateOutOfRange,
		},
		{
			name: "negative NHF rate",
			mutate: func(s *TaxBandSet) {
				s.NHFRate = decimal.RequireFromString("-0.025")
			},
			wantErr: ErrRateOutOfRange,
		},
		{
			name: "negative CRA fixed",
			mutate: func(s *TaxBandSet) {
				s.CRAFixed = decimal.RequireFromString("-200000")
			},
			wantErr: ErrRateOutOfRange,
		},
		{
			name: "single unbounded band",
			mutate: func(s *TaxBandSet) {
				s.Bands = []TaxBand{{Width: nil, Rate: decimal.RequireFromString("0.10")}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			set := validSet()
			tt.mutate(&set)

			err := set.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
