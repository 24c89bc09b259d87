package taxconfig

import "errors"

var (
	ErrNoBandSetForDate     = errors.New("no tax band set covers the requested date")
	ErrAlreadyConfigured    = errors.New("company already has tax band configuration")
	ErrBandSetNotFound      = errors.New("tax band set not found")
	ErrEmptyBandSet         = errors.New("tax band set has no bands")
	ErrLastBandBounded      = errors.New("final tax band must be unbounded")
	ErrNonPositiveBandWidth = errors.New("tax band width must be strictly positive")
	ErrRateOutOfRange       = errors.New("statutory rate must be between 0 and 1")
)
