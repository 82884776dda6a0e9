package domain

import "errors"

// Error kinds raised by the risk engine. Components wrap these with detail via
// fmt.Errorf("%w: ...") and callers match them with errors.Is.
var (
	// ErrInvalidInput is malformed numeric input, e.g. a non-positive price.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyPortfolio is a portfolio with no holdings or zero total value.
	ErrEmptyPortfolio = errors.New("empty portfolio")
	// ErrInsufficientData is a return series too short for the requested statistic.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUndefinedRatio is a ratio whose denominator (volatility) is zero.
	ErrUndefinedRatio = errors.New("undefined ratio")
	// ErrValidation is a weight vector or scenario that fails validation.
	ErrValidation = errors.New("validation failed")
)
