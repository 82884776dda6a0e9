package domain

import (
	"fmt"
	"math"
)

// HHIThresholds are the band edges for the diversification label.
// h < High -> High diversification; High <= h < Low -> Moderate; h >= Low -> Low.
type HHIThresholds struct {
	High float64 `yaml:"high" json:"high"`
	Low  float64 `yaml:"low" json:"low"`
}

// RiskPolicy is the explicit configuration threaded into every component.
type RiskPolicy struct {
	VolatilityByClass   map[VolatilityClass]float64 `yaml:"volatility_by_class" json:"volatility_by_class"`
	DriftByClass        map[VolatilityClass]float64 `yaml:"drift_by_class" json:"drift_by_class"`
	HHIThresholds       HHIThresholds               `yaml:"hhi_thresholds" json:"hhi_thresholds"`
	AnnualizationFactor int                         `yaml:"annualization_factor" json:"annualization_factor"`
	RiskFreeRate        float64                     `yaml:"risk_free_rate" json:"risk_free_rate"`
	Horizon             int                         `yaml:"horizon" json:"horizon"`
	MaxHorizon          int                         `yaml:"max_horizon" json:"max_horizon"`
	Confidence          float64                     `yaml:"confidence" json:"confidence"`
}

// DefaultRiskPolicy returns the built-in policy.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		VolatilityByClass: map[VolatilityClass]float64{
			ClassStablecoin: 0.001,
			ClassMajorCap:   0.03,
			ClassAltCoin:    0.06,
			ClassOther:      0.05,
		},
		DriftByClass: map[VolatilityClass]float64{
			ClassStablecoin: 0.0001,
			ClassMajorCap:   0.001,
			ClassAltCoin:    0.001,
			ClassOther:      0.0005,
		},
		HHIThresholds:       HHIThresholds{High: 0.15, Low: 0.35},
		AnnualizationFactor: 252,
		RiskFreeRate:        0.05,
		Horizon:             252,
		MaxHorizon:          10000,
		Confidence:          0.95,
	}
}

// StdDevFor returns the daily standard deviation for a class.
func (p RiskPolicy) StdDevFor(class VolatilityClass) (float64, error) {
	sd, ok := p.VolatilityByClass[class]
	if !ok {
		return 0, fmt.Errorf("%w: no volatility configured for class %q", ErrInvalidInput, class)
	}
	return sd, nil
}

// DriftFor returns the daily mean return for a class (0 when not configured).
func (p RiskPolicy) DriftFor(class VolatilityClass) float64 {
	return p.DriftByClass[class]
}

// Validate checks the policy for values no component can work with.
func (p RiskPolicy) Validate() error {
	for _, class := range AllVolatilityClasses() {
		sd, ok := p.VolatilityByClass[class]
		if !ok {
			return fmt.Errorf("%w: volatility for class %q is missing", ErrValidation, class)
		}
		if sd < 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
			return fmt.Errorf("%w: volatility for class %q must be a non-negative number, got %v", ErrValidation, class, sd)
		}
	}
	if p.HHIThresholds.High <= 0 || p.HHIThresholds.Low > 1 || p.HHIThresholds.High >= p.HHIThresholds.Low {
		return fmt.Errorf("%w: hhi thresholds must satisfy 0 < high < low <= 1, got high=%v low=%v",
			ErrValidation, p.HHIThresholds.High, p.HHIThresholds.Low)
	}
	if p.AnnualizationFactor <= 0 {
		return fmt.Errorf("%w: annualization factor must be positive, got %d", ErrValidation, p.AnnualizationFactor)
	}
	if p.Horizon < 2 {
		return fmt.Errorf("%w: horizon must be at least 2 periods, got %d", ErrValidation, p.Horizon)
	}
	if p.MaxHorizon < p.Horizon {
		return fmt.Errorf("%w: max horizon %d is below the default horizon %d", ErrValidation, p.MaxHorizon, p.Horizon)
	}
	if p.Confidence <= 0 || p.Confidence >= 1 {
		return fmt.Errorf("%w: confidence must be in (0,1), got %v", ErrValidation, p.Confidence)
	}
	return nil
}

// CheckHorizon rejects caller-supplied horizons outside [0, MaxHorizon].
func (p RiskPolicy) CheckHorizon(horizon int) error {
	if horizon < 0 || horizon > p.MaxHorizon {
		return fmt.Errorf("%w: horizon must be between 2 and %d periods, got %d", ErrInvalidInput, p.MaxHorizon, horizon)
	}
	return nil
}
