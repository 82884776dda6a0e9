package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRiskPolicy_IsValid(t *testing.T) {
	p := DefaultRiskPolicy()
	require.NoError(t, p.Validate())

	sd, err := p.StdDevFor(ClassStablecoin)
	require.NoError(t, err)
	assert.Equal(t, 0.001, sd)
	assert.Equal(t, 252, p.AnnualizationFactor)
}

func TestRiskPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *RiskPolicy)
	}{
		{"missing class", func(p *RiskPolicy) { delete(p.VolatilityByClass, ClassAltCoin) }},
		{"negative volatility", func(p *RiskPolicy) { p.VolatilityByClass[ClassOther] = -0.1 }},
		{"inverted thresholds", func(p *RiskPolicy) { p.HHIThresholds = HHIThresholds{High: 0.4, Low: 0.2} }},
		{"zero annualization", func(p *RiskPolicy) { p.AnnualizationFactor = 0 }},
		{"short horizon", func(p *RiskPolicy) { p.Horizon = 1 }},
		{"max horizon below horizon", func(p *RiskPolicy) { p.MaxHorizon = 100 }},
		{"confidence out of range", func(p *RiskPolicy) { p.Confidence = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultRiskPolicy()
			tt.mutate(&p)
			err := p.Validate()
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestRiskPolicy_StdDevForUnknownClass(t *testing.T) {
	_, err := DefaultRiskPolicy().StdDevFor(VolatilityClass("meme"))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRiskPolicy_CheckHorizon(t *testing.T) {
	p := DefaultRiskPolicy()
	assert.NoError(t, p.CheckHorizon(p.MaxHorizon))
	assert.NoError(t, p.CheckHorizon(252))
	assert.True(t, errors.Is(p.CheckHorizon(p.MaxHorizon+1), ErrInvalidInput))
	assert.True(t, errors.Is(p.CheckHorizon(1<<50), ErrInvalidInput))
	assert.True(t, errors.Is(p.CheckHorizon(-5), ErrInvalidInput))
}
