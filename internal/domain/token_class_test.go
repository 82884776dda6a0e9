package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVolatilityClass(t *testing.T) {
	tests := []struct {
		input    string
		expected VolatilityClass
		wantErr  bool
	}{
		{"stablecoin", ClassStablecoin, false},
		{"Major-Cap", ClassMajorCap, false},
		{"major_cap", ClassMajorCap, false},
		{"ALTCOIN", ClassAltCoin, false},
		{"", ClassOther, false},
		{"meme", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVolatilityClass(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(map[string]VolatilityClass{"bonk": ClassAltCoin})

	assert.Equal(t, ClassStablecoin, c.Classify("usdc"))
	assert.Equal(t, ClassMajorCap, c.Classify("SOL"))
	assert.Equal(t, ClassAltCoin, c.Classify("RAY"))
	assert.Equal(t, ClassAltCoin, c.Classify("BONK"))
	assert.Equal(t, ClassOther, c.Classify("UNKNOWN"))

	var nilClassifier *Classifier
	assert.Equal(t, ClassStablecoin, nilClassifier.Classify("USDT"))
}
