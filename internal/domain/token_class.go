package domain

import (
	"fmt"
	"strings"
)

// VolatilityClass is the closed set of token categories used to pick a return distribution.
type VolatilityClass string

const (
	ClassStablecoin VolatilityClass = "stablecoin"
	ClassMajorCap   VolatilityClass = "major_cap"
	ClassAltCoin    VolatilityClass = "altcoin"
	ClassOther      VolatilityClass = "other"
)

// AllVolatilityClasses lists every class in a stable order.
func AllVolatilityClasses() []VolatilityClass {
	return []VolatilityClass{ClassStablecoin, ClassMajorCap, ClassAltCoin, ClassOther}
}

// ParseVolatilityClass parses a class name (case-insensitive, '-' and '_' interchangeable).
func ParseVolatilityClass(s string) (VolatilityClass, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch normalized {
	case "stablecoin", "stable":
		return ClassStablecoin, nil
	case "major_cap", "majorcap", "major":
		return ClassMajorCap, nil
	case "altcoin", "alt_coin", "alt":
		return ClassAltCoin, nil
	case "other", "":
		return ClassOther, nil
	}
	return "", fmt.Errorf("%w: unknown volatility class %q", ErrInvalidInput, s)
}

// UnmarshalText accepts any spelling ParseVolatilityClass accepts.
func (c *VolatilityClass) UnmarshalText(text []byte) error {
	parsed, err := ParseVolatilityClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// defaultSymbolClasses is the token table used when the data source does not classify.
var defaultSymbolClasses = map[string]VolatilityClass{
	"USDC":  ClassStablecoin,
	"USDT":  ClassStablecoin,
	"SOL":   ClassMajorCap,
	"RAY":   ClassAltCoin,
	"SRM":   ClassAltCoin,
	"ORCA":  ClassAltCoin,
	"MNGO":  ClassAltCoin,
	"STEP":  ClassAltCoin,
	"COPE":  ClassAltCoin,
	"FIDA":  ClassAltCoin,
	"KIN":   ClassAltCoin,
	"MAPS":  ClassAltCoin,
	"OXY":   ClassAltCoin,
	"PORT":  ClassAltCoin,
	"ROPE":  ClassAltCoin,
	"SAMO":  ClassAltCoin,
	"SLIM":  ClassAltCoin,
	"SNY":   ClassAltCoin,
	"TULIP": ClassAltCoin,
	"LIQ":   ClassAltCoin,
}

// Classifier maps token symbols to volatility classes through a lookup table.
type Classifier struct {
	table map[string]VolatilityClass
}

// NewClassifier creates a classifier with the built-in table plus overrides.
func NewClassifier(overrides map[string]VolatilityClass) *Classifier {
	table := make(map[string]VolatilityClass, len(defaultSymbolClasses)+len(overrides))
	for k, v := range defaultSymbolClasses {
		table[k] = v
	}
	for k, v := range overrides {
		table[strings.ToUpper(k)] = v
	}
	return &Classifier{table: table}
}

// Classify returns the class for a symbol, ClassOther when unknown.
// A nil classifier uses the built-in table.
func (c *Classifier) Classify(symbol string) VolatilityClass {
	table := defaultSymbolClasses
	if c != nil {
		table = c.table
	}
	if class, ok := table[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return class
	}
	return ClassOther
}
