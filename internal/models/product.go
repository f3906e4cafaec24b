// Package models defines the product catalog data structures shared by the parser, aggregator and report.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownWeightUnit is returned when a unit name is not one of g, dkg or kg.
var ErrUnknownWeightUnit = errors.New("unknown weight unit")

// WeightUnit is the unit a product weight is declared in.
type WeightUnit int

// Supported weight units.
const (
	Gram WeightUnit = iota
	Decagram
	Kilogram
)

// String returns the unit name as written in catalog files.
func (u WeightUnit) String() string {
	switch u {
	case Gram:
		return "g"
	case Decagram:
		return "dkg"
	case Kilogram:
		return "kg"
	default:
		return fmt.Sprintf("WeightUnit(%d)", int(u))
	}
}

// divisor is the number of units in one kilogram.
func (u WeightUnit) divisor() float64 {
	switch u {
	case Gram:
		return 1000
	case Decagram:
		return 100
	default:
		return 1
	}
}

// Factor returns the multiplier converting one unit to kilograms.
func (u WeightUnit) Factor() float64 {
	return 1 / u.divisor()
}

// Kilograms converts value expressed in u to kilograms.
func (u WeightUnit) Kilograms(value float64) float64 {
	return value / u.divisor()
}

// MarshalText implements encoding.TextMarshaler so reports show "g" rather than 0.
func (u WeightUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// ParseWeightUnit matches a unit name case-insensitively.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(s) {
	case "g":
		return Gram, nil
	case "dkg":
		return Decagram, nil
	case "kg":
		return Kilogram, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownWeightUnit, s)
}

// Weight is a magnitude paired with its unit.
type Weight struct {
	Value float64    `json:"value" yaml:"value"`
	Unit  WeightUnit `json:"unit" yaml:"unit"`
}

// Kilograms returns the weight normalized to kilograms.
func (w Weight) Kilograms() float64 {
	return w.Unit.Kilograms(w.Value)
}

// String formats the weight the way it appears in catalog files.
func (w Weight) String() string {
	return fmt.Sprintf("%g %s", w.Value, w.Unit)
}

// Product is a single catalog entry.
// Count is nil when the entry had no quantity line.
type Product struct {
	Name   string  `json:"name" yaml:"name"`
	Price  float64 `json:"price" yaml:"price"`
	Count  *int    `json:"count" yaml:"count"`
	Weight Weight  `json:"weight" yaml:"weight"`
}

// HasCount reports whether the product declared a quantity.
func (p Product) HasCount() bool {
	return p.Count != nil
}

// Catalog is the ordered result of parsing one catalog file.
type Catalog []Product
