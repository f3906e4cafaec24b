// Package aggregator computes catalog-wide totals.
package aggregator

import (
	"github.com/shopspring/decimal"

	"catalogreport/internal/models"
)

// WeightPrecision is the number of decimals the average weight is rounded to.
const WeightPrecision = 3

// Summary holds the aggregate figures of a catalog.
type Summary struct {
	Products        int     `json:"products" yaml:"products"`
	Counted         int     `json:"counted" yaml:"counted"`
	UnknownQuantity int     `json:"unknownQuantity" yaml:"unknown_quantity"`
	TotalPrice      float64 `json:"totalPrice" yaml:"total_price"`
	AverageWeightKg float64 `json:"averageWeightKg" yaml:"average_weight_kg"`
}

// TotalPrice sums price times count over products that declared a count.
func TotalPrice(products []models.Product) float64 {
	total := 0.0

	for _, p := range products {
		if p.Count != nil {
			total += p.Price * float64(*p.Count)
		}
	}

	return total
}

// AverageWeightKg returns the mean product weight in kilograms,
// rounded half-to-even to WeightPrecision decimals. An empty catalog averages 0.
func AverageWeightKg(products []models.Product) float64 {
	if len(products) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range products {
		total += p.Weight.Kilograms()
	}

	avg := decimal.NewFromFloat(total / float64(len(products)))

	return avg.RoundBank(WeightPrecision).InexactFloat64()
}

// Summarize computes every aggregate for products in one call.
func Summarize(products []models.Product) Summary {
	s := Summary{
		Products:        len(products),
		TotalPrice:      TotalPrice(products),
		AverageWeightKg: AverageWeightKg(products),
	}

	for _, p := range products {
		if p.HasCount() {
			s.Counted++
		} else {
			s.UnknownQuantity++
		}
	}

	return s
}
