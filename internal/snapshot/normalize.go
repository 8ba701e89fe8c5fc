package snapshot

import (
	"math"

	"github.com/Gunvolt24/tenderstore/internal/domain"
)

// NormalizeUnitTotal - единое правило цены позиции, по приоритету:
//  1. totalPrice > 0: unitPrice = totalPrice / quantity;
//  2. unitPrice > 0: totalPrice = unitPrice * quantity;
//  3. есть breakdown: unitPrice = breakdown.total, totalPrice = unitPrice * quantity.
//
// quantity <= 0 считается равным 1 (само поле не меняется). unitPrice округляется
// до 4 знаков, totalPrice - до 2.
func NormalizeUnitTotal(it domain.PricingItem) domain.PricingItem {
	qty := it.Quantity
	if !(qty > 0) || math.IsInf(qty, 0) {
		qty = 1
	}

	unit, total := finite(it.UnitPrice), finite(it.TotalPrice)
	switch {
	case total > 0:
		unit = total / qty
	case unit > 0:
		total = unit * qty
	case it.Breakdown != nil && finite(it.Breakdown.Total) > 0:
		unit = it.Breakdown.Total
		total = unit * qty
	default:
		unit, total = 0, 0
	}

	it.UnitPrice = round(unit, 4)
	it.TotalPrice = round(total, 2)
	return it
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
