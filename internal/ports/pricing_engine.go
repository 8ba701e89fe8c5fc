package ports

import "github.com/Gunvolt24/tenderstore/internal/domain"

// PricingEngine - внешние правила расчёта, которые использует конвейер снимков.
type PricingEngine interface {
	// Enrich - разбивка стоимости и предварительные цены по каждой позиции.
	Enrich(rows []domain.PricingEntry, items []domain.QuantityItem, defaults domain.Percentages) []domain.PricingItem
	// Dedupe - слияние дублей по идентификатору позиции.
	Dedupe(items []domain.PricingItem) []domain.PricingItem
	// Aggregate - итоги по нормализованным позициям.
	Aggregate(items []domain.PricingItem) domain.PricingTotals
}
