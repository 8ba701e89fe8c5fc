package pricing

import (
	"math"
	"strings"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

var _ ports.PricingEngine = (*Engine)(nil)

// FlagMerged - позиция собрана из нескольких строк с одним id.
const FlagMerged = "merged"

type Config struct {
	// VATRate - доля (0.15 = 15%).
	VATRate float64
}

// Engine - правила расчёта по умолчанию: ресурсы + процентные надбавки, НДС на итог.
// Ресурсы строки описывают одну единицу позиции.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine { return &Engine{cfg: cfg} }

// Enrich - по позиции ведомости на каждую её запись; строки цен сопоставляются по id.
// Строки без позиции в ведомости отбрасываются.
func (e *Engine) Enrich(rows []domain.PricingEntry, items []domain.QuantityItem, defaults domain.Percentages) []domain.PricingItem {
	byID := make(map[string][]domain.PricingEntry, len(rows))
	for _, r := range rows {
		byID[r.ID] = append(byID[r.ID], r)
	}

	out := make([]domain.PricingItem, 0, len(items))
	for _, qi := range items {
		base := domain.PricingItem{
			ID:          qi.ID,
			ItemNumber:  qi.ItemNumber,
			Description: qi.Description,
			Unit:        qi.Unit,
			Category:    qi.Category,
			Quantity:    qi.Quantity,
			Percentages: defaults,
		}
		entries := byID[qi.ID]
		if len(entries) == 0 {
			out = append(out, base)
			continue
		}
		for _, row := range entries {
			out = append(out, enrichOne(base, row, defaults))
		}
	}
	return out
}

func enrichOne(it domain.PricingItem, row domain.PricingEntry, defaults domain.Percentages) domain.PricingItem {
	pct := defaults
	if row.Percentages != nil {
		pct = *row.Percentages
	}

	b := domain.ItemBreakdown{
		Materials:      sumCost(row.Materials),
		Labor:          sumCost(row.Labor),
		Equipment:      sumCost(row.Equipment),
		Subcontractors: sumCost(row.Subcontractors),
	}
	b.Subtotal = b.Materials + b.Labor + b.Equipment + b.Subcontractors
	b.Administrative = b.Subtotal * pct.Administrative / 100
	b.Operational = b.Subtotal * pct.Operational / 100
	b.Profit = b.Subtotal * pct.Profit / 100
	b.Total = b.Subtotal + b.Administrative + b.Operational + b.Profit

	it.Percentages = pct
	it.Materials = cloneResources(row.Materials)
	it.Labor = cloneResources(row.Labor)
	it.Equipment = cloneResources(row.Equipment)
	it.Subcontractors = cloneResources(row.Subcontractors)
	it.UnitPrice = row.UnitPrice
	it.TotalPrice = row.TotalPrice
	if b.Total > 0 {
		it.Breakdown = &b
	}
	it.IsPriced = row.UnitPrice > 0 || row.TotalPrice > 0 || b.Total > 0
	return it
}

// Dedupe - слияние позиций с одинаковым id. Основной становится самая детальная,
// ресурсы остальных добавляются, если их ключ (id|описание) ещё не встречался.
// Порядок первых вхождений сохраняется.
func (e *Engine) Dedupe(items []domain.PricingItem) []domain.PricingItem {
	groups := make(map[string][]domain.PricingItem, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := groups[it.ID]; !seen {
			order = append(order, it.ID)
		}
		groups[it.ID] = append(groups[it.ID], it)
	}

	out := make([]domain.PricingItem, 0, len(order))
	for _, id := range order {
		group := groups[id]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}

		primary := 0
		for i := 1; i < len(group); i++ {
			if detailScore(group[i]) > detailScore(group[primary]) {
				primary = i
			}
		}
		merged := group[primary]
		for i, other := range group {
			if i == primary {
				continue
			}
			merged.Materials = mergeResources(merged.Materials, other.Materials)
			merged.Labor = mergeResources(merged.Labor, other.Labor)
			merged.Equipment = mergeResources(merged.Equipment, other.Equipment)
			merged.Subcontractors = mergeResources(merged.Subcontractors, other.Subcontractors)
			merged.IsPriced = merged.IsPriced || other.IsPriced
		}
		flags := make(map[string]bool, len(merged.Flags)+1)
		for k, v := range merged.Flags {
			flags[k] = v
		}
		flags[FlagMerged] = true
		merged.Flags = flags
		out = append(out, merged)
	}
	return out
}

// Aggregate - итоги по нормализованным позициям. Надбавки считаются из разбивки
// (на единицу) с учётом количества.
func (e *Engine) Aggregate(items []domain.PricingItem) domain.PricingTotals {
	var t domain.PricingTotals
	for _, it := range items {
		t.TotalValue += it.TotalPrice
		if it.Breakdown == nil {
			continue
		}
		qty := it.Quantity
		if !(qty > 0) {
			qty = 1
		}
		t.Administrative += it.Breakdown.Administrative * qty
		t.Operational += it.Breakdown.Operational * qty
		t.Profit += it.Breakdown.Profit * qty
	}

	t.TotalValue = round2(t.TotalValue)
	t.Administrative = round2(t.Administrative)
	t.Operational = round2(t.Operational)
	t.Profit = round2(t.Profit)
	t.AdminOperational = round2(t.Administrative + t.Operational)
	t.VATRate = e.cfg.VATRate
	t.VATAmount = round2(t.TotalValue * e.cfg.VATRate)
	t.TotalWithVAT = round2(t.TotalValue + t.VATAmount)
	if t.TotalValue > 0 {
		t.ProfitPercentage = round2(t.Profit / t.TotalValue * 100)
		t.AdminOperationalPercentage = round2(t.AdminOperational / t.TotalValue * 100)
	}
	return t
}

func detailScore(it domain.PricingItem) int {
	score := len(it.Materials) + len(it.Labor) + len(it.Equipment) + len(it.Subcontractors)
	if it.Breakdown != nil {
		score += 2
	}
	if it.UnitPrice > 0 || it.TotalPrice > 0 {
		score++
	}
	return score
}

func resourceKey(r domain.PricingResource) string {
	return r.ID + "|" + strings.ToLower(strings.TrimSpace(r.Description))
}

func mergeResources(dst, src []domain.PricingResource) []domain.PricingResource {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]struct{}, len(dst))
	for _, r := range dst {
		seen[resourceKey(r)] = struct{}{}
	}
	for _, r := range src {
		k := resourceKey(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		dst = append(dst, r)
	}
	return dst
}

func sumCost(rs []domain.PricingResource) float64 {
	var s float64
	for _, r := range rs {
		if c := r.Cost(); c > 0 && !math.IsInf(c, 0) {
			s += c
		}
	}
	return s
}

func cloneResources(rs []domain.PricingResource) []domain.PricingResource {
	if len(rs) == 0 {
		return nil
	}
	return append([]domain.PricingResource(nil), rs...)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
