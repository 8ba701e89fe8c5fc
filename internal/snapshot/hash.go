package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/Gunvolt24/tenderstore/internal/domain"
)

// Hash - 32-битный мультипликативный хеш по UTF-16 code units (h = 31*h + c),
// base36 с префиксом "h". Не криптографический: только признак устаревания/порчи.
func Hash(s string) string {
	var h uint32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + uint32(c)
	}
	return "h" + strconv.FormatUint(uint64(h), 36)
}

// ConfigHash - хеш конфигурации расчёта; ключи упорядочены.
func ConfigHash(vatRate float64, defaults domain.Percentages) string {
	return Hash(stableJSON(map[string]any{
		"vatRate": vatRate,
		"defaultPercentages": map[string]float64{
			"administrative": defaults.Administrative,
			"operational":    defaults.Operational,
			"profit":         defaults.Profit,
		},
	}))
}

type totalsItem struct {
	ID         string  `json:"id"`
	TotalPrice float64 `json:"totalPrice"`
}

type totalsPart struct {
	TotalValue   float64 `json:"totalValue"`
	VATAmount    float64 `json:"vatAmount"`
	TotalWithVAT float64 `json:"totalWithVat"`
}

// TotalsHash - хеш итогов: {items:[{id,totalPrice}], totals:{totalValue,vatAmount,totalWithVat}}.
func TotalsHash(items []domain.PricingItem, totals domain.PricingTotals) string {
	payload := struct {
		Items  []totalsItem `json:"items"`
		Totals totalsPart   `json:"totals"`
	}{
		Items:  make([]totalsItem, 0, len(items)),
		Totals: totalsPart{TotalValue: totals.TotalValue, VATAmount: totals.VATAmount, TotalWithVAT: totals.TotalWithVAT},
	}
	for _, it := range items {
		payload.Items = append(payload.Items, totalsItem{ID: it.ID, TotalPrice: it.TotalPrice})
	}
	return Hash(stableJSON(payload))
}

type integrityItem struct {
	ID         string  `json:"id"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// IntegrityHash - хеш {engineVersion, config, items:[{id,quantity,unitPrice,totalPrice}], totals}.
func IntegrityHash(engineVersion, configHash string, items []domain.PricingItem, totalValue float64) string {
	payload := struct {
		EngineVersion string          `json:"engineVersion"`
		Config        string          `json:"config"`
		Items         []integrityItem `json:"items"`
		Totals        float64         `json:"totals"`
	}{
		EngineVersion: engineVersion,
		Config:        configHash,
		Items:         make([]integrityItem, 0, len(items)),
		Totals:        totalValue,
	}
	for _, it := range items {
		payload.Items = append(payload.Items, integrityItem{
			ID: it.ID, Quantity: it.Quantity, UnitPrice: it.UnitPrice, TotalPrice: it.TotalPrice,
		})
	}
	return Hash(stableJSON(payload))
}

// SnapshotIntegrityHash - пересчёт integrityHash по сохранённому снимку.
func SnapshotIntegrityHash(s domain.PricingSnapshot) string {
	return IntegrityHash(s.Meta.EngineVersion, s.Meta.ConfigHash, s.Items, s.Totals.TotalValue)
}

// stableJSON - компактный JSON без HTML-экранирования. Ключи map сортируются энкодером.
// Не кодируемые значения (NaN, Inf) сводятся к fmt-представлению.
func stableJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
