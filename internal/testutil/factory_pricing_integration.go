//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Gunvolt24/tenderstore/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakePricingRequest - валидный запрос авторинга цен с уникальным tenderId.
// Итог без НДС: 10*100 + 4*50 = 1200.
func MakePricingRequest(opts ...func(*domain.PricingRequest)) domain.PricingRequest {
	req := domain.PricingRequest{
		TenderID:    "tender-" + UniqSuffix(),
		TenderTitle: "Integration bridge",
		QuantityItems: []domain.QuantityItem{
			{ID: "1", ItemNumber: "1.1", Description: "Excavation", Unit: "m3", Quantity: 10},
			{ID: "2", ItemNumber: "1.2", Description: "Concrete", Unit: "m3", Quantity: 4},
		},
		Pricing: []domain.PricingEntry{
			{ID: "1", Materials: []domain.PricingResource{{ID: "m1", Description: "Fuel", Quantity: 1, Price: 100}}},
			{ID: "2", UnitPrice: 50},
		},
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// MustJSON - сериализация для отправки в топик.
func MustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal %T: %v", v, err))
	}
	return raw
}
