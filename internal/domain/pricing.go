package domain

// Percentages - надбавки в процентах (5 означает 5%).
type Percentages struct {
	Administrative float64 `json:"administrative"`
	Operational    float64 `json:"operational"`
	Profit         float64 `json:"profit"`
}

// PricingResource - строка ресурса (материал, работа, техника, субподряд).
type PricingResource struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Cost - стоимость строки ресурса: явный total либо quantity*price.
func (r PricingResource) Cost() float64 {
	if r.Total > 0 {
		return r.Total
	}
	return r.Quantity * r.Price
}

// PricingEntry - «сырая» строка ценообразования, как её ввёл пользователь.
type PricingEntry struct {
	ID             string            `json:"id"`
	Materials      []PricingResource `json:"materials,omitempty"`
	Labor          []PricingResource `json:"labor,omitempty"`
	Equipment      []PricingResource `json:"equipment,omitempty"`
	Subcontractors []PricingResource `json:"subcontractors,omitempty"`
	Percentages    *Percentages      `json:"percentages,omitempty"`
	UnitPrice      float64           `json:"unitPrice,omitempty"`
	TotalPrice     float64           `json:"totalPrice,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

// QuantityItem - позиция ведомости объёмов тендера.
type QuantityItem struct {
	ID          string  `json:"id"`
	ItemNumber  string  `json:"itemNumber,omitempty"`
	Description string  `json:"description"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    float64 `json:"quantity"`
	Category    string  `json:"category,omitempty"`
}

// ItemBreakdown - разбивка стоимости позиции фиксированной формы.
type ItemBreakdown struct {
	Materials      float64 `json:"materials"`
	Labor          float64 `json:"labor"`
	Equipment      float64 `json:"equipment"`
	Subcontractors float64 `json:"subcontractors"`
	Administrative float64 `json:"administrative"`
	Operational    float64 `json:"operational"`
	Profit         float64 `json:"profit"`
	Subtotal       float64 `json:"subtotal"`
	Total          float64 `json:"total"`
}

// PricingItem - обогащённая позиция; она же позиция снимка.
type PricingItem struct {
	ID             string            `json:"id"`
	ItemNumber     string            `json:"itemNumber,omitempty"`
	Description    string            `json:"description,omitempty"`
	Unit           string            `json:"unit,omitempty"`
	Category       string            `json:"category,omitempty"`
	Quantity       float64           `json:"quantity"`
	UnitPrice      float64           `json:"unitPrice"`
	TotalPrice     float64           `json:"totalPrice"`
	Breakdown      *ItemBreakdown    `json:"breakdown,omitempty"`
	Materials      []PricingResource `json:"materials"`
	Labor          []PricingResource `json:"labor"`
	Equipment      []PricingResource `json:"equipment"`
	Subcontractors []PricingResource `json:"subcontractors"`
	Percentages    Percentages       `json:"percentages"`
	IsPriced       bool              `json:"isPriced"`
	Flags          map[string]bool   `json:"flags,omitempty"`
}

// PricingTotals - итоги по тендеру. VATRate хранится долей (0.15).
type PricingTotals struct {
	TotalValue                 float64 `json:"totalValue"`
	VATAmount                  float64 `json:"vatAmount"`
	TotalWithVAT               float64 `json:"totalWithVat"`
	Profit                     float64 `json:"profit"`
	Administrative             float64 `json:"administrative"`
	Operational                float64 `json:"operational"`
	AdminOperational           float64 `json:"adminOperational"`
	VATRate                    float64 `json:"vatRate"`
	ProfitPercentage           float64 `json:"profitPercentage"`
	AdminOperationalPercentage float64 `json:"adminOperationalPercentage"`
}

// PricingRecord - сохранённые данные ценообразования тендера.
type PricingRecord struct {
	TenderID           string         `json:"tenderId"`
	TenderTitle        string         `json:"tenderTitle,omitempty"`
	Pricing            []PricingEntry `json:"pricing"`
	QuantityItems      []QuantityItem `json:"quantityItems"`
	DefaultPercentages *Percentages   `json:"defaultPercentages,omitempty"`
	LastUpdated        string         `json:"lastUpdated"`
	Version            int            `json:"version"`
}

// PricingRequest - входящее сообщение авторинга цен (Kafka / файл).
type PricingRequest struct {
	TenderID           string         `json:"tenderId"`
	TenderTitle        string         `json:"tenderTitle,omitempty"`
	Pricing            []PricingEntry `json:"pricing"`
	QuantityItems      []QuantityItem `json:"quantityItems"`
	DefaultPercentages *Percentages   `json:"defaultPercentages,omitempty"`
	Source             SnapshotSource `json:"source,omitempty"`
	Notes              string         `json:"notes,omitempty"`
}
