package validate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

var _ ports.PricingRequestValidator = (*PricingValidator)(nil)

// ErrInvalidRequest - базовая (sentinel) ошибка валидации запроса авторинга цен.
var ErrInvalidRequest = errors.New("pricing request validation failed")

const maxTenderIDLen = 128

// PricingValidator - проверка входящих PricingRequest.
type PricingValidator struct{}

// NewPricingValidator - конструктор. Любая проблема возвращается как ErrInvalidRequest с причиной.
func NewPricingValidator() *PricingValidator { return &PricingValidator{} }

func (v *PricingValidator) Validate(_ context.Context, req *domain.PricingRequest) error {
	if req == nil {
		return fmt.Errorf("%w: запрос не может быть nil", ErrInvalidRequest)
	}
	if req.TenderID == "" || len(req.TenderID) > maxTenderIDLen {
		return fmt.Errorf("%w: tenderId обязателен (до %d символов)", ErrInvalidRequest, maxTenderIDLen)
	}
	if req.Source != "" && !req.Source.Valid() {
		return fmt.Errorf("%w: неизвестный source %q", ErrInvalidRequest, req.Source)
	}
	if req.DefaultPercentages != nil {
		if err := validatePercentages("defaultPercentages", *req.DefaultPercentages); err != nil {
			return err
		}
	}
	if err := v.validateQuantityItems(req.QuantityItems); err != nil {
		return err
	}
	return v.validateEntries(req.Pricing)
}

func (v *PricingValidator) validateQuantityItems(items []domain.QuantityItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: quantityItems пуст", ErrInvalidRequest)
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("%w: quantityItems[%d].id обязателен", ErrInvalidRequest, i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("%w: quantityItems[%d].id %q повторяется", ErrInvalidRequest, i, it.ID)
		}
		seen[it.ID] = struct{}{}
		if !finiteNonNegative(it.Quantity) {
			return fmt.Errorf("%w: quantityItems[%d].quantity некорректно", ErrInvalidRequest, i)
		}
	}
	return nil
}

func (v *PricingValidator) validateEntries(entries []domain.PricingEntry) error {
	for i, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%w: pricing[%d].id обязателен", ErrInvalidRequest, i)
		}
		if !finiteNonNegative(e.UnitPrice) || !finiteNonNegative(e.TotalPrice) {
			return fmt.Errorf("%w: pricing[%d] цены некорректны", ErrInvalidRequest, i)
		}
		if e.Percentages != nil {
			if err := validatePercentages(fmt.Sprintf("pricing[%d].percentages", i), *e.Percentages); err != nil {
				return err
			}
		}
		groups := map[string][]domain.PricingResource{
			"materials":      e.Materials,
			"labor":          e.Labor,
			"equipment":      e.Equipment,
			"subcontractors": e.Subcontractors,
		}
		for name, rows := range groups {
			for j, r := range rows {
				if !finiteNonNegative(r.Quantity) || !finiteNonNegative(r.Price) || !finiteNonNegative(r.Total) {
					return fmt.Errorf("%w: pricing[%d].%s[%d] некорректные значения", ErrInvalidRequest, i, name, j)
				}
			}
		}
	}
	return nil
}

func validatePercentages(field string, p domain.Percentages) error {
	for _, v := range []float64{p.Administrative, p.Operational, p.Profit} {
		if !finiteNonNegative(v) || v > 100 {
			return fmt.Errorf("%w: %s вне диапазона [0,100]", ErrInvalidRequest, field)
		}
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
