package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// DecodePricingRequest - строгий разбор JSON: неизвестные поля и хвостовые данные запрещены.
// Ошибки разбора оборачивают ErrInvalidRequest: повтор такого сообщения бессмысленен.
func DecodePricingRequest(raw []byte) (*domain.PricingRequest, error) {
	var req domain.PricingRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrInvalidRequest, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrInvalidRequest)
	}
	return &req, nil
}

// PricingRequestFromJSON - разбор и валидация одного запроса.
func PricingRequestFromJSON(ctx context.Context, validator ports.PricingRequestValidator, raw []byte) (*domain.PricingRequest, error) {
	req, err := DecodePricingRequest(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
