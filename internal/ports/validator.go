package ports

import (
	"context"

	"github.com/Gunvolt24/tenderstore/internal/domain"
)

type PricingRequestValidator interface {
	Validate(ctx context.Context, req *domain.PricingRequest) error
}
