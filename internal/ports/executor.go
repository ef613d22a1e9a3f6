package ports

import (
	"context"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// OrderExecutor places real orders on the Polymarket CLOB.
// Only invoked after an OPEN decision when live execution is enabled.
type OrderExecutor interface {
	// PlaceMarketOrder submits a signed FOK buy for the given token.
	// sizeUSD is the amount to spend; priceLimit caps the fill price.
	PlaceMarketOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)
}
