package ports

import (
	"context"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// MarketProvider obtiene snapshots de mercados desde la Gamma API.
type MarketProvider interface {
	// FetchMarketBySlug devuelve el mercado con el slug exacto.
	// Devuelve domain.ErrMarketNotFound si la API no lo conoce.
	FetchMarketBySlug(ctx context.Context, slug string) (domain.MarketSnapshot, error)

	// FetchMarketByID devuelve el mercado con el id numérico de Gamma.
	FetchMarketByID(ctx context.Context, id string) (domain.MarketSnapshot, error)

	// FetchActiveMarkets devuelve el listado de mercados activos y no cerrados.
	FetchActiveMarkets(ctx context.Context) ([]domain.MarketSnapshot, error)
}
