package polymarket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

const (
	gammaMarketsPath   = "/markets"
	activeMarketsLimit = 1000
)

// FetchMarketBySlug devuelve el mercado con el slug exacto.
// Devuelve domain.ErrMarketNotFound si Gamma responde con lista vacía —
// eso es "sin datos", no un fallo de transporte.
func (c *Client) FetchMarketBySlug(ctx context.Context, slug string) (domain.MarketSnapshot, error) {
	u := fmt.Sprintf("%s%s?slug=%s", c.gammaBase, gammaMarketsPath, url.QueryEscape(slug))
	return c.fetchOne(ctx, u, "slug "+slug)
}

// FetchMarketByID devuelve el mercado con el id numérico de Gamma.
func (c *Client) FetchMarketByID(ctx context.Context, id string) (domain.MarketSnapshot, error) {
	u := fmt.Sprintf("%s%s?id=%s", c.gammaBase, gammaMarketsPath, url.QueryEscape(id))
	return c.fetchOne(ctx, u, "id "+id)
}

// fetchOne hace el GET y devuelve el primer mercado de la respuesta.
func (c *Client) fetchOne(ctx context.Context, u, what string) (domain.MarketSnapshot, error) {
	var resp []gammaMarket
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("gamma.FetchMarket: %w", err)
	}
	if len(resp) == 0 {
		return domain.MarketSnapshot{}, fmt.Errorf("gamma.FetchMarket %s: %w", what, domain.ErrMarketNotFound)
	}
	return mapGammaMarket(resp[0]), nil
}

// FetchActiveMarkets devuelve el listado de mercados activos no cerrados.
// Es el último recurso del resolver: un solo page grande, sin paginar —
// los mercados up/down de ventana corta siempre están entre los activos.
func (c *Client) FetchActiveMarkets(ctx context.Context) ([]domain.MarketSnapshot, error) {
	u := fmt.Sprintf("%s%s?closed=false&active=true&limit=%d",
		c.gammaBase, gammaMarketsPath, activeMarketsLimit)

	var resp []gammaMarket
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return nil, fmt.Errorf("gamma.FetchActiveMarkets: %w", err)
	}

	markets := make([]domain.MarketSnapshot, 0, len(resp))
	for _, r := range resp {
		markets = append(markets, mapGammaMarket(r))
	}

	slog.Debug("active markets fetched", "count", len(markets))
	return markets, nil
}
