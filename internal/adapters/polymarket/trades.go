package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

const tradesPath = "/trades"

// FetchRecentTrades obtiene el tape público de trades recientes de la Data API.
// Un fallo de fetch devuelve lista vacía sin error: el tape es una señal
// degradable — el ciclo continúa con flujo whale neutro.
func (c *Client) FetchRecentTrades(ctx context.Context, limit int) ([]domain.RawTrade, error) {
	if limit <= 0 {
		limit = 400
	}
	u := fmt.Sprintf("%s%s?limit=%d", c.dataBase, tradesPath, limit)

	var resp []rawDataTrade
	if err := c.get(ctx, c.dataLimiter, u, &resp); err != nil {
		slog.Warn("data-api.FetchRecentTrades degraded to empty tape", "err", err)
		return nil, nil
	}

	trades := make([]domain.RawTrade, 0, len(resp))
	for _, rt := range resp {
		trades = append(trades, mapDataTrade(rt))
	}

	slog.Debug("recent trades fetched", "count", len(trades))
	return trades, nil
}
