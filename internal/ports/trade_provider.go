package ports

import (
	"context"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// TradeProvider obtiene el tape público de trades recientes de la Data API.
type TradeProvider interface {
	// FetchRecentTrades devuelve los últimos trades de todos los mercados.
	// Con respuestas no-2xx devuelve lista vacía sin error — el tape es una
	// señal degradable, no un requisito del ciclo.
	FetchRecentTrades(ctx context.Context, limit int) ([]domain.RawTrade, error)
}
