package domain

import (
	"errors"
	"time"
)

// ErrMarketNotFound indica que la API respondió bien pero no conoce el
// mercado pedido. Distinto de un fallo de transporte: el resolver lo trata
// como "sin datos", no como error transitorio.
var ErrMarketNotFound = errors.New("market not found")

// MarketSnapshot es el estado más reciente de un mercado up/down de Polymarket.
// Lo produce el adapter en cada fetch; el resolver cachea el último.
type MarketSnapshot struct {
	ID             string
	Slug           string
	Question       string    // opcional, puede venir vacío de Gamma
	EndDate        time.Time // zero value si Gamma no la devuelve
	Active         bool
	Closed         bool
	BestBid        float64 // 0 si no hay book
	BestAsk        float64
	LastTradePrice float64
	Outcomes       []string // labels paralelos a OutcomePrices ("Up","Down")
	OutcomePrices  []float64
	YesTokenID     string // token CLOB del lado Up/Yes, para ejecución
	NoTokenID      string
}

// MarketID devuelve el identificador estable del mercado: slug si existe, si no el id.
func (m MarketSnapshot) MarketID() string {
	if m.Slug != "" {
		return m.Slug
	}
	return m.ID
}

// RemainingSeconds devuelve los segundos hasta la resolución del mercado.
// Devuelve -1 si EndDate no está definido.
func (m MarketSnapshot) RemainingSeconds(now time.Time) int64 {
	if m.EndDate.IsZero() {
		return -1
	}
	s := int64(m.EndDate.Sub(now).Seconds())
	if s < 0 {
		return 0
	}
	return s
}

// Expired devuelve true si la ventana del mercado ya terminó: cerrado
// explícitamente o con el timer en cero.
func (m MarketSnapshot) Expired(now time.Time) bool {
	if m.Closed {
		return true
	}
	return !m.EndDate.IsZero() && m.RemainingSeconds(now) == 0
}
