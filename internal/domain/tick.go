package domain

import (
	"strings"
	"time"
)

const (
	// Los precios se clampean lejos de 0 y 1 para evitar log-odds degenerados.
	minYesPrice = 0.01
	maxYesPrice = 0.99
)

// MarketTick es una muestra de precio YES derivada de un MarketSnapshot.
type MarketTick struct {
	MarketID  string
	YesPrice  float64 // siempre en [0.01, 0.99]
	NoPrice   float64 // 1 - YesPrice
	Timestamp time.Time
}

// NewMarketTick crea un tick con el precio YES clampeado al rango válido.
func NewMarketTick(marketID string, yesPrice float64, ts time.Time) MarketTick {
	p := ClampPrice(yesPrice)
	return MarketTick{
		MarketID:  marketID,
		YesPrice:  p,
		NoPrice:   1 - p,
		Timestamp: ts,
	}
}

// ClampPrice fuerza un precio de probabilidad al rango [0.01, 0.99].
func ClampPrice(p float64) float64 {
	if p < minYesPrice {
		return minYesPrice
	}
	if p > maxYesPrice {
		return maxYesPrice
	}
	return p
}

// DeriveYesPrice extrae el precio YES de un snapshot siguiendo la cadena de
// fallback, en orden de prioridad:
//  1. outcomePrices indexado por el label "up"/"yes"
//  2. midpoint del book si bid y ask son consistentes (0 <= bid <= ask <= 1)
//  3. último trade si está en (0,1)
//  4. neutral 0.5
//
// El orden importa: determina la calidad de la señal cuando el book está fino.
func DeriveYesPrice(m MarketSnapshot) float64 {
	if len(m.Outcomes) == len(m.OutcomePrices) && len(m.Outcomes) >= 2 {
		for i, o := range m.Outcomes {
			label := strings.ToLower(o)
			if label == "up" || label == "yes" {
				return ClampPrice(m.OutcomePrices[i])
			}
		}
	}

	if m.BestBid > 0 || m.BestAsk > 0 {
		if m.BestBid >= 0 && m.BestAsk <= 1 && m.BestAsk >= m.BestBid {
			return ClampPrice((m.BestBid + m.BestAsk) / 2)
		}
	}

	if m.LastTradePrice > 0 && m.LastTradePrice < 1 {
		return ClampPrice(m.LastTradePrice)
	}

	return 0.5
}
