package domain

import "time"

// RawTrade es un trade del tape público de la Data API.
// Transitorio: se pasa por valor a la agregación y no se retiene entre ciclos.
type RawTrade struct {
	Wallet    string // proxy wallet del trader, puede venir vacío
	Side      string // "BUY" o "SELL"
	Size      float64
	Price     float64
	Timestamp time.Time
	EventSlug string // scope del mercado; preferido sobre Slug
	Slug      string
	Outcome   string // "Up" | "Down" | "Yes" | "No"
}

// ScopeSlug devuelve el identificador de scope del trade: eventSlug si existe,
// si no el slug del mercado.
func (t RawTrade) ScopeSlug() string {
	if t.EventSlug != "" {
		return t.EventSlug
	}
	return t.Slug
}

// Notional devuelve el valor monetario del trade (size × price).
func (t RawTrade) Notional() float64 {
	return t.Size * t.Price
}
