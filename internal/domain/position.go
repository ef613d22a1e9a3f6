package domain

import "time"

// Side es el lado de una posición.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// Position es una posición abierta por el trader. La posee en exclusiva el
// state machine; nunca se muta después de crearla (el cierre queda fuera
// del core — una posición por mercado durante la vida del proceso).
type Position struct {
	ID         string // UUID local
	MarketID   string
	Side       Side
	EntryPrice float64
	SizeUSD    float64
	OpenedAt   time.Time
}
