package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action es el resultado de evaluar una predicción.
type Action string

const (
	ActionHold Action = "HOLD"
	ActionSkip Action = "SKIP"
	ActionOpen Action = "OPEN"
)

// Decision es el veredicto de un ciclo del trader.
type Decision struct {
	Action   Action
	Side     Side     // solo con OPEN
	Position Position // solo con OPEN
	Detail   string
}

// Trader es el state machine de trading: FLAT → OPEN por mercado, terminal
// durante la vida del proceso. El set de posiciones es todo su estado mutable;
// el mutex garantiza un único escritor entre ciclos.
type Trader struct {
	mu             sync.Mutex
	positions      map[string]Position // keyed por marketID
	maxPositionUSD float64
	edgeThreshold  float64
}

// NewTrader crea un Trader con los límites de riesgo dados.
func NewTrader(maxPositionUSD, edgeThreshold float64) *Trader {
	return &Trader{
		positions:      make(map[string]Position),
		maxPositionUSD: maxPositionUSD,
		edgeThreshold:  edgeThreshold,
	}
}

// OnPrediction aplica la regla de transición:
// edge = pUpShort - 0.5; |edge| <= threshold → HOLD;
// posición existente para el mercado → SKIP;
// si no, abre exactamente una posición y devuelve OPEN.
func (tr *Trader) OnPrediction(pred Prediction, currentYesPrice float64, now time.Time) Decision {
	edge := pred.PUpShort - 0.5

	var side Side
	switch {
	case edge > tr.edgeThreshold:
		side = SideYes
	case edge < -tr.edgeThreshold:
		side = SideNo
	default:
		return Decision{
			Action: ActionHold,
			Detail: fmt.Sprintf("HOLD | p=%.3f conf=%.2f", pred.PUpShort, pred.Confidence),
		}
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	if existing, ok := tr.positions[pred.MarketID]; ok {
		return Decision{
			Action: ActionSkip,
			Detail: fmt.Sprintf("SKIP | already %s in %s", existing.Side, pred.MarketID),
		}
	}

	entry := currentYesPrice
	if side == SideNo {
		entry = 1 - currentYesPrice
	}

	pos := Position{
		ID:         uuid.NewString(),
		MarketID:   pred.MarketID,
		Side:       side,
		EntryPrice: entry,
		SizeUSD:    tr.maxPositionUSD,
		OpenedAt:   now,
	}
	tr.positions[pred.MarketID] = pos

	return Decision{
		Action:   ActionOpen,
		Side:     side,
		Position: pos,
		Detail: fmt.Sprintf("OPEN %s $%.0f @ %.3f | %s",
			side, pos.SizeUSD, pos.EntryPrice, pred.Reason),
	}
}

// Positions devuelve una copia de las posiciones abiertas.
func (tr *Trader) Positions() []Position {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	out := make([]Position, 0, len(tr.positions))
	for _, p := range tr.positions {
		out = append(out, p)
	}
	return out
}
