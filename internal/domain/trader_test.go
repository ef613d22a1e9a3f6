package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrader_OpenYes(t *testing.T) {
	tr := NewTrader(100, 0.03)
	now := time.Now()

	// edge = 0.04 > 0.03 → OPEN YES
	d := tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.54}, 0.52, now)

	require.Equal(t, ActionOpen, d.Action)
	assert.Equal(t, SideYes, d.Side)
	assert.Equal(t, 0.52, d.Position.EntryPrice)
	assert.Equal(t, 100.0, d.Position.SizeUSD)
	assert.Equal(t, "m1", d.Position.MarketID)
	assert.NotEmpty(t, d.Position.ID)
	assert.Equal(t, now, d.Position.OpenedAt)
}

func TestTrader_OpenNoUsesInvertedEntry(t *testing.T) {
	tr := NewTrader(50, 0.03)

	d := tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.40}, 0.45, time.Now())

	require.Equal(t, ActionOpen, d.Action)
	assert.Equal(t, SideNo, d.Side)
	assert.InDelta(t, 0.55, d.Position.EntryPrice, 1e-12)
}

func TestTrader_Hold(t *testing.T) {
	tr := NewTrader(100, 0.03)

	// edge = 0.01 → dentro del threshold → HOLD, sin posición
	d := tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.51}, 0.50, time.Now())

	assert.Equal(t, ActionHold, d.Action)
	assert.Empty(t, tr.Positions())

	// edge negativo pequeño tampoco abre
	d = tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.48}, 0.50, time.Now())
	assert.Equal(t, ActionHold, d.Action)
}

func TestTrader_SkipWhenAlreadyOpen(t *testing.T) {
	tr := NewTrader(100, 0.03)
	now := time.Now()

	d := tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.54}, 0.52, now)
	require.Equal(t, ActionOpen, d.Action)

	// segunda llamada para el mismo mercado → SKIP aunque la señal sea fuerte
	d = tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.90}, 0.60, now)
	assert.Equal(t, ActionSkip, d.Action)
	assert.Len(t, tr.Positions(), 1)

	// la posición original no se muta
	pos := tr.Positions()[0]
	assert.Equal(t, SideYes, pos.Side)
	assert.Equal(t, 0.52, pos.EntryPrice)
}

func TestTrader_OnePositionPerMarket(t *testing.T) {
	tr := NewTrader(100, 0.03)
	now := time.Now()

	tr.OnPrediction(Prediction{MarketID: "m1", PUpShort: 0.60}, 0.55, now)
	tr.OnPrediction(Prediction{MarketID: "m2", PUpShort: 0.40}, 0.45, now)

	assert.Len(t, tr.Positions(), 2)
}
