package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticksFromPrices(prices ...float64) []MarketTick {
	now := time.Now()
	ticks := make([]MarketTick, len(prices))
	for i, p := range prices {
		ticks[i] = NewMarketTick("m", p, now)
	}
	return ticks
}

func TestExtractFeatures_InsufficientHistory(t *testing.T) {
	_, err := ExtractFeatures(ticksFromPrices(0.5, 0.51), WhaleFlow{}, time.Now())
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = ExtractFeatures(nil, WhaleFlow{}, time.Now())
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestExtractFeatures_Returns30s(t *testing.T) {
	// 4 ticks: returns30s se calcula contra el índice 0
	f, err := ExtractFeatures(ticksFromPrices(0.50, 0.51, 0.52, 0.55), WhaleFlow{}, time.Now())
	require.NoError(t, err)

	assert.InDelta(t, 0.10, f.Returns30s, 1e-9) // (0.55-0.50)/0.50
	assert.Equal(t, 0.55, f.YesPrice)
	assert.Equal(t, "m", f.MarketID)
}

func TestExtractFeatures_Returns2mAndVol(t *testing.T) {
	prices := []float64{
		0.40, 0.40, 0.40, // fuera de la ventana de 13
		0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.60,
	}
	f, err := ExtractFeatures(ticksFromPrices(prices...), WhaleFlow{}, time.Now())
	require.NoError(t, err)

	// 16 ticks → p2m = índice 16-13=3 → 0.50
	assert.InDelta(t, 0.20, f.Returns2m, 1e-9) // (0.60-0.50)/0.50
	// ventana = últimos 13: doce 0.50 y un 0.60 → stdev poblacional
	// mean = (12*0.50+0.60)/13; var = (12*(m-0.5)^2 + (0.6-m)^2)/13
	assert.InDelta(t, 0.026647, f.Vol2m, 1e-4)
}

func TestExtractFeatures_WhaleComponents(t *testing.T) {
	whale := WhaleFlow{NetYesNotional: -500, GrossNotional: 1000}
	f, err := ExtractFeatures(ticksFromPrices(0.5, 0.5, 0.5), whale, time.Now())
	require.NoError(t, err)

	assert.InDelta(t, -0.5, f.WhaleBias, 1e-9)
	assert.InDelta(t, 0.2, f.WhaleIntensity, 1e-9) // 1000/5000

	// gross cero → bias neutro
	f, err = ExtractFeatures(ticksFromPrices(0.5, 0.5, 0.5), WhaleFlow{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.WhaleBias)
	assert.Equal(t, 0.0, f.WhaleIntensity)
}

func TestExtractFeatures_IntensitySaturates(t *testing.T) {
	whale := WhaleFlow{NetYesNotional: 9000, GrossNotional: 9000}
	f, err := ExtractFeatures(ticksFromPrices(0.5, 0.5, 0.5), whale, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1.0, f.WhaleIntensity)
	assert.InDelta(t, 1.0, f.WhaleBias, 1e-9)
}

func TestStdev_Population(t *testing.T) {
	assert.InDelta(t, 2.0, stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, stdev(nil))
	assert.Equal(t, 0.0, stdev([]float64{3}))
}
