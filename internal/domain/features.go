package domain

import (
	"errors"
	"math"
	"time"
)

// ErrInsufficientHistory indica que el buffer aún no tiene los 3 ticks
// mínimos para extraer features. Benigno durante el warm-up.
var ErrInsufficientHistory = errors.New("insufficient tick history")

const (
	minTicksForFeatures = 3

	// Offsets de índice atados a la cadencia de polling (~15s):
	// 4 ticks ≈ 30s, 13 ticks ≈ 2m. Constantes fijas, no adaptativas.
	offset30s = 4
	offset2m  = 13

	// intensityScaleUSDC normaliza el notional bruto a [0,1].
	intensityScaleUSDC = 5000.0
)

// FeatureVector son las features numéricas de un ciclo, derivadas de forma
// determinista de una ventana de ticks y un WhaleFlow.
type FeatureVector struct {
	MarketID       string
	YesPrice       float64
	Returns30s     float64
	Returns2m      float64
	Vol2m          float64
	WhaleBias      float64 // [-1, 1]
	WhaleIntensity float64 // [0, 1]
	Timestamp      time.Time
}

// ExtractFeatures computa el FeatureVector para la ventana de ticks dada.
// Devuelve ErrInsufficientHistory con menos de 3 ticks.
func ExtractFeatures(ticks []MarketTick, whale WhaleFlow, now time.Time) (FeatureVector, error) {
	if len(ticks) < minTicksForFeatures {
		return FeatureVector{}, ErrInsufficientHistory
	}

	latest := ticks[len(ticks)-1]
	pNow := latest.YesPrice
	p30 := ticks[clampIndex(len(ticks)-offset30s)].YesPrice
	p2m := ticks[clampIndex(len(ticks)-offset2m)].YesPrice

	window := ticks[clampIndex(len(ticks)-offset2m):]
	prices := make([]float64, len(window))
	for i, t := range window {
		prices[i] = t.YesPrice
	}

	whaleBias := 0.0
	if whale.GrossNotional > 0 {
		whaleBias = whale.NetYesNotional / whale.GrossNotional
	}

	return FeatureVector{
		MarketID:       latest.MarketID,
		YesPrice:       pNow,
		Returns30s:     safeReturn(pNow, p30),
		Returns2m:      safeReturn(pNow, p2m),
		Vol2m:          stdev(prices),
		WhaleBias:      whaleBias,
		WhaleIntensity: math.Min(1, whale.GrossNotional/intensityScaleUSDC),
		Timestamp:      now,
	}, nil
}

// safeReturn devuelve el cambio relativo (a-b)/b, o 0 si b es cero.
func safeReturn(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b
}

// stdev es la desviación estándar poblacional.
func stdev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	return i
}
