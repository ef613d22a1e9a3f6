package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPredict_Deterministic(t *testing.T) {
	f := FeatureVector{
		MarketID:       "m",
		Returns30s:     0.10,
		Returns2m:      0.05,
		Vol2m:          0.02,
		WhaleBias:      0.5,
		WhaleIntensity: 0.4,
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p1 := Predict(f, 0.3, now)
	p2 := Predict(f, 0.3, now)
	assert.Equal(t, p1, p2, "predict debe ser función pura")
}

func TestPredict_ScoreAndConfidence(t *testing.T) {
	f := FeatureVector{
		MarketID:       "m",
		Returns30s:     0.10,
		Returns2m:      0.05,
		Vol2m:          0.02,
		WhaleBias:      0.5,
		WhaleIntensity: 0.4,
	}

	// z = 3.2*0.10 + 1.8*0.05 + 1.4*0.5*0.4 - 2.2*0.02 + 0.8*0.3
	z := 3.2*0.10 + 1.8*0.05 + 1.4*0.5*0.4 - 2.2*0.02 + 0.8*0.3
	want := 1 / (1 + math.Exp(-z))
	wantMedium := 1 / (1 + math.Exp(-1.2*z))

	p := Predict(f, 0.3, time.Now())
	assert.InDelta(t, want, p.PUpShort, 1e-12)
	assert.InDelta(t, wantMedium, p.PUpMedium, 1e-12)
	assert.InDelta(t, math.Min(0.99, 2*math.Abs(want-0.5)), p.Confidence, 1e-12)
}

func TestPredict_NeutralInputs(t *testing.T) {
	p := Predict(FeatureVector{MarketID: "m"}, 0, time.Now())

	assert.InDelta(t, 0.5, p.PUpShort, 1e-12)
	assert.InDelta(t, 0.5, p.PUpMedium, 1e-12)
	assert.InDelta(t, 0.0, p.Confidence, 1e-12)
}

func TestPredict_ConfidenceCapped(t *testing.T) {
	// Un z enorme satura el sigmoid → confidence debe quedarse en 0.99
	f := FeatureVector{Returns30s: 10}
	p := Predict(f, 1, time.Now())

	assert.Greater(t, p.PUpShort, 0.999)
	assert.Equal(t, 0.99, p.Confidence)
}
