package domain

import (
	"fmt"
	"math"
	"time"
)

// Coeficientes del ensemble. Son constantes de diseño de la heurística
// baseline, no parámetros entrenados — no hay learning online.
const (
	coefReturns30s = 3.2
	coefReturns2m  = 1.8
	coefWhale      = 1.4
	coefVol        = -2.2
	coefExternal   = 0.8

	mediumHorizonSharpness = 1.2
	maxConfidence          = 0.99
)

// Prediction es la salida del ensemble: probabilidades calibradas de que el
// mercado resuelva UP. Inmutable una vez producida.
type Prediction struct {
	MarketID   string
	PUpShort   float64 // horizonte corto, en (0,1)
	PUpMedium  float64 // variante más afilada del mismo score
	Confidence float64 // [0, 1]
	Reason     string
	Timestamp  time.Time
}

// Predict fusiona el feature vector con el bias externo en [-1,1].
// Función pura: mismas entradas producen siempre la misma salida.
// Si el oracle externo no está disponible, externalBias debe ser 0 exacto.
func Predict(f FeatureVector, externalBias float64, now time.Time) Prediction {
	z := coefReturns30s*f.Returns30s +
		coefReturns2m*f.Returns2m +
		coefWhale*f.WhaleBias*f.WhaleIntensity +
		coefVol*f.Vol2m +
		coefExternal*externalBias

	pShort := sigmoid(z)
	pMedium := sigmoid(mediumHorizonSharpness * z)
	confidence := math.Min(maxConfidence, 2*math.Abs(pShort-0.5))

	return Prediction{
		MarketID:   f.MarketID,
		PUpShort:   pShort,
		PUpMedium:  pMedium,
		Confidence: confidence,
		Reason: fmt.Sprintf("r30=%.4f r2m=%.4f whale=%.2f ext=%.2f",
			f.Returns30s, f.Returns2m, f.WhaleBias, externalBias),
		Timestamp: now,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
