package ports

import (
	"context"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// BiasScorer es el oracle externo de bias direccional.
type BiasScorer interface {
	// Score devuelve un bias en [-1, 1] para las features dadas.
	// Devuelve exactamente 0 si no está configurado o si la petición falla;
	// nunca propaga el error al caller.
	Score(ctx context.Context, features domain.FeatureVector) float64
}
