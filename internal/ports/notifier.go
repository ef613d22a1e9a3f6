package ports

import (
	"context"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// Notifier presenta el resultado de cada ciclo al usuario.
type Notifier interface {
	// Notify muestra el outcome del ciclo (acción, probabilidades, whales).
	// En la implementación de consola, imprime una línea compacta.
	Notify(ctx context.Context, outcome domain.CycleOutcome) error
}
