package ports

import (
	"context"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

// Storage persiste el journal de ciclos. Es solo observabilidad: el engine
// nunca lee de aquí — el estado de trading vive en memoria.
type Storage interface {
	// SaveCycle persiste el outcome de un ciclo.
	SaveCycle(ctx context.Context, outcome domain.CycleOutcome) error

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
