package domain

import "time"

// CycleOutcome es el resultado completo de un ciclo del pipeline. Derivado,
// sin efectos secundarios: es lo que ve el notifier, el journal y la UI.
type CycleOutcome struct {
	MarketID     string
	Question     string
	RemainingSec int64 // -1 si el mercado no tiene endDate
	YesPrice     float64
	Whale        WhaleFlow
	Prediction   Prediction
	Decision     Decision
	Execution    *OrderResult // nil en paper mode o con HOLD/SKIP
	Timestamp    time.Time
}
