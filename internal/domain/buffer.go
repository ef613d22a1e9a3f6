package domain

// TickBufferCapacity es el máximo de ticks retenidos por el buffer.
const TickBufferCapacity = 300

// TickBuffer es un log ordenado de ticks con capacidad fija.
// Al superar la capacidad descarta el más antiguo (FIFO estricto).
// No es thread-safe: lo posee el engine, que serializa los ciclos.
type TickBuffer struct {
	ticks []MarketTick
	cap   int
}

// NewTickBuffer crea un buffer con la capacidad estándar.
func NewTickBuffer() *TickBuffer {
	return NewTickBufferWithCapacity(TickBufferCapacity)
}

// NewTickBufferWithCapacity crea un buffer con capacidad arbitraria (tests).
func NewTickBufferWithCapacity(capacity int) *TickBuffer {
	if capacity <= 0 {
		capacity = TickBufferCapacity
	}
	return &TickBuffer{ticks: make([]MarketTick, 0, capacity), cap: capacity}
}

// Append añade un tick, descartando el más antiguo si el buffer está lleno.
func (b *TickBuffer) Append(t MarketTick) {
	if len(b.ticks) == b.cap {
		copy(b.ticks, b.ticks[1:])
		b.ticks = b.ticks[:len(b.ticks)-1]
	}
	b.ticks = append(b.ticks, t)
}

// Recent devuelve los últimos n ticks en orden cronológico.
// Si hay menos de n, devuelve los que haya. Nunca falla.
func (b *TickBuffer) Recent(n int) []MarketTick {
	if n <= 0 {
		return nil
	}
	start := len(b.ticks) - n
	if start < 0 {
		start = 0
	}
	out := make([]MarketTick, len(b.ticks)-start)
	copy(out, b.ticks[start:])
	return out
}

// Len devuelve el número de ticks almacenados.
func (b *TickBuffer) Len() int {
	return len(b.ticks)
}
