// Package velocity estima la velocidad de venta de un producto a partir de su historial
// de movimientos, modelando el stock físico como lotes FIFO.
package velocity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch lote abierto dentro del libro FIFO.
type Batch struct {
	ArrivalTime time.Time
	Remaining   decimal.Decimal
}

// Draw cantidad tomada de un lote concreto durante un consumo.
type Draw struct {
	ArrivalTime time.Time
	Quantity    decimal.Decimal
	Dwell       time.Duration // momento del consumo - llegada del lote
}

// Ledger cola de lotes ordenada por llegada. No es seguro para uso concurrente;
// cada producto usa su propia instancia.
type Ledger struct {
	batches []Batch
}

// NewLedger construye un libro vacío.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Receive agrega un lote al final de la cola. qty debe ser positivo (contrato del llamador).
func (l *Ledger) Receive(at time.Time, qty decimal.Decimal) {
	l.batches = append(l.batches, Batch{ArrivalTime: at, Remaining: qty})
}

// Consume retira hasta qty unidades empezando por el lote más antiguo y devuelve el detalle
// de lo tomado de cada lote. Si no hay stock suficiente se vacía el libro y el faltante se
// descarta: el desfase entre stock y ventas registradas es habitual en los datos de origen.
func (l *Ledger) Consume(at time.Time, qty decimal.Decimal) []Draw {
	var draws []Draw
	need := qty
	for need.IsPositive() && len(l.batches) > 0 {
		head := &l.batches[0]
		taken := decimal.Min(need, head.Remaining)
		draws = append(draws, Draw{
			ArrivalTime: head.ArrivalTime,
			Quantity:    taken,
			Dwell:       at.Sub(head.ArrivalTime),
		})
		need = need.Sub(taken)
		head.Remaining = head.Remaining.Sub(taken)
		if !head.Remaining.IsPositive() {
			l.batches = l.batches[1:]
		}
	}
	return draws
}

// OnHand total disponible en todos los lotes.
func (l *Ledger) OnHand() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.batches {
		total = total.Add(b.Remaining)
	}
	return total
}

// Batches copia de los lotes abiertos, del más antiguo al más reciente.
func (l *Ledger) Batches() []Batch {
	out := make([]Batch, len(l.batches))
	copy(out, l.batches)
	return out
}

// TotalTaken suma las cantidades de un detalle de consumo.
func TotalTaken(draws []Draw) decimal.Decimal {
	total := decimal.Zero
	for _, d := range draws {
		total = total.Add(d.Quantity)
	}
	return total
}
