package velocity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

var nanosPerDay = decimal.NewFromInt(int64(24 * time.Hour))

// Window ventana del reporte [Start, End] (inclusiva) más el período previo de historial.
// El historial previo sirve para ubicar la llegada de los lotes que se venden al inicio de la ventana.
type Window struct {
	Start        time.Time
	End          time.Time
	LookbackDays int
}

// LookbackStart primer instante del historial que debe entregar la fuente de movimientos.
func (w Window) LookbackStart() time.Time {
	return w.Start.AddDate(0, 0, -w.LookbackDays)
}

// Contains indica si t cae dentro de la ventana (ambos extremos incluidos).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Result velocidad estimada para un producto.
type Result struct {
	DemandQuantity    decimal.Decimal // unidades vendidas dentro de la ventana
	WeightedDwellDays decimal.Decimal // Σ unidades × días en bodega
	Velocity          decimal.Decimal // unidades / día de permanencia
	// Shortfall unidades de salida que no encontraron stock en el libro (dentro y fuera de la ventana).
	Shortfall decimal.Decimal
}

// Estimate recorre el historial una sola vez alimentando un libro FIFO nuevo.
// Solo las ventas minoristas dentro de la ventana acumulan demanda y permanencia; el resto de
// salidas retira stock sin afectar el cálculo.
//
// Si la permanencia acumulada es cero la velocidad es cero, incluso con demanda positiva
// (venta en el mismo instante que la llegada de su lote).
func Estimate(events []entity.MovementEvent, w Window) (Result, error) {
	if events == nil {
		return Result{}, domain.ErrNilInput
	}
	if !sort.SliceIsSorted(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) }) {
		sorted := make([]entity.MovementEvent, len(events))
		copy(sorted, events)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
		events = sorted
	}

	ledger := NewLedger()
	res := Result{
		DemandQuantity:    decimal.Zero,
		WeightedDwellDays: decimal.Zero,
		Velocity:          decimal.Zero,
		Shortfall:         decimal.Zero,
	}

	for _, ev := range events {
		if ev.Kind == entity.EventReceipt {
			ledger.Receive(ev.Time, ev.Quantity)
			continue
		}
		want := ev.Quantity.Abs()
		draws := ledger.Consume(ev.Time, want)
		taken := TotalTaken(draws)
		res.Shortfall = res.Shortfall.Add(want.Sub(taken))

		if ev.Kind != entity.EventDemand || !w.Contains(ev.Time) {
			continue
		}
		for _, d := range draws {
			res.WeightedDwellDays = res.WeightedDwellDays.Add(d.Quantity.Mul(dwellDays(d.Dwell)))
		}
		res.DemandQuantity = res.DemandQuantity.Add(taken)
	}

	if res.WeightedDwellDays.IsPositive() {
		res.Velocity = res.DemandQuantity.Div(res.WeightedDwellDays)
	}
	return res, nil
}

func dwellDays(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(nanosPerDay)
}
