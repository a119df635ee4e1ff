package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento tal como los entrega la fuente de movimientos.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre bodegas
	MovementTypeSALE       = "SALE"       // venta minorista (salida ligada a una factura)
)

// RawMovement es un registro crudo de la fuente de movimientos, antes de normalizar.
// Quantity es positivo para entradas y negativo para salidas.
type RawMovement struct {
	ProductID     string
	WarehouseID   string
	Moment        time.Time // cero si la fuente no trae fecha
	Quantity      decimal.Decimal
	OperationType string
}

// EventKind clasifica un movimiento normalizado.
type EventKind int

const (
	EventReceipt      EventKind = iota // llegada de stock
	EventDemand                        // venta minorista, cuenta para la velocidad
	EventOtherOutflow                  // traslados, bajas, devoluciones a proveedor...
)

func (k EventKind) String() string {
	switch k {
	case EventReceipt:
		return "RECEIPT"
	case EventDemand:
		return "DEMAND"
	case EventOtherOutflow:
		return "OTHER_OUTFLOW"
	}
	return "UNKNOWN"
}

// MovementEvent es un movimiento ya validado y tipado. Inmutable.
type MovementEvent struct {
	Time     time.Time
	Quantity decimal.Decimal // con signo
	Kind     EventKind
}
