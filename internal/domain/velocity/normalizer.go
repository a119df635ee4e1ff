package velocity

import (
	"sort"

	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

// Rejection movimiento descartado durante la normalización.
// Index es la posición en la entrada; Reason uno de los errores de rechazo de domain.
type Rejection struct {
	Index  int
	Reason error
}

var knownTypes = map[string]bool{
	entity.MovementTypeIN:         true,
	entity.MovementTypeOUT:        true,
	entity.MovementTypeADJUSTMENT: true,
	entity.MovementTypeTRANSFER:   true,
	entity.MovementTypeSALE:       true,
}

// Normalize convierte los registros crudos en eventos tipados ordenados por fecha ascendente.
// El orden es estable: con fechas iguales se conserva el orden de la entrada.
// Los registros inválidos se rechazan uno a uno y no interrumpen el proceso.
//
// Reglas:
//   - cantidad > 0            → RECEIPT (cualquier tipo: devoluciones y traslados entrantes también son llegadas)
//   - cantidad < 0 y SALE     → DEMAND
//   - cantidad < 0 y otro tipo → OTHER_OUTFLOW
func Normalize(raw []entity.RawMovement) ([]entity.MovementEvent, []Rejection, error) {
	if raw == nil {
		return nil, nil, domain.ErrNilInput
	}
	events := make([]entity.MovementEvent, 0, len(raw))
	var rejected []Rejection
	for i, r := range raw {
		if r.Moment.IsZero() {
			rejected = append(rejected, Rejection{Index: i, Reason: domain.ErrMissingTimestamp})
			continue
		}
		if r.Quantity.IsZero() {
			rejected = append(rejected, Rejection{Index: i, Reason: domain.ErrZeroQuantity})
			continue
		}
		if !knownTypes[r.OperationType] {
			rejected = append(rejected, Rejection{Index: i, Reason: domain.ErrUnknownKind})
			continue
		}

		kind := entity.EventOtherOutflow
		switch {
		case r.Quantity.IsPositive():
			kind = entity.EventReceipt
		case r.OperationType == entity.MovementTypeSALE:
			kind = entity.EventDemand
		}
		events = append(events, entity.MovementEvent{Time: r.Moment, Quantity: r.Quantity, Kind: kind})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events, rejected, nil
}
