package velocity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
	"github.com/jhoicas/Inventario-velocity/internal/domain/velocity"
)

func raw(at time.Time, qty int64, op string) entity.RawMovement {
	return entity.RawMovement{ProductID: "p1", Moment: at, Quantity: decimal.NewFromInt(qty), OperationType: op}
}

func TestNormalize_ClasificaPorSignoYTipo(t *testing.T) {
	events, rejected, err := velocity.Normalize([]entity.RawMovement{
		raw(day(0), 10, entity.MovementTypeIN),
		raw(day(1), -2, entity.MovementTypeSALE),
		raw(day(2), -1, entity.MovementTypeTRANSFER),
		raw(day(3), 1, entity.MovementTypeSALE), // devolución de venta: es una llegada
		raw(day(4), -1, entity.MovementTypeOUT),
	})
	require.NoError(t, err)
	assert.Empty(t, rejected)

	kinds := make([]entity.EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []entity.EventKind{
		entity.EventReceipt,
		entity.EventDemand,
		entity.EventOtherOutflow,
		entity.EventReceipt,
		entity.EventOtherOutflow,
	}, kinds)
}

func TestNormalize_RechazaInvalidosYContinua(t *testing.T) {
	events, rejected, err := velocity.Normalize([]entity.RawMovement{
		raw(day(0), 0, entity.MovementTypeIN),
		raw(time.Time{}, 5, entity.MovementTypeIN),
		raw(day(1), 5, "writeoff-x"),
		raw(day(2), 5, ""),
		raw(day(3), 5, entity.MovementTypeIN),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, rejected, 4)

	assert.Equal(t, 0, rejected[0].Index)
	assert.ErrorIs(t, rejected[0].Reason, domain.ErrZeroQuantity)
	assert.ErrorIs(t, rejected[1].Reason, domain.ErrMissingTimestamp)
	assert.ErrorIs(t, rejected[2].Reason, domain.ErrUnknownKind)
	assert.ErrorIs(t, rejected[3].Reason, domain.ErrUnknownKind)
}

func TestNormalize_OrdenEstable(t *testing.T) {
	events, _, err := velocity.Normalize([]entity.RawMovement{
		raw(day(5), 1, entity.MovementTypeIN),
		raw(day(1), 2, entity.MovementTypeIN),
		raw(day(1), 3, entity.MovementTypeIN),
		raw(day(0), 4, entity.MovementTypeIN),
	})
	require.NoError(t, err)
	require.Len(t, events, 4)

	got := []string{events[0].Quantity.String(), events[1].Quantity.String(), events[2].Quantity.String(), events[3].Quantity.String()}
	assert.Equal(t, []string{"4", "2", "3", "1"}, got, "empates conservan el orden de entrada")
}

func TestNormalize_EntradaNilEsViolacionDeContrato(t *testing.T) {
	_, _, err := velocity.Normalize(nil)
	assert.ErrorIs(t, err, domain.ErrNilInput)

	events, rejected, err := velocity.Normalize([]entity.RawMovement{})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, rejected)
}
