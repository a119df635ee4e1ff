package velocity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
	"github.com/jhoicas/Inventario-velocity/internal/domain/velocity"
)

func receipt(at time.Time, qty int64) entity.MovementEvent {
	return entity.MovementEvent{Time: at, Quantity: dec(qty), Kind: entity.EventReceipt}
}

func demand(at time.Time, qty int64) entity.MovementEvent {
	return entity.MovementEvent{Time: at, Quantity: dec(-qty), Kind: entity.EventDemand}
}

func outflow(at time.Time, qty int64) entity.MovementEvent {
	return entity.MovementEvent{Time: at, Quantity: dec(-qty), Kind: entity.EventOtherOutflow}
}

func window(start, end, lookback int) velocity.Window {
	return velocity.Window{Start: day(start), End: day(end), LookbackDays: lookback}
}

func TestEstimate_DosLotesUnaVenta(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(0), 10),
		receipt(day(10), 5),
		demand(day(20), 12),
	}, window(15, 25, 365))
	require.NoError(t, err)

	assert.True(t, res.DemandQuantity.Equal(dec(12)))
	assert.True(t, res.WeightedDwellDays.Equal(dec(220)), "10*20 + 2*10 = 220, obtenido %s", res.WeightedDwellDays)
	assert.InDelta(t, 12.0/220.0, res.Velocity.InexactFloat64(), 1e-9)
	assert.True(t, res.Shortfall.IsZero())
}

func TestEstimate_LoteDelHistorialPrevio(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(-5), 10),
		demand(day(16), 3),
	}, window(15, 25, 30))
	require.NoError(t, err)

	assert.True(t, res.WeightedDwellDays.Equal(dec(63)), "3 * 21 = 63, obtenido %s", res.WeightedDwellDays)
	assert.InDelta(t, 3.0/63.0, res.Velocity.InexactFloat64(), 1e-9)
}

func TestEstimate_UnLoteUnaVentaExacta(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		qty := rapid.Int64Range(1, 1000).Draw(t, "qty")
		arrival := rapid.IntRange(-300, 14).Draw(t, "arrival")
		sale := rapid.IntRange(15, 25).Draw(t, "sale")

		res, err := velocity.Estimate([]entity.MovementEvent{
			receipt(day(arrival), qty),
			demand(day(sale), qty),
		}, window(15, 25, 365))
		if err != nil {
			t.Fatal(err)
		}
		wantDwell := dec(qty * int64(sale-arrival))
		if !res.WeightedDwellDays.Equal(wantDwell) {
			t.Fatalf("permanencia %s, esperada %s", res.WeightedDwellDays, wantDwell)
		}
		if !res.Velocity.Equal(dec(qty).Div(wantDwell)) {
			t.Fatalf("velocidad %s, esperada %s", res.Velocity, dec(qty).Div(wantDwell))
		}
	})
}

func TestEstimate_VentaFueraDeVentanaSoloRetiraStock(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(0), 5),
		receipt(day(8), 5),
		demand(day(10), 5), // antes de la ventana: agota el primer lote
		demand(day(20), 2),
		demand(day(30), 4), // después de la ventana
	}, window(15, 25, 365))
	require.NoError(t, err)

	assert.True(t, res.DemandQuantity.Equal(dec(2)))
	assert.True(t, res.WeightedDwellDays.Equal(dec(24)), "debe usar el lote del día 8: 2*12")
}

func TestEstimate_OtrasSalidasNoCuentan(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(0), 4),
		receipt(day(10), 4),
		outflow(day(16), 4),
		demand(day(20), 1),
	}, window(15, 25, 365))
	require.NoError(t, err)

	assert.True(t, res.DemandQuantity.Equal(dec(1)))
	assert.True(t, res.WeightedDwellDays.Equal(dec(10)))
}

func TestEstimate_SinDemandaVelocidadCero(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(0), 100),
		outflow(day(16), 3),
	}, window(15, 25, 365))
	require.NoError(t, err)

	assert.True(t, res.DemandQuantity.IsZero())
	assert.True(t, res.Velocity.IsZero())

	res, err = velocity.Estimate([]entity.MovementEvent{}, window(15, 25, 365))
	require.NoError(t, err)
	assert.True(t, res.Velocity.IsZero())
}

func TestEstimate_VentaInstantaneaConservaVelocidadCero(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(16), 3),
		demand(day(16), 3),
	}, window(15, 25, 365))
	require.NoError(t, err)

	assert.True(t, res.DemandQuantity.Equal(dec(3)), "la demanda se registra")
	assert.True(t, res.WeightedDwellDays.IsZero())
	assert.True(t, res.Velocity.IsZero(), "sin permanencia la velocidad es cero")
}

func TestEstimate_FaltanteSeReportaSinAfectarDemanda(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(0), 2),
		demand(day(20), 5),
	}, window(15, 25, 365))
	require.NoError(t, err)

	assert.True(t, res.DemandQuantity.Equal(dec(2)), "solo cuenta lo que encontró stock")
	assert.True(t, res.Shortfall.Equal(dec(3)))
}

func TestEstimate_ExtremosDeVentanaIncluidos(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(0), 10),
		demand(day(15), 1),
		demand(day(25), 1),
	}, window(15, 25, 365))
	require.NoError(t, err)
	assert.True(t, res.DemandQuantity.Equal(dec(2)))
	assert.True(t, res.WeightedDwellDays.Equal(dec(40)))
}

func TestEstimate_OrdenaEntradaDesordenada(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		demand(day(20), 12),
		receipt(day(10), 5),
		receipt(day(0), 10),
	}, window(15, 25, 365))
	require.NoError(t, err)
	assert.True(t, res.WeightedDwellDays.Equal(dec(220)))
}

func TestEstimate_NilEsViolacionDeContrato(t *testing.T) {
	_, err := velocity.Estimate(nil, window(15, 25, 365))
	assert.ErrorIs(t, err, domain.ErrNilInput)
}

func TestWindow_LookbackStart(t *testing.T) {
	w := window(15, 25, 20)
	assert.True(t, w.LookbackStart().Equal(day(-5)))
	assert.True(t, w.Contains(day(15)))
	assert.True(t, w.Contains(day(25)))
	assert.False(t, w.Contains(day(26)))
	assert.False(t, w.Contains(day(14)))
}

func TestEstimate_PermanenciaEnFraccionesDeDia(t *testing.T) {
	res, err := velocity.Estimate([]entity.MovementEvent{
		receipt(day(15), 4),
		demand(day(15).Add(12*time.Hour), 4),
	}, window(15, 25, 0))
	require.NoError(t, err)
	assert.True(t, res.WeightedDwellDays.Equal(decimal.NewFromInt(2)), "4 * 0.5 días")
	assert.True(t, res.Velocity.Equal(decimal.NewFromInt(2)))
}
