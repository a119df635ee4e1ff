// Package forecast proyecta la demanda a partir de la velocidad de venta y calcula el stock mínimo.
package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

const maxDisplayPlaces = 16

var ten = decimal.NewFromInt(10)

// Demand demanda esperada para los próximos planningDays días.
func Demand(velocity decimal.Decimal, planningDays int) decimal.Decimal {
	return velocity.Mul(decimal.NewFromInt(int64(planningDays)))
}

// ManualMinStock mayor mínimo manual entre las reglas que apuntan a alguna categoría de la ruta.
// ok es false si ninguna regla aplica.
func ManualMinStock(rules []entity.MinStockRule, chain []string) (minStock int64, ok bool) {
	for _, id := range chain {
		for _, r := range rules {
			if r.CategoryID != id {
				continue
			}
			if !ok || r.MinStock > minStock {
				minStock, ok = r.MinStock, true
			}
		}
	}
	return minStock, ok
}

// MinStock redondeo hacia arriba de la demanda proyectada, o el mínimo manual si es mayor.
func MinStock(demand decimal.Decimal, rules []entity.MinStockRule, chain []string) decimal.Decimal {
	auto := demand.Ceil()
	if manual, ok := ManualMinStock(rules, chain); ok {
		return decimal.Max(auto, decimal.NewFromInt(manual))
	}
	return auto
}

// DisplayVelocity redondea la velocidad conservando una cifra después del primer decimal distinto de cero,
// ej. 0.0545 → 0.055 y 1.234 → 1.23. Sin parte decimal se redondea a entero.
// Solo es para mostrar; la proyección usa el valor exacto.
func DisplayVelocity(v decimal.Decimal) decimal.Decimal {
	if !v.IsPositive() {
		return decimal.Zero
	}
	frac := v.Sub(v.Floor())
	if frac.IsZero() {
		return v.Round(0)
	}
	for k := 0; k < maxDisplayPlaces; k++ {
		frac = frac.Mul(ten)
		if frac.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return v.Round(int32(k + 2))
		}
	}
	return v.Round(maxDisplayPlaces)
}
