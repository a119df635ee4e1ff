package category

import "github.com/shopspring/decimal"

// Metrics métricas de un producto que se agregan hacia arriba en la jerarquía.
type Metrics struct {
	Quantity decimal.Decimal
	Profit   decimal.Decimal
	Velocity decimal.Decimal
}

// Aggregate resumen por categoría. Cada producto cuenta en todas las categorías de su ruta.
type Aggregate struct {
	CategoryID    string
	ItemCount     int64
	TotalQuantity decimal.Decimal
	ProfitSum     decimal.Decimal
	VelocitySum   decimal.Decimal
	CombinedSum   decimal.Decimal // Σ ganancia × velocidad

	AverageProfit                decimal.Decimal
	AverageVelocity              decimal.Decimal
	AverageCombinedProfitability decimal.Decimal
}

// Aggregator acumula métricas por categoría. Las sumas son conmutativas y asociativas:
// el resultado no depende del orden de los productos y dos acumuladores parciales
// pueden combinarse con Merge. No es seguro para uso concurrente.
type Aggregator struct {
	acc map[string]*Aggregate
}

// NewAggregator construye un acumulador vacío.
func NewAggregator() *Aggregator {
	return &Aggregator{acc: make(map[string]*Aggregate)}
}

// Add suma las métricas del producto en cada categoría de chain (raíz→hoja).
// Una cadena vacía (producto sin categoría) no aporta a ningún resumen.
// Un id repetido dentro de la misma cadena cuenta una sola vez.
func (a *Aggregator) Add(chain []string, m Metrics) {
	combined := m.Profit.Mul(m.Velocity)
	seen := make(map[string]struct{}, len(chain))
	for _, id := range chain {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		g := a.get(id)
		g.ItemCount++
		g.TotalQuantity = g.TotalQuantity.Add(m.Quantity)
		g.ProfitSum = g.ProfitSum.Add(m.Profit)
		g.VelocitySum = g.VelocitySum.Add(m.Velocity)
		g.CombinedSum = g.CombinedSum.Add(combined)
	}
}

// Merge incorpora los totales de otro acumulador (paso de reducción).
func (a *Aggregator) Merge(other *Aggregator) {
	for id, o := range other.acc {
		g := a.get(id)
		g.ItemCount += o.ItemCount
		g.TotalQuantity = g.TotalQuantity.Add(o.TotalQuantity)
		g.ProfitSum = g.ProfitSum.Add(o.ProfitSum)
		g.VelocitySum = g.VelocitySum.Add(o.VelocitySum)
		g.CombinedSum = g.CombinedSum.Add(o.CombinedSum)
	}
}

func (a *Aggregator) get(id string) *Aggregate {
	g, ok := a.acc[id]
	if !ok {
		g = &Aggregate{
			CategoryID:    id,
			TotalQuantity: decimal.Zero,
			ProfitSum:     decimal.Zero,
			VelocitySum:   decimal.Zero,
			CombinedSum:   decimal.Zero,
		}
		a.acc[id] = g
	}
	return g
}

// Len número de categorías con al menos un producto.
func (a *Aggregator) Len() int { return len(a.acc) }

// Finalize calcula los promedios (suma / ItemCount) y devuelve un resumen por categoría.
func (a *Aggregator) Finalize() map[string]Aggregate {
	out := make(map[string]Aggregate, len(a.acc))
	for id, g := range a.acc {
		res := *g
		n := decimal.NewFromInt(g.ItemCount)
		res.AverageProfit = g.ProfitSum.Div(n)
		res.AverageVelocity = g.VelocitySum.Div(n)
		res.AverageCombinedProfitability = g.CombinedSum.Div(n)
		out[id] = res
	}
	return out
}
