package dto

import "github.com/shopspring/decimal"

// ── Parámetros ────────────────────────────────────────────────────────────────

// MinStockRuleDTO mínimo manual por categoría; aplica a toda la rama.
type MinStockRuleDTO struct {
	CategoryID string `json:"category_id"`
	MinStock   int64  `json:"min_stock"`
}

// VelocityReportRequest parámetros del reporte de velocidad de ventas.
type VelocityReportRequest struct {
	CompanyID     string            `json:"company_id"`
	WarehouseID   string            `json:"warehouse_id"`   // vacío = todas las bodegas
	CategoryIDs   []string          `json:"category_ids"`   // vacío = todas las categorías
	StartDate     string            `json:"start_date"`     // YYYY-MM-DD; por defecto primer día del mes actual
	EndDate       string            `json:"end_date"`       // YYYY-MM-DD; por defecto hoy
	LookbackDays  *int              `json:"lookback_days"`  // nil = valor de configuración
	PlanningDays  *int              `json:"planning_days"`  // nil = valor de configuración
	MinStockRules []MinStockRuleDTO `json:"min_stock_rules"`
}

// ── Por producto ──────────────────────────────────────────────────────────────

// ItemVelocityDTO fila del reporte por producto.
type ItemVelocityDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	CategoryID        string          `json:"category_id"`
	CategoryPath      string          `json:"category_path"` // "Raíz/Rama/Hoja"; vacío si no tiene categoría
	PathIDs           []string        `json:"path_ids"`
	PathNames         []string        `json:"path_names"`
	Quantity          decimal.Decimal `json:"quantity"` // unidades vendidas según la fuente de ventas
	Profit            decimal.Decimal `json:"profit"`
	DemandQuantity    decimal.Decimal `json:"demand_quantity"` // unidades emparejadas con lotes FIFO
	WeightedDwellDays decimal.Decimal `json:"weighted_dwell_days"`
	Velocity          decimal.Decimal `json:"velocity"`         // unidades / día de permanencia
	DisplayVelocity   decimal.Decimal `json:"display_velocity"` // redondeada para mostrar
	Forecast          decimal.Decimal `json:"forecast"`         // Velocity × PlanningDays
	MinStock          decimal.Decimal `json:"min_stock"`
	Shortfall         decimal.Decimal `json:"shortfall"` // salidas sin stock en el libro
	RejectedEvents    int             `json:"rejected_events"`
}

// ── Por categoría ─────────────────────────────────────────────────────────────

// CategoryAggregateDTO resumen de una categoría sobre todos los productos de su rama.
type CategoryAggregateDTO struct {
	CategoryID                   string          `json:"category_id"`
	Name                         string          `json:"name"`
	Level                        int             `json:"level"`
	Path                         string          `json:"path"`
	ItemCount                    int64           `json:"item_count"`
	TotalQuantity                decimal.Decimal `json:"total_quantity"`
	AverageProfit                decimal.Decimal `json:"average_profit"`
	AverageVelocity              decimal.Decimal `json:"average_velocity"`
	AverageCombinedProfitability decimal.Decimal `json:"average_combined_profitability"` // promedio de ganancia × velocidad
}

// ── Reporte combinado ─────────────────────────────────────────────────────────

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	LookbackStart string `json:"lookback_start"`
}

// ReportDiagnosticsDTO señales de calidad de datos detectadas durante la corrida.
type ReportDiagnosticsDTO struct {
	RejectedEvents        map[string]int `json:"rejected_events"` // por motivo
	OrphanCategories      []string       `json:"orphan_categories"`
	UnreachableCategories []string       `json:"unreachable_categories"`
	DuplicateCategories   []string       `json:"duplicate_categories"`
	UncategorizedItems    int            `json:"uncategorized_items"`
	SkippedItems          int            `json:"skipped_items"` // sin unidades vendidas
}

// VelocityReportDTO respuesta completa del reporte de velocidad y rentabilidad.
type VelocityReportDTO struct {
	RunID        string                 `json:"run_id"`
	Period       PeriodDTO              `json:"period"`
	LookbackDays int                    `json:"lookback_days"`
	PlanningDays int                    `json:"planning_days"`
	MaxDepth     int                    `json:"max_depth"` // mayor profundidad de ruta entre los productos
	Items        []ItemVelocityDTO      `json:"items"`      // ordenados por ruta de categoría
	Categories   []CategoryAggregateDTO `json:"categories"` // preorden del árbol
	Diagnostics  ReportDiagnosticsDTO   `json:"diagnostics"`
}
