package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
	"github.com/jhoicas/Inventario-velocity/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre ventas facturadas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// ListSoldItems unidades vendidas y ganancia bruta (subtotal - cantidad × costo) por producto.
// Solo facturas emitidas; si se filtra por bodega, la línea debe tener su salida en esa bodega.
func (r *AnalyticsRepo) ListSoldItems(ctx context.Context, filter repository.SoldItemsFilter) ([]entity.SoldItem, error) {
	const query = `
	SELECT
	    p.id::TEXT,
	    p.sku,
	    p.name,
	    COALESCE(p.category_id::TEXT, '')            AS category_id,
	    SUM(d.quantity)                               AS units_sold,
	    SUM(d.subtotal - d.quantity * p.cost)         AS gross_profit
	FROM invoice_details d
	JOIN invoices i ON i.id = d.invoice_id
	JOIN products p ON p.id = d.product_id
	WHERE i.company_id = $1
	  AND i.date BETWEEN $2 AND $3
	  AND i.dian_status NOT IN ('DRAFT', 'ERROR_GENERATION')
	  AND ($4::TEXT[] IS NULL OR cardinality($4::TEXT[]) = 0 OR p.category_id::TEXT = ANY($4::TEXT[]))
	  AND ($5::TEXT = '' OR EXISTS (
	        SELECT 1 FROM inventory_movements m
	        WHERE m.transaction_id = i.id
	          AND m.product_id = p.id
	          AND m.warehouse_id::TEXT = $5::TEXT))
	GROUP BY p.id, p.sku, p.name, p.category_id
	ORDER BY p.name, p.id`

	rows, err := r.q.Query(ctx, query,
		filter.CompanyID, filter.StartDate, filter.EndDate, filter.CategoryIDs, filter.WarehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListSoldItems: %w", err)
	}
	defer rows.Close()

	results := make([]entity.SoldItem, 0)
	for rows.Next() {
		var it entity.SoldItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.CategoryID, &it.Quantity, &it.Profit); err != nil {
			return nil, fmt.Errorf("analytics.ListSoldItems scan: %w", err)
		}
		results = append(results, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.ListSoldItems rows: %w", err)
	}
	return results, nil
}
