package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
	"github.com/jhoicas/Inventario-velocity/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo lectura del historial de movimientos (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// ListMovements historial de un producto en [from, to] ordenado por fecha ascendente.
//
// La cantidad se entrega con signo: IN positiva, OUT negativa; ADJUSTMENT y TRANSFER se guardan
// ya con signo. Una salida OUT ligada a una factura emitida se reporta como SALE.
func (r *InventoryMovementRepo) ListMovements(
	ctx context.Context,
	companyID, productID, warehouseID string,
	from, to time.Time,
) ([]entity.RawMovement, error) {
	const query = `
	SELECT
	    m.product_id::TEXT,
	    m.warehouse_id::TEXT,
	    m.date,
	    CASE m.type
	        WHEN 'IN'  THEN ABS(m.quantity)
	        WHEN 'OUT' THEN -ABS(m.quantity)
	        ELSE m.quantity
	    END                                                    AS signed_quantity,
	    CASE
	        WHEN m.type = 'OUT' AND i.id IS NOT NULL THEN 'SALE'
	        ELSE m.type
	    END                                                    AS operation_type
	FROM inventory_movements m
	JOIN products p      ON p.id = m.product_id
	LEFT JOIN invoices i ON i.id = m.transaction_id
	                    AND i.company_id = p.company_id
	                    AND i.dian_status NOT IN ('DRAFT', 'ERROR_GENERATION')
	WHERE p.company_id = $1
	  AND m.product_id = $2
	  AND ($3::TEXT = '' OR m.warehouse_id::TEXT = $3::TEXT)
	  AND m.date BETWEEN $4 AND $5
	ORDER BY m.date ASC, m.created_at ASC, m.id ASC`

	rows, err := r.q.Query(ctx, query, companyID, productID, warehouseID, from, to)
	if err != nil {
		return nil, fmt.Errorf("movements.ListMovements: %w", err)
	}
	defer rows.Close()

	list := make([]entity.RawMovement, 0)
	for rows.Next() {
		var m entity.RawMovement
		if err := rows.Scan(&m.ProductID, &m.WarehouseID, &m.Moment, &m.Quantity, &m.OperationType); err != nil {
			return nil, fmt.Errorf("movements.ListMovements scan: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movements.ListMovements rows: %w", err)
	}
	return list, nil
}
