package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

// InventoryMovementRepository fuente de movimientos de inventario por producto.
// Debe devolver todo el historial en [from, to] (incluye el período previo a la ventana),
// preferiblemente ordenado por fecha; el normalizador reordena de forma estable si no lo está.
// warehouseID vacío considera todas las bodegas.
type InventoryMovementRepository interface {
	ListMovements(
		ctx context.Context,
		companyID, productID, warehouseID string,
		from, to time.Time,
	) ([]entity.RawMovement, error)
}
