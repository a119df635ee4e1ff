package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

// SoldItemsFilter criterios para listar los productos vendidos en un período.
type SoldItemsFilter struct {
	CompanyID   string
	WarehouseID string   // vacío = todas las bodegas
	CategoryIDs []string // vacío = todas; ya incluye los descendientes de lo pedido
	StartDate   time.Time
	EndDate     time.Time
}

// AnalyticsRepository consultas de solo lectura sobre ventas del período.
type AnalyticsRepository interface {
	// ListSoldItems devuelve unidades vendidas y ganancia bruta por producto en el período.
	ListSoldItems(ctx context.Context, filter SoldItemsFilter) ([]entity.SoldItem, error)
}
