package repository

import (
	"context"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
)

// CategoryRepository fuente de la jerarquía de categorías (lista plana con referencia al padre).
// Una lectura por reporte; el núcleo no la cachea.
type CategoryRepository interface {
	ListCategories(ctx context.Context, companyID string) ([]entity.Category, error)
}
