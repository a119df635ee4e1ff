package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
	"github.com/jhoicas/Inventario-velocity/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo catálogo de categorías de productos.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// ListCategories todas las categorías de la empresa. ParentID vacío para las raíces.
// No valida la jerarquía; huérfanas o ciclos se resuelven al construir el árbol.
func (r *CategoryRepo) ListCategories(ctx context.Context, companyID string) ([]entity.Category, error) {
	const query = `
	SELECT id::TEXT, company_id::TEXT, COALESCE(parent_id::TEXT, ''), name
	FROM categories
	WHERE company_id = $1
	ORDER BY name, id`

	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("categories.ListCategories: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.ParentID, &c.Name); err != nil {
			return nil, fmt.Errorf("categories.ListCategories scan: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categories.ListCategories rows: %w", err)
	}
	return list, nil
}
