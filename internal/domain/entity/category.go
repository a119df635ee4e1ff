package entity

// Category representa una categoría de productos (jerárquica opcional).
type Category struct {
	ID        string
	CompanyID string
	ParentID  string // vacío si es raíz
	Name      string
}

// MinStockRule mínimo manual configurado para una categoría; aplica a todos sus descendientes.
type MinStockRule struct {
	CategoryID string
	MinStock   int64
}
