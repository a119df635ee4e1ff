package entity

import "github.com/shopspring/decimal"

// SoldItem resumen de ventas de un producto dentro de la ventana del reporte.
type SoldItem struct {
	ProductID  string
	SKU        string
	Name       string
	CategoryID string // vacío si el producto no tiene categoría
	Quantity   decimal.Decimal
	Profit     decimal.Decimal
}
