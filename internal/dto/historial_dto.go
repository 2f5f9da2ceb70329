package dto

import "github.com/shopspring/decimal"

// HistorialPrecioItem is one row in the price-history list.
type HistorialPrecioItem struct {
	ID               int64           `json:"id"`
	ProductoID       int64           `json:"product_id"`
	PrecioAntes      int64           `json:"price_before"`
	PrecioDespues    int64           `json:"price_after"`
	Tipo             string          `json:"type"`
	Accion           string          `json:"action"`
	Valor            decimal.Decimal `json:"value"`
	Motivo           string          `json:"reason"`
	DescuentoQuitado *int64          `json:"discount_removed"`
	CreatedAt        string          `json:"created_at"`
}

// HistorialPrecioListResponse is returned by GET /v1/productos/:id/historial-precios.
type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
