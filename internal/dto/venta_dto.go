package dto

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Estado string `form:"estado"` // Pendiente | En proceso | Completado; empty = all
	Desde  string `form:"desde"  validate:"omitempty,datetime=2006-01-02"`
	Hasta  string `form:"hasta"  validate:"omitempty,datetime=2006-01-02"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID     *int64 `json:"product_id"`
	NombreProducto string `json:"product_name" validate:"required"`
	Cantidad       int    `json:"quantity"     validate:"required,min=1"`
	PrecioUnitario int64  `json:"unit_price"   validate:"min=0"`
}

// GuardarVentaRequest is used both to create and to fully replace a sale.
// When Items is non-empty, Total and Resumen are derived from it and ignored.
type GuardarVentaRequest struct {
	Cliente    string             `json:"customer"       validate:"required,min=1"`
	Email      *string            `json:"email"          validate:"omitempty,email"`
	Telefono   *string            `json:"phone"`
	Fecha      string             `json:"date"           validate:"required,datetime=2006-01-02"`
	Estado     string             `json:"status"         validate:"omitempty,oneof=Pendiente 'En proceso' Completado"`
	MetodoPago string             `json:"payment_method" validate:"required"`
	Total      int64              `json:"total"          validate:"min=0"`
	Resumen    []string           `json:"items"`
	Items      []ItemVentaRequest `json:"sale_items"     validate:"dive"`
}

type ActualizarEstadoVentaRequest struct {
	Estado string `json:"status" validate:"required,oneof=Pendiente 'En proceso' Completado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ID             int64  `json:"id"`
	ProductoID     *int64 `json:"product_id"`
	NombreProducto string `json:"product_name"`
	Cantidad       int    `json:"quantity"`
	PrecioUnitario int64  `json:"unit_price"`
	Subtotal       int64  `json:"subtotal"`
}

type VentaResponse struct {
	ID         int64               `json:"id"`
	Codigo     string              `json:"code"`
	Cliente    string              `json:"customer"`
	Email      *string             `json:"email"`
	Telefono   *string             `json:"phone"`
	Fecha      string              `json:"date"`
	Estado     string              `json:"status"`
	Total      int64               `json:"total"`
	MetodoPago string              `json:"payment_method"`
	Resumen    []string            `json:"items"`
	Items      []ItemVentaResponse `json:"sale_items"`
	CreatedAt  string              `json:"created_at"`
}

// VentaCSVRow is one line of the sales CSV export.
type VentaCSVRow struct {
	Codigo     string `csv:"code"`
	Fecha      string `csv:"date"`
	Cliente    string `csv:"customer"`
	Estado     string `csv:"status"`
	MetodoPago string `csv:"payment_method"`
	Total      int64  `csv:"total"`
	Resumen    string `csv:"items"`
}
