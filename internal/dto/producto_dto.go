package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre          string   `json:"name"           validate:"required,min=2,max=160"`
	Descripcion     *string  `json:"description"`
	Categoria       string   `json:"category"       validate:"required"`
	Precio          int64    `json:"price"          validate:"min=0"`
	PrecioDescuento *int64   `json:"discount_price" validate:"omitempty,min=0"`
	Stock           int      `json:"stock"          validate:"min=0"`
	Disponible      *bool    `json:"available"`
	Destacado       bool     `json:"featured"`
	Etiquetas       []string `json:"tags"           validate:"dive,required"`
	Imagen          *string  `json:"image"          validate:"omitempty,url"`
	Imagenes        []string `json:"images"         validate:"dive,url"`
}

type ActualizarProductoRequest struct {
	Nombre          *string  `json:"name"           validate:"omitempty,min=2,max=160"`
	Descripcion     *string  `json:"description"`
	Categoria       *string  `json:"category"       validate:"omitempty,min=1"`
	Precio          *int64   `json:"price"          validate:"omitempty,min=0"`
	PrecioDescuento *int64   `json:"discount_price" validate:"omitempty,min=0"`
	// QuitarDescuento clears discount_price (a JSON null cannot be told apart from absence).
	QuitarDescuento bool     `json:"remove_discount"`
	Stock           *int     `json:"stock"          validate:"omitempty,min=0"`
	Disponible      *bool    `json:"available"`
	Destacado       *bool    `json:"featured"`
	Etiquetas       []string `json:"tags"           validate:"omitempty,dive,required"`
	Imagen          *string  `json:"image"          validate:"omitempty,url"`
	Imagenes        []string `json:"images"         validate:"omitempty,dive,url"`
}

// AjustePreciosRequest applies one uniform adjustment to every product.
type AjustePreciosRequest struct {
	Tipo    string          `json:"type"    validate:"required,oneof=percentage amount"`
	Valor   decimal.Decimal `json:"value"   validate:"required,gt=0"`
	Accion  string          `json:"action"  validate:"required,oneof=increase decrease"`
	Preview bool            `json:"preview"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// CatalogoFilter is the public storefront filter. An empty Categoria means "Todos".
type CatalogoFilter struct {
	Categoria string `form:"categoria"`
	PrecioMax *int64 `form:"precio_max" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              int64    `json:"id"`
	Nombre          string   `json:"name"`
	Descripcion     *string  `json:"description"`
	Categoria       string   `json:"category"`
	Precio          int64    `json:"price"`
	PrecioDescuento *int64   `json:"discount_price"`
	PrecioEfectivo  int64    `json:"effective_price"`
	Stock           int      `json:"stock"`
	Disponible      bool     `json:"available"`
	Destacado       bool     `json:"featured"`
	Etiquetas       []string `json:"tags"`
	Imagen          *string  `json:"image"`
	Imagenes        []string `json:"images"`
	CreatedAt       string   `json:"created_at"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type PrecioPreviewItem struct {
	ProductoID       int64  `json:"product_id"`
	Nombre           string `json:"name"`
	PrecioActual     int64  `json:"price_before"`
	PrecioNuevo      int64  `json:"price_after"`
	Diferencia       int64  `json:"difference"`
	DescuentoQuitado *int64 `json:"discount_removed"` // set when the discount price is cleared
}

type AjustePreciosResponse struct {
	Tipo               string              `json:"type"`
	Accion             string              `json:"action"`
	Valor              decimal.Decimal     `json:"value"`
	ProductosAfectados int                 `json:"affected_products"`
	Aplicado           bool                `json:"applied"`
	Detalle            []PrecioPreviewItem `json:"detail"`
}

// ProductoCSVRow is one line of the products CSV export.
type ProductoCSVRow struct {
	ID              int64  `csv:"id"`
	Nombre          string `csv:"name"`
	Categoria       string `csv:"category"`
	Precio          int64  `csv:"price"`
	PrecioDescuento string `csv:"discount_price"`
	Stock           int    `csv:"stock"`
	Disponible      bool   `csv:"available"`
	Destacado       bool   `csv:"featured"`
	Etiquetas       string `csv:"tags"`
}
