package model

import (
	"time"

	"github.com/lib/pq"
)

// Producto is a catalog item. Prices are whole currency units.
// PrecioDescuento only takes effect when it is strictly lower than Precio.
type Producto struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Nombre          string         `gorm:"column:name;index;not null"`
	Descripcion     *string        `gorm:"column:description"`
	Categoria       string         `gorm:"column:category;index;not null"`
	Precio          int64          `gorm:"column:price;not null"`
	PrecioDescuento *int64         `gorm:"column:discount_price"`
	Stock           int            `gorm:"column:stock;not null;default:0"`
	Disponible      bool           `gorm:"column:available;not null;default:true"`
	Destacado       bool           `gorm:"column:featured;not null;default:false"`
	Etiquetas       pq.StringArray `gorm:"column:tags;type:text[]"`
	// Imagen is the primary image; Imagenes keeps the full ordered gallery.
	Imagen    *string        `gorm:"column:image"`
	Imagenes  pq.StringArray `gorm:"column:images;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (Producto) TableName() string { return "products" }

// PrecioEfectivo returns the price a customer pays.
func (p *Producto) PrecioEfectivo() int64 {
	if p.PrecioDescuento != nil && *p.PrecioDescuento < p.Precio {
		return *p.PrecioDescuento
	}
	return p.Precio
}
