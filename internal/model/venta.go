package model

import (
	"time"

	"github.com/lib/pq"
)

// Estados de venta.
const (
	VentaPendiente  = "Pendiente"
	VentaEnProceso  = "En proceso"
	VentaCompletado = "Completado"
)

// Venta is an order. When Items is non-empty it is the source of truth:
// Total and Resumen are derived from it on every write.
type Venta struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Codigo     string         `gorm:"column:code;type:varchar(20);index;not null"`
	Cliente    string         `gorm:"column:customer;not null"`
	Email      *string        `gorm:"column:email"`
	Telefono   *string        `gorm:"column:phone"`
	Fecha      string         `gorm:"column:date;type:varchar(10);not null;index"` // business date YYYY-MM-DD
	Estado     string         `gorm:"column:status;type:varchar(20);not null;default:'Pendiente'"`
	Total      int64          `gorm:"column:total;not null;default:0"`
	MetodoPago string         `gorm:"column:payment_method"`
	Resumen    pq.StringArray `gorm:"column:items;type:text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at"`

	Items []VentaItem `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

func (Venta) TableName() string { return "sales" }

// VentaItem is one structured line of a Venta.
type VentaItem struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement"`
	VentaID        int64  `gorm:"column:sale_id;index;not null"`
	ProductoID     *int64 `gorm:"column:product_id"`
	NombreProducto string `gorm:"column:product_name;not null"`
	Cantidad       int    `gorm:"column:quantity;not null"`
	PrecioUnitario int64  `gorm:"column:unit_price;not null"`
}

func (VentaItem) TableName() string { return "sale_items" }

// Subtotal is quantity × unit price.
func (i VentaItem) Subtotal() int64 {
	return int64(i.Cantidad) * i.PrecioUnitario
}
