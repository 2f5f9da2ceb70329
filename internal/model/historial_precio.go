package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistorialPrecio registra cada cambio de precio aplicado por el ajuste masivo.
// Los registros son inmutables: nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductoID    int64           `gorm:"column:product_id;not null;index"`
	PrecioAntes   int64           `gorm:"column:price_before;not null"`
	PrecioDespues int64           `gorm:"column:price_after;not null"`
	Tipo          string          `gorm:"column:adjustment_type;type:varchar(20);not null"` // percentage | amount
	Accion        string          `gorm:"column:action;type:varchar(20);not null"`          // increase | decrease
	Valor         decimal.Decimal `gorm:"column:value;type:decimal(12,2);not null"`
	Motivo        string          `gorm:"column:reason;not null;default:'ajuste_masivo'"`
	CreatedAt     time.Time       `gorm:"column:created_at"`

	// DescuentoQuitado guarda el precio de descuento que el ajuste dejó sin efecto.
	DescuentoQuitado *int64 `gorm:"column:discount_removed"`
}

func (HistorialPrecio) TableName() string { return "price_history" }
