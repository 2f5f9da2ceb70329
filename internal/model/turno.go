package model

import "time"

// Estados de turno.
const (
	TurnoPendiente  = "Pendiente"
	TurnoConfirmado = "Confirmado"
	TurnoCompletado = "Completado"
	TurnoCancelado  = "Cancelado"
)

// Turno is a customer appointment for a Servicio. ServicioID is a weak
// reference: NombreServicio and ImagenServicio are captured at creation so
// later service edits do not rewrite past appointments.
type Turno struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ServicioID     *int64    `gorm:"column:service_id;index"`
	NombreServicio string    `gorm:"column:service_name"`
	ImagenServicio string    `gorm:"column:service_image"`
	NombreCliente  string    `gorm:"column:customer_name;not null"`
	Telefono       string    `gorm:"column:customer_phone;not null"`
	Email          *string   `gorm:"column:customer_email"`
	Descripcion    *string   `gorm:"column:description"`
	Fecha          time.Time `gorm:"column:appointment_date;not null;index"`
	Estado         string    `gorm:"column:status;type:varchar(20);not null;default:'Pendiente'"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Turno) TableName() string { return "appointments" }
