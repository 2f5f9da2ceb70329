package dto

import "time"

type CrearTurnoRequest struct {
	ServicioID    int64     `json:"service_id"       validate:"required,min=1"`
	NombreCliente string    `json:"customer_name"    validate:"required,min=2"`
	Telefono      string    `json:"customer_phone"   validate:"required,min=6"`
	Email         *string   `json:"customer_email"   validate:"omitempty,email"`
	Descripcion   *string   `json:"description"`
	Fecha         time.Time `json:"appointment_date" validate:"required"`
}

type ActualizarEstadoTurnoRequest struct {
	Estado string `json:"status" validate:"required,oneof=Pendiente Confirmado Completado Cancelado"`
}

type TurnoFilter struct {
	Estado string `form:"estado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TurnoResponse struct {
	ID             int64   `json:"id"`
	ServicioID     *int64  `json:"service_id"`
	NombreServicio string  `json:"service_name"`
	ImagenServicio string  `json:"service_image"`
	NombreCliente  string  `json:"customer_name"`
	Telefono       string  `json:"customer_phone"`
	Email          *string `json:"customer_email"`
	Descripcion    *string `json:"description"`
	Fecha          string  `json:"appointment_date"`
	Estado         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

type TurnoListResponse struct {
	Data  []TurnoResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
