package dto

type MensajeChat struct {
	Rol   string `json:"role" validate:"required,oneof=user model assistant"`
	Texto string `json:"text" validate:"required"`
}

type ChatRequest struct {
	Historial []MensajeChat `json:"history" validate:"max=40,dive"`
	Mensaje   string        `json:"message" validate:"required,min=1,max=2000"`
}

// ChatFinal is the payload of the terminal "fin" SSE event.
type ChatFinal struct {
	Texto   string   `json:"texto"`
	Fuentes []string `json:"fuentes"`
}
