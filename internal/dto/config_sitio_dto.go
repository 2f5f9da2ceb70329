package dto

import "encoding/json"

// GuardarConfigRequest carries the raw value for PUT /v1/config/:clave.
// Typed keys expect a JSON array; any other key accepts a JSON string.
type GuardarConfigRequest struct {
	Valor json.RawMessage `json:"value" validate:"required"`
}

type Amenidad struct {
	Icono       string `json:"icon"        validate:"required"`
	Titulo      string `json:"title"       validate:"required"`
	Descripcion string `json:"description"`
}

type ConfigEntryResponse struct {
	Clave string `json:"key"`
	Valor any    `json:"value"`
}
