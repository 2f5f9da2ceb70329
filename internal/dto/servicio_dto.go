package dto

type PasoTimelineDTO struct {
	Imagen      string `json:"image"       validate:"omitempty,url"`
	Titulo      string `json:"title"       validate:"required"`
	Descripcion string `json:"description"`
}

type GuardarServicioRequest struct {
	Categoria           string            `json:"category"         validate:"required"`
	Titulo              string            `json:"title"            validate:"required,min=2,max=160"`
	Descripcion         string            `json:"description"      validate:"required"`
	DescripcionCompleta string            `json:"full_description"`
	Imagen              string            `json:"image"            validate:"omitempty,url"`
	VideoURL            *string           `json:"video_url"        validate:"omitempty,url"`
	Timeline            []PasoTimelineDTO `json:"timeline"         validate:"dive"`
}

type MoverServicioRequest struct {
	Direccion string `json:"direccion" validate:"required,oneof=arriba abajo"`
}

type ServicioResponse struct {
	ID                  int64             `json:"id"`
	Categoria           string            `json:"category"`
	Titulo              string            `json:"title"`
	Descripcion         string            `json:"description"`
	DescripcionCompleta string            `json:"full_description"`
	Imagen              string            `json:"image"`
	VideoURL            *string           `json:"video_url"`
	Timeline            []PasoTimelineDTO `json:"timeline"`
	Orden               int               `json:"order"`
}
