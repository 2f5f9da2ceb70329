package dto

type GuardarPublicacionRequest struct {
	Titulo       string  `json:"title"         validate:"required,min=2"`
	ImagenURL    string  `json:"image_url"     validate:"required,url"`
	Descripcion  *string `json:"description"`
	InstagramURL *string `json:"instagram_url" validate:"omitempty,url"`
	Plataforma   string  `json:"platform"      validate:"required,oneof=instagram facebook"`
}

type PublicacionResponse struct {
	ID           int64   `json:"id"`
	Titulo       string  `json:"title"`
	ImagenURL    string  `json:"image_url"`
	Descripcion  *string `json:"description"`
	InstagramURL *string `json:"instagram_url"`
	Plataforma   string  `json:"platform"`
	CreatedAt    string  `json:"created_at"`
}
