package dto

type MediaResponse struct {
	URL         string `json:"url"`
	Clave       string `json:"key"`
	ContentType string `json:"content_type"`
	Ancho       int    `json:"width"`
	Alto        int    `json:"height"`
}
