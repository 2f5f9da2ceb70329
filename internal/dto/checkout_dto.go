package dto

type ItemCheckoutRequest struct {
	ProductoID int64 `json:"producto_id" validate:"required,min=1"`
	Cantidad   int   `json:"cantidad"    validate:"required,min=1,max=99"`
}

type CheckoutRequest struct {
	Items   []ItemCheckoutRequest `json:"items"   validate:"required,min=1,dive"`
	Cliente string                `json:"cliente" validate:"max=120"`
	Nota    string                `json:"nota"    validate:"max=500"`
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	Total   int64  `json:"total"`
	Mensaje string `json:"mensaje"`
}
