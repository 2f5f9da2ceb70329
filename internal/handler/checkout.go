package handler

import (
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Generar godoc
// @Summary      Armar pedido por WhatsApp
// @Description  Cotiza el carrito con los precios vigentes y devuelve el enlace wa.me. No guarda nada.
// @Tags         checkout
// @Param        body body dto.CheckoutRequest true "Carrito"
// @Success      200 {object} dto.CheckoutResponse
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Generar(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerarEnlace(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "No se pudo armar el pedido")
		return
	}
	c.JSON(http.StatusOK, resp)
}
