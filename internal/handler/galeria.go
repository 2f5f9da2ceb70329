package handler

import (
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type GaleriaHandler struct{ svc service.GaleriaService }

func NewGaleriaHandler(svc service.GaleriaService) *GaleriaHandler {
	return &GaleriaHandler{svc: svc}
}

func (h *GaleriaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al listar publicaciones")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GaleriaHandler) Crear(c *gin.Context) {
	var req dto.GuardarPublicacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al crear publicación")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GaleriaHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.GuardarPublicacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Error al actualizar publicación")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GaleriaHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error al eliminar publicación")
		return
	}
	c.Status(http.StatusNoContent)
}
