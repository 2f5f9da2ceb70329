package handler

import (
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ServiciosHandler struct{ svc service.ServicioService }

func NewServiciosHandler(svc service.ServicioService) *ServiciosHandler {
	return &ServiciosHandler{svc: svc}
}

func (h *ServiciosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al listar servicios")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al obtener servicio")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) Crear(c *gin.Context) {
	var req dto.GuardarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al crear servicio")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiciosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.GuardarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Error al actualizar servicio")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error al eliminar servicio")
		return
	}
	c.Status(http.StatusNoContent)
}

// Mover swaps the service with its neighbour and returns the new order.
func (h *ServiciosHandler) Mover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MoverServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Mover(c.Request.Context(), id, req.Direccion)
	if err != nil {
		respondError(c, err, "Error al reordenar servicios")
		return
	}
	c.JSON(http.StatusOK, resp)
}
