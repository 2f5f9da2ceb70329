package handler

import (
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler {
	return &TurnosHandler{svc: svc}
}

// Crear godoc
// @Summary      Solicitar turno
// @Description  Público. Valida que el servicio exista y avisa al local por e-mail.
// @Tags         turnos
// @Param        body body dto.CrearTurnoRequest true "Turno"
// @Success      201 {object} dto.TurnoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/turnos [post]
func (h *TurnosHandler) Crear(c *gin.Context) {
	var req dto.CrearTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al registrar el turno")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TurnosHandler) Listar(c *gin.Context) {
	var filter dto.TurnoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Error al listar turnos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TurnosHandler) ActualizarEstado(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarEstadoTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarEstado(c.Request.Context(), id, req.Estado); err != nil {
		respondError(c, err, "Error al actualizar el turno")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TurnosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error al eliminar el turno")
		return
	}
	c.Status(http.StatusNoContent)
}
