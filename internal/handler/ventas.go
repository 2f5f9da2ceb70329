package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar pedido
// @Description  Con sale_items el total y el resumen se calculan; sin ellos se toman tal cual. Pedido e ítems se guardan en una transacción.
// @Tags         ventas
// @Security     BearerAuth
// @Param        body body dto.GuardarVentaRequest true "Pedido"
// @Success      201 {object} dto.VentaResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.GuardarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al registrar el pedido")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.GuardarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Error al actualizar el pedido")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ActualizarEstado(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarEstadoVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarEstado(c.Request.Context(), id, req.Estado); err != nil {
		respondError(c, err, "Error al actualizar el estado")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error al eliminar el pedido")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al obtener el pedido")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Error al listar pedidos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ExportarCSV(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportarCSV(c.Request.Context(), filter, &buf); err != nil {
		respondError(c, err, "Error al exportar pedidos")
		return
	}
	nombre := "ventas-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Comprobante returns the PDF receipt of a sale.
func (h *VentasHandler) Comprobante(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	codigo, pdf, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al generar el comprobante")
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+codigo+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
