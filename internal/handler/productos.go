package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/middleware"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al crear producto")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Error al listar productos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al obtener producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Error al actualizar producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error al eliminar producto")
		return
	}
	c.Status(http.StatusNoContent)
}

// Catalogo godoc
// @Summary      Catálogo público
// @Description  Productos ordenados por destacados y nombre, filtrados por categoría y precio base máximo.
// @Tags         catalogo
// @Param        categoria  query  string  false  "Categoría (vacío o Todos = todas)"
// @Param        precio_max query  int     false  "Precio base máximo"
// @Success      200 {array} dto.ProductoResponse
// @Router       /v1/catalogo [get]
func (h *ProductosHandler) Catalogo(c *gin.Context) {
	var filter dto.CatalogoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Catalogo(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Error al cargar el catálogo")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Relacionados(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Relacionados(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error al buscar productos relacionados")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarPrecios godoc
// @Summary      Ajuste masivo de precios
// @Description  Aplica un aumento o descuento (porcentaje o monto fijo) a todos los productos. Con preview=true solo calcula.
// @Tags         productos
// @Security     BearerAuth
// @Param        body body dto.AjustePreciosRequest true "Ajuste"
// @Success      200 {object} dto.AjustePreciosResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/productos/precios/masivo [post]
func (h *ProductosHandler) AjustarPrecios(c *gin.Context) {
	var req dto.AjustePreciosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarPrecios(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error al ajustar precios")
		return
	}
	if resp.Aplicado {
		usuario := ""
		if claims := middleware.GetClaims(c); claims != nil {
			usuario = claims.Username
		}
		log.Info().
			Str("usuario", usuario).
			Str("tipo", req.Tipo).
			Str("accion", req.Accion).
			Str("valor", req.Valor.String()).
			Int("productos", resp.ProductosAfectados).
			Msg("ajuste masivo de precios aplicado")
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) HistorialPrecios(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.svc.HistorialPrecios(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err, "Error al obtener historial de precios")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ExportarCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportarCSV(c.Request.Context(), &buf); err != nil {
		respondError(c, err, "Error al exportar productos")
		return
	}
	nombre := "productos-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
