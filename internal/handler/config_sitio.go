package handler

import (
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigSitioHandler struct{ svc service.ConfigSitioService }

func NewConfigSitioHandler(svc service.ConfigSitioService) *ConfigSitioHandler {
	return &ConfigSitioHandler{svc: svc}
}

func (h *ConfigSitioHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error al cargar la configuración")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConfigSitioHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("clave"))
	if err != nil {
		respondError(c, err, "Error al cargar la configuración")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Guardar godoc
// @Summary      Guardar una clave de configuración
// @Description  about_amenities, about_gallery y catalog_filters esperan listas JSON; el resto, texto.
// @Tags         config
// @Security     BearerAuth
// @Param        clave path string true "Clave"
// @Param        body  body dto.GuardarConfigRequest true "Valor"
// @Success      200 {object} dto.ConfigEntryResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/config/{clave} [put]
func (h *ConfigSitioHandler) Guardar(c *gin.Context) {
	var req dto.GuardarConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), c.Param("clave"), req.Valor)
	if err != nil {
		respondError(c, err, "Error al guardar la configuración")
		return
	}
	c.JSON(http.StatusOK, resp)
}
