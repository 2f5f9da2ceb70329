package handler

import (
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/apierror"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct{ svc service.MediaService }

func NewMediaHandler(svc service.MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// Subir accepts a multipart "file" plus an optional "folder" field.
func (h *MediaHandler) Subir(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo 'file'"))
		return
	}
	if fh.Size > service.MaxImagenBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La imagen supera los 10MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.Subir(c.Request.Context(), c.PostForm("folder"), f)
	if err != nil {
		respondError(c, err, "Error al subir la imagen")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MediaHandler) Eliminar(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el parámetro 'url'"))
		return
	}
	if err := h.svc.EliminarPorURL(c.Request.Context(), raw); err != nil {
		respondError(c, err, "Error al eliminar la imagen")
		return
	}
	c.Status(http.StatusNoContent)
}
