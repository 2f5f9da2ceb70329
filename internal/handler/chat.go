package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/middleware"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// SSE event names of the chat stream.
const (
	eventoFragmento = "fragmento"
	eventoFin       = "fin"
)

type ChatHandler struct{ svc service.ChatService }

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Enviar godoc
// @Summary      Chat con el asistente
// @Description  Respuesta en Server-Sent Events: eventos "fragmento" con {texto} y un evento final "fin" con {texto, fuentes}.
// @Tags         chat
// @Param        body body dto.ChatRequest true "Historial y mensaje"
// @Produce      text/event-stream
// @Router       /v1/chat [post]
func (h *ChatHandler) Enviar(c *gin.Context) {
	var req dto.ChatRequest
	if !bindAndValidate(c, &req) {
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	final, err := h.svc.Responder(ctx, req, func(delta string) error {
		c.SSEvent(eventoFragmento, gin.H{"texto": delta})
		c.Writer.Flush()
		return ctx.Err()
	})

	switch {
	case err == nil:
		middleware.ChatRelayTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		middleware.ChatRelayTotal.WithLabelValues("cancelled").Inc()
		return
	default:
		middleware.ChatRelayTotal.WithLabelValues("fallback").Inc()
	}
	c.SSEvent(eventoFin, final)
	c.Writer.Flush()
}
