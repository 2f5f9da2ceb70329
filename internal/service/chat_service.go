package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"

	"github.com/rs/zerolog/log"
)

// MensajeDisculpa replaces the reply whenever the model call fails.
const MensajeDisculpa = "Lo siento, tuve un problema al procesar tu consulta. Por favor, intentá de nuevo en unos minutos o escribinos por WhatsApp."

const promptSistema = `Sos el asistente virtual de %s, un local de electrónica y accesorios para autos ` +
	`(audio, alarmas, iluminación LED, cámaras, polarizados e instalaciones). ` +
	`Respondé siempre en español rioplatense, de forma breve y amable. ` +
	`Ayudá a elegir productos, explicá los servicios del taller y orientá sobre turnos. ` +
	`Si no sabés un precio o disponibilidad, sugerí consultar por WhatsApp. ` +
	`No inventes datos técnicos: cuando uses información de la web, citá la fuente.`

// ChatStreamer is the streaming model client used by the relay.
type ChatStreamer interface {
	StreamChat(ctx context.Context, system string, history []infra.ChatTurn, message string, onDelta func(string) error) (*infra.ChatResult, error)
}

type ChatService interface {
	// Responder relays the conversation and calls onDelta for each text
	// fragment. The returned final message is always usable: on failure it
	// holds MensajeDisculpa and err says why.
	Responder(ctx context.Context, req dto.ChatRequest, onDelta func(string) error) (dto.ChatFinal, error)
}

type chatService struct {
	llm    ChatStreamer
	prompt string
}

func NewChatService(llm ChatStreamer, shopName string) ChatService {
	return &chatService{llm: llm, prompt: strings.Replace(promptSistema, "%s", shopName, 1)}
}

func (s *chatService) Responder(ctx context.Context, req dto.ChatRequest, onDelta func(string) error) (dto.ChatFinal, error) {
	historial := make([]infra.ChatTurn, 0, len(req.Historial))
	for _, m := range req.Historial {
		rol := "assistant"
		if m.Rol == "user" {
			rol = "user"
		}
		historial = append(historial, infra.ChatTurn{Rol: rol, Texto: m.Texto})
	}

	res, err := s.llm.StreamChat(ctx, s.prompt, historial, req.Mensaje, onDelta)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return dto.ChatFinal{Texto: MensajeDisculpa, Fuentes: []string{}}, err
		}
		log.Error().Err(err).Int("historial", len(historial)).Msg("chat: relay failed")
		return dto.ChatFinal{Texto: MensajeDisculpa, Fuentes: []string{}}, errors.Join(ErrNoDisponible, err)
	}

	fuentes := res.Fuentes
	if fuentes == nil {
		fuentes = []string{}
	}
	return dto.ChatFinal{Texto: res.Texto, Fuentes: fuentes}, nil
}
