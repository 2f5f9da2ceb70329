package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStreamer struct {
	deltas  []string
	fuentes []string
	err     error

	system  string
	history []infra.ChatTurn
	message string
}

func (f *fakeStreamer) StreamChat(_ context.Context, system string, history []infra.ChatTurn, message string, onDelta func(string) error) (*infra.ChatResult, error) {
	f.system, f.history, f.message = system, history, message
	var texto string
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return nil, err
		}
		texto += d
	}
	if f.err != nil {
		return nil, f.err
	}
	return &infra.ChatResult{Texto: texto, Fuentes: f.fuentes}, nil
}

func TestChatService_Responder(t *testing.T) {
	llm := &fakeStreamer{deltas: []string{"Hola", ", ¿en qué te ayudo?"}, fuentes: []string{"https://a.test"}}
	svc := NewChatService(llm, "Tecno Car")

	var recibidos []string
	final, err := svc.Responder(context.Background(), dto.ChatRequest{
		Historial: []dto.MensajeChat{
			{Rol: "user", Texto: "hola"},
			{Rol: "model", Texto: "¡Hola!"},
			{Rol: "assistant", Texto: "¿Qué buscás?"},
		},
		Mensaje: "precio de alarmas",
	}, func(d string) error {
		recibidos = append(recibidos, d)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Hola, ¿en qué te ayudo?", final.Texto)
	assert.Equal(t, []string{"https://a.test"}, final.Fuentes)
	assert.Equal(t, llm.deltas, recibidos)
	assert.Equal(t, "precio de alarmas", llm.message)
	assert.Contains(t, llm.system, "Tecno Car")
	assert.NotContains(t, llm.system, "%s")
	assert.Equal(t, []infra.ChatTurn{
		{Rol: "user", Texto: "hola"},
		{Rol: "assistant", Texto: "¡Hola!"},
		{Rol: "assistant", Texto: "¿Qué buscás?"},
	}, llm.history)
}

func TestChatService_SinFuentesDevuelveListaVacia(t *testing.T) {
	svc := NewChatService(&fakeStreamer{deltas: []string{"ok"}}, "Tecno Car")

	final, err := svc.Responder(context.Background(), dto.ChatRequest{Mensaje: "hola"}, func(string) error { return nil })

	require.NoError(t, err)
	assert.NotNil(t, final.Fuentes)
	assert.Empty(t, final.Fuentes)
}

func TestChatService_FallaDevuelveDisculpa(t *testing.T) {
	svc := NewChatService(&fakeStreamer{err: infra.ErrCircuitOpen}, "Tecno Car")

	final, err := svc.Responder(context.Background(), dto.ChatRequest{Mensaje: "hola"}, func(string) error { return nil })

	assert.ErrorIs(t, err, ErrNoDisponible)
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Equal(t, MensajeDisculpa, final.Texto)
	assert.Empty(t, final.Fuentes)
}

func TestChatService_Cancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewChatService(&fakeStreamer{err: context.Canceled}, "Tecno Car")

	_, err := svc.Responder(ctx, dto.ChatRequest{Mensaje: "hola"}, func(string) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNoDisponible))
}
