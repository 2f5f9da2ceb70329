package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

type TurnoService interface {
	Crear(ctx context.Context, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error)
	Listar(ctx context.Context, filter dto.TurnoFilter) (*dto.TurnoListResponse, error)
	ActualizarEstado(ctx context.Context, id int64, estado string) error
	Eliminar(ctx context.Context, id int64) error
}

type turnoService struct {
	repo        repository.TurnoRepository
	servicios   repository.ServicioRepository
	notificador Notificador
	shopName    string
}

func NewTurnoService(repo repository.TurnoRepository, servicios repository.ServicioRepository, notificador Notificador, shopName string) TurnoService {
	return &turnoService{repo: repo, servicios: servicios, notificador: notificador, shopName: shopName}
}

// Crear books an appointment. The service's title and image are copied onto
// the appointment so later edits to the service do not rewrite it.
func (s *turnoService) Crear(ctx context.Context, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error) {
	if req.Fecha.IsZero() {
		return nil, validacion("la fecha del turno es obligatoria")
	}
	sv, err := s.servicios.FindByID(ctx, req.ServicioID)
	if err != nil {
		return nil, traducirNoEncontrado(err, "servicio")
	}

	servicioID := sv.ID
	t := &model.Turno{
		ServicioID:     &servicioID,
		NombreServicio: sv.Titulo,
		ImagenServicio: sv.Imagen,
		NombreCliente:  strings.TrimSpace(req.NombreCliente),
		Telefono:       strings.TrimSpace(req.Telefono),
		Email:          req.Email,
		Descripcion:    req.Descripcion,
		Fecha:          req.Fecha,
		Estado:         model.TurnoPendiente,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		log.Error().Err(err).Int64("servicio_id", servicioID).Msg("turno: create failed")
		return nil, fmt.Errorf("error al registrar el turno: %w", err)
	}

	if s.notificador != nil {
		if err := s.notificador.NotificarTurno(ctx, t.ID); err != nil {
			log.Warn().Err(err).Int64("turno_id", t.ID).Msg("turno: notification not queued")
		}
	}
	resp := mapTurno(t)
	return &resp, nil
}

func (s *turnoService) Listar(ctx context.Context, filter dto.TurnoFilter) (*dto.TurnoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	turnos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TurnoResponse, len(turnos))
	for i := range turnos {
		data[i] = mapTurno(&turnos[i])
	}
	return &dto.TurnoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *turnoService) ActualizarEstado(ctx context.Context, id int64, estado string) error {
	switch estado {
	case model.TurnoPendiente, model.TurnoConfirmado, model.TurnoCompletado, model.TurnoCancelado:
	default:
		return validacion("estado de turno inválido: %s", estado)
	}
	if err := s.repo.UpdateEstado(ctx, id, estado); err != nil {
		return traducirNoEncontrado(err, "turno")
	}
	if estado == model.TurnoConfirmado {
		s.avisarConfirmacion(ctx, id)
	}
	return nil
}

// avisarConfirmacion emails the customer when they left an address.
// The status change stands even if the email cannot be queued.
func (s *turnoService) avisarConfirmacion(ctx context.Context, id int64) {
	if s.notificador == nil {
		return
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil || t.Email == nil || *t.Email == "" {
		return
	}
	asunto := fmt.Sprintf("Tu turno en %s está confirmado", s.shopName)
	cuerpo := fmt.Sprintf("Hola %s,\n\nConfirmamos tu turno para %s el %s.\n\nTe esperamos en %s.",
		t.NombreCliente, t.NombreServicio, t.Fecha.Format("02/01/2006 15:04"), s.shopName)
	if err := s.notificador.EnviarEmail(ctx, *t.Email, asunto, cuerpo); err != nil {
		log.Warn().Err(err).Int64("turno_id", id).Msg("turno: confirmation email not queued")
	}
}

func (s *turnoService) Eliminar(ctx context.Context, id int64) error {
	return traducirNoEncontrado(s.repo.Delete(ctx, id), "turno")
}

func mapTurno(t *model.Turno) dto.TurnoResponse {
	return dto.TurnoResponse{
		ID:             t.ID,
		ServicioID:     t.ServicioID,
		NombreServicio: t.NombreServicio,
		ImagenServicio: t.ImagenServicio,
		NombreCliente:  t.NombreCliente,
		Telefono:       t.Telefono,
		Email:          t.Email,
		Descripcion:    t.Descripcion,
		Fecha:          t.Fecha.Format(time.RFC3339),
		Estado:         t.Estado,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}
