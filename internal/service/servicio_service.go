package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Reorder directions.
const (
	DireccionArriba = "arriba"
	DireccionAbajo  = "abajo"
)

type ServicioService interface {
	Crear(ctx context.Context, req dto.GuardarServicioRequest) (*dto.ServicioResponse, error)
	ObtenerPorID(ctx context.Context, id int64) (*dto.ServicioResponse, error)
	Listar(ctx context.Context) ([]dto.ServicioResponse, error)
	Actualizar(ctx context.Context, id int64, req dto.GuardarServicioRequest) (*dto.ServicioResponse, error)
	Eliminar(ctx context.Context, id int64) error
	Mover(ctx context.Context, id int64, direccion string) ([]dto.ServicioResponse, error)
}

type servicioService struct {
	repo repository.ServicioRepository
}

func NewServicioService(repo repository.ServicioRepository) ServicioService {
	return &servicioService{repo: repo}
}

func (s *servicioService) Crear(ctx context.Context, req dto.GuardarServicioRequest) (*dto.ServicioResponse, error) {
	ultimo, err := s.repo.MaxOrden(ctx)
	if err != nil {
		return nil, err
	}
	sv := &model.Servicio{Orden: ultimo + 1}
	aplicarServicio(sv, req)
	if err := s.repo.Create(ctx, sv); err != nil {
		log.Error().Err(err).Str("titulo", sv.Titulo).Msg("servicio: create failed")
		return nil, fmt.Errorf("error al crear el servicio: %w", err)
	}
	resp := mapServicio(sv)
	return &resp, nil
}

func (s *servicioService) ObtenerPorID(ctx context.Context, id int64) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "servicio")
	}
	resp := mapServicio(sv)
	return &resp, nil
}

func (s *servicioService) Listar(ctx context.Context) ([]dto.ServicioResponse, error) {
	servicios, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServicioResponse, len(servicios))
	for i := range servicios {
		resp[i] = mapServicio(&servicios[i])
	}
	return resp, nil
}

func (s *servicioService) Actualizar(ctx context.Context, id int64, req dto.GuardarServicioRequest) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "servicio")
	}
	aplicarServicio(sv, req)
	if err := s.repo.Update(ctx, sv); err != nil {
		log.Error().Err(err).Int64("servicio_id", id).Msg("servicio: update failed")
		return nil, fmt.Errorf("error al actualizar el servicio: %w", err)
	}
	resp := mapServicio(sv)
	return &resp, nil
}

func (s *servicioService) Eliminar(ctx context.Context, id int64) error {
	return traducirNoEncontrado(s.repo.Delete(ctx, id), "servicio")
}

// Mover swaps the display position of a service with its neighbour.
// Moving the first service up (or the last one down) changes nothing.
// Returns the services in their new order.
func (s *servicioService) Mover(ctx context.Context, id int64, direccion string) ([]dto.ServicioResponse, error) {
	if direccion != DireccionArriba && direccion != DireccionAbajo {
		return nil, validacion("dirección inválida: %s", direccion)
	}
	servicios, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range servicios {
		if servicios[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, noEncontrado("servicio")
	}

	vecino := idx - 1
	if direccion == DireccionAbajo {
		vecino = idx + 1
	}
	if vecino < 0 || vecino >= len(servicios) {
		return s.Listar(ctx)
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, c := range nuevoOrden(servicios, idx, vecino) {
			if err := s.repo.UpdateOrdenTx(tx, c.id, c.orden); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int64("servicio_id", id).Msg("servicio: reorder failed")
		return nil, fmt.Errorf("error al reordenar servicios: %w", err)
	}
	return s.Listar(ctx)
}

type cambioOrden struct {
	id    int64
	orden int
}

// nuevoOrden returns the order writes that swap servicios[i] and servicios[j].
// Distinct neighbours just exchange their values. When they share a value the
// whole list is renumbered 1..n in its current order before the swap, so the
// rest of the list keeps its relative position.
func nuevoOrden(servicios []model.Servicio, i, j int) []cambioOrden {
	a, b := servicios[i], servicios[j]
	if a.Orden != b.Orden {
		return []cambioOrden{{a.ID, b.Orden}, {b.ID, a.Orden}}
	}
	var cambios []cambioOrden
	for k, sv := range servicios {
		pos := k + 1
		switch k {
		case i:
			pos = j + 1
		case j:
			pos = i + 1
		}
		if sv.Orden != pos {
			cambios = append(cambios, cambioOrden{sv.ID, pos})
		}
	}
	return cambios
}

func aplicarServicio(sv *model.Servicio, req dto.GuardarServicioRequest) {
	sv.Categoria = req.Categoria
	sv.Titulo = strings.TrimSpace(req.Titulo)
	sv.Descripcion = req.Descripcion
	sv.DescripcionCompleta = req.DescripcionCompleta
	sv.Imagen = req.Imagen
	sv.VideoURL = req.VideoURL

	pasos := make([]model.PasoTimeline, len(req.Timeline))
	for i, p := range req.Timeline {
		pasos[i] = model.PasoTimeline{Imagen: p.Imagen, Titulo: p.Titulo, Descripcion: p.Descripcion}
	}
	sv.Timeline = pasos
	if len(pasos) > 0 {
		// a structured timeline retires the legacy image list
		sv.ImagenesTimeline = nil
	}
}

// TimelineServicio returns the structured timeline, or synthetic steps
// ("Paso N") built from the legacy image list when the timeline is empty.
func TimelineServicio(sv *model.Servicio) []dto.PasoTimelineDTO {
	if len(sv.Timeline) > 0 {
		out := make([]dto.PasoTimelineDTO, len(sv.Timeline))
		for i, p := range sv.Timeline {
			out[i] = dto.PasoTimelineDTO{Imagen: p.Imagen, Titulo: p.Titulo, Descripcion: p.Descripcion}
		}
		return out
	}
	out := make([]dto.PasoTimelineDTO, len(sv.ImagenesTimeline))
	for i, url := range sv.ImagenesTimeline {
		out[i] = dto.PasoTimelineDTO{Imagen: url, Titulo: fmt.Sprintf("Paso %d", i+1)}
	}
	return out
}

func mapServicio(sv *model.Servicio) dto.ServicioResponse {
	return dto.ServicioResponse{
		ID:                  sv.ID,
		Categoria:           sv.Categoria,
		Titulo:              sv.Titulo,
		Descripcion:         sv.Descripcion,
		DescripcionCompleta: sv.DescripcionCompleta,
		Imagen:              sv.Imagen,
		VideoURL:            sv.VideoURL,
		Timeline:            TimelineServicio(sv),
		Orden:               sv.Orden,
	}
}
