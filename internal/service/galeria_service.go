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

type GaleriaService interface {
	Crear(ctx context.Context, req dto.GuardarPublicacionRequest) (*dto.PublicacionResponse, error)
	Listar(ctx context.Context) ([]dto.PublicacionResponse, error)
	Actualizar(ctx context.Context, id int64, req dto.GuardarPublicacionRequest) (*dto.PublicacionResponse, error)
	Eliminar(ctx context.Context, id int64) error
}

type galeriaService struct {
	repo  repository.GaleriaRepository
	blobs BlobStore
}

func NewGaleriaService(repo repository.GaleriaRepository, blobs BlobStore) GaleriaService {
	return &galeriaService{repo: repo, blobs: blobs}
}

func (s *galeriaService) Crear(ctx context.Context, req dto.GuardarPublicacionRequest) (*dto.PublicacionResponse, error) {
	p := &model.PublicacionGaleria{}
	aplicarPublicacion(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("error al crear la publicación: %w", err)
	}
	resp := mapPublicacion(p)
	return &resp, nil
}

func (s *galeriaService) Listar(ctx context.Context) ([]dto.PublicacionResponse, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PublicacionResponse, len(posts))
	for i := range posts {
		resp[i] = mapPublicacion(&posts[i])
	}
	return resp, nil
}

func (s *galeriaService) Actualizar(ctx context.Context, id int64, req dto.GuardarPublicacionRequest) (*dto.PublicacionResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "publicación")
	}
	anterior := p.ImagenURL
	aplicarPublicacion(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("error al actualizar la publicación: %w", err)
	}
	if anterior != p.ImagenURL {
		s.borrarImagen(ctx, anterior)
	}
	resp := mapPublicacion(p)
	return &resp, nil
}

// Eliminar removes the post and its stored image.
func (s *galeriaService) Eliminar(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducirNoEncontrado(err, "publicación")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.borrarImagen(ctx, p.ImagenURL)
	return nil
}

// borrarImagen deletes an image that lives in our bucket. External URLs are left alone.
func (s *galeriaService) borrarImagen(ctx context.Context, url string) {
	if s.blobs == nil {
		return
	}
	key, ok := s.blobs.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("galeria: image cleanup failed")
	}
}

func aplicarPublicacion(p *model.PublicacionGaleria, req dto.GuardarPublicacionRequest) {
	p.Titulo = strings.TrimSpace(req.Titulo)
	p.ImagenURL = req.ImagenURL
	p.Descripcion = req.Descripcion
	p.InstagramURL = req.InstagramURL
	p.Plataforma = req.Plataforma
}

func mapPublicacion(p *model.PublicacionGaleria) dto.PublicacionResponse {
	return dto.PublicacionResponse{
		ID:           p.ID,
		Titulo:       p.Titulo,
		ImagenURL:    p.ImagenURL,
		Descripcion:  p.Descripcion,
		InstagramURL: p.InstagramURL,
		Plataforma:   p.Plataforma,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
