package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"slices"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

// MaxImagenBytes caps uploads at 10MB.
const MaxImagenBytes int64 = 10 << 20

// CarpetasMedia are the folders an upload may target.
var CarpetasMedia = []string{"products", "services", "gallery", "about", "uploads"}

var formatosImagen = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
}

type MediaService interface {
	Subir(ctx context.Context, carpeta string, r io.Reader) (*dto.MediaResponse, error)
	EliminarPorURL(ctx context.Context, rawURL string) error
}

type mediaService struct {
	blobs BlobStore
}

func NewMediaService(blobs BlobStore) MediaService {
	return &mediaService{blobs: blobs}
}

func (s *mediaService) Subir(ctx context.Context, carpeta string, r io.Reader) (*dto.MediaResponse, error) {
	if carpeta == "" {
		carpeta = "uploads"
	}
	if !slices.Contains(CarpetasMedia, carpeta) {
		return nil, validacion("carpeta '%s' no permitida", carpeta)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImagenBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error al leer el archivo: %w", err)
	}
	if len(data) == 0 {
		return nil, validacion("el archivo está vacío")
	}
	if int64(len(data)) > MaxImagenBytes {
		return nil, validacion("la imagen supera los 10MB")
	}

	contentType := http.DetectContentType(data)
	esperado, ok := formatosImagen[contentType]
	if !ok {
		return nil, validacion("tipo de imagen no soportado: %s", contentType)
	}
	cfg, formato, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || formato != esperado {
		return nil, validacion("la imagen no es válida")
	}

	ext := formato
	if formato == "jpeg" {
		ext = "jpg"
	}
	key := s.blobs.NewKey(carpeta, ext)
	url, err := s.blobs.Upload(ctx, key, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("media: upload failed")
		return nil, errors.Join(ErrAlmacenamiento, err)
	}
	return &dto.MediaResponse{
		URL:         url,
		Clave:       key,
		ContentType: contentType,
		Ancho:       cfg.Width,
		Alto:        cfg.Height,
	}, nil
}

func (s *mediaService) EliminarPorURL(ctx context.Context, rawURL string) error {
	key, ok := s.blobs.KeyFromURL(rawURL)
	if !ok {
		return validacion("la URL no pertenece al almacenamiento de imágenes")
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("media: delete failed")
		return errors.Join(ErrAlmacenamiento, err)
	}
	return nil
}
