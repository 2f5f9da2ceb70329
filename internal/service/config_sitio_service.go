package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Typed site configuration keys. Any other key holds plain text.
const (
	ClaveAmenidades      = "about_amenities"
	ClaveGaleriaNosotros = "about_gallery"
	ClaveFiltrosCatalogo = "catalog_filters"
)

var claveValida = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

type ConfigSitioService interface {
	Listar(ctx context.Context) ([]dto.ConfigEntryResponse, error)
	Obtener(ctx context.Context, clave string) (*dto.ConfigEntryResponse, error)
	Guardar(ctx context.Context, clave string, valor json.RawMessage) (*dto.ConfigEntryResponse, error)
	CategoriasPermitidas(ctx context.Context) ([]string, error)
}

type configSitioService struct {
	repo  repository.ConfigSitioRepository
	cache jsonCache
}

func NewConfigSitioService(repo repository.ConfigSitioRepository, rdb *redis.Client, cacheTTL time.Duration) ConfigSitioService {
	return &configSitioService{repo: repo, cache: newJSONCache(rdb, cacheTTL)}
}

func (s *configSitioService) filas(ctx context.Context) ([]model.ConfigSitio, error) {
	var rows []model.ConfigSitio
	if s.cache.get(ctx, cacheKeyConfig, &rows) {
		return rows, nil
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyConfig, rows)
	return rows, nil
}

func (s *configSitioService) Listar(ctx context.Context) ([]dto.ConfigEntryResponse, error) {
	rows, err := s.filas(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ConfigEntryResponse, len(rows))
	for i, r := range rows {
		resp[i] = dto.ConfigEntryResponse{Clave: r.Clave, Valor: decodificarValor(r.Clave, r.Valor)}
	}
	return resp, nil
}

func (s *configSitioService) Obtener(ctx context.Context, clave string) (*dto.ConfigEntryResponse, error) {
	rows, err := s.filas(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.Clave == clave {
			return &dto.ConfigEntryResponse{Clave: r.Clave, Valor: decodificarValor(r.Clave, r.Valor)}, nil
		}
	}
	return nil, noEncontrado("configuración")
}

// Guardar validates valor against the key's type and upserts it.
func (s *configSitioService) Guardar(ctx context.Context, clave string, valor json.RawMessage) (*dto.ConfigEntryResponse, error) {
	if !claveValida.MatchString(clave) {
		return nil, validacion("clave inválida: use minúsculas, números y guion bajo")
	}
	texto, tipado, err := ValidarValorConfig(clave, valor)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, &model.ConfigSitio{Clave: clave, Valor: texto}); err != nil {
		log.Error().Err(err).Str("clave", clave).Msg("config: upsert failed")
		return nil, fmt.Errorf("error al guardar la configuración: %w", err)
	}
	s.cache.del(ctx, cacheKeyConfig)
	return &dto.ConfigEntryResponse{Clave: clave, Valor: tipado}, nil
}

func (s *configSitioService) CategoriasPermitidas(ctx context.Context) ([]string, error) {
	rows, err := s.filas(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	for _, r := range rows {
		if r.Clave != ClaveFiltrosCatalogo {
			continue
		}
		var cats []string
		if err := json.Unmarshal([]byte(r.Valor), &cats); err != nil {
			log.Warn().Err(err).Msg("config: catalog_filters is not a JSON list, ignoring")
			return nil, nil
		}
		return slices.DeleteFunc(cats, func(c string) bool { return c == CategoriaTodos }), nil
	}
	return nil, nil
}

// ValidarValorConfig checks raw against the type of clave and returns the
// text to store plus the decoded value to return to clients.
func ValidarValorConfig(clave string, raw json.RawMessage) (string, any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil, validacion("el valor es obligatorio")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	switch clave {
	case ClaveAmenidades:
		var items []dto.Amenidad
		if err := dec.Decode(&items); err != nil {
			return "", nil, validacion("%s debe ser una lista de {icon, title, description}", clave)
		}
		for i, a := range items {
			if strings.TrimSpace(a.Icono) == "" || strings.TrimSpace(a.Titulo) == "" {
				return "", nil, validacion("%s[%d]: icon y title son obligatorios", clave, i)
			}
		}
		return canonico(items)

	case ClaveGaleriaNosotros:
		var urls []string
		if err := dec.Decode(&urls); err != nil {
			return "", nil, validacion("%s debe ser una lista de URLs", clave)
		}
		for i, u := range urls {
			if !esURLHTTP(u) {
				return "", nil, validacion("%s[%d]: URL inválida", clave, i)
			}
		}
		return canonico(urls)

	case ClaveFiltrosCatalogo:
		var cats []string
		if err := dec.Decode(&cats); err != nil {
			return "", nil, validacion("%s debe ser una lista de categorías", clave)
		}
		limpias := make([]string, 0, len(cats))
		for _, c := range cats {
			c = strings.TrimSpace(c)
			if c == "" {
				return "", nil, validacion("%s no admite categorías vacías", clave)
			}
			if !slices.Contains(limpias, c) {
				limpias = append(limpias, c)
			}
		}
		return canonico(limpias)
	}

	var texto string
	if err := json.Unmarshal(raw, &texto); err != nil {
		return "", nil, validacion("el valor de '%s' debe ser texto", clave)
	}
	return texto, texto, nil
}

// decodificarValor turns stored text back into its typed form. A typed key
// holding malformed JSON falls back to the raw text.
func decodificarValor(clave, texto string) any {
	var dst any
	switch clave {
	case ClaveAmenidades:
		dst = &[]dto.Amenidad{}
	case ClaveGaleriaNosotros, ClaveFiltrosCatalogo:
		dst = &[]string{}
	default:
		return texto
	}
	if err := json.Unmarshal([]byte(texto), dst); err != nil {
		log.Warn().Err(err).Str("clave", clave).Msg("config: stored value is not valid JSON")
		return texto
	}
	switch v := dst.(type) {
	case *[]dto.Amenidad:
		return *v
	case *[]string:
		return *v
	}
	return texto
}

func canonico[T any](v []T) (string, any, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	return string(b), v, nil
}

func esURLHTTP(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
