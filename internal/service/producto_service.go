package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id int64) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id int64, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id int64) error

	// Public storefront
	Catalogo(ctx context.Context, filter dto.CatalogoFilter) ([]dto.ProductoResponse, error)
	Relacionados(ctx context.Context, id int64) ([]dto.ProductoResponse, error)

	AjustarPrecios(ctx context.Context, req dto.AjustePreciosRequest) (*dto.AjustePreciosResponse, error)
	HistorialPrecios(ctx context.Context, id int64, page, limit int) (*dto.HistorialPrecioListResponse, error)
	ExportarCSV(ctx context.Context, w io.Writer) error
}

// BlobStore is the object storage used for product, service and gallery images.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, keys ...string) error
	KeyFromURL(raw string) (string, bool)
	NewKey(folder, ext string) string
}

// CategoriasProvider returns the configured category allow-list (empty = any).
type CategoriasProvider interface {
	CategoriasPermitidas(ctx context.Context) ([]string, error)
}

type productoService struct {
	repo       repository.ProductoRepository
	historial  repository.HistorialPrecioRepository
	cache      jsonCache
	blobs      BlobStore
	categorias CategoriasProvider
}

func NewProductoService(
	repo repository.ProductoRepository,
	historial repository.HistorialPrecioRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	blobs BlobStore,
	categorias CategoriasProvider,
) ProductoService {
	return &productoService{
		repo:       repo,
		historial:  historial,
		cache:      newJSONCache(rdb, cacheTTL),
		blobs:      blobs,
		categorias: categorias,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarDescuento(req.Precio, req.PrecioDescuento); err != nil {
		return nil, err
	}
	if err := s.validarCategoria(ctx, req.Categoria); err != nil {
		return nil, err
	}

	disponible := true
	if req.Disponible != nil {
		disponible = *req.Disponible
	}
	p := &model.Producto{
		Nombre:          strings.TrimSpace(req.Nombre),
		Descripcion:     req.Descripcion,
		Categoria:       req.Categoria,
		Precio:          req.Precio,
		PrecioDescuento: req.PrecioDescuento,
		Stock:           req.Stock,
		Disponible:      disponible,
		Destacado:       req.Destacado,
		Etiquetas:       normalizarEtiquetas(req.Etiquetas),
		Imagen:          req.Imagen,
		Imagenes:        req.Imagenes,
	}
	completarImagenPrincipal(p)

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Str("nombre", p.Nombre).Msg("producto: create failed")
		return nil, fmt.Errorf("error al crear producto: %w", err)
	}
	s.cache.del(ctx, cacheKeyCatalogo)
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id int64) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "producto")
	}
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = mapProducto(&productos[i])
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id int64, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "producto")
	}

	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != nil && *req.Categoria != p.Categoria {
		if err := s.validarCategoria(ctx, *req.Categoria); err != nil {
			return nil, err
		}
		p.Categoria = *req.Categoria
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.QuitarDescuento {
		p.PrecioDescuento = nil
	} else if req.PrecioDescuento != nil {
		p.PrecioDescuento = req.PrecioDescuento
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Disponible != nil {
		p.Disponible = *req.Disponible
	}
	if req.Destacado != nil {
		p.Destacado = *req.Destacado
	}
	if req.Etiquetas != nil {
		p.Etiquetas = normalizarEtiquetas(req.Etiquetas)
	}
	if req.Imagenes != nil {
		p.Imagenes = req.Imagenes
	}
	if req.Imagen != nil {
		p.Imagen = req.Imagen
	}
	completarImagenPrincipal(p)

	if req.Precio != nil || req.PrecioDescuento != nil {
		if err := validarDescuento(p.Precio, p.PrecioDescuento); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error().Err(err).Int64("producto_id", id).Msg("producto: update failed")
		return nil, fmt.Errorf("error al actualizar producto: %w", err)
	}
	s.cache.del(ctx, cacheKeyCatalogo)
	resp := mapProducto(p)
	return &resp, nil
}

// Eliminar deletes the product row and then its stored images.
// Image deletion failures are logged, the product stays deleted.
func (s *productoService) Eliminar(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return traducirNoEncontrado(err, "producto")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return traducirNoEncontrado(err, "producto")
	}
	s.cache.del(ctx, cacheKeyCatalogo)

	if s.blobs == nil {
		return nil
	}
	urls := slices.Clone([]string(p.Imagenes))
	if p.Imagen != nil && !slices.Contains(urls, *p.Imagen) {
		urls = append(urls, *p.Imagen)
	}

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.SetLimit(4)
	for _, u := range urls {
		key, ok := s.blobs.KeyFromURL(u)
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := s.blobs.Delete(gctx, key); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Int64("producto_id", id).Msg("producto: image cleanup incomplete")
	}
	return nil
}

// catalogoCompleto returns every product in storefront order, from cache when possible.
func (s *productoService) catalogoCompleto(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	if s.cache.get(ctx, cacheKeyCatalogo, &productos) {
		return productos, nil
	}
	productos, err := s.repo.ListCatalogo(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyCatalogo, productos)
	return productos, nil
}

func (s *productoService) Catalogo(ctx context.Context, filter dto.CatalogoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.catalogoCompleto(ctx)
	if err != nil {
		return nil, err
	}
	filtrados := FiltrarCatalogo(productos, filter.Categoria, filter.PrecioMax)
	resp := make([]dto.ProductoResponse, len(filtrados))
	for i := range filtrados {
		resp[i] = mapProducto(&filtrados[i])
	}
	return resp, nil
}

func (s *productoService) Relacionados(ctx context.Context, id int64) ([]dto.ProductoResponse, error) {
	productos, err := s.catalogoCompleto(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(productos, func(p model.Producto) bool { return p.ID == id })
	if idx < 0 {
		return nil, noEncontrado("producto")
	}
	ranking := Relacionados(productos[idx], productos)
	resp := make([]dto.ProductoResponse, len(ranking))
	for i := range ranking {
		resp[i] = mapProducto(&ranking[i].Producto)
	}
	return resp, nil
}

// AjustarPrecios applies one adjustment to every product. In preview mode
// nothing is written. A batch that would leave any price below zero is
// rejected as a whole. Discounts the new price no longer exceeds are cleared
// in the same transaction and noted in the history row.
func (s *productoService) AjustarPrecios(ctx context.Context, req dto.AjustePreciosRequest) (*dto.AjustePreciosResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, validacion("el valor del ajuste debe ser mayor a cero")
	}
	productos, err := s.repo.ListCatalogo(ctx)
	if err != nil {
		return nil, err
	}

	cambios := CalcularAjuste(productos, req.Tipo, req.Accion, req.Valor)
	resp := &dto.AjustePreciosResponse{
		Tipo:               req.Tipo,
		Accion:             req.Accion,
		Valor:              req.Valor,
		ProductosAfectados: len(cambios),
		Detalle:            make([]dto.PrecioPreviewItem, len(cambios)),
	}
	negativos := 0
	for i, c := range cambios {
		resp.Detalle[i] = dto.PrecioPreviewItem{
			ProductoID:       c.ProductoID,
			Nombre:           c.Nombre,
			PrecioActual:     c.Antes,
			PrecioNuevo:      c.Despues,
			Diferencia:       c.Despues - c.Antes,
			DescuentoQuitado: c.DescuentoQuitado,
		}
		if c.Despues < 0 {
			negativos++
		}
	}
	if negativos > 0 {
		return nil, validacion("el ajuste dejaría %d producto(s) con precio negativo", negativos)
	}
	if req.Preview {
		return resp, nil
	}

	historial := make([]model.HistorialPrecio, 0, len(cambios))
	for _, c := range cambios {
		historial = append(historial, model.HistorialPrecio{
			ProductoID:       c.ProductoID,
			PrecioAntes:      c.Antes,
			PrecioDespues:    c.Despues,
			Tipo:             req.Tipo,
			Accion:           req.Accion,
			Valor:            req.Valor,
			Motivo:           "ajuste_masivo",
			DescuentoQuitado: c.DescuentoQuitado,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, c := range cambios {
			if err := s.repo.UpdatePrecioTx(tx, c.ProductoID, c.Despues); err != nil {
				return fmt.Errorf("producto %d: %w", c.ProductoID, err)
			}
			if c.DescuentoQuitado == nil {
				continue
			}
			if err := s.repo.QuitarDescuentoTx(tx, c.ProductoID); err != nil {
				return fmt.Errorf("producto %d: %w", c.ProductoID, err)
			}
		}
		return s.historial.CreateBatchTx(tx, historial)
	})
	if err != nil {
		log.Error().Err(err).Str("tipo", req.Tipo).Str("accion", req.Accion).Msg("producto: bulk price update failed")
		return nil, fmt.Errorf("error al aplicar el ajuste de precios: %w", err)
	}
	s.cache.del(ctx, cacheKeyCatalogo)

	log.Info().
		Int("productos", len(cambios)).
		Str("tipo", req.Tipo).
		Str("accion", req.Accion).
		Str("valor", req.Valor.String()).
		Msg("producto: bulk price update applied")
	resp.Aplicado = true
	return resp, nil
}

func (s *productoService) HistorialPrecios(ctx context.Context, id int64, page, limit int) (*dto.HistorialPrecioListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, traducirNoEncontrado(err, "producto")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, total, err := s.historial.ListByProducto(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistorialPrecioItem, len(rows))
	for i, r := range rows {
		data[i] = dto.HistorialPrecioItem{
			ID:               r.ID,
			ProductoID:       r.ProductoID,
			PrecioAntes:      r.PrecioAntes,
			PrecioDespues:    r.PrecioDespues,
			Tipo:             r.Tipo,
			Accion:           r.Accion,
			Valor:            r.Valor,
			Motivo:           r.Motivo,
			DescuentoQuitado: r.DescuentoQuitado,
			CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		}
	}
	return &dto.HistorialPrecioListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *productoService) ExportarCSV(ctx context.Context, w io.Writer) error {
	productos, err := s.repo.ListCatalogo(ctx)
	if err != nil {
		return err
	}
	rows := make([]dto.ProductoCSVRow, len(productos))
	for i, p := range productos {
		descuento := ""
		if p.PrecioDescuento != nil {
			descuento = strconv.FormatInt(*p.PrecioDescuento, 10)
		}
		rows[i] = dto.ProductoCSVRow{
			ID:              p.ID,
			Nombre:          p.Nombre,
			Categoria:       p.Categoria,
			Precio:          p.Precio,
			PrecioDescuento: descuento,
			Stock:           p.Stock,
			Disponible:      p.Disponible,
			Destacado:       p.Destacado,
			Etiquetas:       strings.Join(p.Etiquetas, "|"),
		}
	}
	return gocsv.Marshal(rows, w)
}

func (s *productoService) validarCategoria(ctx context.Context, categoria string) error {
	if categoria == CategoriaTodos {
		return validacion("'%s' no es una categoría válida para un producto", categoria)
	}
	if s.categorias == nil {
		return nil
	}
	permitidas, err := s.categorias.CategoriasPermitidas(ctx)
	if err != nil {
		return err
	}
	if len(permitidas) > 0 && !slices.Contains(permitidas, categoria) {
		return validacion("categoría '%s' no habilitada", categoria)
	}
	return nil
}

func validarDescuento(precio int64, descuento *int64) error {
	if descuento == nil {
		return nil
	}
	if *descuento < 0 {
		return validacion("el precio de descuento no puede ser negativo")
	}
	if *descuento >= precio {
		return validacion("el precio de descuento debe ser menor al precio")
	}
	return nil
}

// normalizarEtiquetas trims, drops empties and removes duplicates keeping order.
func normalizarEtiquetas(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// completarImagenPrincipal makes the first gallery image primary when none is set.
func completarImagenPrincipal(p *model.Producto) {
	if (p.Imagen == nil || *p.Imagen == "") && len(p.Imagenes) > 0 {
		primera := p.Imagenes[0]
		p.Imagen = &primera
	}
}

func mapProducto(p *model.Producto) dto.ProductoResponse {
	etiquetas := []string(p.Etiquetas)
	if etiquetas == nil {
		etiquetas = []string{}
	}
	imagenes := []string(p.Imagenes)
	if imagenes == nil {
		imagenes = []string{}
	}
	return dto.ProductoResponse{
		ID:              p.ID,
		Nombre:          p.Nombre,
		Descripcion:     p.Descripcion,
		Categoria:       p.Categoria,
		Precio:          p.Precio,
		PrecioDescuento: p.PrecioDescuento,
		PrecioEfectivo:  p.PrecioEfectivo(),
		Stock:           p.Stock,
		Disponible:      p.Disponible,
		Destacado:       p.Destacado,
		Etiquetas:       etiquetas,
		Imagen:          p.Imagen,
		Imagenes:        imagenes,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
