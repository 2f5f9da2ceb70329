package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// VentaService manages orders and their structured line items.
type VentaService interface {
	Crear(ctx context.Context, req dto.GuardarVentaRequest) (*dto.VentaResponse, error)
	Actualizar(ctx context.Context, id int64, req dto.GuardarVentaRequest) (*dto.VentaResponse, error)
	ActualizarEstado(ctx context.Context, id int64, estado string) error
	Eliminar(ctx context.Context, id int64) error
	ObtenerPorID(ctx context.Context, id int64) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	ExportarCSV(ctx context.Context, filter dto.VentaFilter, w io.Writer) error
	Comprobante(ctx context.Context, id int64) (codigo string, pdf []byte, err error)
}

// Notificador queues notification emails. *worker.Dispatcher satisfies it.
type Notificador interface {
	NotificarVenta(ctx context.Context, ventaID int64) error
	NotificarTurno(ctx context.Context, turnoID int64) error
	EnviarEmail(ctx context.Context, to, asunto, cuerpo string) error
}

type ventaService struct {
	repo        repository.VentaRepository
	notificador Notificador
	shopName    string
}

func NewVentaService(repo repository.VentaRepository, notificador Notificador, shopName string) VentaService {
	return &ventaService{repo: repo, notificador: notificador, shopName: shopName}
}

// ── Crear / Actualizar ──────────────────────────────────────────────────────
// With structured items, total and the text summary are derived from them;
// otherwise the manually entered values are kept. Header and items are
// written in one transaction.

func (s *ventaService) Crear(ctx context.Context, req dto.GuardarVentaRequest) (*dto.VentaResponse, error) {
	venta := &model.Venta{Codigo: GenerarCodigoVenta(), Estado: model.VentaPendiente}
	if err := aplicarVenta(venta, req); err != nil {
		return nil, err
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, venta)
	})
	if err != nil {
		log.Error().Err(err).Str("codigo", venta.Codigo).Msg("venta: create failed")
		return nil, fmt.Errorf("error al crear la venta: %w", err)
	}

	if s.notificador != nil {
		if err := s.notificador.NotificarVenta(ctx, venta.ID); err != nil {
			// the sale is stored; only the email is lost
			log.Warn().Err(err).Int64("venta_id", venta.ID).Msg("venta: notification not queued")
		}
	}

	resp := mapVenta(venta)
	return &resp, nil
}

func (s *ventaService) Actualizar(ctx context.Context, id int64, req dto.GuardarVentaRequest) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "venta")
	}
	if err := aplicarVenta(venta, req); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Replace(ctx, tx, venta)
	})
	if err != nil {
		log.Error().Err(err).Int64("venta_id", id).Msg("venta: update failed")
		return nil, fmt.Errorf("error al actualizar la venta: %w", err)
	}
	resp := mapVenta(venta)
	return &resp, nil
}

// aplicarVenta copies req onto v and derives totals.
func aplicarVenta(v *model.Venta, req dto.GuardarVentaRequest) error {
	if _, err := time.Parse(time.DateOnly, req.Fecha); err != nil {
		return validacion("fecha inválida: use AAAA-MM-DD")
	}
	v.Cliente = strings.TrimSpace(req.Cliente)
	v.Email = req.Email
	v.Telefono = req.Telefono
	v.Fecha = req.Fecha
	v.MetodoPago = req.MetodoPago
	if req.Estado != "" {
		v.Estado = req.Estado
	}

	items := make([]model.VentaItem, len(req.Items))
	for i, it := range req.Items {
		if it.Cantidad < 1 {
			return validacion("la cantidad de '%s' debe ser al menos 1", it.NombreProducto)
		}
		if it.PrecioUnitario < 0 {
			return validacion("el precio de '%s' no puede ser negativo", it.NombreProducto)
		}
		items[i] = model.VentaItem{
			ProductoID:     it.ProductoID,
			NombreProducto: strings.TrimSpace(it.NombreProducto),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
	}
	v.Items = items

	if total, resumen, ok := TotalesVenta(items); ok {
		v.Total = total
		v.Resumen = resumen
		return nil
	}
	if req.Total < 0 {
		return validacion("el total no puede ser negativo")
	}
	v.Total = req.Total
	v.Resumen = req.Resumen
	return nil
}

func (s *ventaService) ActualizarEstado(ctx context.Context, id int64, estado string) error {
	switch estado {
	case model.VentaPendiente, model.VentaEnProceso, model.VentaCompletado:
	default:
		return validacion("estado de venta inválido: %s", estado)
	}
	if err := s.repo.UpdateEstado(ctx, id, estado); err != nil {
		return traducirNoEncontrado(err, "venta")
	}
	return nil
}

func (s *ventaService) Eliminar(ctx context.Context, id int64) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, id)
	})
	return traducirNoEncontrado(err, "venta")
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id int64) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducirNoEncontrado(err, "venta")
	}
	resp := mapVenta(venta)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		data[i] = mapVenta(&ventas[i])
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *ventaService) ExportarCSV(ctx context.Context, filter dto.VentaFilter, w io.Writer) error {
	ventas, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return err
	}
	rows := make([]dto.VentaCSVRow, len(ventas))
	for i, v := range ventas {
		rows[i] = dto.VentaCSVRow{
			Codigo:     v.Codigo,
			Fecha:      v.Fecha,
			Cliente:    v.Cliente,
			Estado:     v.Estado,
			MetodoPago: v.MetodoPago,
			Total:      v.Total,
			Resumen:    strings.Join(v.Resumen, "; "),
		}
	}
	return gocsv.Marshal(rows, w)
}

func (s *ventaService) Comprobante(ctx context.Context, id int64) (string, []byte, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", nil, traducirNoEncontrado(err, "venta")
	}
	pdf, err := infra.GenerateVentaPDF(venta, s.shopName)
	if err != nil {
		return "", nil, err
	}
	return venta.Codigo, pdf, nil
}

func mapVenta(v *model.Venta) dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = dto.ItemVentaResponse{
			ID:             it.ID,
			ProductoID:     it.ProductoID,
			NombreProducto: it.NombreProducto,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal(),
		}
	}
	resumen := []string(v.Resumen)
	if resumen == nil {
		resumen = []string{}
	}
	return dto.VentaResponse{
		ID:         v.ID,
		Codigo:     v.Codigo,
		Cliente:    v.Cliente,
		Email:      v.Email,
		Telefono:   v.Telefono,
		Fecha:      v.Fecha,
		Estado:     v.Estado,
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Resumen:    resumen,
		Items:      items,
		CreatedAt:  v.CreatedAt.Format(time.RFC3339),
	}
}
