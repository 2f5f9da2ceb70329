package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"
)

type CheckoutService interface {
	GenerarEnlace(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	productos repository.ProductoRepository
	telefono  string
}

func NewCheckoutService(productos repository.ProductoRepository, whatsappPhone string) CheckoutService {
	return &checkoutService{productos: productos, telefono: soloDigitos(whatsappPhone)}
}

func (s *checkoutService) GenerarEnlace(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if s.telefono == "" {
		return nil, &detalleError{msg: "el pedido por WhatsApp no está configurado", causa: ErrNoDisponible}
	}
	if len(req.Items) == 0 {
		return nil, validacion("el carrito está vacío")
	}

	ids := make([]int64, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductoID)
	}
	encontrados, err := s.productos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error al cargar productos: %w", err)
	}
	porID := make(map[int64]*model.Producto, len(encontrados))
	for i := range encontrados {
		porID[encontrados[i].ID] = &encontrados[i]
	}

	lineas := make([]LineaPedido, 0, len(req.Items))
	var total int64
	for _, it := range req.Items {
		p, ok := porID[it.ProductoID]
		if !ok {
			return nil, noEncontrado(fmt.Sprintf("producto %d", it.ProductoID))
		}
		if !p.Disponible {
			return nil, validacion("'%s' no está disponible", p.Nombre)
		}
		l := LineaPedido{Nombre: p.Nombre, Cantidad: it.Cantidad, PrecioUnitario: p.PrecioEfectivo()}
		total += l.Subtotal()
		lineas = append(lineas, l)
	}

	msg := MensajePedido(lineas, total, req.Cliente, req.Nota)
	return &dto.CheckoutResponse{
		URL:     EnlaceWhatsApp(s.telefono, msg),
		Total:   total,
		Mensaje: msg,
	}, nil
}

// LineaPedido is one priced cart line.
type LineaPedido struct {
	Nombre         string
	Cantidad       int
	PrecioUnitario int64
}

func (l LineaPedido) Subtotal() int64 { return int64(l.Cantidad) * l.PrecioUnitario }

// MensajePedido renders the order summary sent to the shop.
func MensajePedido(lineas []LineaPedido, total int64, cliente, nota string) string {
	var b strings.Builder
	b.WriteString("¡Hola! Quiero hacer el siguiente pedido:\n")
	for _, l := range lineas {
		fmt.Fprintf(&b, "- %s x%d (%s)\n", l.Nombre, l.Cantidad, infra.FormatPesos(l.Subtotal()))
	}
	fmt.Fprintf(&b, "Total: %s", infra.FormatPesos(total))
	if c := strings.TrimSpace(cliente); c != "" {
		fmt.Fprintf(&b, "\nNombre: %s", c)
	}
	if n := strings.TrimSpace(nota); n != "" {
		fmt.Fprintf(&b, "\nNota: %s", n)
	}
	return b.String()
}

// EnlaceWhatsApp builds a wa.me link with the message percent-encoded
// (spaces as %20, since "+" is not decoded by every client).
func EnlaceWhatsApp(telefono, mensaje string) string {
	texto := strings.ReplaceAll(url.QueryEscape(mensaje), "+", "%20")
	return "https://wa.me/" + soloDigitos(telefono) + "?text=" + texto
}

func soloDigitos(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
