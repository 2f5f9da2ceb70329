package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMensajePedido(t *testing.T) {
	lineas := []LineaPedido{
		{Nombre: "Radio FM", Cantidad: 2, PrecioUnitario: 15000},
		{Nombre: "Tira LED", Cantidad: 1, PrecioUnitario: 1300},
	}

	got := MensajePedido(lineas, 31300, " Ana ", "Retiro por el local")

	assert.Equal(t, "¡Hola! Quiero hacer el siguiente pedido:\n"+
		"- Radio FM x2 ($ 30.000)\n"+
		"- Tira LED x1 ($ 1.300)\n"+
		"Total: $ 31.300\n"+
		"Nombre: Ana\n"+
		"Nota: Retiro por el local", got)
}

func TestEnlaceWhatsApp(t *testing.T) {
	link := EnlaceWhatsApp("+54 9 11 5555-0000", "Hola mundo & más")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/5491155550000?text="))
	assert.NotContains(t, link, "+")
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo & más", u.Query().Get("text"))
}

func TestCheckoutService_GenerarEnlace(t *testing.T) {
	repo := newStubProductoRepo(
		model.Producto{ID: 1, Nombre: "Radio FM", Precio: 20000, PrecioDescuento: ptr(int64(15000)), Disponible: true},
		model.Producto{ID: 2, Nombre: "Alarma", Precio: 9000, Disponible: false},
	)
	svc := NewCheckoutService(repo, "549-11-5555")
	ctx := context.Background()

	resp, err := svc.GenerarEnlace(ctx, dto.CheckoutRequest{Items: []dto.ItemCheckoutRequest{{ProductoID: 1, Cantidad: 2}}})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), resp.Total)
	assert.Contains(t, resp.Mensaje, "- Radio FM x2 ($ 30.000)")
	assert.True(t, strings.HasPrefix(resp.URL, "https://wa.me/549115555?text="))

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.GenerarEnlace(ctx, dto.CheckoutRequest{Items: []dto.ItemCheckoutRequest{{ProductoID: 9, Cantidad: 1}}})
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
	t.Run("unavailable product", func(t *testing.T) {
		_, err := svc.GenerarEnlace(ctx, dto.CheckoutRequest{Items: []dto.ItemCheckoutRequest{{ProductoID: 2, Cantidad: 1}}})
		assert.ErrorIs(t, err, ErrValidacion)
	})
	t.Run("empty cart", func(t *testing.T) {
		_, err := svc.GenerarEnlace(ctx, dto.CheckoutRequest{})
		assert.ErrorIs(t, err, ErrValidacion)
	})
}

func TestCheckoutService_SinTelefono(t *testing.T) {
	svc := NewCheckoutService(newStubProductoRepo(), "")

	_, err := svc.GenerarEnlace(context.Background(), dto.CheckoutRequest{Items: []dto.ItemCheckoutRequest{{ProductoID: 1, Cantidad: 1}}})
	assert.ErrorIs(t, err, ErrNoDisponible)
}
