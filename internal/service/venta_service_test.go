package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ventaConItems() dto.GuardarVentaRequest {
	return dto.GuardarVentaRequest{
		Cliente:    " Juan Perez ",
		Fecha:      "2024-05-10",
		MetodoPago: "Efectivo",
		Total:      1, // ignored when items are present
		Resumen:    []string{"ignored"},
		Items: []dto.ItemVentaRequest{
			{ProductoID: ptr(int64(1)), NombreProducto: "ProductA", Cantidad: 2, PrecioUnitario: 500},
			{NombreProducto: "ProductB", Cantidad: 1, PrecioUnitario: 300},
		},
	}
}

func TestVentaService_Crear_DerivaTotales(t *testing.T) {
	repo := newStubVentaRepo()
	notif := &fakeNotificador{}
	svc := NewVentaService(repo, notif, "Tecno Car")

	resp, err := svc.Crear(context.Background(), ventaConItems())

	require.NoError(t, err)
	assert.Equal(t, int64(1300), resp.Total)
	assert.Equal(t, []string{"ProductA x2", "ProductB x1"}, resp.Resumen)
	assert.Equal(t, "Juan Perez", resp.Cliente)
	assert.Equal(t, model.VentaPendiente, resp.Estado)
	assert.Regexp(t, `^ORD-\d{6}[A-Z]{3}$`, resp.Codigo)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(1000), resp.Items[0].Subtotal)
	assert.Equal(t, []int64{resp.ID}, notif.ventas)
}

func TestVentaService_Crear_TotalManual(t *testing.T) {
	svc := NewVentaService(newStubVentaRepo(), nil, "Tecno Car")

	resp, err := svc.Crear(context.Background(), dto.GuardarVentaRequest{
		Cliente: "Ana", Fecha: "2024-05-10", MetodoPago: "Transferencia",
		Total: 4500, Resumen: []string{"Instalación de alarma"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4500), resp.Total)
	assert.Equal(t, []string{"Instalación de alarma"}, resp.Resumen)
	assert.Empty(t, resp.Items)
}

func TestVentaService_Crear_NotificacionFallidaNoBloquea(t *testing.T) {
	repo := newStubVentaRepo()
	svc := NewVentaService(repo, &fakeNotificador{err: errors.New("redis down")}, "Tecno Car")

	_, err := svc.Crear(context.Background(), ventaConItems())

	require.NoError(t, err)
	assert.Len(t, repo.ventas, 1)
}

func TestVentaService_Crear_Invalida(t *testing.T) {
	svc := NewVentaService(newStubVentaRepo(), nil, "Tecno Car")
	ctx := context.Background()

	req := ventaConItems()
	req.Fecha = "10/05/2024"
	_, err := svc.Crear(ctx, req)
	assert.ErrorIs(t, err, ErrValidacion)

	req = ventaConItems()
	req.Items[1].Cantidad = 0
	_, err = svc.Crear(ctx, req)
	assert.ErrorIs(t, err, ErrValidacion)
}

func TestVentaService_Actualizar_ReemplazaItems(t *testing.T) {
	repo := newStubVentaRepo()
	svc := NewVentaService(repo, nil, "Tecno Car")
	ctx := context.Background()

	creada, err := svc.Crear(ctx, ventaConItems())
	require.NoError(t, err)

	req := ventaConItems()
	req.Items = req.Items[:1]
	req.Estado = model.VentaCompletado
	resp, err := svc.Actualizar(ctx, creada.ID, req)

	require.NoError(t, err)
	assert.Equal(t, 1, repo.replaced)
	assert.Equal(t, int64(1000), resp.Total)
	assert.Equal(t, []string{"ProductA x2"}, resp.Resumen)
	assert.Equal(t, model.VentaCompletado, resp.Estado)
	assert.Equal(t, creada.Codigo, resp.Codigo, "code never changes")

	_, err = svc.Actualizar(ctx, 99, req)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestVentaService_ActualizarEstado(t *testing.T) {
	repo := newStubVentaRepo()
	svc := NewVentaService(repo, nil, "Tecno Car")
	ctx := context.Background()
	creada, err := svc.Crear(ctx, ventaConItems())
	require.NoError(t, err)

	require.NoError(t, svc.ActualizarEstado(ctx, creada.ID, model.VentaEnProceso))
	assert.Equal(t, model.VentaEnProceso, repo.ventas[creada.ID].Estado)

	assert.ErrorIs(t, svc.ActualizarEstado(ctx, creada.ID, "Cancelado"), ErrValidacion)
	assert.ErrorIs(t, svc.ActualizarEstado(ctx, 99, model.VentaCompletado), ErrNoEncontrado)
}

func TestVentaService_Eliminar(t *testing.T) {
	repo := newStubVentaRepo()
	svc := NewVentaService(repo, nil, "Tecno Car")
	ctx := context.Background()
	creada, err := svc.Crear(ctx, ventaConItems())
	require.NoError(t, err)

	require.NoError(t, svc.Eliminar(ctx, creada.ID))
	assert.ErrorIs(t, svc.Eliminar(ctx, creada.ID), ErrNoEncontrado)
}

func TestVentaService_ExportarCSVYComprobante(t *testing.T) {
	repo := newStubVentaRepo()
	svc := NewVentaService(repo, nil, "Tecno Car")
	ctx := context.Background()
	creada, err := svc.Crear(ctx, ventaConItems())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportarCSV(ctx, dto.VentaFilter{}, &buf))
	assert.Contains(t, buf.String(), "code,date,customer,status,payment_method,total,items")
	assert.Contains(t, buf.String(), "ProductA x2; ProductB x1")

	codigo, pdf, err := svc.Comprobante(ctx, creada.ID)
	require.NoError(t, err)
	assert.Equal(t, creada.Codigo, codigo)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, _, err = svc.Comprobante(ctx, 99)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}
