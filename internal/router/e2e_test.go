//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"
	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"
	"github.com/nicoxroll/tecno-car-sub000/internal/router"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"
	"github.com/nicoxroll/tecno-car-sub000/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = body
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T, whatsapp string) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("tecnocar_test"),
		tcPostgres.WithUsername("tecnocar"),
		tcPostgres.WithPassword("tecnocar"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                    "test",
		JWTSecret:              "test-secret-key",
		JWTExpirationHours:     8,
		JWTRefreshHours:        24,
		DatabaseURL:            pgURL,
		RedisURL:               rdURL,
		WorkerPoolSize:         1,
		StorageBucket:          "images",
		ShopName:               "Tecno Car",
		WhatsAppPhone:          whatsapp,
		CatalogCacheTTLMinutes: 10,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	_, err = service.NewAuthService(repository.NewUsuarioRepository(db), cfg).
		AsegurarAdmin(ctx, "admin", "Admin E2E", "tecnocar2026")
	require.NoError(t, err)

	storage, err := infra.NewStorage(cfg)
	require.NoError(t, err)

	r := router.New(ctx, cfg, db, rdb, router.Deps{
		Blobs:       storage,
		LLM:         infra.NewLLMClient(cfg, infra.NewCircuitBreaker(infra.DefaultCBConfig())),
		Notificador: worker.NewDispatcher(rdb),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, dto.LoginRequest{Username: "admin", Password: "tecnocar2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

func crearProducto(t *testing.T, env *testEnv, body map[string]any) dto.ProductoResponse {
	t.Helper()
	resp := do(t, env.server, http.MethodPost, "/v1/productos", jsonBody(t, body), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductoResponse
	decodeJSON(t, resp, &p)
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_AdminRequiereToken(t *testing.T) {
	env := setupTestEnv(t, "")

	resp := do(t, env.server, http.MethodGet, "/v1/ventas", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/health", nil, "")
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "closed", health["llm"])
}

func TestE2E_CatalogoYAjusteMasivo(t *testing.T) {
	env := setupTestEnv(t, "")

	radio := crearProducto(t, env, map[string]any{
		"name": "Radio FM", "category": "Audio", "price": 1000, "tags": []string{"radio", "fm"},
	})
	crearProducto(t, env, map[string]any{
		"name": "Parlante 6x9", "category": "Audio", "price": 50000, "discount_price": 45000, "tags": []string{"radio"},
	})
	crearProducto(t, env, map[string]any{
		"name": "Alarma", "category": "Seguridad", "price": 30000,
	})

	// Catalog filter
	resp := do(t, env.server, http.MethodGet, "/v1/catalogo?categoria=Audio&precio_max=10000", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var catalogo []dto.ProductoResponse
	decodeJSON(t, resp, &catalogo)
	require.Len(t, catalogo, 1)
	assert.Equal(t, radio.ID, catalogo[0].ID)

	// Related products share category and tag
	resp = do(t, env.server, http.MethodGet, "/v1/productos/"+itoa(radio.ID)+"/relacionados", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rel []dto.ProductoResponse
	decodeJSON(t, resp, &rel)
	require.NotEmpty(t, rel)
	assert.Equal(t, "Parlante 6x9", rel[0].Nombre)

	// Preview does not persist
	resp = do(t, env.server, http.MethodPost, "/v1/productos/precios/masivo", jsonBody(t, map[string]any{
		"type": "percentage", "value": "10", "action": "increase", "preview": true,
	}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview dto.AjustePreciosResponse
	decodeJSON(t, resp, &preview)
	assert.False(t, preview.Aplicado)
	assert.Equal(t, 3, preview.ProductosAfectados)

	resp = do(t, env.server, http.MethodGet, "/v1/productos/"+itoa(radio.ID), nil, "")
	var sinCambio dto.ProductoResponse
	decodeJSON(t, resp, &sinCambio)
	assert.Equal(t, int64(1000), sinCambio.Precio)

	// Apply
	resp = do(t, env.server, http.MethodPost, "/v1/productos/precios/masivo", jsonBody(t, map[string]any{
		"type": "percentage", "value": "10", "action": "increase",
	}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/productos/"+itoa(radio.ID), nil, "")
	var ajustado dto.ProductoResponse
	decodeJSON(t, resp, &ajustado)
	assert.Equal(t, int64(1100), ajustado.Precio)

	resp = do(t, env.server, http.MethodGet, "/v1/productos/"+itoa(radio.ID)+"/historial-precios", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist dto.HistorialPrecioListResponse
	decodeJSON(t, resp, &hist)
	require.Len(t, hist.Data, 1)
	assert.Equal(t, int64(1000), hist.Data[0].PrecioAntes)
	assert.Equal(t, int64(1100), hist.Data[0].PrecioDespues)
}

func TestE2E_CicloVenta(t *testing.T) {
	env := setupTestEnv(t, "")

	resp := do(t, env.server, http.MethodPost, "/v1/ventas", jsonBody(t, dto.GuardarVentaRequest{
		Cliente:    "Ana",
		Fecha:      time.Now().Format("2006-01-02"),
		MetodoPago: "Efectivo",
		Items: []dto.ItemVentaRequest{
			{NombreProducto: "ProductA", Cantidad: 2, PrecioUnitario: 500},
			{NombreProducto: "ProductB", Cantidad: 1, PrecioUnitario: 300},
		},
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venta dto.VentaResponse
	decodeJSON(t, resp, &venta)
	assert.Equal(t, int64(1300), venta.Total)
	assert.Regexp(t, `^ORD-\d{6}[A-Z]{3}$`, venta.Codigo)
	assert.Equal(t, "Pendiente", venta.Estado)

	resp = do(t, env.server, http.MethodPatch, "/v1/ventas/"+itoa(venta.ID)+"/estado",
		jsonBody(t, dto.ActualizarEstadoVentaRequest{Estado: "Completado"}), env.token)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/v1/ventas?estado=Completado", nil, env.token)
	var list dto.VentaListResponse
	decodeJSON(t, resp, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, venta.Codigo, list.Data[0].Codigo)

	resp = do(t, env.server, http.MethodGet, "/v1/ventas/"+itoa(venta.ID)+"/comprobante", nil, env.token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestE2E_ServiciosYTurnos(t *testing.T) {
	env := setupTestEnv(t, "")

	var ids []int64
	for _, titulo := range []string{"Polarizado", "Alarmas"} {
		resp := do(t, env.server, http.MethodPost, "/v1/servicios", jsonBody(t, dto.GuardarServicioRequest{
			Categoria: "Estetica", Titulo: titulo, Descripcion: "desc",
		}), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var s dto.ServicioResponse
		decodeJSON(t, resp, &s)
		ids = append(ids, s.ID)
	}

	resp := do(t, env.server, http.MethodPost, "/v1/servicios/"+itoa(ids[1])+"/mover",
		jsonBody(t, dto.MoverServicioRequest{Direccion: "arriba"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orden []dto.ServicioResponse
	decodeJSON(t, resp, &orden)
	require.Len(t, orden, 2)
	assert.Equal(t, "Alarmas", orden[0].Titulo)

	// Public booking
	email := "ana@cliente.test"
	resp = do(t, env.server, http.MethodPost, "/v1/turnos", jsonBody(t, dto.CrearTurnoRequest{
		ServicioID:    ids[0],
		NombreCliente: "Ana",
		Telefono:      "1155550000",
		Email:         &email,
		Fecha:         time.Now().Add(48 * time.Hour).UTC(),
	}), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var turno dto.TurnoResponse
	decodeJSON(t, resp, &turno)
	assert.Equal(t, "Polarizado", turno.NombreServicio)
	assert.Equal(t, "Pendiente", turno.Estado)

	resp = do(t, env.server, http.MethodPatch, "/v1/turnos/"+itoa(turno.ID)+"/estado",
		jsonBody(t, dto.ActualizarEstadoTurnoRequest{Estado: "Confirmado"}), env.token)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/v1/turnos?estado=Confirmado", nil, env.token)
	var turnos dto.TurnoListResponse
	decodeJSON(t, resp, &turnos)
	require.Len(t, turnos.Data, 1)
	assert.Equal(t, turno.ID, turnos.Data[0].ID)
}

func TestE2E_Checkout(t *testing.T) {
	env := setupTestEnv(t, "+54 9 11 5555-0000")

	p := crearProducto(t, env, map[string]any{
		"name": "Radio FM", "category": "Audio", "price": 20000, "discount_price": 15000,
	})

	resp := do(t, env.server, http.MethodPost, "/v1/checkout", jsonBody(t, dto.CheckoutRequest{
		Items: []dto.ItemCheckoutRequest{{ProductoID: p.ID, Cantidad: 2}},
	}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CheckoutResponse
	decodeJSON(t, resp, &out)
	assert.Equal(t, int64(30000), out.Total)
	assert.Contains(t, out.URL, "https://wa.me/5491155550000?text=")

	resp = do(t, env.server, http.MethodPost, "/v1/checkout", jsonBody(t, dto.CheckoutRequest{
		Items: []dto.ItemCheckoutRequest{{ProductoID: p.ID + 999, Cantidad: 1}},
	}), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestE2E_ConfigSitio(t *testing.T) {
	env := setupTestEnv(t, "")

	resp := do(t, env.server, http.MethodPut, "/v1/config/catalog_filters",
		jsonBody(t, map[string]any{"value": []string{"Todos", "Audio"}}), env.token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Only allow-listed categories can be used afterwards
	resp = do(t, env.server, http.MethodPost, "/v1/productos", jsonBody(t, map[string]any{
		"name": "Alarma", "category": "Seguridad", "price": 30000,
	}), env.token)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, env.server, http.MethodGet, "/v1/config/catalog_filters", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry dto.ConfigEntryResponse
	decodeJSON(t, resp, &entry)
	assert.Equal(t, []any{"Todos", "Audio"}, entry.Valor)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
