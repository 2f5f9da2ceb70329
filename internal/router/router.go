package router

import (
	"context"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"
	"github.com/nicoxroll/tecno-car-sub000/internal/handler"
	"github.com/nicoxroll/tecno-car-sub000/internal/middleware"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// LLM is the chat model client: it streams replies and reports its breaker state.
type LLM interface {
	service.ChatStreamer
	handler.BreakerState
}

// Deps are the infrastructure clients built by the composition root.
type Deps struct {
	Blobs       service.BlobStore
	LLM         LLM
	Notificador service.Notificador
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// ctx bounds the rate limiter purge goroutines.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.APIRateLimiter(1000, time.Minute)
	loginLimiter := middleware.LoginRateLimiter()
	chatLimiter := middleware.ChatRateLimiter()
	for _, l := range []*middleware.Limiter{apiLimiter, loginLimiter, chatLimiter} {
		go l.RunPurge(ctx, 5*time.Minute)
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware())

	cacheTTL := time.Duration(cfg.CatalogCacheTTLMinutes) * time.Minute

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	galeriaRepo := repository.NewGaleriaRepository(db)
	configRepo := repository.NewConfigSitioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	configSvc := service.NewConfigSitioService(configRepo, rdb, cacheTTL)
	productoSvc := service.NewProductoService(productoRepo, historialPrecioRepo, rdb, cacheTTL, deps.Blobs, configSvc)
	ventaSvc := service.NewVentaService(ventaRepo, deps.Notificador, cfg.ShopName)
	servicioSvc := service.NewServicioService(servicioRepo)
	turnoSvc := service.NewTurnoService(turnoRepo, servicioRepo, deps.Notificador, cfg.ShopName)
	galeriaSvc := service.NewGaleriaService(galeriaRepo, deps.Blobs)
	checkoutSvc := service.NewCheckoutService(productoRepo, cfg.WhatsAppPhone)
	mediaSvc := service.NewMediaService(deps.Blobs)
	chatSvc := service.NewChatService(deps.LLM, cfg.ShopName)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	galeriaH := handler.NewGaleriaHandler(galeriaSvc)
	configH := handler.NewConfigSitioHandler(configSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	mediaH := handler.NewMediaHandler(mediaSvc)
	chatH := handler.NewChatHandler(chatSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, deps.LLM))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Storefront (public)
	pub := r.Group("/v1")
	{
		pub.GET("/catalogo", productosH.Catalogo)
		pub.GET("/productos/:id", productosH.ObtenerPorID)
		pub.GET("/productos/:id/relacionados", productosH.Relacionados)
		pub.GET("/servicios", serviciosH.Listar)
		pub.GET("/servicios/:id", serviciosH.ObtenerPorID)
		pub.GET("/galeria", galeriaH.Listar)
		pub.GET("/config", configH.Listar)
		pub.GET("/config/:clave", configH.Obtener)
		pub.POST("/turnos", turnosH.Crear)
		pub.POST("/checkout", checkoutH.Generar)
		pub.POST("/chat", chatLimiter.Middleware(), chatH.Enviar)
	}

	// Admin
	admin := r.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(service.RolAdmin),
	)
	{
		admin.GET("/productos", productosH.Listar)
		admin.GET("/productos/export.csv", productosH.ExportarCSV)
		admin.POST("/productos", productosH.Crear)
		admin.PUT("/productos/:id", productosH.Actualizar)
		admin.DELETE("/productos/:id", productosH.Eliminar)
		admin.GET("/productos/:id/historial-precios", productosH.HistorialPrecios)
		admin.POST("/productos/precios/masivo", productosH.AjustarPrecios)

		admin.GET("/ventas", ventasH.Listar)
		admin.GET("/ventas/export.csv", ventasH.ExportarCSV)
		admin.POST("/ventas", ventasH.Crear)
		admin.GET("/ventas/:id", ventasH.ObtenerPorID)
		admin.PUT("/ventas/:id", ventasH.Actualizar)
		admin.PATCH("/ventas/:id/estado", ventasH.ActualizarEstado)
		admin.DELETE("/ventas/:id", ventasH.Eliminar)
		admin.GET("/ventas/:id/comprobante", ventasH.Comprobante)

		admin.POST("/servicios", serviciosH.Crear)
		admin.PUT("/servicios/:id", serviciosH.Actualizar)
		admin.DELETE("/servicios/:id", serviciosH.Eliminar)
		admin.POST("/servicios/:id/mover", serviciosH.Mover)

		admin.GET("/turnos", turnosH.Listar)
		admin.PATCH("/turnos/:id/estado", turnosH.ActualizarEstado)
		admin.DELETE("/turnos/:id", turnosH.Eliminar)

		admin.POST("/galeria", galeriaH.Crear)
		admin.PUT("/galeria/:id", galeriaH.Actualizar)
		admin.DELETE("/galeria/:id", galeriaH.Eliminar)

		admin.PUT("/config/:clave", configH.Guardar)

		admin.POST("/media", mediaH.Subir)
		admin.DELETE("/media", mediaH.Eliminar)
	}

	return r
}
