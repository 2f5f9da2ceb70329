package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"

	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[int64]*model.Producto
	nextID    int64
	// failPrecioID makes UpdatePrecioTx fail for that product.
	failPrecioID int64
	precios      map[int64]int64
}

func newStubProductoRepo(ps ...model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[int64]*model.Producto), precios: make(map[int64]int64)}
	for i := range ps {
		p := ps[i]
		r.productos[p.ID] = &p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id int64) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []int64) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok && !slices.ContainsFunc(out, func(o model.Producto) bool { return o.ID == id }) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	all, _ := r.ListCatalogo(context.Background())
	var out []model.Producto
	for _, p := range all {
		if filter.Categoria != "" && p.Categoria != filter.Categoria {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListCatalogo(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Destacado != out[j].Destacado {
			return out[i].Destacado
		}
		if out[i].Nombre != out[j].Nombre {
			return out[i].Nombre < out[j].Nombre
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.productos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) UpdatePrecioTx(_ *gorm.DB, id int64, precio int64) error {
	if id == r.failPrecioID {
		return errors.New("db down")
	}
	r.precios[id] = precio
	if p, ok := r.productos[id]; ok {
		p.Precio = precio
	}
	return nil
}

func (r *stubProductoRepo) QuitarDescuentoTx(_ *gorm.DB, id int64) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PrecioDescuento = nil
	return nil
}

type stubHistorialRepo struct {
	rows []model.HistorialPrecio
}

func (r *stubHistorialRepo) CreateBatchTx(_ *gorm.DB, rows []model.HistorialPrecio) error {
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, productoID int64, page, limit int) ([]model.HistorialPrecio, int64, error) {
	var out []model.HistorialPrecio
	for _, h := range r.rows {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

type stubVentaRepo struct {
	ventas   map[int64]*model.Venta
	nextID   int64
	replaced int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[int64]*model.Venta)}
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	r.nextID++
	v.ID = r.nextID
	for i := range v.Items {
		v.Items[i].ID = int64(i + 1)
		v.Items[i].VentaID = v.ID
	}
	cp := *v
	cp.Items = slices.Clone(v.Items)
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) Replace(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if _, ok := r.ventas[v.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.replaced++
	cp := *v
	cp.Items = slices.Clone(v.Items)
	r.ventas[v.ID] = &cp
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id int64) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	cp.Items = slices.Clone(v.Items)
	return &cp, nil
}

func (r *stubVentaRepo) UpdateEstado(_ context.Context, id int64, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) Delete(_ context.Context, _ *gorm.DB, id int64) error {
	if _, ok := r.ventas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	all, _ := r.ListAll(ctx, filter)
	return all, int64(len(all)), nil
}

func (r *stubVentaRepo) ListAll(_ context.Context, filter dto.VentaFilter) ([]model.Venta, error) {
	var out []model.Venta
	for id := int64(1); id <= r.nextID; id++ {
		v, ok := r.ventas[id]
		if !ok || (filter.Estado != "" && v.Estado != filter.Estado) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

type stubServicioRepo struct {
	servicios map[int64]*model.Servicio
	nextID    int64
	ordenes   []string
}

func newStubServicioRepo(ss ...model.Servicio) *stubServicioRepo {
	r := &stubServicioRepo{servicios: make(map[int64]*model.Servicio)}
	for i := range ss {
		s := ss[i]
		r.servicios[s.ID] = &s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *stubServicioRepo) DB() *gorm.DB { return nil }

func (r *stubServicioRepo) Create(_ context.Context, s *model.Servicio) error {
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.servicios[s.ID] = &cp
	return nil
}

func (r *stubServicioRepo) FindByID(_ context.Context, id int64) (*model.Servicio, error) {
	s, ok := r.servicios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubServicioRepo) List(_ context.Context) ([]model.Servicio, error) {
	out := make([]model.Servicio, 0, len(r.servicios))
	for _, s := range r.servicios {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orden != out[j].Orden {
			return out[i].Orden < out[j].Orden
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *stubServicioRepo) Update(_ context.Context, s *model.Servicio) error {
	cp := *s
	r.servicios[s.ID] = &cp
	return nil
}

func (r *stubServicioRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.servicios[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.servicios, id)
	return nil
}

func (r *stubServicioRepo) MaxOrden(_ context.Context) (int, error) {
	ultimo := 0
	for _, s := range r.servicios {
		ultimo = max(ultimo, s.Orden)
	}
	return ultimo, nil
}

func (r *stubServicioRepo) UpdateOrdenTx(_ *gorm.DB, id int64, orden int) error {
	s, ok := r.servicios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Orden = orden
	r.ordenes = append(r.ordenes, fmt.Sprintf("%d=%d", id, orden))
	return nil
}

type stubTurnoRepo struct {
	turnos map[int64]*model.Turno
	nextID int64
}

func newStubTurnoRepo() *stubTurnoRepo {
	return &stubTurnoRepo{turnos: make(map[int64]*model.Turno)}
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.turnos[t.ID] = &cp
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id int64) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTurnoRepo) List(_ context.Context, filter dto.TurnoFilter) ([]model.Turno, int64, error) {
	var out []model.Turno
	for id := int64(1); id <= r.nextID; id++ {
		t, ok := r.turnos[id]
		if !ok || (filter.Estado != "" && t.Estado != filter.Estado) {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTurnoRepo) UpdateEstado(_ context.Context, id int64, estado string) error {
	t, ok := r.turnos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Estado = estado
	return nil
}

func (r *stubTurnoRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.turnos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.turnos, id)
	return nil
}

type stubGaleriaRepo struct {
	posts  map[int64]*model.PublicacionGaleria
	nextID int64
}

func newStubGaleriaRepo() *stubGaleriaRepo {
	return &stubGaleriaRepo{posts: make(map[int64]*model.PublicacionGaleria)}
}

func (r *stubGaleriaRepo) Create(_ context.Context, p *model.PublicacionGaleria) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *stubGaleriaRepo) FindByID(_ context.Context, id int64) (*model.PublicacionGaleria, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubGaleriaRepo) List(_ context.Context) ([]model.PublicacionGaleria, error) {
	var out []model.PublicacionGaleria
	for id := r.nextID; id >= 1; id-- {
		if p, ok := r.posts[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubGaleriaRepo) Update(_ context.Context, p *model.PublicacionGaleria) error {
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *stubGaleriaRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.posts, id)
	return nil
}

type stubConfigRepo struct {
	rows map[string]string
}

func newStubConfigRepo() *stubConfigRepo {
	return &stubConfigRepo{rows: make(map[string]string)}
}

func (r *stubConfigRepo) List(_ context.Context) ([]model.ConfigSitio, error) {
	out := make([]model.ConfigSitio, 0, len(r.rows))
	for k, v := range r.rows {
		out = append(out, model.ConfigSitio{Clave: k, Valor: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Clave < out[j].Clave })
	return out, nil
}

func (r *stubConfigRepo) Get(_ context.Context, clave string) (*model.ConfigSitio, error) {
	v, ok := r.rows[clave]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.ConfigSitio{Clave: clave, Valor: v}, nil
}

func (r *stubConfigRepo) Upsert(_ context.Context, c *model.ConfigSitio) error {
	r.rows[c.Clave] = c.Valor
	return nil
}

type stubUsuarioRepo struct {
	users  map[string]*model.Usuario
	nextID int64
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.nextID++
	u.ID = r.nextID
	r.users[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.users[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id int64) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.Username] = u
	return nil
}

var (
	_ repository.ProductoRepository        = (*stubProductoRepo)(nil)
	_ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)
	_ repository.VentaRepository           = (*stubVentaRepo)(nil)
	_ repository.ServicioRepository        = (*stubServicioRepo)(nil)
	_ repository.TurnoRepository           = (*stubTurnoRepo)(nil)
	_ repository.GaleriaRepository         = (*stubGaleriaRepo)(nil)
	_ repository.ConfigSitioRepository     = (*stubConfigRepo)(nil)
	_ repository.UsuarioRepository         = (*stubUsuarioRepo)(nil)
)

// ── Infrastructure fakes ──────────────────────────────────────────────────────

type fakeBlobs struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	deleted  []string
	failDel  bool
	failUp   bool
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{uploaded: make(map[string][]byte)} }

const fakeBlobBase = "https://cdn.test/storage/v1/object/public/images/"

func (b *fakeBlobs) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUp {
		return "", errors.New("storage down")
	}
	b.uploaded[key] = data
	return fakeBlobBase + key, nil
}

func (b *fakeBlobs) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDel {
		return errors.New("storage down")
	}
	b.deleted = append(b.deleted, keys...)
	return nil
}

func (b *fakeBlobs) KeyFromURL(raw string) (string, bool) {
	key, ok := strings.CutPrefix(raw, fakeBlobBase)
	return key, ok && key != ""
}

func (b *fakeBlobs) NewKey(folder, ext string) string {
	return folder + "/1." + ext
}

func (b *fakeBlobs) deletedKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := slices.Clone(b.deleted)
	slices.Sort(out)
	return out
}

type fakeNotificador struct {
	ventas []int64
	turnos []int64
	emails []string
	err    error
}

func (n *fakeNotificador) NotificarVenta(_ context.Context, id int64) error {
	n.ventas = append(n.ventas, id)
	return n.err
}

func (n *fakeNotificador) NotificarTurno(_ context.Context, id int64) error {
	n.turnos = append(n.turnos, id)
	return n.err
}

var (
	_ BlobStore          = (*fakeBlobs)(nil)
	_ Notificador        = (*fakeNotificador)(nil)
	_ CategoriasProvider = fakeCategorias(nil)
)

func (n *fakeNotificador) EnviarEmail(_ context.Context, to, asunto, _ string) error {
	n.emails = append(n.emails, to+": "+asunto)
	return n.err
}

type fakeCategorias []string

func (f fakeCategorias) CategoriasPermitidas(context.Context) ([]string, error) { return f, nil }

func ptr[T any](v T) *T { return &v }
