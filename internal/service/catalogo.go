package service

import "github.com/nicoxroll/tecno-car-sub000/internal/model"

// CategoriaTodos selects every category.
const CategoriaTodos = "Todos"

// FiltrarCatalogo keeps products in categoria (or all when categoria is
// "Todos" or empty) whose base price is at most precioMax. A nil precioMax
// means no cap. The discount price is never considered. Order is preserved.
func FiltrarCatalogo(productos []model.Producto, categoria string, precioMax *int64) []model.Producto {
	todos := categoria == "" || categoria == CategoriaTodos
	out := make([]model.Producto, 0, len(productos))
	for _, p := range productos {
		if !todos && p.Categoria != categoria {
			continue
		}
		if precioMax != nil && p.Precio > *precioMax {
			continue
		}
		out = append(out, p)
	}
	return out
}
