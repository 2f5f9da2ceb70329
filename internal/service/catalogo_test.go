package service

import (
	"testing"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"github.com/stretchr/testify/assert"
)

func idsDe(ps []model.Producto) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFiltrarCatalogo(t *testing.T) {
	ps := []model.Producto{
		{ID: 1, Categoria: "Audio", Precio: 150000},
		{ID: 2, Categoria: "Audio", Precio: 250000, PrecioDescuento: ptr(int64(180000))},
		{ID: 3, Categoria: "Seguridad", Precio: 50000},
		{ID: 4, Categoria: "Audio", Precio: 200000},
	}
	tope := int64(200000)

	t.Run("category and base price cap", func(t *testing.T) {
		// product 2 is excluded even though its discount is under the cap
		assert.Equal(t, []int64{1, 4}, idsDe(FiltrarCatalogo(ps, "Audio", &tope)))
	})
	t.Run("Todos keeps every category", func(t *testing.T) {
		assert.Equal(t, []int64{1, 3, 4}, idsDe(FiltrarCatalogo(ps, CategoriaTodos, &tope)))
	})
	t.Run("empty category means Todos", func(t *testing.T) {
		assert.Equal(t, []int64{1, 2, 3, 4}, idsDe(FiltrarCatalogo(ps, "", nil)))
	})
	t.Run("unknown category", func(t *testing.T) {
		assert.Empty(t, FiltrarCatalogo(ps, "Luces", nil))
	})
}
