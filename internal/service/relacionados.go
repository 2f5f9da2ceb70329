package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"
)

// MaxRelacionados is how many related products the storefront shows.
const MaxRelacionados = 3

// ProductoPuntuado pairs a candidate with its relevance score.
type ProductoPuntuado struct {
	Producto model.Producto
	Puntaje  int
}

// PuntajeRelacion scores candidate against ref:
// 10 for the same category, 2 per shared tag, 1 per word of ref's name
// longer than 3 characters found inside candidate's name (case-insensitive).
func PuntajeRelacion(ref, candidato model.Producto) int {
	puntaje := 0
	if candidato.Categoria == ref.Categoria {
		puntaje += 10
	}

	tagsRef := make(map[string]struct{}, len(ref.Etiquetas))
	for _, t := range ref.Etiquetas {
		tagsRef[t] = struct{}{}
	}
	vistos := make(map[string]struct{}, len(candidato.Etiquetas))
	for _, t := range candidato.Etiquetas {
		if _, dup := vistos[t]; dup {
			continue
		}
		vistos[t] = struct{}{}
		if _, ok := tagsRef[t]; ok {
			puntaje += 2
		}
	}

	nombre := strings.ToLower(candidato.Nombre)
	for _, palabra := range strings.Fields(strings.ToLower(ref.Nombre)) {
		if utf8.RuneCountInString(palabra) > 3 && strings.Contains(nombre, palabra) {
			puntaje++
		}
	}
	return puntaje
}

// Relacionados ranks every product other than ref and keeps the best
// MaxRelacionados. Ties keep the order of productos.
func Relacionados(ref model.Producto, productos []model.Producto) []ProductoPuntuado {
	candidatos := make([]ProductoPuntuado, 0, len(productos))
	for _, p := range productos {
		if p.ID == ref.ID {
			continue
		}
		candidatos = append(candidatos, ProductoPuntuado{Producto: p, Puntaje: PuntajeRelacion(ref, p)})
	}
	sort.SliceStable(candidatos, func(i, j int) bool {
		return candidatos[i].Puntaje > candidatos[j].Puntaje
	})
	if len(candidatos) > MaxRelacionados {
		candidatos = candidatos[:MaxRelacionados]
	}
	return candidatos
}
