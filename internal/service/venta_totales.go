package service

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"
)

// TotalesVenta derives total and the denormalized summary from structured
// items. ok is false when there are no items, in which case the caller keeps
// the manually entered total and summary.
func TotalesVenta(items []model.VentaItem) (total int64, resumen []string, ok bool) {
	if len(items) == 0 {
		return 0, nil, false
	}
	resumen = make([]string, len(items))
	for i, it := range items {
		total += it.Subtotal()
		resumen[i] = fmt.Sprintf("%s x%d", it.NombreProducto, it.Cantidad)
	}
	return total, resumen, true
}

const letrasCodigo = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerarCodigoVenta returns "ORD-" followed by 6 digits and 3 uppercase
// letters. Uniqueness is not checked.
func GenerarCodigoVenta() string {
	var b strings.Builder
	b.Grow(13)
	b.WriteString("ORD-")
	fmt.Fprintf(&b, "%06d", rand.IntN(1_000_000))
	for range 3 {
		b.WriteByte(letrasCodigo[rand.IntN(len(letrasCodigo))])
	}
	return b.String()
}
