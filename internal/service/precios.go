package service

import (
	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// Ajuste types and actions.
const (
	AjustePorcentaje = "percentage"
	AjusteMonto      = "amount"
	AccionAumentar   = "increase"
	AccionDisminuir  = "decrease"
)

var (
	cien  = decimal.NewFromInt(100)
	medio = decimal.NewFromFloat(0.5)
)

// NuevoPrecio applies one bulk adjustment to a single price.
// Percentages are relative to the current price; the result is rounded
// half-up (floor(x + 0.5)), so -2.5 rounds to -2.
func NuevoPrecio(precio int64, tipo, accion string, valor decimal.Decimal) int64 {
	actual := decimal.NewFromInt(precio)
	delta := valor
	if tipo == AjustePorcentaje {
		delta = actual.Mul(valor).Div(cien)
	}
	nuevo := actual.Add(delta)
	if accion == AccionDisminuir {
		nuevo = actual.Sub(delta)
	}
	return nuevo.Add(medio).Floor().IntPart()
}

// CambioPrecio is the computed outcome for one product.
type CambioPrecio struct {
	ProductoID int64
	Nombre     string
	Antes      int64
	Despues    int64

	// DescuentoQuitado is the discount price the new price no longer exceeds.
	DescuentoQuitado *int64
}

// CalcularAjuste applies the adjustment to every product in productos. A
// discount price that would no longer be below the new price is reported in
// DescuentoQuitado so the caller clears it.
func CalcularAjuste(productos []model.Producto, tipo, accion string, valor decimal.Decimal) []CambioPrecio {
	cambios := make([]CambioPrecio, len(productos))
	for i, p := range productos {
		cambios[i] = CambioPrecio{
			ProductoID: p.ID,
			Nombre:     p.Nombre,
			Antes:      p.Precio,
			Despues:    NuevoPrecio(p.Precio, tipo, accion, valor),
		}
		if p.PrecioDescuento != nil && *p.PrecioDescuento >= cambios[i].Despues {
			d := *p.PrecioDescuento
			cambios[i].DescuentoQuitado = &d
		}
	}
	return cambios
}
