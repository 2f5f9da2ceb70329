package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors matched by handlers with errors.Is. Wrapped errors keep the
// Spanish operator-facing message in front of the sentinel text.
var (
	ErrNoEncontrado   = errors.New("no encontrado")
	ErrValidacion     = errors.New("datos invalidos")
	ErrCredenciales   = errors.New("credenciales invalidas")
	ErrNoDisponible   = errors.New("servicio externo no disponible")
	ErrAlmacenamiento = errors.New("error de almacenamiento")
)

// validacion builds a validation error carrying a user-facing message.
func validacion(format string, args ...any) error {
	return &detalleError{msg: fmt.Sprintf(format, args...), causa: ErrValidacion}
}

// noEncontrado names the missing entity ("producto no encontrado").
func noEncontrado(entidad string) error {
	return &detalleError{msg: entidad + " no encontrado", causa: ErrNoEncontrado}
}

// detalleError keeps a readable message while still matching its sentinel.
type detalleError struct {
	msg   string
	causa error
}

func (e *detalleError) Error() string { return e.msg }
func (e *detalleError) Unwrap() error { return e.causa }

// traducirNoEncontrado maps gorm.ErrRecordNotFound to ErrNoEncontrado.
func traducirNoEncontrado(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontrado(entidad)
	}
	return err
}
