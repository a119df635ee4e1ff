package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrCancelled    = errors.New("procesamiento cancelado por el usuario")

	// ErrNilInput indica una violación del contrato por parte del llamador
	// (colección requerida ausente). Es el único error que el núcleo devuelve por forma de datos.
	ErrNilInput = errors.New("colección requerida ausente")

	// Motivos de rechazo de un movimiento durante la normalización.
	ErrZeroQuantity     = errors.New("movimiento con cantidad cero")
	ErrMissingTimestamp = errors.New("movimiento sin fecha")
	ErrUnknownKind      = errors.New("tipo de movimiento desconocido")
)
