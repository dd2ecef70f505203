package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El detalle se agrega envolviendo con fmt.Errorf("...: %w", ErrX); los llamadores usan errors.Is.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidState        = errors.New("transición no permitida en el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrPolicyViolation     = errors.New("bloqueado por la política de segregación de funciones")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente")
)
