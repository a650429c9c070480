package services

import "errors"

// Common service errors
var (
	ErrNotFound          = errors.New("registro no encontrado")
	ErrInvalidPassword   = errors.New("contraseña inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidState      = errors.New("transición de estado inválida")
	ErrDuplicate         = errors.New("registro duplicado")
	ErrInvalidPaidAmount = errors.New("monto de pago inválido")
	ErrEntryImmutable    = errors.New("la cuota ya fue pagada y no puede modificarse")
	ErrNotTailEntry      = errors.New("solo la última cuota parcial puede recibir otro pago")
	ErrPlanHasEntries    = errors.New("el plan ya tiene cuotas generadas")
	ErrCustomerMismatch  = errors.New("la cuota no pertenece a este cliente")
	ErrPlanIntegrity     = errors.New("la secuencia de cuotas del plan es inconsistente")
	ErrOutOfStock        = errors.New("no hay existencias disponibles del equipo")
)
