package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("cantidad insuficiente")
	ErrAlreadyReversed   = errors.New("la transacción ya fue revertida")
	ErrLocked            = errors.New("el recurso está siendo modificado por otra solicitud")
)

// ValidationError agrupa los errores por campo (ruta JSON -> mensaje).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ItemNotFoundError el artículo de inventario referenciado no existe.
type ItemNotFoundError struct {
	ItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("artículo de inventario %s no encontrado", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientQuantityError un consumo dejaría la cantidad del artículo en negativo.
type InsufficientQuantityError struct {
	ItemID    string
	ItemName  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("cantidad insuficiente de %q (%s): requerido %s, disponible %s",
		e.ItemName, e.ItemID, e.Required.String(), e.Available.String())
}

func (e *InsufficientQuantityError) Unwrap() error { return ErrInsufficientStock }

// DuplicateBatchNumberError el número de lote ya lo usa otro lote.
type DuplicateBatchNumberError struct {
	BatchNumber     string
	ExistingBatchID string
}

func (e *DuplicateBatchNumberError) Error() string {
	if e.ExistingBatchID == "" {
		return fmt.Sprintf("el número de lote %s ya está en uso", e.BatchNumber)
	}
	return fmt.Sprintf("el número de lote %s ya está en uso por el lote %s", e.BatchNumber, e.ExistingBatchID)
}

func (e *DuplicateBatchNumberError) Unwrap() error { return ErrDuplicate }

// PersistenceError falla del almacenamiento (conexión, constraint). Siempre provoca rollback
// y es el único error que el llamador puede reintentar sin cambiar la entrada.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Retryable siempre true: la falla es transitoria desde el punto de vista del dominio.
func (e *PersistenceError) Retryable() bool { return true }

// Persistence envuelve err como PersistenceError (nil si err es nil).
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsRetryable indica si el error es transitorio (falla de persistencia).
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
