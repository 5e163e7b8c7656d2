package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ---------- Errores de dominio ----------
var (
	// ErrNoOfflineData: no hay instantánea guardada para la entidad.
	ErrNoOfflineData = errors.New("no offline data available")
	// ErrStorageUnavailable: el almacenamiento local no se puede leer o escribir.
	ErrStorageUnavailable = errors.New("offline storage unavailable")
	// ErrSessionExpired: el servidor rechazó las credenciales (HTTP 403).
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidPageRequest: tamaño o número de página fuera de rango.
	ErrInvalidPageRequest = errors.New("invalid page request")
)

// StorageError envuelve cualquier fallo de E/S o serialización del almacén local.
// errors.Is(err, ErrStorageUnavailable) es siempre cierto.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s snapshot %q: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// NewStorageError construye un StorageError. Devuelve nil si err es nil.
func NewStorageError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Name: name, Err: err}
}

// RejectedError es una respuesta de error bien formada de un servidor alcanzable.
type RejectedError struct {
	Status   int      `json:"status"`
	Messages []string `json:"messages"`
}

func (e *RejectedError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return strings.Join(e.Messages, "; ")
}
