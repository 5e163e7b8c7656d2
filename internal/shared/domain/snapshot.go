package domain

import (
	"context"
	"time"
)

// Snapshot es una copia persistida y fechada de una colección, usada solo como respaldo
// sin conexión. Solo se modifica con un guardado explícito y nunca caduca.
type Snapshot struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Items   []Record  `json:"items"`
}

// SnapshotStore persiste instantáneas por nombre.
type SnapshotStore interface {
	// Save reemplaza por completo la instantánea y registra la fecha de guardado.
	Save(ctx context.Context, name string, items []Record) error

	// Load devuelve ErrNoOfflineData si no existe y un error que cumple
	// errors.Is(err, ErrStorageUnavailable) si el almacén falla.
	Load(ctx context.Context, name string) (*Snapshot, error)

	// Delete elimina la instantánea; no es error si no existe.
	Delete(ctx context.Context, name string) error
}
