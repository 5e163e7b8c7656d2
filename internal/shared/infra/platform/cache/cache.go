package cache

import (
	"context"
)

// Cache define la interfaz para un almacén clave-valor de documentos JSON.
// Las entradas no caducan: solo se reemplazan o se eliminan explícitamente.
type Cache interface {
	// Get intenta poblar 'dest' (que debe ser un puntero) con el valor asociado a la 'key'.
	// Devuelve (true, nil) si hay un 'hit' y 'dest' fue rellenado.
	// Devuelve (false, nil) si es un 'miss'.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set serializa y reemplaza por completo el valor de la 'key'.
	Set(ctx context.Context, key string, val interface{}) error

	// Delete elimina la 'key'. No es error si no existe.
	Delete(ctx context.Context, key string) error
}
