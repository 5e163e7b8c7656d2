package cache

import (
	"context"
	"encoding/json"
	"sync"
)

// InMemoryCache implementa la interfaz de caché usando un mapa en memoria.
type InMemoryCache struct {
	store map[string][]byte // Guardamos los bytes para simular la serialización, igual que Redis.
	mu    sync.RWMutex
}

var _ Cache = (*InMemoryCache)(nil)

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{store: make(map[string][]byte)}
}

// Get recupera un valor de la caché. Es seguro para uso concurrente.
func (c *InMemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	data, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set guarda un valor en la caché. Es seguro para uso concurrente.
func (c *InMemoryCache) Set(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = data
	return nil
}

// Delete elimina un valor de la caché.
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}
