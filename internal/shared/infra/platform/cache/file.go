package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// ErrCorruptEntry indica un fichero de caché que no contiene un documento válido.
var ErrCorruptEntry = errors.New("corrupt cache entry")

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// FileCache es un adaptador que guarda cada clave en un fichero JSON dentro de 'dir'.
type FileCache struct {
	dir string
	mu  sync.Mutex // Mutex para evitar race conditions al leer/escribir los ficheros.
}

var _ Cache = (*FileCache)(nil)

// NewFileCache es el constructor. El directorio se crea en la primera escritura.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (c *FileCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		// Si el fichero no existe, es un 'miss'.
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	// Set nunca deja un fichero vacío: si aparece, está dañado.
	if len(data) == 0 {
		return false, fmt.Errorf("%w: %s", ErrCorruptEntry, c.path(key))
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set escribe primero en un fichero temporal y luego lo renombra, así un lector
// nunca ve un documento a medias.
func (c *FileCache) Set(ctx context.Context, key string, val interface{}) error {
	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, c.path(key))
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
