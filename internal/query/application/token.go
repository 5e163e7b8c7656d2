package application

import "sync/atomic"

// TokenSource emite RequestTokens estrictamente crecientes, empezando en 1.
type TokenSource struct {
	last atomic.Uint64
}

func (s *TokenSource) Next() uint64 {
	return s.last.Add(1)
}

// Latest es el último token emitido (0 si aún no hay ninguno).
func (s *TokenSource) Latest() uint64 {
	return s.last.Load()
}

func (s *TokenSource) IsLatest(token uint64) bool {
	return token != 0 && token == s.last.Load()
}
