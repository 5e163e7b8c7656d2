package session

import "sync"

// Context es lo que necesita una llamada remota para identificarse ante el servicio.
type Context struct {
	APIHost string
	Token   string
}

// HasToken indica si hay que enviar la cabecera Authorization.
func (c Context) HasToken() bool {
	return c.Token != ""
}

// Holder guarda la sesión vigente. La UI la reemplaza tras volver a autenticarse.
type Holder struct {
	mu  sync.RWMutex
	cur Context
}

func NewHolder(c Context) *Holder {
	return &Holder{cur: c}
}

func (h *Holder) Get() Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

func (h *Holder) Set(c Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = c
}

// SetToken reemplaza solo el token, conservando el host.
func (h *Holder) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur.Token = token
}
