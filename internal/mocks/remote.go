package mocks

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/davicafu/vetquery/internal/shared/infra/session"
)

// RemoteCall registra una llamada recibida por ScriptedRemote.
type RemoteCall struct {
	Session    session.Context
	EntityPath string
	Body       map[string]any
	PageSize   int
	PageNumber int
}

// ScriptedRemote responde con Respond y guarda cada llamada.
type ScriptedRemote struct {
	mu      sync.Mutex
	Calls   []RemoteCall
	Respond func(ctx context.Context, call RemoteCall) session.RemoteResult
}

func (r *ScriptedRemote) Filter(ctx context.Context, sess session.Context, entityPath string, body map[string]any, pageSize, pageNumber int) session.RemoteResult {
	call := RemoteCall{Session: sess, EntityPath: entityPath, Body: body, PageSize: pageSize, PageNumber: pageNumber}
	r.mu.Lock()
	r.Calls = append(r.Calls, call)
	r.mu.Unlock()
	return r.Respond(ctx, call)
}

func (r *ScriptedRemote) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}

// JSONResult construye un RemoteResult 200 con el cuerpo serializado.
func JSONResult(status int, body any) session.RemoteResult {
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return session.RemoteResult{StatusCode: status, Body: data}
}

// PageResult simula {data, pagination} con los registros de la página pedida.
func PageResult(all []map[string]any, pageSize, pageNumber int) session.RemoteResult {
	start := (pageNumber - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	page := append([]map[string]any{}, all[start:end]...)
	return JSONResult(http.StatusOK, map[string]any{
		"data":       page,
		"pagination": map[string]any{"total": len(all), "currentPage": pageNumber},
	})
}
