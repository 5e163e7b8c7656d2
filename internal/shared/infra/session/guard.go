package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

// ErrMalformedResponse: respuesta 2xx cuyo cuerpo no es un objeto JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// RemoteResult es lo que devuelve un intento de llamada remota sin interpretar.
type RemoteResult struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Class es la clasificación exclusiva de un intento remoto.
type Class int

const (
	ClassOK Class = iota
	ClassSessionExpired
	ClassTransportFailure
	ClassServerRejected
)

func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassSessionExpired:
		return "session_expired"
	case ClassTransportFailure:
		return "transport_failure"
	case ClassServerRejected:
		return "server_rejected"
	default:
		return "unknown"
	}
}

// Result es el intento ya clasificado.
type Result struct {
	Class    Class
	Payload  []byte
	Cause    error
	Status   int
	Messages []string
}

// Rejection devuelve el error estructurado de un ServerRejected.
func (r Result) Rejection() *sharedDomain.RejectedError {
	return &sharedDomain.RejectedError{Status: r.Status, Messages: r.Messages}
}

// Err traduce la clasificación a un error de dominio (nil si es OK).
func (r Result) Err() error {
	switch r.Class {
	case ClassOK:
		return nil
	case ClassSessionExpired:
		return sharedDomain.ErrSessionExpired
	case ClassServerRejected:
		return r.Rejection()
	default:
		return r.Cause
	}
}

// Guard envuelve cada llamada remota: aplica el tiempo máximo y clasifica el resultado.
// Un 403 nunca se propaga como error HTTP crudo.
type Guard struct {
	timeout time.Duration
	log     *zap.Logger
}

func NewGuard(timeout time.Duration, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{timeout: timeout, log: log}
}

// Do ejecuta el intento. Si no termina dentro del tiempo máximo se clasifica como
// TransportFailure aunque el intento ignore el contexto.
func (g *Guard) Do(ctx context.Context, attempt func(ctx context.Context) RemoteResult) Result {
	callCtx := ctx
	cancel := func() {}
	if g.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
	}
	defer cancel()

	done := make(chan RemoteResult, 1)
	go func() {
		done <- attempt(callCtx)
	}()

	select {
	case res := <-done:
		return g.classify(res)
	case <-callCtx.Done():
		return Result{
			Class: ClassTransportFailure,
			Cause: fmt.Errorf("remote call did not complete: %w", callCtx.Err()),
		}
	}
}

func (g *Guard) classify(res RemoteResult) Result {
	switch {
	case res.Err != nil:
		return Result{Class: ClassTransportFailure, Cause: res.Err, Status: res.StatusCode}
	case res.StatusCode == http.StatusForbidden:
		g.log.Warn("Remote call rejected credentials", zap.Int("status", res.StatusCode))
		return Result{Class: ClassSessionExpired, Status: res.StatusCode}
	case res.StatusCode >= 200 && res.StatusCode < 300:
		if !gjson.ValidBytes(res.Body) || !gjson.ParseBytes(res.Body).IsObject() {
			return Result{Class: ClassTransportFailure, Cause: ErrMalformedResponse, Status: res.StatusCode}
		}
		return Result{Class: ClassOK, Payload: res.Body, Status: res.StatusCode}
	case res.StatusCode == 0:
		return Result{Class: ClassTransportFailure, Cause: errors.New("no response from server")}
	default:
		return Result{
			Class:    ClassServerRejected,
			Status:   res.StatusCode,
			Messages: rejectionMessages(res.Body),
		}
	}
}

// rejectionMessages extrae la lista de mensajes del servidor: "messages", "errors"
// (cadenas u objetos con msg/message), "error.message", "message", "error" o "msg".
func rejectionMessages(body []byte) []string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)

	for _, key := range []string{"messages", "errors"} {
		list := root.Get(key)
		if !list.IsArray() {
			continue
		}
		var out []string
		list.ForEach(func(_, v gjson.Result) bool {
			switch {
			case v.Type == gjson.String:
				out = append(out, v.String())
			case v.IsObject():
				if m := v.Get("msg"); m.Type == gjson.String {
					out = append(out, m.String())
				} else if m := v.Get("message"); m.Type == gjson.String {
					out = append(out, m.String())
				}
			}
			return true
		})
		if len(out) > 0 {
			return out
		}
	}

	for _, path := range []string{"error.message", "message", "error", "msg"} {
		if v := root.Get(path); v.Type == gjson.String && v.String() != "" {
			return []string{v.String()}
		}
	}
	return nil
}
