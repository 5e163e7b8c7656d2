package domain

import (
	"context"

	"github.com/davicafu/vetquery/internal/shared/infra/session"
)

// Remote es el puerto de salida hacia el endpoint de filtrado del servicio clínico.
// No clasifica la respuesta: eso lo hace session.Guard.
type Remote interface {
	Filter(ctx context.Context, sess session.Context, entityPath string, body map[string]any, pageSize, pageNumber int) session.RemoteResult
}

// RemoteFunc adapta una función al puerto Remote.
type RemoteFunc func(ctx context.Context, sess session.Context, entityPath string, body map[string]any, pageSize, pageNumber int) session.RemoteResult

func (f RemoteFunc) Filter(ctx context.Context, sess session.Context, entityPath string, body map[string]any, pageSize, pageNumber int) session.RemoteResult {
	return f(ctx, sess, entityPath, body, pageSize, pageNumber)
}

// SnapshotKey es la clave de caché de la instantánea de una entidad.
func SnapshotKey(name string) string {
	return "snapshot:" + name
}
