package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/vetquery/internal/shared/infra/session"
)

// RequestIDHeader acompaña cada llamada para poder cruzarla con los logs del servidor.
const RequestIDHeader = "X-Request-ID"

// FilterClient llama al endpoint POST <host>/<entidad>/Filter/<size>/<page>.
// No interpreta el estado HTTP: eso lo hace session.Guard.
type FilterClient struct {
	httpClient *resty.Client
	log        *zap.Logger
}

// NewFilterClient crea el cliente. retries solo se aplica a errores de red.
func NewFilterClient(timeout time.Duration, retries int, log *zap.Logger) *FilterClient {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if log == nil {
		log = zap.NewNop()
	}
	return &FilterClient{httpClient: client, log: log}
}

// FilterURL arma la URL del endpoint de filtrado.
func FilterURL(apiHost, entityPath string, pageSize, pageNumber int) string {
	return fmt.Sprintf("%s/%s/Filter/%d/%d",
		strings.TrimRight(apiHost, "/"), strings.Trim(entityPath, "/"), pageSize, pageNumber)
}

// Filter envía el cuerpo del filtro y devuelve la respuesta sin clasificar.
func (c *FilterClient) Filter(ctx context.Context, sess session.Context, entityPath string, body map[string]any, pageSize, pageNumber int) session.RemoteResult {
	url := FilterURL(sess.APIHost, entityPath, pageSize, pageNumber)
	requestID := uuid.NewString()

	if body == nil {
		body = map[string]any{}
	}

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetBody(body)
	if sess.HasToken() {
		req.SetAuthToken(sess.Token)
	}

	start := time.Now()
	resp, err := req.Post(url)
	if err != nil {
		c.log.Warn("Remote filter call failed",
			zap.String("url", url),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return session.RemoteResult{Err: fmt.Errorf("POST %s: %w", url, err)}
	}

	c.log.Debug("Remote filter call completed",
		zap.String("url", url),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return session.RemoteResult{StatusCode: resp.StatusCode(), Body: resp.Body()}
}
