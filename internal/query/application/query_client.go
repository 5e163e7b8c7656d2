package application

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	queryDomain "github.com/davicafu/vetquery/internal/query/domain"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	"github.com/davicafu/vetquery/internal/shared/infra/events"
	sharedBus "github.com/davicafu/vetquery/internal/shared/infra/platform/bus"
	"github.com/davicafu/vetquery/internal/shared/infra/remote"
	"github.com/davicafu/vetquery/internal/shared/infra/session"
	"github.com/davicafu/vetquery/internal/shared/infra/utils"
)

// QueryClient ejecuta consultas paginadas de una entidad con respaldo sin conexión.
// Solo el resultado del último token cambia el estado visible y se publica.
type QueryClient struct {
	entity    sharedDomain.Entity
	remote    queryDomain.Remote
	guard     *session.Guard
	store     sharedDomain.SnapshotStore
	session   *session.Holder
	bus       *events.InMemoryEventBus[queryDomain.Transition]
	publisher sharedBus.EventBus // opcional (telemetría)
	log       *zap.Logger

	tokens  TokenSource
	mu      sync.Mutex
	state   queryDomain.State
	current *queryDomain.Outcome
}

// NewQueryClient crea el cliente. publisher puede ser nil.
func NewQueryClient(
	entity sharedDomain.Entity,
	remote queryDomain.Remote,
	guard *session.Guard,
	store sharedDomain.SnapshotStore,
	sess *session.Holder,
	publisher sharedBus.EventBus,
	log *zap.Logger,
) *QueryClient {
	if log == nil {
		log = zap.NewNop()
	}
	// Los estados finales (Expired incluido) nunca se pierden aunque el suscriptor vaya lento.
	bus := events.NewInMemoryEventBus[queryDomain.Transition](queryDomain.TransitionTopic).
		Prioritize(func(tr queryDomain.Transition) bool { return tr.To.Terminal() })
	return &QueryClient{
		entity:    entity,
		remote:    remote,
		guard:     guard,
		store:     store,
		session:   sess,
		bus:       bus,
		publisher: publisher,
		log:       log.With(zap.String("entity", entity.Name)),
		state:     queryDomain.StateIdle,
	}
}

// Subscribe devuelve un canal con las transiciones de estado visibles.
func (c *QueryClient) Subscribe(bufferSize int) <-chan queryDomain.Transition {
	return c.bus.Subscribe(bufferSize)
}

// Close cierra las suscripciones.
func (c *QueryClient) Close() {
	c.bus.Close()
}

// State devuelve el estado visible actual.
func (c *QueryClient) State() queryDomain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current devuelve el último Outcome visible (false si aún no hay ninguno).
func (c *QueryClient) Current() (queryDomain.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return queryDomain.Outcome{}, false
	}
	return *c.current, true
}

// Go lanza la consulta en una goroutine. El token se emite antes de volver, así que el
// orden de las llamadas a Go fija el orden de los tokens.
func (c *QueryClient) Go(ctx context.Context, req sharedDomain.PageRequest) (uint64, <-chan queryDomain.Outcome) {
	token := c.begin()
	out := make(chan queryDomain.Outcome, 1)
	go func() {
		out <- c.run(ctx, token, req)
		close(out)
	}()
	return token, out
}

// Query ejecuta la consulta y bloquea hasta tener un Outcome. Nunca devuelve error
// ni entra en pánico: un fallo se expresa como Rejected, Expired o FallingBack.
func (c *QueryClient) Query(ctx context.Context, req sharedDomain.PageRequest) queryDomain.Outcome {
	return c.run(ctx, c.begin(), req)
}

func (c *QueryClient) begin() uint64 {
	c.mu.Lock()
	token := c.tokens.Next()
	tr := c.moveLocked(token, queryDomain.StateFetching, nil)
	c.mu.Unlock()

	c.publish(tr)
	return token
}

func (c *QueryClient) run(ctx context.Context, token uint64, req sharedDomain.PageRequest) (outcome queryDomain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Query panicked", zap.Uint64("token", token), zap.Any("panic", r))
			outcome = c.finish(token, queryDomain.Rejected(token, &queryDomain.Rejection{
				Kind: queryDomain.RejectServer,
				Err:  errors.New("internal error while querying"),
			}))
		}
	}()

	if err := req.Validate(); err != nil {
		return c.finish(token, queryDomain.Rejected(token, &queryDomain.Rejection{
			Kind: queryDomain.RejectInvalidRequest,
			Err:  err,
		}))
	}

	sess := c.session.Get()
	body := req.Filter.Body()
	res := c.guard.Do(ctx, func(ctx context.Context) session.RemoteResult {
		return c.remote.Filter(ctx, sess, c.entity.Path, body, req.PageSize, req.PageNumber)
	})

	switch res.Class {
	case session.ClassOK:
		page, err := remote.DecodePage(res.Payload, req)
		if err != nil {
			return c.fallback(ctx, token, req, err)
		}
		page.Items = sharedDomain.NormalizeAll(page.Items, c.entity.IdentityField)
		return c.finish(token, queryDomain.Succeeded(token, page))

	case session.ClassSessionExpired:
		return c.finish(token, queryDomain.Expired(token))

	case session.ClassServerRejected:
		rejection := res.Rejection()
		return c.finish(token, queryDomain.Rejected(token, &queryDomain.Rejection{
			Kind:     queryDomain.RejectServer,
			Status:   rejection.Status,
			Messages: rejection.Messages,
			Err:      rejection,
		}))

	default:
		return c.fallback(ctx, token, req, res.Cause)
	}
}

// fallback filtra la instantánea local con el mismo FilterSpec. Si la consulta ya no es
// la última no se lee el almacén.
func (c *QueryClient) fallback(ctx context.Context, token uint64, req sharedDomain.PageRequest, cause error) queryDomain.Outcome {
	if !c.enterFallback(token) {
		return c.superseded(token)
	}
	c.log.Warn("Remote query failed, using offline snapshot",
		zap.Uint64("token", token),
		zap.String("snapshot", c.entity.SnapshotName),
		zap.Error(cause),
	)

	snap, err := c.store.Load(ctx, c.entity.SnapshotName)
	if err != nil {
		kind := queryDomain.RejectStorageUnavailable
		if errors.Is(err, sharedDomain.ErrNoOfflineData) {
			kind = queryDomain.RejectNoOfflineData
		}
		return c.finish(token, queryDomain.Rejected(token, &queryDomain.Rejection{Kind: kind, Err: err}))
	}

	items := sharedDomain.Compile(req.Filter).Filter(sharedDomain.NormalizeAll(snap.Items, c.entity.IdentityField))
	page := sharedDomain.Page{
		Items:      items,
		TotalItems: len(items),
		PageNumber: 1,
		PageSize:   utils.Ternary(len(items) > 0, len(items), 1),
	}
	return c.finish(token, queryDomain.FallingBack(token, page, snap.SavedAt, cause))
}

func (c *QueryClient) enterFallback(token uint64) bool {
	c.mu.Lock()
	if !c.tokens.IsLatest(token) {
		c.mu.Unlock()
		return false
	}
	tr := c.moveLocked(token, queryDomain.StateFallingBack, nil)
	c.mu.Unlock()

	c.publish(tr)
	return true
}

// finish publica el Outcome si el token sigue siendo el último y vuelve a Idle.
func (c *QueryClient) finish(token uint64, outcome queryDomain.Outcome) queryDomain.Outcome {
	c.mu.Lock()
	if !c.tokens.IsLatest(token) {
		c.mu.Unlock()
		return c.superseded(token)
	}

	tr := c.moveLocked(token, outcome.State, &outcome)
	c.current = &outcome
	c.state = queryDomain.StateIdle
	c.mu.Unlock()

	c.publish(tr)

	switch outcome.State {
	case queryDomain.StateExpired:
		c.log.Warn("Session expired, re-authentication required", zap.Uint64("token", token))
	case queryDomain.StateRejected:
		c.log.Info("Query rejected", zap.Uint64("token", token), zap.Error(outcome.Err()))
	default:
		c.log.Debug("Query completed", zap.Uint64("token", token), zap.Stringer("state", outcome.State))
	}
	return outcome
}

func (c *QueryClient) superseded(token uint64) queryDomain.Outcome {
	c.log.Debug("Discarding superseded outcome",
		zap.Uint64("token", token),
		zap.Uint64("latest", c.tokens.Latest()),
	)
	return queryDomain.Superseded(token)
}

// moveLocked cambia el estado y entrega la transición a los suscriptores locales en
// orden. Requiere c.mu.
func (c *QueryClient) moveLocked(token uint64, to queryDomain.State, outcome *queryDomain.Outcome) queryDomain.Transition {
	tr := queryDomain.NewTransition(c.entity.Name, token, c.state, to, outcome)
	c.state = to
	c.bus.Emit(tr)
	return tr
}

// publish envía la transición al publisher externo, fuera del mutex.
func (c *QueryClient) publish(tr queryDomain.Transition) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(context.Background(), tr); err != nil {
		c.log.Warn("Failed to publish transition", zap.Error(err))
	}
}
