package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	queryDomain "github.com/davicafu/vetquery/internal/query/domain"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	sharedQuery "github.com/davicafu/vetquery/internal/shared/infra/platform/query"
	"github.com/davicafu/vetquery/internal/shared/infra/remote"
	"github.com/davicafu/vetquery/internal/shared/infra/session"
	"github.com/davicafu/vetquery/internal/shared/infra/utils"
)

// errTransient marca los fallos de transporte que merece la pena reintentar.
var errTransient = errors.New("transient remote failure")

// ErrTooManyPages indica un total de registros que la descarga no acepta.
var ErrTooManyPages = errors.New("download exceeds page limit")

type DownloadOptions struct {
	PageSize    int
	Concurrency int
	Attempts    int
	RetryDelay  time.Duration
	MaxPages    int
}

func (o DownloadOptions) withDefaults() DownloadOptions {
	if o.PageSize < 1 {
		o.PageSize = 100
	}
	if o.Concurrency < 1 {
		o.Concurrency = 4
	}
	if o.Attempts < 1 {
		o.Attempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 500 * time.Millisecond
	}
	if o.MaxPages < 1 {
		o.MaxPages = 1000
	}
	return o
}

// SnapshotService guarda, lee y descarga instantáneas para uso sin conexión.
type SnapshotService struct {
	store   sharedDomain.SnapshotStore
	remote  queryDomain.Remote
	guard   *session.Guard
	session *session.Holder
	opts    DownloadOptions
	log     *zap.Logger
}

func NewSnapshotService(
	store sharedDomain.SnapshotStore,
	remote queryDomain.Remote,
	guard *session.Guard,
	sess *session.Holder,
	opts DownloadOptions,
	log *zap.Logger,
) *SnapshotService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SnapshotService{
		store:   store,
		remote:  remote,
		guard:   guard,
		session: sess,
		opts:    opts.withDefaults(),
		log:     log,
	}
}

// SaveSnapshot reemplaza la instantánea 'name' tal cual.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, name string, items []sharedDomain.Record) error {
	return s.store.Save(ctx, name, items)
}

// SaveEntity normaliza la identidad, quita los campos pesados y guarda con el nombre de la entidad.
func (s *SnapshotService) SaveEntity(ctx context.Context, entity sharedDomain.Entity, items []sharedDomain.Record) error {
	return s.store.Save(ctx, entity.SnapshotName, entity.PrepareForSnapshot(items))
}

func (s *SnapshotService) LoadSnapshot(ctx context.Context, name string) (*sharedDomain.Snapshot, error) {
	return s.store.Load(ctx, name)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// Download descarga todas las páginas que cumplen 'filter' y las guarda como instantánea
// de la entidad. Si algo falla la instantánea anterior queda intacta.
func (s *SnapshotService) Download(ctx context.Context, entity sharedDomain.Entity, filter sharedDomain.FilterSpec) (int, error) {
	log := s.log.With(zap.String("entity", entity.Name))
	sess := s.session.Get()

	first, err := s.fetchPage(ctx, sess, entity, filter, 1)
	if err != nil {
		return 0, err
	}

	totalPages := sharedQuery.TotalPages(first.TotalItems, s.opts.PageSize)
	if totalPages > s.opts.MaxPages {
		log.Warn("Download aborted, previous snapshot kept",
			zap.Int("total_items", first.TotalItems),
			zap.Int("max_pages", s.opts.MaxPages),
		)
		return 0, fmt.Errorf("%w: %d items in pages of %d (max %d pages)", ErrTooManyPages, first.TotalItems, s.opts.PageSize, s.opts.MaxPages)
	}
	pages := make([][]sharedDomain.Record, utils.Ternary(totalPages > 1, totalPages, 1))
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for p := 2; p <= totalPages; p++ {
		pageNumber := p
		g.Go(func() error {
			page, err := s.fetchPage(gctx, sess, entity, filter, pageNumber)
			if err != nil {
				return err
			}
			pages[pageNumber-1] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("Download aborted, previous snapshot kept", zap.Error(err))
		return 0, err
	}

	items := uniqueByID(sharedDomain.NormalizeAll(lo.Flatten(pages), entity.IdentityField))
	if err := s.SaveEntity(ctx, entity, items); err != nil {
		return 0, err
	}

	log.Info("Snapshot downloaded",
		zap.Int("items", len(items)),
		zap.Int("pages", totalPages),
	)
	return len(items), nil
}

func (s *SnapshotService) fetchPage(ctx context.Context, sess session.Context, entity sharedDomain.Entity, filter sharedDomain.FilterSpec, pageNumber int) (sharedDomain.Page, error) {
	req := sharedDomain.PageRequest{Filter: filter, PageSize: s.opts.PageSize, PageNumber: pageNumber}
	body := filter.Body()

	var page sharedDomain.Page
	err := utils.RetryIf(ctx, s.opts.Attempts, s.opts.RetryDelay, func() error {
		res := s.guard.Do(ctx, func(ctx context.Context) session.RemoteResult {
			return s.remote.Filter(ctx, sess, entity.Path, body, req.PageSize, req.PageNumber)
		})
		switch res.Class {
		case session.ClassOK:
			decoded, err := remote.DecodePage(res.Payload, req)
			if err != nil {
				return fmt.Errorf("%w: page %d: %v", errTransient, pageNumber, err)
			}
			page = decoded
			return nil
		case session.ClassTransportFailure:
			return fmt.Errorf("%w: page %d: %v", errTransient, pageNumber, res.Cause)
		default:
			return res.Err()
		}
	}, func(err error) bool { return errors.Is(err, errTransient) })

	return page, err
}

// uniqueByID quita duplicados por 'id' (pueden aparecer si los datos cambian entre páginas).
// Los registros sin id se conservan todos.
func uniqueByID(items []sharedDomain.Record) []sharedDomain.Record {
	seen := make(map[string]struct{}, len(items))
	return lo.Filter(items, func(r sharedDomain.Record, _ int) bool {
		id, ok := r.Lookup(sharedDomain.IDField)
		if !ok {
			return true
		}
		key := fmt.Sprintf("%T:%v", id, id)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
