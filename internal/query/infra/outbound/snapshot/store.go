package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	queryDomain "github.com/davicafu/vetquery/internal/query/domain"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	sharedCache "github.com/davicafu/vetquery/internal/shared/infra/platform/cache"
)

// CacheStore implementa SnapshotStore sobre cualquier adaptador de caché.
// Cada instantánea es un único documento, así que Load nunca ve un guardado a medias.
type CacheStore struct {
	cache sharedCache.Cache
	now   func() time.Time
	log   *zap.Logger
}

var _ sharedDomain.SnapshotStore = (*CacheStore)(nil)

func NewCacheStore(cache sharedCache.Cache, log *zap.Logger) *CacheStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CacheStore{cache: cache, now: time.Now, log: log}
}

func (s *CacheStore) Save(ctx context.Context, name string, items []sharedDomain.Record) error {
	if items == nil {
		items = []sharedDomain.Record{}
	}
	snap := sharedDomain.Snapshot{
		Name:    name,
		SavedAt: s.now().UTC(),
		Items:   items,
	}
	if err := s.cache.Set(ctx, queryDomain.SnapshotKey(name), snap); err != nil {
		s.log.Error("Failed to save snapshot", zap.String("snapshot", name), zap.Error(err))
		return sharedDomain.NewStorageError("save", name, err)
	}
	s.log.Info("Snapshot saved", zap.String("snapshot", name), zap.Int("items", len(items)))
	return nil
}

func (s *CacheStore) Load(ctx context.Context, name string) (*sharedDomain.Snapshot, error) {
	var snap sharedDomain.Snapshot
	hit, err := s.cache.Get(ctx, queryDomain.SnapshotKey(name), &snap)
	if err != nil {
		return nil, sharedDomain.NewStorageError("load", name, err)
	}
	if !hit {
		return nil, sharedDomain.ErrNoOfflineData
	}
	if snap.Items == nil {
		snap.Items = []sharedDomain.Record{}
	}
	if snap.Name == "" {
		snap.Name = name
	}
	return &snap, nil
}

func (s *CacheStore) Delete(ctx context.Context, name string) error {
	if err := s.cache.Delete(ctx, queryDomain.SnapshotKey(name)); err != nil {
		return sharedDomain.NewStorageError("delete", name, err)
	}
	return nil
}
