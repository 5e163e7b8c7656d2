package application

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/vetquery/internal/mocks"
	"github.com/davicafu/vetquery/internal/query/infra/outbound/snapshot"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	sharedCache "github.com/davicafu/vetquery/internal/shared/infra/platform/cache"
	"github.com/davicafu/vetquery/internal/shared/infra/session"
)

var photoPatients = sharedDomain.Entity{
	Name:           "pacientes",
	Path:           "pacientes",
	IdentityField:  "id_paciente",
	SnapshotName:   "patients",
	StrippedFields: []string{"foto"},
	Fields:         map[string]sharedDomain.RuleKind{"especie": sharedDomain.KindEqualsFold},
}

func withPhotos(n int) []map[string]any {
	out := generatePatients(n)
	for _, r := range out {
		r["foto"] = "data:image/png;base64,AAAA"
	}
	return out
}

func newSnapshotService(remote *mocks.ScriptedRemote) (*SnapshotService, *snapshot.CacheStore) {
	store := snapshot.NewCacheStore(sharedCache.NewInMemoryCache(), zap.NewNop())
	svc := NewSnapshotService(store, remote,
		session.NewGuard(time.Second, zap.NewNop()),
		session.NewHolder(session.Context{APIHost: "http://clinica.test", Token: "tok"}),
		DownloadOptions{PageSize: 5, Concurrency: 2, Attempts: 3, RetryDelay: time.Millisecond},
		zap.NewNop(),
	)
	return svc, store
}

func TestDownload_FetchesEveryPage(t *testing.T) {
	all := withPhotos(23)
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		return mocks.PageResult(all, call.PageSize, call.PageNumber)
	}}
	svc, store := newSnapshotService(remote)

	n, err := svc.Download(context.Background(), photoPatients, sharedDomain.FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, 23, n)
	assert.Equal(t, 5, remote.CallCount())

	snap, err := store.Load(context.Background(), "patients")
	require.NoError(t, err)
	require.Len(t, snap.Items, 23)
	for i, r := range snap.Items {
		assert.EqualValues(t, i+1, r["id"], "orden de páginas conservado")
		assert.NotContains(t, r, "foto")
		assert.Contains(t, r, "id_paciente")
		assert.Contains(t, r, "especie")
	}
}

func TestDownload_SendsFilterBody(t *testing.T) {
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		return mocks.PageResult(withPhotos(2), call.PageSize, call.PageNumber)
	}}
	svc, _ := newSnapshotService(remote)
	filter := sharedDomain.FilterSpec{}.With("especie", sharedDomain.EqualsFold{Value: "Felino"})

	_, err := svc.Download(context.Background(), photoPatients, filter)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"especie": "Felino"}, remote.Calls[0].Body)
}

func TestDownload_RetriesTransientFailures(t *testing.T) {
	all := withPhotos(12)
	var mu sync.Mutex
	failed := map[int]bool{}
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		mu.Lock()
		defer mu.Unlock()
		if call.PageNumber == 3 && !failed[3] {
			failed[3] = true
			return session.RemoteResult{Err: errNetwork}
		}
		return mocks.PageResult(all, call.PageSize, call.PageNumber)
	}}
	svc, _ := newSnapshotService(remote)

	n, err := svc.Download(context.Background(), photoPatients, sharedDomain.FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, 4, remote.CallCount())
}

func TestDownload_FailureKeepsPreviousSnapshot(t *testing.T) {
	all := withPhotos(12)
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		if call.PageNumber == 2 {
			return session.RemoteResult{Err: errNetwork}
		}
		return mocks.PageResult(all, call.PageSize, call.PageNumber)
	}}
	svc, store := newSnapshotService(remote)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "patients", []sharedDomain.Record{{"id": "anterior"}}))

	_, err := svc.Download(ctx, photoPatients, sharedDomain.FilterSpec{})
	assert.ErrorIs(t, err, errTransient)

	snap, err := store.Load(ctx, "patients")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "anterior", snap.Items[0]["id"])
}

func TestDownload_NonTransientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name    string
		result  session.RemoteResult
		checkEr func(t *testing.T, err error)
	}{
		{
			name:   "sesión caducada",
			result: session.RemoteResult{StatusCode: http.StatusForbidden},
			checkEr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, sharedDomain.ErrSessionExpired)
			},
		},
		{
			name:   "rechazo del servidor",
			result: mocks.JSONResult(http.StatusBadRequest, map[string]any{"message": "filtro inválido"}),
			checkEr: func(t *testing.T, err error) {
				var rejected *sharedDomain.RejectedError
				require.ErrorAs(t, err, &rejected)
				assert.Equal(t, http.StatusBadRequest, rejected.Status)
				assert.Equal(t, []string{"filtro inválido"}, rejected.Messages)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
				return tt.result
			}}
			svc, store := newSnapshotService(remote)

			_, err := svc.Download(context.Background(), photoPatients, sharedDomain.FilterSpec{})
			tt.checkEr(t, err)
			assert.Equal(t, 1, remote.CallCount())

			_, err = store.Load(context.Background(), "patients")
			assert.ErrorIs(t, err, sharedDomain.ErrNoOfflineData)
		})
	}
}

func TestDownload_EmptyCollection(t *testing.T) {
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		return mocks.PageResult(nil, call.PageSize, call.PageNumber)
	}}
	svc, store := newSnapshotService(remote)

	n, err := svc.Download(context.Background(), photoPatients, sharedDomain.FilterSpec{})
	require.NoError(t, err)
	assert.Zero(t, n)

	snap, err := store.Load(context.Background(), "patients")
	require.NoError(t, err, "una colección vacía sí deja instantánea")
	assert.Empty(t, snap.Items)
}

func TestSnapshotService_SaveLoadDelete(t *testing.T) {
	svc, _ := newSnapshotService(&mocks.ScriptedRemote{Respond: transportFailure})
	ctx := context.Background()

	require.NoError(t, svc.SaveEntity(ctx, photoPatients, []sharedDomain.Record{
		{"id_paciente": 7, "nombre": "Toby", "foto": "x"},
	}))
	snap, err := svc.LoadSnapshot(ctx, "patients")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.EqualValues(t, 7, snap.Items[0]["id"])
	assert.NotContains(t, snap.Items[0], "foto")

	require.NoError(t, svc.SaveSnapshot(ctx, "patients", []sharedDomain.Record{{"id": "raw", "foto": "y"}}))
	snap, err = svc.LoadSnapshot(ctx, "patients")
	require.NoError(t, err)
	assert.Equal(t, "y", snap.Items[0]["foto"], "SaveSnapshot guarda tal cual")

	require.NoError(t, svc.DeleteSnapshot(ctx, "patients"))
	_, err = svc.LoadSnapshot(ctx, "patients")
	assert.ErrorIs(t, err, sharedDomain.ErrNoOfflineData)
}

func TestUniqueByID(t *testing.T) {
	items := []sharedDomain.Record{
		{"id": 1.0, "nombre": "primero"},
		{"id": "1"},
		{"id": 1.0, "nombre": "repetido"},
		{"id": 2.0},
		{"nombre": "sin id"},
		{"nombre": "otro sin id"},
	}
	out := uniqueByID(items)
	require.Len(t, out, 5)
	assert.Equal(t, "primero", out[0]["nombre"])
	assert.Equal(t, "1", out[1]["id"], "el número 1 y el texto \"1\" son identidades distintas")
	assert.Equal(t, 2.0, out[2]["id"])
}

func TestDownload_ImplausibleTotalKeepsPreviousSnapshot(t *testing.T) {
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		return mocks.JSONResult(http.StatusOK, map[string]any{
			"data":       withPhotos(5),
			"pagination": map[string]any{"total": int64(1) << 62, "currentPage": call.PageNumber},
		})
	}}
	svc, store := newSnapshotService(remote)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "patients", []sharedDomain.Record{{"id": "anterior"}}))

	var err error
	require.NotPanics(t, func() {
		_, err = svc.Download(ctx, photoPatients, sharedDomain.FilterSpec{})
	})
	assert.ErrorIs(t, err, ErrTooManyPages)
	assert.Equal(t, 1, remote.CallCount())

	snap, err := store.Load(ctx, "patients")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "anterior", snap.Items[0]["id"])
}

func TestDownload_MaxPagesBoundary(t *testing.T) {
	all := withPhotos(10)
	remote := &mocks.ScriptedRemote{Respond: func(ctx context.Context, call mocks.RemoteCall) session.RemoteResult {
		return mocks.PageResult(all, call.PageSize, call.PageNumber)
	}}
	store := snapshot.NewCacheStore(sharedCache.NewInMemoryCache(), zap.NewNop())
	guard := session.NewGuard(time.Second, zap.NewNop())
	holder := session.NewHolder(session.Context{APIHost: "http://clinica.test", Token: "tok"})

	tests := []struct {
		name     string
		maxPages int
		wantErr  bool
	}{
		{"justo en el límite", 2, false},
		{"por encima del límite", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSnapshotService(store, remote, guard, holder,
				DownloadOptions{PageSize: 5, Concurrency: 1, Attempts: 1, RetryDelay: time.Millisecond, MaxPages: tt.maxPages},
				zap.NewNop(),
			)
			n, err := svc.Download(context.Background(), photoPatients, sharedDomain.FilterSpec{})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTooManyPages)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 10, n)
		})
	}
}
