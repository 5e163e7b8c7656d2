package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/vetquery/internal/fakeapi"
	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
	"github.com/davicafu/vetquery/internal/shared/infra/session"
)

func TestFilterURL(t *testing.T) {
	assert.Equal(t, "http://clinica.test/pacientes/Filter/5/2", FilterURL("http://clinica.test/", "/pacientes", 5, 2))
	assert.Equal(t, "http://clinica.test/api/ventas/Filter/100/1", FilterURL("http://clinica.test/api", "ventas", 100, 1))
}

func TestFilterClient_SendsBodyAndHeaders(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotID   string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(RequestIDHeader)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewFilterClient(time.Second, 0, zap.NewNop())
	res := client.Filter(context.Background(),
		session.Context{APIHost: srv.URL, Token: "tok-1"},
		"pacientes", map[string]any{"especie": "Canino"}, 5, 1)

	require.NoError(t, res.Err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"data":[]}`, string(res.Body))
	assert.Equal(t, "/pacientes/Filter/5/1", gotPath)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotID)
	assert.Equal(t, map[string]any{"especie": "Canino"}, gotBody)
}

func TestFilterClient_NilBodyIsEmptyObject(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		raw = buf[:n]
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	res := NewFilterClient(time.Second, 0, nil).Filter(context.Background(),
		session.Context{APIHost: srv.URL}, "clientes", nil, 10, 1)

	require.NoError(t, res.Err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestFilterClient_DoesNotInterpretStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"expired"}`))
	}))
	defer srv.Close()

	res := NewFilterClient(time.Second, 0, nil).Filter(context.Background(),
		session.Context{APIHost: srv.URL, Token: "x"}, "pacientes", nil, 5, 1)

	require.NoError(t, res.Err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestFilterClient_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewFilterClient(200*time.Millisecond, 0, nil).Filter(context.Background(),
		session.Context{APIHost: url}, "pacientes", nil, 5, 1)

	assert.Error(t, res.Err)
	assert.Zero(t, res.StatusCode)
}

// Recorrido completo contra el servidor simulado: cliente HTTP, guardia y decodificación.
func TestFilterClient_AgainstFakeAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("secreto")

	api := fakeapi.New(fakeapi.Options{Secret: secret})
	records := make([]map[string]any, 0, 12)
	for i := 1; i <= 12; i++ {
		records = append(records, map[string]any{
			"id_paciente": i,
			"especie":     []string{"Canino", "Felino", "Ave"}[i%3],
		})
	}
	api.Seed("pacientes", fakeapi.Dataset{
		Schema:  fakeapi.Schema{"especie": fakeapi.KindEqualsFold},
		Records: records,
	})
	srv := httptest.NewServer(api.Handler())
	defer srv.Close()

	token, err := fakeapi.IssueToken(secret, "recepcion", time.Hour)
	require.NoError(t, err)

	client := NewFilterClient(time.Second, 0, nil)
	guard := session.NewGuard(time.Second, nil)
	spec := sharedDomain.FilterSpec{}.With("especie", sharedDomain.EqualsFold{Value: "canino"})
	req := sharedDomain.PageRequest{Filter: spec, PageSize: 3, PageNumber: 2}

	call := func(sess session.Context) session.Result {
		return guard.Do(context.Background(), func(ctx context.Context) session.RemoteResult {
			return client.Filter(ctx, sess, "pacientes", req.Filter.Body(), req.PageSize, req.PageNumber)
		})
	}

	res := call(session.Context{APIHost: srv.URL, Token: token})
	require.Equal(t, session.ClassOK, res.Class)

	page, err := DecodePage(res.Payload, req)
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalItems)
	assert.Equal(t, 2, page.PageNumber)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 12.0, page.Items[0]["id_paciente"])

	expired := call(session.Context{APIHost: srv.URL, Token: "caducado"})
	assert.Equal(t, session.ClassSessionExpired, expired.Class)
	assert.EqualValues(t, 2, api.Requests())
}
