package api

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"binobj/bwire"
	"binobj/record"
	"binobj/store"
	"binobj/testutil/testfs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T, withStore bool, maxBody int64) (*httptest.Server, *Client, func()) {
	opts := &Opts{MaxBodyBytes: maxBody}
	cleanups := []func(){}
	if withStore {
		dir, done := testfs.NewTempDir(t)
		db, err := store.Open(dir)
		require.NoError(t, err)
		opts.DB = db
		cleanups = append(cleanups, func() {
			require.NoError(t, db.Close())
			done()
		})
	}
	srv, err := NewServer(opts)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	client, err := NewClient(ts.URL, ts.Client(), nil)
	require.NoError(t, err)
	return ts, client, func() {
		ts.Close()
		for _, c := range cleanups {
			c()
		}
	}
}

func post(t *testing.T, url string, contentType string, body []byte, headers map[string]string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func TestServer_Echo(t *testing.T) {
	_, client, done := setupServer(t, false, 0)
	defer done()

	user := record.NewUser(42, "Ada", "Lovelace")
	for _, name := range []string{"buf", "json", "cbor"} {
		t.Run(name, func(t *testing.T) {
			echoed, n, err := client.Echo(context.Background(), name, user)
			require.NoError(t, err)
			require.True(t, user.Equals(echoed))
			require.Greater(t, n, 0)
		})
	}

	_, _, err := client.Echo(context.Background(), "xml", user)
	require.Error(t, err)
}

func TestServer_EchoBinaryLayout(t *testing.T) {
	_, client, done := setupServer(t, false, 0)
	defer done()

	user := record.NewUser(1, "First Name", "Second Name")
	_, bufBytes, err := client.Echo(context.Background(), "buf", user)
	require.NoError(t, err)
	bin, err := user.ToBuffer()
	require.NoError(t, err)
	// 4+4 id, 4+20 first name, 4+22 second name
	require.Len(t, bin, 58)
	require.Greater(t, bufBytes, len(bin))
}

func TestServer_EchoNegotiatesResponse(t *testing.T) {
	ts, _, done := setupServer(t, false, 0)
	defer done()

	user := record.NewUser(math.NaN(), "a", "b")
	buf, err := user.ToBuffer()
	require.NoError(t, err)

	res := post(t, ts.URL+"/api/buf", ContentTypeBinary, buf, nil)
	res.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	res = post(t, ts.URL+"/api/buf", ContentTypeBinary, buf, map[string]string{"Accept": ContentTypeBinary})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, ContentTypeBinary, res.Header.Get("Content-Type"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	echoed, err := bwire.From[record.User](body)
	require.NoError(t, err)
	require.True(t, user.Equals(echoed))
}

func TestServer_EchoRejectsBadBodies(t *testing.T) {
	ts, _, done := setupServer(t, false, 64)
	defer done()

	tests := []struct {
		name        string
		path        string
		contentType string
		body        []byte
		headers     map[string]string
		code        int
	}{
		{
			name:        "truncated buffer",
			path:        "/api/buf",
			contentType: ContentTypeBinary,
			body:        []byte{0x04, 0x00},
			code:        http.StatusBadRequest,
		},
		{
			name:        "invalid json",
			path:        "/api/json",
			contentType: ContentTypeJSON,
			body:        []byte("{"),
			code:        http.StatusBadRequest,
		},
		{
			name:        "wrong content type",
			path:        "/api/buf",
			contentType: ContentTypeJSON,
			body:        []byte("{}"),
			code:        http.StatusUnsupportedMediaType,
		},
		{
			name:        "too large",
			path:        "/api/json",
			contentType: ContentTypeJSON,
			body:        []byte(`{"firstName":"` + strings.Repeat("x", 128) + `"}`),
			code:        http.StatusRequestEntityTooLarge,
		},
		{
			name:        "schema mismatch",
			path:        "/api/json",
			contentType: ContentTypeJSON,
			body:        []byte("{}"),
			headers:     map[string]string{SchemaHeader: strings.Repeat("ab", 32)},
			code:        http.StatusConflict,
		},
		{
			name:        "malformed schema header",
			path:        "/api/json",
			contentType: ContentTypeJSON,
			body:        []byte("{}"),
			headers:     map[string]string{SchemaHeader: "zz"},
			code:        http.StatusBadRequest,
		},
		{
			name:        "persist without store",
			path:        "/api/json?persist=true",
			contentType: ContentTypeJSON,
			body:        []byte(`{"id":1}`),
			code:        http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := post(t, ts.URL+tt.path, tt.contentType, tt.body, tt.headers)
			defer res.Body.Close()
			require.Equal(t, tt.code, res.StatusCode)
			b, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			var errRes errorResponse
			require.NoError(t, jsonAPI.Unmarshal(b, &errRes))
			require.NotEmpty(t, errRes.Error)
		})
	}
}

func TestServer_Users(t *testing.T) {
	_, client, done := setupServer(t, true, 0)
	defer done()
	ctx := context.Background()

	for _, id := range []float64{7, -0.0, 1.5, math.Inf(1), math.NaN()} {
		user := record.NewUser(id, "first", "second")
		require.NoError(t, client.PutUser(ctx, user))
		got, err := client.GetUser(ctx, id)
		require.NoError(t, err)
		require.True(t, user.Equals(got))
	}

	_, err := client.GetUser(ctx, 0)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Code)

	require.NoError(t, client.DeleteUser(ctx, 7))
	err = client.DeleteUser(ctx, 7)
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestServer_ListUsers(t *testing.T) {
	ts, client, done := setupServer(t, true, 0)
	defer done()
	ctx := context.Background()

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	for _, id := range []float64{2, 1, 3} {
		require.NoError(t, client.PutUser(ctx, record.NewUser(id, "f", "s")))
	}
	users, err = client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, user := range users {
		require.True(t, record.NewUser(float64(i+1), "f", "s").Equals(user))
	}

	res, err := http.Get(ts.URL + "/api/users")
	require.NoError(t, err)
	var listed []*record.User
	require.NoError(t, jsonAPI.NewDecoder(res.Body).Decode(&listed))
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, ContentTypeJSON, res.Header.Get("Content-Type"))
	require.Len(t, listed, 3)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/users", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", ContentTypeBinary)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNotAcceptable, res.StatusCode)

	// NaN has no JSON form but survives CBOR
	require.NoError(t, client.PutUser(ctx, record.NewUser(math.NaN(), "n", "n")))
	res, err = http.Get(ts.URL + "/api/users")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	users, err = client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
}

func TestServer_RejectsOtherWireMode(t *testing.T) {
	ts, _, done := setupServer(t, false, 0)
	defer done()

	tagged := bwire.DefaultCodec()
	tagged.Tagged = true
	client, err := NewClient(ts.URL, ts.Client(), &tagged)
	require.NoError(t, err)
	_, _, err = client.Echo(context.Background(), "json", record.NewUser(1, "a", "b"))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusConflict, statusErr.Code)
}

func TestServer_PutUserRejectsMismatchedID(t *testing.T) {
	ts, _, done := setupServer(t, true, 0)
	defer done()

	buf, err := record.NewUser(1, "a", "b").ToBuffer()
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/users/2", bytes.NewReader(buf))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestServer_EchoPersists(t *testing.T) {
	ts, client, done := setupServer(t, true, 0)
	defer done()

	user := record.NewUser(99, "x", "y")
	buf, err := user.ToBuffer()
	require.NoError(t, err)
	res := post(t, ts.URL+"/api/buf?persist=true", ContentTypeBinary, buf, nil)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	got, err := client.GetUser(context.Background(), 99)
	require.NoError(t, err)
	require.True(t, user.Equals(got))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts, client, done := setupServer(t, false, 0)
	defer done()

	require.NoError(t, client.Health(context.Background()))
	_, _, err := client.Echo(context.Background(), "json", record.NewUser(1, "a", "b"))
	require.NoError(t, err)

	res, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `binobj_http_requests_total{method="POST",route="/api/json",status_code="200"} 1`)
	require.Contains(t, string(body), "binobj_codec_bytes_total")
}

func TestServer_StartStop(t *testing.T) {
	srv, err := NewServer(&Opts{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	client, err := NewClient("http://"+srv.Addr(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, client.Health(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))
}

func TestServer_UserBusy(t *testing.T) {
	dir, cleanup := testfs.NewTempDir(t)
	defer cleanup()
	db, err := store.Open(dir)
	require.NoError(t, err)
	defer db.Close()

	srv, err := NewServer(&Opts{DB: db})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	client, err := NewClient(ts.URL, ts.Client(), nil)
	require.NoError(t, err)

	user := record.NewUser(3, "a", "b")
	key := store.UserKey(user.ID)
	require.True(t, srv.userLocker.TryLock(key))
	err = client.PutUser(context.Background(), user)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusConflict, statusErr.Code)
	srv.userLocker.Unlock(key)

	require.True(t, srv.userLocker.TryRLock(key))
	buf, err := user.ToBuffer()
	require.NoError(t, err)
	res := post(t, ts.URL+"/api/buf?persist=true", ContentTypeBinary, buf, nil)
	res.Body.Close()
	require.Equal(t, http.StatusConflict, res.StatusCode)
	// readers share the lock, and the rejected echo stored nothing
	_, err = client.GetUser(context.Background(), user.ID)
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Code)
	srv.userLocker.RUnlock(key)

	res = post(t, ts.URL+"/api/buf?persist=true", ContentTypeBinary, buf, nil)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, client.PutUser(context.Background(), user))
	require.Equal(t, 0, srv.userLocker.Held())
}
