package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	httpadapter "github.com/couchcryptid/tempconv-service/internal/adapter/http"
	"github.com/couchcryptid/tempconv-service/internal/binding"
	"github.com/couchcryptid/tempconv-service/internal/domain"
	"github.com/couchcryptid/tempconv-service/internal/observability"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, opts ...binding.Option) *httpadapter.Server {
	metrics := observability.NewMetricsForTesting()
	opts = append(opts, binding.WithMetrics(metrics))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, binding.NewRegistry(opts...), metrics, slog.Default())
}

func postCall(t *testing.T, srv http.Handler, name, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/functions/"+name, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) domain.CallResult {
	t.Helper()
	var res domain.CallResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("not ready yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestListFunctions(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/functions", nil)

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var fns []binding.Function
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fns))

	names := make([]string, 0, len(fns))
	for _, fn := range fns {
		names = append(names, fn.Name)
		assert.Equal(t, 1, fn.Arity, fn.Name)
		assert.NotEmpty(t, fn.Doc, fn.Name)
	}
	assert.Equal(t, []string{
		"c_to_k", "check_temperature", "count", "f_to_c_matrix",
		"f_to_c_vector", "f_to_celsius", "f_to_kelvin",
	}, names)
}

func TestCall_Success(t *testing.T) {
	tests := []struct {
		name       string
		function   string
		body       string
		wantResult string
	}{
		{"scalar", "f_to_celsius", `{"args":[212]}`, `100`},
		{"kelvin", "c_to_k", `{"args":[0]}`, `273.15`},
		{"validity", "check_temperature", `{"args":[-500]}`, `false`},
		{"vector", "f_to_c_vector", `{"args":[[32,212]]}`, `[0,100]`},
		{"matrix", "f_to_c_matrix", `{"args":[[[32],[212]]]}`, `[[0],[100]]`},
	}

	srv := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCall(t, srv, tt.function, tt.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			res := decodeResult(t, rec)
			assert.Equal(t, tt.function, res.Function)
			assert.JSONEq(t, tt.wantResult, string(res.Result))
			assert.Empty(t, res.Error)
		})
	}
}

func TestCall_CountReturnsOutput(t *testing.T) {
	srv := newTestServer(nil)

	rec := postCall(t, srv, "count", `{"args":[3]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, []string{"i is 0", "i is 1", "i is 2"}, res.Output)
	assert.Contains(t, rec.Body.String(), `"result":null`)
}

func TestCall_Errors(t *testing.T) {
	tests := []struct {
		name       string
		function   string
		body       string
		wantStatus int
	}{
		{"unknown function", "nope", `{"args":[1]}`, http.StatusNotFound},
		{"wrong arity", "f_to_celsius", `{"args":[1,2]}`, http.StatusBadRequest},
		{"no args", "f_to_celsius", `{}`, http.StatusBadRequest},
		{"wrong type", "f_to_celsius", `{"args":["hot"]}`, http.StatusBadRequest},
		{"ragged matrix", "f_to_c_matrix", `{"args":[[[1,2],[3]]]}`, http.StatusBadRequest},
		{"malformed body", "f_to_celsius", `{"args":`, http.StatusBadRequest},
		{"unknown field", "f_to_celsius", `{"argv":[1]}`, http.StatusBadRequest},
	}

	srv := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCall(t, srv, tt.function, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestCall_CountLimit(t *testing.T) {
	srv := newTestServer(nil, binding.WithCountLimit(5))

	rec := postCall(t, srv, "count", `{"args":[6]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeResult(t, rec).Error, "exceeds limit 5")
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(nil)

	t.Run("propagated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/functions/f_to_celsius", strings.NewReader(`{"args":[32]}`))
		req.Header.Set("X-Request-ID", "req-42")

		srv.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-42", decodeResult(t, rec).ID)
	})

	t.Run("generated", func(t *testing.T) {
		rec := postCall(t, srv, "f_to_celsius", `{"args":[32]}`)

		id := rec.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Equal(t, id, decodeResult(t, rec).ID)
	})
}

func dialStream(t *testing.T, ts *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/count/stream" + query
	return websocket.DefaultDialer.Dial(url, nil)
}

type frame struct {
	Type  string `json:"type"`
	Value *int   `json:"value"`
}

func TestCountStream(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil))
	defer ts.Close()

	conn, _, err := dialStream(t, ts, "?max=4")
	require.NoError(t, err)
	defer conn.Close()

	var values []int
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == "done" {
			break
		}
		require.Equal(t, "value", f.Type)
		require.NotNil(t, f.Value)
		values = append(values, *f.Value)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, values)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

// lockedBuffer collects log output written from handler goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCountStream_CleanCloseLogsNoCloseFailure(t *testing.T) {
	var logs lockedBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := observability.NewMetricsForTesting()
	srv := httpadapter.NewServer(":0", &mockReadiness{}, binding.NewRegistry(binding.WithMetrics(metrics)), metrics, logger)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn, _, err := dialStream(t, ts, "?max=2")
	require.NoError(t, err)
	defer conn.Close()

	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == "done" {
			break
		}
	}
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.NotContains(t, logs.String(), "count stream close frame failed")
}

func TestCountStream_ZeroSendsOnlyDone(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil))
	defer ts.Close()

	conn, _, err := dialStream(t, ts, "?max=0")
	require.NoError(t, err)
	defer conn.Close()

	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "done", f.Type)
	assert.Nil(t, f.Value)
}

func TestCountStream_RejectsBadMax(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil, binding.WithCountLimit(10)))
	defer ts.Close()

	for _, query := range []string{"", "?max=abc", "?max=11"} {
		t.Run(query, func(t *testing.T) {
			_, resp, err := dialStream(t, ts, query)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
