package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerPath(t *testing.T) {
	h := MetricsHandler("/prom")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prom", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "netsniff_capture_running")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsHandlerDefaultPath(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer("api", "127.0.0.1:0", NewHandler(&fakeEngine{}))
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/capture/status")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"capturing":false`)

	require.NoError(t, s.Shutdown(context.Background()))
	_, open := <-s.Err()
	assert.False(t, open)
}

func TestServerShutdownWithoutStart(t *testing.T) {
	s := NewServer("metrics", "127.0.0.1:0", MetricsHandler(""))
	assert.Nil(t, s.Err())
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestServerStartBindError(t *testing.T) {
	first := NewServer("a", "127.0.0.1:0", MetricsHandler(""))
	require.NoError(t, first.Start())
	defer first.Shutdown(context.Background())

	second := NewServer("b", first.Addr(), MetricsHandler(""))
	assert.Error(t, second.Start())
}
