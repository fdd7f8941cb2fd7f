package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/netif"
	"firestige.xyz/netsniff/internal/sniffer"
	"firestige.xyz/netsniff/internal/store"
)

type fakeEngine struct {
	ifaces    []netif.Interface
	startErr  error
	started   []StartRequest
	stopped   int
	cleared   int
	capturing bool
	records   []core.PacketRecord
}

func (f *fakeEngine) Interfaces() []netif.Interface { return f.ifaces }

func (f *fakeEngine) Start(index int, filter string) error {
	f.started = append(f.started, StartRequest{Index: index, Filter: filter})
	if f.startErr != nil {
		return f.startErr
	}
	f.capturing = true
	return nil
}

func (f *fakeEngine) Stop() {
	f.stopped++
	f.capturing = false
}

func (f *fakeEngine) IsCapturing() bool { return f.capturing }

func (f *fakeEngine) Stats() sniffer.SessionStats {
	return sniffer.SessionStats{Interface: "eth0", Frames: 3}
}

func (f *fakeEngine) DrainNew() []core.PacketRecord {
	out := f.records
	f.records = []core.PacketRecord{}
	return out
}

func (f *fakeEngine) All() []core.PacketRecord { return f.records }

func (f *fakeEngine) Clear() { f.cleared++ }

func (f *fakeEngine) ProtocolCounts() []store.ProtocolCount {
	return []store.ProtocolCount{{Protocol: "TCP", Count: 2}, {Protocol: "UDP", Count: 1}}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInterfaces(t *testing.T) {
	engine := &fakeEngine{ifaces: []netif.Interface{{Name: "eth0", DisplayName: "eth0", IPv4: "10.0.0.1", Status: netif.StatusUp}}}
	rec := do(t, NewHandler(engine), http.MethodGet, "/interfaces", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var out []netif.Interface
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "eth0", out[0].Name)
}

func TestStartAcceptsNumericString(t *testing.T) {
	engine := &fakeEngine{}
	rec := do(t, NewHandler(engine), http.MethodPost, "/capture/start", `{"index":"2","filter":"tcp port 80"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, engine.started, 1)
	assert.Equal(t, StartRequest{Index: 2, Filter: "tcp port 80"}, engine.started[0])

	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Capturing)
	assert.Equal(t, "eth0", st.Session.Interface)
}

func TestStartBadRequests(t *testing.T) {
	h := NewHandler(&fakeEngine{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"index":`},
		{"missing index", `{"filter":"udp"}`},
		{"non numeric", `{"index":"eth0"}`},
		{"unknown field", `{"index":0,"promisc":true}`},
		{"fractional index", `{"index":1.7}`},
		{"fractional string index", `{"index":"1.7"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/capture/start", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestStartRejectsFractionalIndex(t *testing.T) {
	engine := &fakeEngine{}
	rec := do(t, NewHandler(engine), http.MethodPost, "/capture/start", `{"index":1.7}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, engine.started)
}

func TestStartAcceptsWholeFloatIndex(t *testing.T) {
	engine := &fakeEngine{}
	rec := do(t, NewHandler(engine), http.MethodPost, "/capture/start", `{"index":1.0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, engine.started, 1)
	assert.Equal(t, 1, engine.started[0].Index)
}

func TestStartErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: index 9", core.ErrInvalidInterface), http.StatusBadRequest},
		{fmt.Errorf("%w: eth0: permission denied", core.ErrCaptureStartFailure), http.StatusUnprocessableEntity},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		engine := &fakeEngine{startErr: tt.err}
		rec := do(t, NewHandler(engine), http.MethodPost, "/capture/start", `{"index":9}`)
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())

		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.err.Error(), body.Error)
	}
}

func TestStopAndStatus(t *testing.T) {
	engine := &fakeEngine{capturing: true}
	h := NewHandler(engine)

	rec := do(t, h, http.MethodPost, "/capture/stop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, engine.stopped)

	rec = do(t, h, http.MethodGet, "/capture/status", "")
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.Capturing)
	assert.Equal(t, uint64(3), st.Session.Frames)
}

func TestPacketsDrainOnce(t *testing.T) {
	engine := &fakeEngine{records: []core.PacketRecord{{Protocol: "TCP"}, {Protocol: "UDP"}}}
	h := NewHandler(engine)

	var first, second []core.PacketRecord
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/packets/new", "").Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/packets/new", "").Body.Bytes(), &second))
	assert.Len(t, first, 2)
	assert.Empty(t, second)
	assert.NotNil(t, second)
}

func TestClearPackets(t *testing.T) {
	engine := &fakeEngine{}
	rec := do(t, NewHandler(engine), http.MethodDelete, "/packets", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, engine.cleared)
}

func TestProtocolCounts(t *testing.T) {
	rec := do(t, NewHandler(&fakeEngine{}), http.MethodGet, "/stats/protocols", "")
	var out []store.ProtocolCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "TCP", out[0].Protocol)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, NewHandler(&fakeEngine{}), http.MethodGet, "/capture/start", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	rec := do(t, NewHandler(&fakeEngine{}), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
