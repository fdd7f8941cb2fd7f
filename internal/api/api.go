// Package api exposes the capture controller over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/metrics"
	"firestige.xyz/netsniff/internal/netif"
	"firestige.xyz/netsniff/internal/sniffer"
	"firestige.xyz/netsniff/internal/store"
)

// Engine is the part of the capture controller the API drives.
type Engine interface {
	Interfaces() []netif.Interface
	Start(index int, filter string) error
	Stop()
	IsCapturing() bool
	Stats() sniffer.SessionStats
	DrainNew() []core.PacketRecord
	All() []core.PacketRecord
	Clear()
	ProtocolCounts() []store.ProtocolCount
}

// StartRequest is the body of POST /capture/start. Index accepts a number or
// a numeric string.
type StartRequest struct {
	Index  int    `mapstructure:"index"`
	Filter string `mapstructure:"filter"`
}

// Status is the body of GET /capture/status.
type Status struct {
	Capturing bool                 `json:"capturing"`
	Session   sniffer.SessionStats `json:"session"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewHandler returns the API router.
func NewHandler(engine Engine) http.Handler {
	h := &handler{engine: engine, logger: log.GetLogger().WithField("component", "api")}

	r := mux.NewRouter()
	r.HandleFunc("/interfaces", h.interfaces).Methods(http.MethodGet)
	r.HandleFunc("/capture/start", h.start).Methods(http.MethodPost)
	r.HandleFunc("/capture/stop", h.stop).Methods(http.MethodPost)
	r.HandleFunc("/capture/status", h.status).Methods(http.MethodGet)
	r.HandleFunc("/packets/new", h.drainNew).Methods(http.MethodGet)
	r.HandleFunc("/packets", h.all).Methods(http.MethodGet)
	r.HandleFunc("/packets", h.clear).Methods(http.MethodDelete)
	r.HandleFunc("/stats/protocols", h.protocols).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return r
}

type handler struct {
	engine Engine
	logger log.Logger
}

func (h *handler) interfaces(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Interfaces())
}

func (h *handler) start(w http.ResponseWriter, r *http.Request) {
	req, err := decodeStartRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	if err := h.engine.Start(req.Index, req.Filter); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrInvalidInterface):
			status = http.StatusBadRequest
		case errors.Is(err, core.ErrCaptureStartFailure):
			status = http.StatusUnprocessableEntity
		}
		h.logger.WithError(err).Warn("capture start rejected")
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *handler) stop(w http.ResponseWriter, _ *http.Request) {
	h.engine.Stop()
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *handler) drainNew(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.DrainNew())
}

func (h *handler) all(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.All())
}

func (h *handler) clear(w http.ResponseWriter, _ *http.Request) {
	h.engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) protocols(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.ProtocolCounts())
}

func (h *handler) currentStatus() Status {
	return Status{Capturing: h.engine.IsCapturing(), Session: h.engine.Stats()}
}

func decodeStartRequest(r *http.Request) (StartRequest, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return StartRequest{}, fmt.Errorf("invalid request body: %w", err)
	}
	if _, ok := raw["index"]; !ok {
		return StartRequest{}, errors.New("index is required")
	}

	var req StartRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       wholeNumberHook,
		Result:           &req,
	})
	if err != nil {
		return StartRequest{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return StartRequest{}, fmt.Errorf("invalid start request: %w", err)
	}
	return req, nil
}

// wholeNumberHook rejects JSON numbers with a fractional part bound for an
// integer field; mapstructure would truncate them.
func wholeNumberHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}
	f := data.(float64)
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
