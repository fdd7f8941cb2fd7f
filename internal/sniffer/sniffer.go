// Package sniffer owns the capture lifecycle: it resolves an interface, runs
// the capture worker and feeds decoded records into the packet store.
package sniffer

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"firestige.xyz/netsniff/internal/capture"
	"firestige.xyz/netsniff/internal/config"
	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/core/decoder"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/metrics"
	"firestige.xyz/netsniff/internal/netif"
	"firestige.xyz/netsniff/internal/store"
)

// InterfaceLister lists the interfaces a capture can be started on.
type InterfaceLister interface {
	List() []netif.Interface
}

// Sniffer is the capture controller.
//
// At most one capture session runs at a time. Start and Stop are serialized
// with each other; the read operations (DrainNew, All, ProtocolCounts, ...)
// only go through the store and never wait on the controller.
type Sniffer struct {
	cfg        config.CaptureConfig
	facility   capture.Facility
	interfaces InterfaceLister
	store      *store.Store
	logger     log.Logger

	mu      sync.Mutex // serializes Start and Stop
	state   atomic.Int32
	current atomic.Pointer[session]
	last    atomic.Pointer[session]
}

// New creates an idle Sniffer.
func New(cfg config.CaptureConfig, facility capture.Facility, interfaces InterfaceLister, st *store.Store) *Sniffer {
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = 2 * time.Second
	}
	if cfg.SnapLen <= 0 {
		cfg.SnapLen = 65535
	}
	return &Sniffer{
		cfg:        cfg,
		facility:   facility,
		interfaces: interfaces,
		store:      st,
		logger:     log.GetLogger().WithField("component", "sniffer"),
	}
}

// State returns the lifecycle state.
func (s *Sniffer) State() State {
	return State(s.state.Load())
}

// IsCapturing reports whether a capture session is running.
func (s *Sniffer) IsCapturing() bool {
	return s.State() == StateRunning
}

// Interfaces lists the interfaces Start accepts, in index order.
func (s *Sniffer) Interfaces() []netif.Interface {
	return s.interfaces.List()
}

// Start begins capturing on the interface at index of Interfaces() with the
// optional BPF filter. It is a no-op while a capture is running.
//
// It returns an error wrapping core.ErrInvalidInterface when index is out of
// range, and one wrapping core.ErrCaptureStartFailure when the capture facility
// refuses to open (permissions, invalid filter, busy device). In both cases the
// Sniffer stays idle.
func (s *Sniffer) Start(index int, filter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.IsCapturing() {
		s.logger.Debug("capture already running, start ignored")
		return nil
	}

	ifaces := s.interfaces.List()
	if index < 0 || index >= len(ifaces) {
		metrics.CaptureStartsTotal.WithLabelValues(metrics.StartInvalidInterface).Inc()
		return fmt.Errorf("%w: index %d, %d interfaces available", core.ErrInvalidInterface, index, len(ifaces))
	}
	iface := ifaces[index]
	logger := s.logger.WithField("interface", iface.Name).WithField("filter", filter)

	s.state.Store(int32(StateStarting))
	handle, err := s.facility.Open(capture.Options{
		Interface:    iface.Name,
		Filter:       filter,
		SnapLen:      s.cfg.SnapLen,
		Promiscuous:  s.cfg.Promiscuous,
		ReadTimeout:  s.cfg.ReadTimeout,
		BufferSizeMB: s.cfg.BufferSizeMB,
	})
	if err != nil {
		s.state.Store(int32(StateIdle))
		metrics.CaptureStartsTotal.WithLabelValues(metrics.StartFailure).Inc()
		return fmt.Errorf("%w: %s: %w", core.ErrCaptureStartFailure, iface.Name, err)
	}

	sess := newSession(iface.Name, filter)
	s.current.Store(sess)
	s.last.Store(sess)
	s.state.Store(int32(StateRunning))
	metrics.CaptureStartsTotal.WithLabelValues(metrics.StartOK).Inc()
	metrics.CaptureRunning.Set(1)

	go s.run(sess, handle)

	logger.Info("capture started")
	return nil
}

// Stop asks the running worker to finish and waits up to the join timeout for
// it. The worker notices the request after its next frame or read timeout. A
// worker that misses the deadline is abandoned: Stop logs
// core.ErrWorkerJoinTimeout and the Sniffer is idle anyway. Stop is a no-op
// when nothing runs.
func (s *Sniffer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.current.Load()
	if sess == nil || !s.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return
	}
	logger := s.logger.WithField("interface", sess.iface)

	sess.stop.Store(true)

	timer := time.NewTimer(s.cfg.JoinTimeout)
	defer timer.Stop()

	select {
	case <-sess.done:
		logger.Info("capture stopped")
	case <-timer.C:
		metrics.WorkerJoinTimeoutsTotal.Inc()
		logger.WithError(core.ErrWorkerJoinTimeout).
			WithField("timeout", s.cfg.JoinTimeout.String()).
			Warn("abandoning capture worker")
	}

	s.current.CompareAndSwap(sess, nil)
	s.state.Store(int32(StateIdle))
	metrics.CaptureRunning.Set(0)
}

// run is the capture worker. It owns handle and closes it on exit.
func (s *Sniffer) run(sess *session, handle capture.Handle) {
	logger := s.logger.WithField("interface", sess.iface)

	defer func() {
		s.collectDrops(sess, handle)
		handle.Close()
		close(sess.done)

		// The source ended on its own: go back to Idle unless a later session
		// or Stop already took over.
		if s.current.CompareAndSwap(sess, nil) {
			if s.state.CompareAndSwap(int32(StateRunning), int32(StateIdle)) {
				metrics.CaptureRunning.Set(0)
			}
		}
	}()

	dec := decoder.New()
	frames := metrics.CaptureFramesTotal.WithLabelValues(sess.iface)
	failures := metrics.DecodeFailuresTotal.WithLabelValues(sess.iface)

	for {
		data, ci, err := handle.ReadPacketData()
		if sess.stopRequested() {
			return
		}
		if err != nil {
			if errors.Is(err, capture.ErrTimeout) {
				continue
			}
			if errors.Is(err, io.EOF) {
				logger.Info("capture source ended")
				return
			}
			logger.WithError(err).Error("capture read failed, worker exiting")
			return
		}

		sess.frames.Add(1)
		frames.Inc()

		rec, err := dec.Decode(data, ci.Length)
		if err != nil {
			sess.failures.Add(1)
			failures.Inc()
			logger.WithError(err).WithField("length", len(data)).Debug("frame dropped")
			continue
		}

		sess.decoded.Add(1)
		metrics.RecordsTotal.WithLabelValues(rec.Protocol).Inc()
		if s.store.Append(rec) {
			metrics.StoreEvictionsTotal.Inc()
		}
	}
}

func (s *Sniffer) collectDrops(sess *session, handle capture.Handle) {
	sr, ok := handle.(capture.StatsReader)
	if !ok {
		return
	}
	stats, err := sr.Stats()
	if err != nil {
		return
	}
	sess.dropped.Store(stats.Dropped)
}

// Stats returns the counters of the running session, or of the last one.
func (s *Sniffer) Stats() SessionStats {
	var stats SessionStats
	if sess := s.last.Load(); sess != nil {
		stats = sess.stats()
	}
	stats.State = s.State().String()
	stats.Buffered = s.store.Len()
	return stats
}

// Clear empties the packet store.
func (s *Sniffer) Clear() {
	s.store.Clear()
}

// DrainNew returns the records captured since the previous call.
func (s *Sniffer) DrainNew() []core.PacketRecord {
	return s.store.DrainNew()
}

// All returns the buffered records, oldest first.
func (s *Sniffer) All() []core.PacketRecord {
	return s.store.All()
}

// ProtocolCounts returns the protocol frequency table of the buffered records.
func (s *Sniffer) ProtocolCounts() []store.ProtocolCount {
	return s.store.ProtocolCounts()
}
