package sniffer

import (
	"sync/atomic"
	"time"
)

// session is the state of one capture run. The worker owns the handle; the
// controller only touches the stop flag and waits on done.
type session struct {
	iface     string
	filter    string
	startedAt time.Time

	stop atomic.Bool
	done chan struct{}

	frames   atomic.Uint64
	decoded  atomic.Uint64
	failures atomic.Uint64
	dropped  atomic.Uint64
}

func newSession(iface, filter string) *session {
	return &session{
		iface:     iface,
		filter:    filter,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

func (s *session) stopRequested() bool {
	return s.stop.Load()
}

// SessionStats reports the counters of the current or most recent session.
type SessionStats struct {
	Interface      string    `json:"interface" yaml:"interface"`
	Filter         string    `json:"filter" yaml:"filter"`
	State          string    `json:"state" yaml:"state"`
	StartedAt      time.Time `json:"started_at" yaml:"started_at"`
	Frames         uint64    `json:"frames" yaml:"frames"`
	Decoded        uint64    `json:"decoded" yaml:"decoded"`
	DecodeFailures uint64    `json:"decode_failures" yaml:"decode_failures"`
	KernelDropped  uint64    `json:"kernel_dropped" yaml:"kernel_dropped"`
	Buffered       int       `json:"buffered" yaml:"buffered"`
}

func (s *session) stats() SessionStats {
	return SessionStats{
		Interface:      s.iface,
		Filter:         s.filter,
		StartedAt:      s.startedAt,
		Frames:         s.frames.Load(),
		Decoded:        s.decoded.Load(),
		DecodeFailures: s.failures.Load(),
		KernelDropped:  s.dropped.Load(),
	}
}
