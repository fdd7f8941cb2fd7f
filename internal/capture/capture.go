// Package capture abstracts the OS packet capture facility behind Facility.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"
)

// ErrTimeout is returned by Handle.ReadPacketData when the read timeout expired
// without a frame. The caller may check its stop condition and read again.
var ErrTimeout = errors.New("capture: read timeout")

// Options describes one capture session.
type Options struct {
	Interface    string        // System interface name
	Filter       string        // BPF expression, passed through unmodified
	SnapLen      int           // Maximum bytes captured per frame
	Promiscuous  bool          // Requested, failure to enable is not fatal
	ReadTimeout  time.Duration // Upper bound of one blocking read
	BufferSizeMB int           // Kernel ring size, afpacket only
}

// Handle is an open capture. ReadPacketData blocks until a frame arrives or the
// read timeout expires (ErrTimeout). io.EOF means the source ended.
//
// The returned data is only valid until the next ReadPacketData call. A Handle
// is owned by a single goroutine, which is also the one closing it.
type Handle interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	Close()
}

// Stats are counters reported by the facility for an open handle.
type Stats struct {
	Received uint64
	Dropped  uint64
}

// StatsReader is implemented by handles able to report kernel counters.
type StatsReader interface {
	Stats() (Stats, error)
}

// Facility opens capture handles.
type Facility interface {
	Open(opts Options) (Handle, error)
}

// FacilityFunc adapts a function to Facility.
type FacilityFunc func(opts Options) (Handle, error)

func (f FacilityFunc) Open(opts Options) (Handle, error) { return f(opts) }

// New returns the facility for backend ("pcap" or "afpacket").
func New(backend string) (Facility, error) {
	switch backend {
	case "pcap", "":
		return NewPcapFacility(), nil
	case "afpacket":
		return newAFPacketFacility()
	default:
		return nil, fmt.Errorf("unknown capture backend: %q", backend)
	}
}
