package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"firestige.xyz/netsniff/internal/log"
)

// PcapFacility captures through libpcap (or Npcap on Windows).
type PcapFacility struct{}

func NewPcapFacility() *PcapFacility {
	return &PcapFacility{}
}

// Open activates a pcap handle on opts.Interface. When promiscuous mode is
// requested but activation fails, it retries once without it.
func (f *PcapFacility) Open(opts Options) (Handle, error) {
	h, err := activate(opts, opts.Promiscuous)
	if err != nil && opts.Promiscuous {
		log.GetLogger().WithField("interface", opts.Interface).WithError(err).
			Warn("promiscuous mode unavailable, capturing without it")
		h, err = activate(opts, false)
	}
	if err != nil {
		return nil, fmt.Errorf("pcap activate %s: %w", opts.Interface, err)
	}

	if opts.Filter != "" {
		if err := h.SetBPFFilter(opts.Filter); err != nil {
			h.Close()
			return nil, fmt.Errorf("invalid BPF filter %q: %w", opts.Filter, err)
		}
	}

	return &pcapHandle{handle: h}, nil
}

func activate(opts Options, promisc bool) (*pcap.Handle, error) {
	inactive, err := pcap.NewInactiveHandle(opts.Interface)
	if err != nil {
		return nil, err
	}
	defer inactive.CleanUp()

	if err := inactive.SetSnapLen(opts.SnapLen); err != nil {
		return nil, fmt.Errorf("set snaplen: %w", err)
	}
	if err := inactive.SetPromisc(promisc); err != nil {
		return nil, fmt.Errorf("set promisc: %w", err)
	}
	if opts.ReadTimeout > 0 {
		if err := inactive.SetTimeout(opts.ReadTimeout); err != nil {
			return nil, fmt.Errorf("set timeout: %w", err)
		}
	}
	return inactive.Activate()
}

type pcapHandle struct {
	handle *pcap.Handle
}

func (h *pcapHandle) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := h.handle.ReadPacketData()
	switch {
	case err == nil:
		return data, ci, nil
	case errors.Is(err, pcap.NextErrorTimeoutExpired):
		return nil, ci, ErrTimeout
	case errors.Is(err, pcap.NextErrorNoMorePackets), errors.Is(err, io.EOF):
		return nil, ci, io.EOF
	default:
		return nil, ci, err
	}
}

func (h *pcapHandle) Stats() (Stats, error) {
	s, err := h.handle.Stats()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Received: uint64(s.PacketsReceived), Dropped: uint64(s.PacketsDropped + s.PacketsIfDropped)}, nil
}

func (h *pcapHandle) Close() {
	h.handle.Close()
}
