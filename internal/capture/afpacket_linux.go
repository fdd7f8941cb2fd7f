//go:build linux

package capture

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"
	"github.com/vishvananda/netlink"

	"firestige.xyz/netsniff/internal/log"
)

// afpacketFacility captures through a TPACKET_V3 mmap ring.
type afpacketFacility struct{}

func newAFPacketFacility() (Facility, error) {
	return afpacketFacility{}, nil
}

func (afpacketFacility) Open(opts Options) (Handle, error) {
	frameSize, blockSize, numBlocks, err := ringGeometry(opts.BufferSizeMB, opts.SnapLen, os.Getpagesize())
	if err != nil {
		return nil, fmt.Errorf("afpacket ring size: %w", err)
	}

	tp, err := afpacket.NewTPacket(
		afpacket.OptInterface(opts.Interface),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(opts.ReadTimeout),
		afpacket.OptTPacketVersion(afpacket.TPacketVersion3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TPacket handle on %s: %w", opts.Interface, err)
	}

	if opts.Filter != "" {
		insns, err := compileBPF(opts.SnapLen, opts.Filter)
		if err != nil {
			tp.Close()
			return nil, err
		}
		if err := tp.SetBPF(insns); err != nil {
			tp.Close()
			return nil, fmt.Errorf("failed to set BPF: %w", err)
		}
	}

	h := &afpacketHandle{tp: tp}
	if opts.Promiscuous {
		h.promiscLink = enablePromisc(opts.Interface)
	}
	return h, nil
}

// enablePromisc turns promiscuous mode on through netlink and returns the link
// to restore on close, or nil when it could not be enabled.
func enablePromisc(name string) netlink.Link {
	logger := log.GetLogger().WithField("interface", name)
	link, err := netlink.LinkByName(name)
	if err != nil {
		logger.WithError(err).Warn("promiscuous mode unavailable, capturing without it")
		return nil
	}
	if link.Attrs().Promisc != 0 {
		return nil
	}
	if err := netlink.SetPromiscOn(link); err != nil {
		logger.WithError(err).Warn("promiscuous mode unavailable, capturing without it")
		return nil
	}
	return link
}

type afpacketHandle struct {
	tp          *afpacket.TPacket
	promiscLink netlink.Link
}

// ReadPacketData reads without copying; see Handle for the lifetime of data.
func (h *afpacketHandle) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	data, ci, err := h.tp.ZeroCopyReadPacketData()
	if err != nil {
		if errors.Is(err, afpacket.ErrTimeout) || errors.Is(err, afpacket.ErrPoll) {
			return nil, ci, ErrTimeout
		}
		return nil, ci, err
	}
	return data, ci, nil
}

func (h *afpacketHandle) Stats() (Stats, error) {
	s, err := h.tp.Stats()
	if err != nil {
		return Stats{}, err
	}
	_, v3, err := h.tp.SocketStats()
	if err != nil {
		return Stats{Received: uint64(s.Packets)}, nil
	}
	return Stats{Received: uint64(s.Packets), Dropped: uint64(v3.Drops())}, nil
}

// Close releases the ring. It must be called by the goroutine reading from the
// handle once it has stopped reading, never concurrently with ReadPacketData.
func (h *afpacketHandle) Close() {
	h.tp.Close()
	if h.promiscLink != nil {
		if err := netlink.SetPromiscOff(h.promiscLink); err != nil {
			log.GetLogger().WithField("interface", h.promiscLink.Attrs().Name).WithError(err).
				Warn("failed to restore promiscuous mode")
		}
	}
}
