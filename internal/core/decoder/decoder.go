// Package decoder implements L2-L4 protocol stack decoding of captured frames.
package decoder

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/netsniff/internal/core"
)

// Decoder turns one Ethernet frame into a core.PacketRecord.
//
// Layer precedence is fixed: Ethernet gates everything, an 802.1Q tag is
// looked through, IPv4 is checked before
// ARP, and inside IPv4 TCP is checked before UDP before ICMP. A truncated or
// malformed inner layer leaves its fields at zero value and the record keeps the
// label of the deepest layer that parsed.
//
// A Decoder reuses its layer structs between calls and is not safe for
// concurrent use. Each capture worker owns one.
type Decoder struct {
	eth  layers.Ethernet
	vlan layers.Dot1Q
	ip4  layers.IPv4
	arp  layers.ARP
	tcp  layers.TCP
	udp  layers.UDP
	icmp layers.ICMPv4

	parser  *gopacket.DecodingLayerParser
	decoded []gopacket.LayerType

	now func() time.Time
}

// New creates a Decoder stamping records with the local wall clock.
func New() *Decoder {
	d := &Decoder{
		decoded: make([]gopacket.LayerType, 0, 5),
		now:     time.Now,
	}
	d.parser = gopacket.NewDecodingLayerParser(layers.LayerTypeEthernet,
		&d.eth, &d.vlan, &d.ip4, &d.arp, &d.tcp, &d.udp, &d.icmp)
	// Payloads and protocols above L4 (DNS, LLDP, GRE, ...) are not decoded.
	d.parser.IgnoreUnsupported = true
	return d
}

// layerSet records which layers of the current frame decoded successfully.
type layerSet struct {
	eth, ip4, arp, tcp, udp, icmp bool
}

// Decode decodes frame; length is the original on-wire length and falls back
// to len(frame) when not positive.
//
// It returns core.ErrDecodeFailure for an empty frame or if decoding panics.
// Every other input yields a record with the protocol label set.
func (d *Decoder) Decode(frame []byte, length int) (rec core.PacketRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = core.PacketRecord{}
			err = fmt.Errorf("%w: %v", core.ErrDecodeFailure, r)
		}
	}()

	if len(frame) == 0 {
		return core.PacketRecord{}, fmt.Errorf("%w: empty frame", core.ErrDecodeFailure)
	}
	if length <= 0 {
		length = len(frame)
	}

	ts := d.now()
	rec = core.PacketRecord{
		Timestamp: ts,
		Time:      ts.Format(core.TimeFormat),
		Length:    length,
		Protocol:  core.ProtoUnknown,
	}

	// The parse error only reports the first layer that failed; the layers
	// decoded before it are still listed in d.decoded.
	_ = d.parser.DecodeLayers(frame, &d.decoded)
	present := d.layers()

	if !present.eth {
		return rec, nil
	}
	d.decodeEthernet(&rec)

	switch {
	case present.ip4:
		d.decodeIPv4(&rec, present)
	case present.arp:
		d.decodeARP(&rec)
	default:
		rec.Protocol = core.ProtoEthernet
		rec.Info = fmt.Sprintf("0x%04x", uint16(d.eth.EthernetType))
	}
	return rec, nil
}

func (d *Decoder) layers() layerSet {
	var s layerSet
	for _, lt := range d.decoded {
		switch lt {
		case layers.LayerTypeEthernet:
			s.eth = true
		case layers.LayerTypeIPv4:
			s.ip4 = true
		case layers.LayerTypeARP:
			s.arp = true
		case layers.LayerTypeTCP:
			s.tcp = true
		case layers.LayerTypeUDP:
			s.udp = true
		case layers.LayerTypeICMPv4:
			s.icmp = true
		}
	}
	return s
}
