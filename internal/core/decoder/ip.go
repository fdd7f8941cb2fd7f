package decoder

import (
	"strconv"

	"firestige.xyz/netsniff/internal/core"
)

func (d *Decoder) decodeIPv4(rec *core.PacketRecord, present layerSet) {
	rec.Source = d.ip4.SrcIP.String()
	rec.Destination = d.ip4.DstIP.String()

	proto := strconv.Itoa(int(d.ip4.Protocol))
	rec.Protocol = proto

	switch {
	case present.tcp:
		d.decodeTCP(rec)
	case present.udp:
		d.decodeUDP(rec)
	case present.icmp:
		d.decodeICMP(rec)
	default:
		rec.Info = proto
	}
}
