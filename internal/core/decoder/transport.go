package decoder

import (
	"fmt"
	"strings"

	"github.com/google/gopacket/layers"

	"firestige.xyz/netsniff/internal/core"
)

// tcpFlagNames is indexed by bit position in the TCP flags byte.
var tcpFlagNames = [8]string{"FIN", "SYN", "RST", "PSH", "ACK", "URG", "ECE", "CWR"}

// FormatTCPFlags names the bits set in a TCP flags byte in bit order, joined by
// ", ". It returns "None" when no bit is set.
func FormatTCPFlags(flags uint8) string {
	names := make([]string, 0, len(tcpFlagNames))
	for bit, name := range tcpFlagNames {
		if flags&(1<<bit) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

func tcpFlagsByte(tcp *layers.TCP) uint8 {
	var b uint8
	for bit, set := range [8]bool{tcp.FIN, tcp.SYN, tcp.RST, tcp.PSH, tcp.ACK, tcp.URG, tcp.ECE, tcp.CWR} {
		if set {
			b |= 1 << bit
		}
	}
	return b
}

func (d *Decoder) decodeTCP(rec *core.PacketRecord) {
	rec.Protocol = core.ProtoTCP
	rec.SrcPort = uint16(d.tcp.SrcPort)
	rec.DstPort = uint16(d.tcp.DstPort)
	rec.TCPFlags = FormatTCPFlags(tcpFlagsByte(&d.tcp))
	rec.Info = fmt.Sprintf("%s:%d -> %s:%d [%s]",
		rec.Source, rec.SrcPort, rec.Destination, rec.DstPort, rec.TCPFlags)
}

func (d *Decoder) decodeUDP(rec *core.PacketRecord) {
	rec.Protocol = core.ProtoUDP
	rec.SrcPort = uint16(d.udp.SrcPort)
	rec.DstPort = uint16(d.udp.DstPort)
	rec.Info = fmt.Sprintf("%s:%d -> %s:%d",
		rec.Source, rec.SrcPort, rec.Destination, rec.DstPort)
}

func (d *Decoder) decodeICMP(rec *core.PacketRecord) {
	rec.Protocol = core.ProtoICMP
	rec.ICMPType = d.icmp.TypeCode.Type()
	rec.ICMPCode = d.icmp.TypeCode.Code()
	rec.Info = fmt.Sprintf("Type: %d, Code: %d", rec.ICMPType, rec.ICMPCode)
}
