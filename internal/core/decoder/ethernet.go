package decoder

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"

	"firestige.xyz/netsniff/internal/core"
)

func (d *Decoder) decodeEthernet(rec *core.PacketRecord) {
	rec.SrcMAC = d.eth.SrcMAC.String()
	rec.DstMAC = d.eth.DstMAC.String()
}

func (d *Decoder) decodeARP(rec *core.PacketRecord) {
	rec.Protocol = core.ProtoARP
	rec.Source = net.IP(d.arp.SourceProtAddress).String()
	rec.Destination = net.IP(d.arp.DstProtAddress).String()
	rec.ARPOperation = ARPOperation(d.arp.Operation)
	rec.Info = fmt.Sprintf("%d: %s -> %s", d.arp.Operation, rec.Source, rec.Destination)
}

// ARPOperation labels an ARP opcode. Only a request is "who-has"; every other
// opcode is reported as a reply.
func ARPOperation(op uint16) string {
	if op == layers.ARPRequest {
		return core.ARPWhoHas
	}
	return core.ARPIsAt
}
