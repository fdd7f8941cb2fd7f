// Package core defines core data structures with zero external dependencies.
package core

import "time"

// TimeFormat is the wall-clock layout of PacketRecord.Time (millisecond precision).
const TimeFormat = "15:04:05.000"

// Protocol labels. Besides these, an IPv4 frame whose payload is not TCP, UDP or
// ICMP is labelled with its decimal IP protocol number.
const (
	ProtoTCP      = "TCP"
	ProtoUDP      = "UDP"
	ProtoICMP     = "ICMP"
	ProtoARP      = "ARP"
	ProtoEthernet = "Ethernet"
	ProtoUnknown  = "Unknown"
)

// ARP operation labels.
const (
	ARPWhoHas = "who-has"
	ARPIsAt   = "is-at"
)

// PacketRecord is one decoded frame. It is created once by the decoder and never
// modified afterwards.
type PacketRecord struct {
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Time        string    `json:"time" yaml:"time"`
	Source      string    `json:"src" yaml:"src"`
	Destination string    `json:"dst" yaml:"dst"`
	Protocol    string    `json:"protocol" yaml:"protocol"`
	Length      int       `json:"length" yaml:"length"`
	Info        string    `json:"info" yaml:"info"`

	// Link layer
	SrcMAC string `json:"src_mac,omitempty" yaml:"src_mac,omitempty"`
	DstMAC string `json:"dst_mac,omitempty" yaml:"dst_mac,omitempty"`

	// TCP / UDP
	SrcPort  uint16 `json:"src_port,omitempty" yaml:"src_port,omitempty"`
	DstPort  uint16 `json:"dst_port,omitempty" yaml:"dst_port,omitempty"`
	TCPFlags string `json:"tcp_flags,omitempty" yaml:"tcp_flags,omitempty"` // "SYN, ACK" or "None"

	// ICMP
	ICMPType uint8 `json:"icmp_type,omitempty" yaml:"icmp_type,omitempty"`
	ICMPCode uint8 `json:"icmp_code,omitempty" yaml:"icmp_code,omitempty"`

	// ARP
	ARPOperation string `json:"arp_op,omitempty" yaml:"arp_op,omitempty"`
}
