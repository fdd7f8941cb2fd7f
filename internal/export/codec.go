package export

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"firestige.xyz/netsniff/internal/core"
)

// Encoder serializes one record into a message payload.
type Encoder func(rec core.PacketRecord) ([]byte, error)

// NewEncoder returns the encoder for "json" or "protobuf".
//
// The protobuf encoding is a google.protobuf.Struct carrying the same fields as
// the JSON encoding, so consumers need no generated schema.
func NewEncoder(encoding string) (Encoder, error) {
	switch encoding {
	case "json", "":
		return encodeJSON, nil
	case "protobuf":
		return encodeProto, nil
	default:
		return nil, fmt.Errorf("unknown export encoding %q", encoding)
	}
}

func encodeJSON(rec core.PacketRecord) ([]byte, error) {
	return json.Marshal(rec)
}

func encodeProto(rec core.PacketRecord) ([]byte, error) {
	s, err := structpb.NewStruct(recordFields(rec))
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return proto.Marshal(s)
}

func recordFields(rec core.PacketRecord) map[string]interface{} {
	fields := map[string]interface{}{
		"timestamp": rec.Timestamp.Format(time.RFC3339Nano),
		"time":      rec.Time,
		"src":       rec.Source,
		"dst":       rec.Destination,
		"protocol":  rec.Protocol,
		"length":    int64(rec.Length),
		"info":      rec.Info,
	}
	if rec.SrcMAC != "" {
		fields["src_mac"] = rec.SrcMAC
		fields["dst_mac"] = rec.DstMAC
	}
	switch rec.Protocol {
	case core.ProtoTCP:
		fields["src_port"] = int64(rec.SrcPort)
		fields["dst_port"] = int64(rec.DstPort)
		fields["tcp_flags"] = rec.TCPFlags
	case core.ProtoUDP:
		fields["src_port"] = int64(rec.SrcPort)
		fields["dst_port"] = int64(rec.DstPort)
	case core.ProtoICMP:
		fields["icmp_type"] = int64(rec.ICMPType)
		fields["icmp_code"] = int64(rec.ICMPCode)
	case core.ProtoARP:
		fields["arp_op"] = rec.ARPOperation
	}
	return fields
}
