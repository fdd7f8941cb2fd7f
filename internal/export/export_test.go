package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"firestige.xyz/netsniff/internal/config"
	"firestige.xyz/netsniff/internal/core"
)

func tcpRecord() core.PacketRecord {
	return core.PacketRecord{
		Timestamp:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Time:        "03:04:05.000",
		Source:      "10.0.0.1",
		Destination: "10.0.0.2",
		Protocol:    core.ProtoTCP,
		Length:      74,
		Info:        "10.0.0.1:5555 -> 10.0.0.2:80 [SYN]",
		SrcMAC:      "aa:bb:cc:dd:ee:ff",
		DstMAC:      "00:11:22:33:44:55",
		SrcPort:     5555,
		DstPort:     80,
		TCPFlags:    "SYN",
	}
}

type mockConn struct {
	mock.Mock
}

func (m *mockConn) Publish(subject string, data []byte) error {
	return m.Called(subject, data).Error(0)
}

func (m *mockConn) Drain() error {
	return m.Called().Error(0)
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestEncodeJSON(t *testing.T) {
	enc, err := NewEncoder("json")
	require.NoError(t, err)

	data, err := enc(tcpRecord())
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "TCP", out["protocol"])
	assert.Equal(t, "SYN", out["tcp_flags"])
	assert.Equal(t, float64(80), out["dst_port"])
}

func TestEncodeProtobuf(t *testing.T) {
	enc, err := NewEncoder("protobuf")
	require.NoError(t, err)

	data, err := enc(tcpRecord())
	require.NoError(t, err)

	var s structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &s))
	fields := s.AsMap()
	assert.Equal(t, "TCP", fields["protocol"])
	assert.Equal(t, "10.0.0.1", fields["src"])
	assert.Equal(t, float64(5555), fields["src_port"])
	assert.Equal(t, float64(74), fields["length"])
	assert.Equal(t, "2024-01-02T03:04:05Z", fields["timestamp"])
	assert.NotContains(t, fields, "icmp_type")
}

func TestEncodeProtobufARP(t *testing.T) {
	data, err := encodeProto(core.PacketRecord{Protocol: core.ProtoARP, ARPOperation: "who-has"})
	require.NoError(t, err)

	var s structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &s))
	assert.Equal(t, "who-has", s.AsMap()["arp_op"])
	assert.NotContains(t, s.AsMap(), "src_port")
}

func TestNewEncoderUnknown(t *testing.T) {
	_, err := NewEncoder("xml")
	assert.Error(t, err)
}

func TestNATSPublish(t *testing.T) {
	conn := new(mockConn)
	conn.On("Publish", "netsniff.packets", mock.Anything).Return(nil).Twice()
	conn.On("Drain").Return(nil).Once()

	p := &NATSPublisher{conn: conn, subject: "netsniff.packets", encode: encodeJSON}
	require.NoError(t, p.Publish(context.Background(), []core.PacketRecord{tcpRecord(), tcpRecord()}))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), []core.PacketRecord{tcpRecord()})
	assert.True(t, errors.Is(err, core.ErrExporterClosed))
	conn.AssertExpectations(t)
}

func TestNATSPublishError(t *testing.T) {
	conn := new(mockConn)
	conn.On("Publish", "s", mock.Anything).Return(errors.New("nats: connection closed"))

	p := &NATSPublisher{conn: conn, subject: "s", encode: encodeJSON}
	err := p.Publish(context.Background(), []core.PacketRecord{tcpRecord(), tcpRecord()})
	assert.Error(t, err)
	conn.AssertNumberOfCalls(t, "Publish", 1)
}

func TestKafkaPublish(t *testing.T) {
	w := new(mockWriter)
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 2 && string(msgs[0].Key) == "TCP"
	})).Return(nil).Once()
	w.On("Close").Return(nil).Once()

	p := &KafkaPublisher{writer: w, encode: encodeJSON}
	require.NoError(t, p.Publish(context.Background(), nil))
	require.NoError(t, p.Publish(context.Background(), []core.PacketRecord{tcpRecord(), tcpRecord()}))
	require.NoError(t, p.Close())

	assert.True(t, errors.Is(p.Publish(context.Background(), []core.PacketRecord{tcpRecord()}), core.ErrExporterClosed))
	w.AssertExpectations(t)
}

func TestNewUnsupportedType(t *testing.T) {
	_, err := New(config.ExportConfig{Type: "redis", Encoding: "json"})
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))

	_, err = New(config.ExportConfig{Type: "kafka", Encoding: "yaml"})
	assert.Error(t, err)
}

func TestNewKafkaIsLazy(t *testing.T) {
	p, err := New(config.ExportConfig{
		Type:     "kafka",
		Encoding: "protobuf",
		Kafka:    config.KafkaExportConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "t"},
	})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
