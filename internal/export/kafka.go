package export

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each batch of records as one WriteMessages call.
// Records are keyed by protocol label.
type KafkaPublisher struct {
	writer messageWriter
	encode Encoder
	closed atomic.Bool
}

// NewKafka creates a publisher writing to topic. The connection is established
// lazily on the first write.
func NewKafka(brokers []string, topic string, enc Encoder) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, encode: enc}
}

func (p *KafkaPublisher) Publish(ctx context.Context, records []core.PacketRecord) error {
	if p.closed.Load() {
		return core.ErrExporterClosed
	}
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		data, err := p.encode(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(rec.Protocol), Value: data, Time: rec.Timestamp})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		metrics.ExportedRecordsTotal.WithLabelValues("kafka", "error").Add(float64(len(msgs)))
		return fmt.Errorf("write kafka messages: %w", err)
	}
	metrics.ExportedRecordsTotal.WithLabelValues("kafka", "ok").Add(float64(len(msgs)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
