// Package export streams drained packet records to a message broker.
package export

import (
	"context"
	"fmt"

	"firestige.xyz/netsniff/internal/config"
	"firestige.xyz/netsniff/internal/core"
)

// Publisher sends batches of records to a sink.
type Publisher interface {
	Publish(ctx context.Context, records []core.PacketRecord) error
	Close() error
}

// New builds the publisher selected by cfg.Type.
func New(cfg config.ExportConfig) (Publisher, error) {
	enc, err := NewEncoder(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case "nats":
		return NewNATS(cfg.NATS.URL, cfg.NATS.Subject, enc)
	case "kafka":
		return NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, enc), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export type %q", core.ErrConfigInvalid, cfg.Type)
	}
}
