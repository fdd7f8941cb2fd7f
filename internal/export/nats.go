package export

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/nats-io/nats.go"

	"firestige.xyz/netsniff/internal/core"
	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/metrics"
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes one message per record on a NATS subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
	encode  Encoder
	closed  atomic.Bool
}

// NewNATS connects to url and publishes on subject.
func NewNATS(url, subject string, enc Encoder) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("netsniff"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	log.GetLogger().WithField("url", url).WithField("subject", subject).Info("connected to NATS")
	return &NATSPublisher{conn: nc, subject: subject, encode: enc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, records []core.PacketRecord) error {
	if p.closed.Load() {
		return core.ErrExporterClosed
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := p.encode(rec)
		if err != nil {
			metrics.ExportedRecordsTotal.WithLabelValues("nats", "error").Inc()
			return fmt.Errorf("encode record: %w", err)
		}
		if err := p.conn.Publish(p.subject, data); err != nil {
			metrics.ExportedRecordsTotal.WithLabelValues("nats", "error").Inc()
			return fmt.Errorf("publish to %s: %w", p.subject, err)
		}
		metrics.ExportedRecordsTotal.WithLabelValues("nats", "ok").Inc()
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.conn.Drain()
}
