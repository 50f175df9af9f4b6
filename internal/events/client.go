package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultAckTimeout bounds how long a publish waits for the stream to
// acknowledge an event.
const DefaultAckTimeout = 2 * time.Second

// Publisher records lifecycle events. Callers treat a failed publish as a
// log line, never as a failed request.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close()
}

// streamPublisher is the part of jetstream.JetStream used after setup.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSPublisher persists events on the NORTHSTAR_EVENTS stream and waits for
// the stream's ack. The subject doubles as the message id, so a retried
// publish for the same run or essay is dropped by the server.
type NATSPublisher struct {
	conn       *nats.Conn
	stream     streamPublisher
	ackTimeout time.Duration
	logger     *slog.Logger
}

func NewNATSPublisher(ctx context.Context, url string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("northstar"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	maxAge, _ := time.ParseDuration(StreamMaxAge)
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{StreamSubjects},
		MaxAge:     maxAge,
		Duplicates: 2 * time.Minute,
	}); err != nil {
		// Publishes fail until the stream exists; requests are unaffected.
		logger.Warn("failed to ensure stream", "stream", StreamName, "error", err)
	}

	return newPublisher(nc, js, logger), nil
}

func newPublisher(nc *nats.Conn, stream streamPublisher, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{conn: nc, stream: stream, ackTimeout: DefaultAckTimeout, logger: logger}
}

// Publish encodes data as JSON and waits at most ackTimeout for the ack.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.ackTimeout)
	defer cancel()

	ack, err := p.stream.Publish(ctx, subject, payload, jetstream.WithMsgID(subject))
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if ack.Duplicate {
		p.logger.Debug("duplicate event ignored by stream", "subject", subject, "seq", ack.Sequence)
		return nil
	}
	p.logger.Debug("event stored", "subject", subject, "stream", ack.Stream, "seq", ack.Sequence)
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
