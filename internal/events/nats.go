package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

var tracer = otel.Tracer("github.com/jonathan/careers-sync/internal/events")

// NATSPublisher publishes change sets on core NATS subjects.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to url. The connection retries in the background,
// so a temporarily unavailable server does not fail the crawl.
func NewNATSPublisher(url, prefix string, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("careers-sync"),
		nats.Timeout(connectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{
		nc:     nc,
		prefix: prefix,
		logger: logger.Named("events"),
	}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, changes *Changes) error {
	_, span := tracer.Start(ctx, "events.publish")
	defer span.End()

	subject := Subject(p.prefix, changes.Source)
	data, err := Encode(changes)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		attribute.String("nats.subject", subject),
		attribute.Int("message.size", len(data)),
	)

	if err := p.nc.Publish(subject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish changes",
			zap.String("source", changes.Source),
			zap.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("published changes",
		zap.String("subject", subject),
		zap.Int("new", len(changes.New)),
		zap.Int("expired", len(changes.Expired)))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
