package kafka

import (
	"context"
	"time"

	"service-catalog/config"
	"service-catalog/internal/events"
	"service-catalog/internal/metrics"
	catalog_errors "service-catalog/pkg/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	headerEventID   = "eventId"
	headerEventType = "eventType"
	headerEntityID  = "entityId"
)

// MessageWriter is the subset of *kafka.Writer the producer depends on.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes domain events and waits for the broker to acknowledge
// them. One instance is shared by all request goroutines.
type Producer struct {
	writer       MessageWriter
	catalogTopic string
	timeout      time.Duration
	log          *zap.Logger
	metrics      *metrics.Metrics
}

func NewProducer(cfg config.KafkaConfig, log *zap.Logger, m *metrics.Metrics) (*Producer, error) {
	acks, err := ParseAcks(cfg.Acks)
	if err != nil {
		return nil, err
	}
	sec, err := newSecurity(cfg)
	if err != nil {
		return nil, err
	}

	p := &Producer{
		catalogTopic: cfg.ServiceCatalogEventsTopic,
		timeout:      cfg.MessageTimeout,
		log:          log.Named("kafka_producer"),
		metrics:      m,
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.BootstrapServers...),
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: acks,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		Transport:    newTransport(cfg, sec),
		Completion:   p.onCompletion,
		ErrorLogger:  kafkago.LoggerFunc(p.log.Sugar().Errorf),
	}
	// kafka-go has no idempotent producer, so idempotence disables resends.
	if cfg.EnableIdempotence {
		w.MaxAttempts = 1
	} else {
		w.MaxAttempts = 3
	}
	p.writer = w

	p.log.Info("kafka producer initialized",
		zap.Strings("brokers", cfg.BootstrapServers),
		zap.String("client_id", cfg.ClientID),
		zap.String("acks", cfg.Acks),
		zap.Bool("idempotence", cfg.EnableIdempotence),
	)
	return p, nil
}

// Publish sends event to topic and blocks until it is acknowledged or the
// message timeout elapses. Failures are returned as publish errors and are
// never retried here.
func (p *Producer) Publish(ctx context.Context, topic string, event events.Event) error {
	data, err := events.Encode(event)
	if err != nil {
		return catalog_errors.PublishFailed(eventType(event), err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerEventID, Value: []byte(event.ID().String())},
			{Key: headerEventType, Value: []byte(event.Type())},
			{Key: headerEntityID, Value: []byte(events.EntityID(event))},
		},
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, msg)
	p.metrics.RecordPublish(event.Type(), time.Since(start), err)
	if err != nil {
		p.log.Error("failed to publish event",
			zap.String("event_type", event.Type()),
			zap.String("topic", topic),
			zap.String("event_id", event.ID().String()),
			zap.Error(err),
		)
		return catalog_errors.PublishFailed(event.Type(), err)
	}
	return nil
}

// PublishCatalogEvent publishes to the service catalog events topic.
func (p *Producer) PublishCatalogEvent(ctx context.Context, event events.Event) error {
	return p.Publish(ctx, p.catalogTopic, event)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// onCompletion runs once the broker answered a produce request, before
// WriteMessages returns. The messages carry the assigned partition and offset.
func (p *Producer) onCompletion(msgs []kafkago.Message, err error) {
	if err != nil {
		return
	}
	for _, m := range msgs {
		p.log.Info("event published",
			zap.String("event_type", header(m, headerEventType)),
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.String("event_id", header(m, headerEventID)),
			zap.String("entity_id", header(m, headerEntityID)),
		)
	}
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func eventType(e events.Event) string {
	if e == nil {
		return "unknown"
	}
	return e.Type()
}
