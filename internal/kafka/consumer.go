package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"service-catalog/config"
	"service-catalog/internal/events"
	"service-catalog/internal/metrics"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// MessageReader is the subset of *kafka.Reader the consumer depends on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// ReaderFactory subscribes to the topic. It fails when the broker or topic
// cannot be reached.
type ReaderFactory func(ctx context.Context) (MessageReader, error)

// TenantEventHandler applies upstream tenant lifecycle events.
type TenantEventHandler interface {
	HandleTenantCreated(ctx context.Context, ev events.TenantCreatedEvent) error
	HandleTenantUpdated(ctx context.Context, ev events.TenantUpdatedEvent) error
}

// Consumer reads the tenant events topic on a single goroutine and commits
// each message only after it was handled.
type Consumer struct {
	topic     string
	newReader ReaderFactory
	handler   TenantEventHandler
	backoff   time.Duration
	log       *zap.Logger
	metrics   *metrics.Metrics
	state     atomic.Int32
}

func NewConsumer(topic string, newReader ReaderFactory, handler TenantEventHandler, backoff time.Duration, log *zap.Logger, m *metrics.Metrics) *Consumer {
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	return &Consumer{
		topic:     topic,
		newReader: newReader,
		handler:   handler,
		backoff:   backoff,
		log:       log.Named("tenant_consumer"),
		metrics:   m,
	}
}

// NewTenantConsumer wires a consumer for the tenant events topic using the
// group "<group>-tenant-events".
func NewTenantConsumer(cfg config.KafkaConfig, handler TenantEventHandler, log *zap.Logger, m *metrics.Metrics) (*Consumer, error) {
	reset, err := ParseOffsetReset(cfg.AutoOffsetReset)
	if err != nil {
		return nil, err
	}
	sec, err := newSecurity(cfg)
	if err != nil {
		return nil, err
	}
	dialer := newDialer(cfg, sec)
	groupID := cfg.TenantEventsGroupID()
	client := &kafkago.Client{
		Addr:      kafkago.TCP(cfg.BootstrapServers...),
		Timeout:   cfg.RequestTimeout,
		Transport: newTransport(cfg, sec),
	}
	readerLog := log.Named("kafka_reader").Sugar()

	factory := func(ctx context.Context) (MessageReader, error) {
		partitions, err := lookupTopic(ctx, dialer, cfg.BootstrapServers, cfg.TenantEventsTopic)
		if err != nil {
			return nil, err
		}
		if reset == OffsetResetError {
			if err := requireCommittedOffsets(ctx, client, groupID, cfg.TenantEventsTopic, partitions); err != nil {
				return nil, err
			}
		}
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        cfg.BootstrapServers,
			GroupID:        groupID,
			Topic:          cfg.TenantEventsTopic,
			Dialer:         dialer,
			StartOffset:    reset.StartOffset(),
			CommitInterval: 0,
			MinBytes:       1,
			MaxBytes:       10e6,
			MaxWait:        time.Second,
			ErrorLogger:    kafkago.LoggerFunc(readerLog.Errorf),
		}), nil
	}

	return NewConsumer(cfg.TenantEventsTopic, factory, handler, cfg.ConsumerRetryBackoff, log, m), nil
}

func (c *Consumer) State() State {
	return State(c.state.Load())
}

func (c *Consumer) setState(s State) {
	c.state.Store(int32(s))
	c.metrics.SetConsumerState(int(s))
}

// Run blocks until ctx is cancelled. A handler that is already running is
// allowed to finish; cancellation is observed between messages and during
// the connect backoff.
func (c *Consumer) Run(ctx context.Context) {
	defer c.setState(StateStopped)
	c.setState(StateDisconnected)
	c.log.Info("starting tenant events consumer", zap.String("topic", c.topic))

	for {
		reader, ok := c.connect(ctx)
		if !ok {
			c.log.Info("tenant events consumer stopped before connecting", zap.String("topic", c.topic))
			return
		}
		c.setState(StateConnected)

		err := c.poll(ctx, reader)
		if cerr := reader.Close(); cerr != nil {
			c.log.Warn("failed to close reader", zap.Error(cerr))
		}
		if ctx.Err() != nil {
			c.log.Info("tenant events consumer stopped due to cancellation", zap.String("topic", c.topic))
			return
		}
		c.log.Warn("tenant events reader failed, reconnecting", zap.String("topic", c.topic), zap.Error(err))
		c.setState(StateDisconnected)
	}
}

func (c *Consumer) connect(ctx context.Context) (MessageReader, bool) {
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil, false
		}
		reader, err := c.newReader(ctx)
		if err == nil {
			c.log.Info("connected to kafka and subscribed", zap.String("topic", c.topic), zap.Int("attempt", attempt))
			return reader, true
		}

		c.metrics.IncConsumerRetries()
		c.log.Warn("failed to initialize kafka consumer, retrying",
			zap.String("topic", c.topic),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", c.backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, false
		case <-timer.C:
		}
	}
}

func (c *Consumer) poll(ctx context.Context, reader MessageReader) error {
	// handlers and commits must not be cut short by shutdown
	work := context.WithoutCancel(ctx)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		c.process(work, reader, msg)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) process(ctx context.Context, reader MessageReader, msg kafkago.Message) {
	log := c.log.With(
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	env, err := events.DecodeEnvelope(msg.Value)
	if err != nil {
		if errors.Is(err, events.ErrMissingEventType) {
			log.Warn("event missing eventType field, skipping without commit")
			c.metrics.RecordConsumed("", metrics.OutcomeSkipped)
			return
		}
		log.Error("failed to parse tenant event", zap.Error(err), zap.ByteString("value", msg.Value))
		c.metrics.RecordConsumed("", metrics.OutcomeFailed)
		return
	}
	log = log.With(zap.String("event_type", env.EventType), zap.String("event_id", env.EventID))
	log.Info("received tenant event")

	known, err := c.dispatch(ctx, env)
	if err != nil {
		log.Error("error processing tenant event, offset not committed", zap.Error(err))
		c.metrics.RecordConsumed(env.EventType, metrics.OutcomeFailed)
		return
	}
	if !known {
		log.Warn("unknown tenant event type")
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("failed to commit offset", zap.Error(err))
		c.metrics.RecordConsumed(env.EventType, metrics.OutcomeFailed)
		return
	}
	if known {
		c.metrics.RecordConsumed(env.EventType, metrics.OutcomeCommitted)
	} else {
		c.metrics.RecordConsumed(env.EventType, metrics.OutcomeIgnored)
	}
}

func (c *Consumer) dispatch(ctx context.Context, env events.Envelope) (bool, error) {
	switch env.EventType {
	case events.TypeTenantCreated:
		ev, err := events.Decode[events.TenantCreatedEvent](env)
		if err != nil {
			return true, err
		}
		return true, c.handler.HandleTenantCreated(ctx, ev)
	case events.TypeTenantUpdated:
		ev, err := events.Decode[events.TenantUpdatedEvent](env)
		if err != nil {
			return true, err
		}
		return true, c.handler.HandleTenantUpdated(ctx, ev)
	default:
		return false, nil
	}
}

func lookupTopic(ctx context.Context, dialer *kafkago.Dialer, brokers []string, topic string) ([]kafkago.Partition, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	var lastErr error
	for _, broker := range brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		partitions, err := conn.ReadPartitions(topic)
		_ = conn.Close()
		if err != nil {
			return nil, fmt.Errorf("read partitions of %s: %w", topic, err)
		}
		if len(partitions) == 0 {
			return nil, fmt.Errorf("topic %s has no partitions", topic)
		}
		return partitions, nil
	}
	return nil, fmt.Errorf("dial kafka: %w", lastErr)
}

// requireCommittedOffsets implements the "error" reset policy: every
// partition must already have an offset committed by the group.
func requireCommittedOffsets(ctx context.Context, client *kafkago.Client, groupID, topic string, partitions []kafkago.Partition) error {
	ids := make([]int, 0, len(partitions))
	for _, p := range partitions {
		ids = append(ids, p.ID)
	}
	resp, err := client.OffsetFetch(ctx, &kafkago.OffsetFetchRequest{
		Addr:    client.Addr,
		GroupID: groupID,
		Topics:  map[string][]int{topic: ids},
	})
	if err != nil {
		return fmt.Errorf("fetch committed offsets: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("fetch committed offsets: %w", resp.Error)
	}
	for _, p := range resp.Topics[topic] {
		if p.Error != nil {
			return fmt.Errorf("partition %d: %w", p.Partition, p.Error)
		}
		if p.CommittedOffset < 0 {
			return fmt.Errorf("group %s has no committed offset for %s/%d and auto offset reset is error", groupID, topic, p.Partition)
		}
	}
	return nil
}
