package kafka

import (
	"context"
	"fmt"
	"time"

	"service-catalog/config"

	kafkago "github.com/segmentio/kafka-go"
)

// BrokerChecker reports whether the cluster answers metadata requests.
type BrokerChecker struct {
	client  *kafkago.Client
	timeout time.Duration
}

func NewBrokerChecker(cfg config.KafkaConfig) (*BrokerChecker, error) {
	sec, err := newSecurity(cfg)
	if err != nil {
		return nil, err
	}
	return &BrokerChecker{
		client: &kafkago.Client{
			Addr:      kafkago.TCP(cfg.BootstrapServers...),
			Timeout:   time.Second,
			Transport: newTransport(cfg, sec),
		},
		timeout: time.Second,
	}, nil
}

func (b *BrokerChecker) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	resp, err := b.client.Metadata(ctx, &kafkago.MetadataRequest{Addr: b.client.Addr})
	if err != nil {
		return fmt.Errorf("kafka broker not reachable: %w", err)
	}
	if len(resp.Brokers) == 0 {
		return fmt.Errorf("kafka broker not reachable: no brokers in metadata")
	}
	return nil
}
